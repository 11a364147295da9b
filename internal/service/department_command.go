package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/department-service/internal/domain"
	"github.com/spec-kit/department-service/internal/events"
	"github.com/spec-kit/department-service/internal/observability"
	"github.com/spec-kit/department-service/internal/repository"
	apperrors "github.com/spec-kit/department-service/pkg/util"
)

// DepartmentCommandService runs department writes. Each operation is a linear
// pipeline: existence check, name uniqueness check, then a single store call.
type DepartmentCommandService struct {
	departments repository.DepartmentRepository
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// DepartmentCommandDependencies encapsulates collaborators for the command service.
type DepartmentCommandDependencies struct {
	Departments repository.DepartmentRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewDepartmentCommandService builds the service.
func NewDepartmentCommandService(deps DepartmentCommandDependencies) *DepartmentCommandService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentCommandService{
		departments: deps.Departments,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
	}
}

// CreateDepartment inserts a department whose name is not yet taken. The store
// assigns the id.
func (s *DepartmentCommandService) CreateDepartment(ctx context.Context, name string) *apperrors.Envelope {
	rows, dept, err := s.create(ctx, name)
	if err != nil {
		return s.finish("create", failure(s.logger, "create_department", err))
	}

	s.publish(ctx, events.EventDepartmentCreated, events.DepartmentPayload{DepartmentID: dept.ID, Name: dept.Name})
	return s.finish("create", apperrors.OK("Department created successfully", rows))
}

// UpdateDepartment renames an existing department. Keeping its own name is allowed.
func (s *DepartmentCommandService) UpdateDepartment(ctx context.Context, id int64, name string) *apperrors.Envelope {
	rows, previous, err := s.update(ctx, id, name)
	if err != nil {
		return s.finish("update", failure(s.logger, "update_department", err))
	}

	s.publish(ctx, events.EventDepartmentUpdated, events.DepartmentPayload{DepartmentID: id, Name: name, PreviousName: previous})
	return s.finish("update", apperrors.OK("Department updated successfully", rows))
}

// DeleteDepartment removes a department, returning 404 when it does not exist.
func (s *DepartmentCommandService) DeleteDepartment(ctx context.Context, id int64) *apperrors.Envelope {
	dept, err := s.load(ctx, id)
	if err != nil {
		return s.finish("delete", failure(s.logger, "delete_department", err))
	}

	rows, err := s.departments.Delete(ctx, dept)
	if err == nil && rows == 0 {
		err = apperrors.NewNotFound(msgDepartmentMissing)
	}
	if err != nil {
		return s.finish("delete", failure(s.logger, "delete_department", err))
	}

	s.publish(ctx, events.EventDepartmentDeleted, events.DepartmentPayload{DepartmentID: dept.ID, Name: dept.Name})
	return s.finish("delete", apperrors.OK("Department deleted successfully", rows))
}

func (s *DepartmentCommandService) create(ctx context.Context, name string) (int64, *domain.Department, error) {
	if err := validateName(name); err != nil {
		return 0, nil, err
	}

	taken, err := s.nameTaken(ctx, name, 0)
	if err != nil {
		return 0, nil, err
	}
	if taken {
		return 0, nil, conflict(name)
	}

	dept := &domain.Department{Name: name}
	rows, err := s.departments.Insert(ctx, dept)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return 0, nil, conflict(name)
		}
		return 0, nil, err
	}
	return rows, dept, nil
}

func (s *DepartmentCommandService) update(ctx context.Context, id int64, name string) (int64, string, error) {
	if err := validateName(name); err != nil {
		return 0, "", err
	}

	dept, err := s.load(ctx, id)
	if err != nil {
		return 0, "", err
	}

	taken, err := s.nameTaken(ctx, name, id)
	if err != nil {
		return 0, "", err
	}
	if taken {
		return 0, "", conflict(name)
	}

	previous := dept.Name
	dept.Name = name
	rows, err := s.departments.Update(ctx, dept)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return 0, "", conflict(name)
		}
		return 0, "", err
	}
	if rows == 0 {
		// removed between the load and the write
		return 0, "", apperrors.NewNotFound(msgDepartmentMissing)
	}
	return rows, previous, nil
}

func (s *DepartmentCommandService) load(ctx context.Context, id int64) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound(msgDepartmentMissing)
		}
		return nil, err
	}
	return dept, nil
}

// nameTaken scans every department for an exact, case-sensitive match held by an
// id other than exceptID. The unique index on departments.name backs this up.
func (s *DepartmentCommandService) nameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	depts, err := s.departments.GetAll(ctx)
	if err != nil {
		return false, err
	}
	for _, d := range depts {
		if d.Name == name && d.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (s *DepartmentCommandService) publish(ctx context.Context, eventType events.EventType, payload events.DepartmentPayload) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, events.NewEvent(eventType, payload)); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}

func (s *DepartmentCommandService) finish(op string, env *apperrors.Envelope) *apperrors.Envelope {
	s.metrics.RecordDepartmentWrite(op, env.StatusCode)
	return env
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("Validation failed", []string{"DepartmentName is required"})
	}
	return nil
}

func conflict(name string) error {
	return apperrors.NewConflict(fmt.Sprintf("Department '%s' already exists", name))
}
