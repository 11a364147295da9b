package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/department-service/internal/domain"
	"github.com/spec-kit/department-service/internal/repository"
	apperrors "github.com/spec-kit/department-service/pkg/util"
)

const msgDepartmentMissing = "Department does not exist"

// DepartmentQueryService serves read-only department operations.
type DepartmentQueryService struct {
	departments repository.DepartmentRepository
	logger      *zap.Logger
}

// NewDepartmentQueryService builds the service.
func NewDepartmentQueryService(departments repository.DepartmentRepository, logger *zap.Logger) *DepartmentQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentQueryService{departments: departments, logger: logger}
}

// GetAllDepartments lists every department.
func (s *DepartmentQueryService) GetAllDepartments(ctx context.Context) *apperrors.Envelope {
	depts, err := s.departments.GetAll(ctx)
	if err != nil {
		return failure(s.logger, "list_departments", err)
	}
	if depts == nil {
		depts = []domain.Department{}
	}
	return apperrors.OK("", depts)
}

// GetDepartmentByID returns one department or a 404 envelope.
func (s *DepartmentQueryService) GetDepartmentByID(ctx context.Context, id int64) *apperrors.Envelope {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failure(s.logger, "get_department", apperrors.NewNotFound(msgDepartmentMissing))
		}
		return failure(s.logger, "get_department", err)
	}
	return apperrors.OK("", dept)
}
