package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/department-service/internal/config"
	"github.com/spec-kit/department-service/internal/events"
)

// NotificationService writes an audit trail for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil || !n.cfg.AuditEnabled {
		return
	}
	n.dispatcher.Subscribe(events.EventDepartmentCreated, n.handleDepartmentChange)
	n.dispatcher.Subscribe(events.EventDepartmentUpdated, n.handleDepartmentChange)
	n.dispatcher.Subscribe(events.EventDepartmentDeleted, n.handleDepartmentChange)
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
}

func (n *NotificationService) handleDepartmentChange(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DepartmentPayload)
	if !ok {
		n.logger.Warn("unexpected payload", zap.String("event_type", string(event.Type)))
		return nil
	}

	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("department_id", payload.DepartmentID),
		zap.String("name", payload.Name),
	}
	if payload.PreviousName != "" {
		fields = append(fields, zap.String("previous_name", payload.PreviousName))
	}
	n.logger.Info("department changed", fields...)
	return nil
}

func (n *NotificationService) handleUserRegistered(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		n.logger.Warn("unexpected payload", zap.String("event_type", string(event.Type)))
		return nil
	}
	n.logger.Info("user registered",
		zap.String("event_id", event.ID),
		zap.String("user_id", payload.UserID),
		zap.String("user_name", payload.UserName),
		zap.String("role", payload.Role))
	return nil
}
