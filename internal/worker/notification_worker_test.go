package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/department-service/internal/config"
	"github.com/spec-kit/department-service/internal/events"
	"github.com/spec-kit/department-service/internal/service"
)

func TestStartNotificationWorker(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()

	StartNotificationWorker(service.NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{AuditEnabled: true}))
	require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventDepartmentCreated,
		events.DepartmentPayload{DepartmentID: 1, Name: "HR"})))

	assert.Equal(t, 1, logs.FilterMessage("department changed").Len())
}

func TestStartNotificationWorker_NilService(t *testing.T) {
	assert.NotPanics(t, func() { StartNotificationWorker(nil) })
}
