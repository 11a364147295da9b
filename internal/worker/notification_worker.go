package worker

import (
	"github.com/spec-kit/department-service/internal/service"
)

// StartNotificationWorker registers the audit handlers on the dispatcher.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
