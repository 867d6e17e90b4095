// util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/keystone/logging"
	"github.com/dev-mohitbeniwal/keystone/model"
)

// NotificationService reports account changes. Only the log sink exists today.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyUserChange(ctx context.Context, changeType string, user model.User) error {
	switch changeType {
	case "registered":
		logger.Info("NOTIFICATION: New user registered",
			zap.String("userID", user.ID),
			zap.String("account", user.Account))
	case "role_changed":
		logger.Info("NOTIFICATION: User role changed",
			zap.String("userID", user.ID),
			zap.String("role", user.Role))
	case "deleted":
		logger.Info("NOTIFICATION: User deleted",
			zap.String("userID", user.ID))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}
	return nil
}
