// service/services.go
package service

import (
	"github.com/dev-mohitbeniwal/keystone/auth"
	"github.com/dev-mohitbeniwal/keystone/util"
)

type Services struct {
	User IUserService
}

func InitializeServices(
	repo UserRepository,
	tokens *auth.TokenManager,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
	opts ...UserServiceOption,
) *Services {
	return &Services{
		User: NewUserService(repo, tokens, validationUtil, cacheService, notificationSvc, eventBus, opts...),
	}
}
