// controller/controllers.go
package controller

import (
	"github.com/dev-mohitbeniwal/keystone/audit"
	"github.com/dev-mohitbeniwal/keystone/service"
)

type Controllers struct {
	User   *UserController
	Role   *RoleController
	Audit  *AuditController
	Health *HealthController
}

func InitializeControllers(services *service.Services, auditService audit.Service) *Controllers {
	return &Controllers{
		User:   NewUserController(services.User),
		Role:   NewRoleController(),
		Audit:  NewAuditController(auditService),
		Health: NewHealthController(),
	}
}
