// controller/role_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/keystone/middleware"
	"github.com/dev-mohitbeniwal/keystone/model"
)

// RoleController exposes the static role catalog.
type RoleController struct{}

func NewRoleController() *RoleController {
	return &RoleController{}
}

func (rc *RoleController) RegisterRoutes(r *middleware.Routes) {
	r.GET("/roles", "", rc.ListRoles)
}

func (rc *RoleController) ListRoles(c *gin.Context) {
	c.JSON(http.StatusOK, model.Roles())
}
