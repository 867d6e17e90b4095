// controller/health_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/keystone/middleware"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

func (hc *HealthController) RegisterRoutes(r *middleware.Routes) {
	r.GET("/health", "", hc.Health)
	r.GET("/health/", "", hc.Health)
}

func (hc *HealthController) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
