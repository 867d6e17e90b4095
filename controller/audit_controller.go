// controller/audit_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/keystone/audit"
	"github.com/dev-mohitbeniwal/keystone/middleware"
	"github.com/dev-mohitbeniwal/keystone/model"
	"github.com/dev-mohitbeniwal/keystone/util"
	helper_util "github.com/dev-mohitbeniwal/keystone/util/helper"
)

type AuditController struct {
	auditService audit.Service
}

func NewAuditController(auditService audit.Service) *AuditController {
	return &AuditController{auditService: auditService}
}

func (ac *AuditController) RegisterRoutes(r *middleware.Routes) {
	r.GET("/audit", model.AdminRole.Value, ac.QueryLogs)
}

// QueryLogs accepts from, to (RFC3339), user_id, operation and size.
func (ac *AuditController) QueryLogs(c *gin.Context) {
	var q audit.Query
	var err error

	if q.From, err = helper_util.ParseOptionalTime(c.Query("from")); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid from time", err)
		return
	}
	if q.To, err = helper_util.ParseOptionalTime(c.Query("to")); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid to time", err)
		return
	}
	if size := c.Query("size"); size != "" {
		if q.Size, err = strconv.Atoi(size); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid size", err)
			return
		}
	}
	q.UserID = c.Query("user_id")
	q.Operation = c.Query("operation")

	logs, err := ac.auditService.QueryLogs(c.Request.Context(), q)
	if err != nil {
		util.RespondWithError(c, http.StatusBadGateway, "Failed to query audit logs", err)
		return
	}

	c.JSON(http.StatusOK, logs)
}
