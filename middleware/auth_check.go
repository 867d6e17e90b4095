package middleware

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/keystone/audit"
	"github.com/dev-mohitbeniwal/keystone/auth"
	logger "github.com/dev-mohitbeniwal/keystone/logging"
	"github.com/dev-mohitbeniwal/keystone/util"
)

type AuditRecorder interface {
	Record(log audit.AuditLog) bool
}

type DecisionObserver interface {
	ObserveDecision(decision string)
}

type authCheck struct {
	gate     *auth.Gate
	reqs     *auth.Requirements
	recorder AuditRecorder
	observer DecisionObserver
}

type AuthCheckOption func(*authCheck)

// WithAuditRecorder records decisions on restricted operations.
func WithAuditRecorder(r AuditRecorder) AuthCheckOption {
	return func(a *authCheck) { a.recorder = r }
}

func WithDecisionObserver(o DecisionObserver) AuthCheckOption {
	return func(a *authCheck) { a.observer = o }
}

// AuthCheck looks up the role the matched route requires and lets the gate
// decide. Rejections end the request with 401 or 403 before the handler runs.
// Unmatched requests pass through to gin's 404/405 handling.
func AuthCheck(gate *auth.Gate, reqs *auth.Requirements, opts ...AuthCheckOption) gin.HandlerFunc {
	a := &authCheck{gate: gate, reqs: reqs}
	for _, opt := range opts {
		opt(a)
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}

		op := auth.OperationOf(c.Request.Method, route)
		required := a.reqs.Required(op)
		caller := Caller(c)
		decision := a.gate.Decide(required, caller)

		if a.observer != nil {
			a.observer.ObserveDecision(decision.String())
		}
		if required != "" && a.recorder != nil {
			entry := audit.AuditLog{
				Timestamp:     time.Now().UTC(),
				RequestID:     requestid.Get(c),
				Operation:     string(op),
				RequiredRole:  required,
				Decision:      decision.String(),
				AccessGranted: decision == auth.Allow,
			}
			if caller != nil {
				entry.UserID = caller.ID
				entry.CallerRole = caller.Role
			}
			a.recorder.Record(entry)
		}

		if decision != auth.Allow {
			logger.Warn("Authorization rejected",
				zap.String("operation", string(op)),
				zap.String("requiredRole", required),
				zap.String("decision", decision.String()))
			util.RespondWithDomainError(c, a.gate.Authorize(required, caller))
			return
		}
		c.Next()
	}
}
