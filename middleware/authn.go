package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	keystone_errors "github.com/dev-mohitbeniwal/keystone/errors"
	logger "github.com/dev-mohitbeniwal/keystone/logging"
	"github.com/dev-mohitbeniwal/keystone/model"
	"github.com/dev-mohitbeniwal/keystone/util"
)

const callerKey = "caller"

type callerContextKey struct{}

// CallerResolver turns a session token into the caller it belongs to.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, token string) (*model.LoginUser, error)
}

// WithCaller returns a copy of ctx carrying caller.
func WithCaller(ctx context.Context, caller *model.LoginUser) context.Context {
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// CallerFromContext returns the caller stored by Authenticate, if any.
func CallerFromContext(ctx context.Context) (*model.LoginUser, bool) {
	caller, ok := ctx.Value(callerContextKey{}).(*model.LoginUser)
	return caller, ok && caller != nil
}

// Caller returns the authenticated caller of the request or nil.
func Caller(c *gin.Context) *model.LoginUser {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(*model.LoginUser); ok {
			return caller
		}
	}
	return nil
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate resolves the caller from the bearer token. Requests without a
// usable token continue anonymously and are left to AuthCheck; a failing
// session store aborts the request.
func Authenticate(resolver CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		caller, err := resolver.ResolveCaller(c.Request.Context(), token)
		switch {
		case err == nil && caller != nil:
			c.Set(callerKey, caller)
			c.Request = c.Request.WithContext(WithCaller(c.Request.Context(), caller))
		case errors.Is(err, keystone_errors.ErrCacheStore), errors.Is(err, keystone_errors.ErrDatabaseOperation):
			util.RespondWithDomainError(c, err)
			return
		default:
			logger.Debug("Continuing anonymously", zap.Error(err), zap.String("path", c.Request.URL.Path))
		}
		c.Next()
	}
}
