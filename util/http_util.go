// util/http_util.go
package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	keystone_errors "github.com/dev-mohitbeniwal/keystone/errors"
	logger "github.com/dev-mohitbeniwal/keystone/logging"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.Int("status", code),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

// StatusFor maps a domain error to the HTTP status the API reports for it.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, keystone_errors.ErrNotLoggedIn),
		errors.Is(err, keystone_errors.ErrInvalidToken),
		errors.Is(err, keystone_errors.ErrSessionNotFound),
		errors.Is(err, keystone_errors.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, keystone_errors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, keystone_errors.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, keystone_errors.ErrUserConflict):
		return http.StatusConflict
	case errors.Is(err, keystone_errors.ErrInvalidUserData),
		errors.Is(err, keystone_errors.ErrInvalidRole),
		errors.Is(err, keystone_errors.ErrInvalidPagination):
		return http.StatusBadRequest
	case errors.Is(err, keystone_errors.ErrCacheStore),
		errors.Is(err, keystone_errors.ErrDatabaseOperation):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithDomainError writes err with its mapped status and aborts the chain.
// Messages of unmapped errors are not exposed.
func RespondWithDomainError(c *gin.Context, err error) {
	code := StatusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = keystone_errors.ErrInternalServer.Error()
	}
	RespondWithError(c, code, message, err)
	c.Abort()
}
