package util

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	keystone_errors "github.com/dev-mohitbeniwal/keystone/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{keystone_errors.ErrNotLoggedIn, http.StatusUnauthorized},
		{fmt.Errorf("%w: GET /x", keystone_errors.ErrNotLoggedIn), http.StatusUnauthorized},
		{keystone_errors.ErrInvalidCredential, http.StatusUnauthorized},
		{fmt.Errorf("%w: requires admin", keystone_errors.ErrForbidden), http.StatusForbidden},
		{keystone_errors.ErrUserNotFound, http.StatusNotFound},
		{keystone_errors.ErrUserConflict, http.StatusConflict},
		{keystone_errors.ErrInvalidRole, http.StatusBadRequest},
		{fmt.Errorf("get: %w: %w", keystone_errors.ErrCacheStore, keystone_errors.ErrUnknownCacheType), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestRespondWithDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)

	RespondWithDomainError(c, fmt.Errorf("%w: requires admin", keystone_errors.ErrForbidden))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"not authorized: requires admin"}`, w.Body.String())
	assert.True(t, c.IsAborted())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondWithDomainError(c, errors.New("driver exploded at 10.0.0.3"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}
