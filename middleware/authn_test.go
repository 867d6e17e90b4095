package middleware

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	keystone_errors "github.com/dev-mohitbeniwal/keystone/errors"
	"github.com/dev-mohitbeniwal/keystone/model"
)

type stubResolver map[string]struct {
	caller *model.LoginUser
	err    error
}

func (s stubResolver) ResolveCaller(_ context.Context, token string) (*model.LoginUser, error) {
	if r, ok := s[token]; ok {
		return r.caller, r.err
	}
	return nil, keystone_errors.ErrInvalidToken
}

func newAuthnRouter(resolver CallerResolver) *gin.Engine {
	r := gin.New()
	r.Use(Authenticate(resolver))
	r.GET("/whoami", func(c *gin.Context) {
		caller := Caller(c)
		fromCtx, ok := CallerFromContext(c.Request.Context())
		if caller == nil {
			c.String(http.StatusOK, "anonymous:%v", ok)
			return
		}
		c.String(http.StatusOK, "%s:%v", caller.ID, ok && fromCtx.ID == caller.ID)
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	resolver := stubResolver{
		"good":    {caller: testUser},
		"gone":    {err: keystone_errors.ErrUserNotFound},
		"expired": {err: keystone_errors.ErrSessionNotFound},
		"down":    {err: fmt.Errorf("get session: %w: dial tcp", keystone_errors.ErrCacheStore)},
	}
	r := newAuthnRouter(resolver)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"no header", "", http.StatusOK, "anonymous:false"},
		{"valid", "Bearer good", http.StatusOK, "u-1:true"},
		{"lowercase scheme", "bearer good", http.StatusOK, "u-1:true"},
		{"basic scheme", "Basic good", http.StatusOK, "anonymous:false"},
		{"bad token", "Bearer forged", http.StatusOK, "anonymous:false"},
		{"deleted user", "Bearer gone", http.StatusOK, "anonymous:false"},
		{"expired session", "Bearer expired", http.StatusOK, "anonymous:false"},
		{"store down", "Bearer down", http.StatusServiceUnavailable, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}
			w := serve(r, http.MethodGet, "/whoami", header)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
