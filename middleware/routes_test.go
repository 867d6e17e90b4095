package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dev-mohitbeniwal/keystone/auth"
)

func TestRoutesDeclareRequirements(t *testing.T) {
	reqs := auth.NewRequirements()
	r := gin.New()
	routes := NewRoutes(r.Group("/api/v1"), reqs)

	users := routes.Group("/users")
	users.POST("/login", "", ok)
	users.GET("/:id", "user", ok)
	users.DELETE("/:id", "admin", ok)
	users.PUT("/:id/role", "admin", ok)
	routes.GET("/roles/", "", ok)

	assert.Equal(t, map[auth.Operation]string{
		"POST /api/v1/users/login":   "",
		"GET /api/v1/users/:id":      "user",
		"DELETE /api/v1/users/:id":   "admin",
		"PUT /api/v1/users/:id/role": "admin",
		"GET /api/v1/roles/":         "",
	}, reqs.Snapshot())

	registered := map[string]bool{}
	for _, ri := range r.Routes() {
		registered[ri.Method+" "+ri.Path] = true
	}
	for op := range reqs.Snapshot() {
		assert.True(t, registered[string(op)], "gin route for %s", op)
	}
}

func TestRoutesRejectBadDeclarations(t *testing.T) {
	reqs := auth.NewRequirements()
	routes := NewRoutes(gin.New().Group("/"), reqs)

	assert.Panics(t, func() { routes.GET("/x", "root", ok) }, "unknown role")

	routes.GET("/y", "user", ok)
	reqs.Freeze()
	assert.Panics(t, func() { routes.Handle(http.MethodPost, "/z", "", ok) }, "frozen")
}

func TestJoinPaths(t *testing.T) {
	assert.Equal(t, "/api/v1", joinPaths("/api/v1", ""))
	assert.Equal(t, "/api/v1/users", joinPaths("/api/v1", "users"))
	assert.Equal(t, "/api/v1/users/", joinPaths("/api/v1", "/users/"))
	assert.Equal(t, "/health", joinPaths("/", "/health"))
}
