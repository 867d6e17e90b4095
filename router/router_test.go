package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/keystone/audit"
	"github.com/dev-mohitbeniwal/keystone/auth"
	"github.com/dev-mohitbeniwal/keystone/config"
	"github.com/dev-mohitbeniwal/keystone/controller"
	keystone_errors "github.com/dev-mohitbeniwal/keystone/errors"
	"github.com/dev-mohitbeniwal/keystone/metrics"
	"github.com/dev-mohitbeniwal/keystone/model"
	"github.com/dev-mohitbeniwal/keystone/service"
	keystone_mock "github.com/dev-mohitbeniwal/keystone/test/mock"
)

type testServer struct {
	engine *gin.Engine
	users  *keystone_mock.MockUserService
	audits *keystone_mock.MockAuditService
	reqs   *auth.Requirements
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := new(keystone_mock.MockUserService)
	users.On("ResolveCaller", mock.Anything, "user-token").
		Return(&model.LoginUser{ID: "u1", Account: "alice", Role: "user"}, nil)
	users.On("ResolveCaller", mock.Anything, "admin-token").
		Return(&model.LoginUser{ID: "a1", Account: "root", Role: "admin"}, nil)
	users.On("ResolveCaller", mock.Anything, mock.Anything).
		Return(nil, keystone_errors.ErrInvalidToken)
	audits := new(keystone_mock.MockAuditService)

	gate, err := auth.NewGate(auth.DefaultGrants())
	require.NoError(t, err)
	reqs := auth.NewRequirements()

	cfg := &config.Configuration{
		Metrics: config.MetricsConfiguration{Enabled: true, Path: "/metrics"},
	}
	controllers := controller.InitializeControllers(&service.Services{User: users}, audits)
	engine := SetupRouter(cfg, controllers, Dependencies{
		Gate:         gate,
		Requirements: reqs,
		Resolver:     users,
		Metrics:      metrics.NewProvider("keystone"),
	})
	return &testServer{engine: engine, users: users, audits: audits, reqs: reqs}
}

func (s *testServer) do(method, target, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	s.engine.ServeHTTP(w, req)
	return w
}

func TestRequirementTable(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, map[auth.Operation]string{
		"GET /health":                 "",
		"GET /health/":                "",
		"GET /metrics":                "",
		"POST /api/v1/users/register": "",
		"POST /api/v1/users/login":    "",
		"POST /api/v1/users/logout":   "user",
		"GET /api/v1/users/me":        "user",
		"GET /api/v1/users/:id":       "admin",
		"GET /api/v1/users":           "admin",
		"PUT /api/v1/users/:id/role":  "admin",
		"POST /api/v1/users/delete":   "admin",
		"GET /api/v1/roles":           "",
		"GET /api/v1/audit":           "admin",
	}, s.reqs.Snapshot())

	assert.Error(t, s.reqs.Declare("GET /late", ""), "table is frozen after setup")
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = s.do(http.MethodGet, "/health/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/roles", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"value":"user","label":"User"},{"value":"admin","label":"Administrator"}]`, w.Body.String())

	w = s.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListUsersRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	s.users.On("ListUsers", mock.Anything, 20, 0).Return([]*model.User{{ID: "u1"}}, nil)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/users", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/users", "forged", "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/v1/users", "user-token", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/users", "admin-token", "").Code)

	s.users.AssertNumberOfCalls(t, "ListUsers", 1)
}

func TestDeleteUser(t *testing.T) {
	s := newTestServer(t)
	s.users.On("DeleteUser", mock.Anything, "u9").Return(nil)
	s.users.On("DeleteUser", mock.Anything, "missing").Return(keystone_errors.ErrUserNotFound)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/v1/users/delete", "user-token", `{"id":"u9"}`).Code)
	s.users.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)

	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/users/delete", "admin-token", `{"id":"u9"}`).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/v1/users/delete", "admin-token", `{"id":"missing"}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/users/delete", "admin-token", `{}`).Code)
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	s.users.On("GetUser", mock.Anything, "u1").Return(&model.User{ID: "u1", Account: "alice", Role: "user", PasswordHash: "h"}, nil)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/users/me", "", "").Code)

	w := s.do(http.MethodGet, "/api/v1/users/me", "user-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"account":"alice"`)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestGetUserByIDRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	s.users.On("GetUser", mock.Anything, "u2").Return(&model.User{ID: "u2", Account: "bob", Role: "user", PasswordHash: "$2a$hash"}, nil)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/users/u2", "", "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/v1/users/u2", "user-token", "").Code)

	w := s.do(http.MethodGet, "/api/v1/users/u2", "admin-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"account":"bob"`)
	assert.NotContains(t, w.Body.String(), "$2a$hash")
	s.users.AssertNumberOfCalls(t, "GetUser", 1)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	s.users.On("Register", mock.Anything, mock.Anything).Return(&model.User{ID: "u5", Account: "carol", Role: "user"}, nil)
	s.users.On("Login", mock.Anything, model.LoginRequest{Account: "carol", Password: "password1"}).
		Return(&model.LoginResponse{Token: "t", ExpiresAt: time.Now().Add(time.Hour), User: &model.LoginUser{ID: "u5"}}, nil)
	s.users.On("Login", mock.Anything, mock.Anything).Return(nil, keystone_errors.ErrInvalidCredential)

	w := s.do(http.MethodPost, "/api/v1/users/register", "", `{"account":"carol","password":"password1","check_password":"password1"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/api/v1/users/login", "", `{"account":"carol","password":"password1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"t"`)

	w = s.do(http.MethodPost, "/api/v1/users/login", "", `{"account":"carol","password":"nope-nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateRole(t *testing.T) {
	s := newTestServer(t)
	s.users.On("UpdateRole", mock.Anything, "u1", "admin").Return(&model.User{ID: "u1", Role: "admin"}, nil)
	s.users.On("UpdateRole", mock.Anything, "u1", "root").Return(nil, keystone_errors.ErrInvalidRole)

	assert.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/v1/users/u1/role", "admin-token", `{"role":"admin"}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/api/v1/users/u1/role", "admin-token", `{"role":"root"}`).Code)
}

func TestAuditQuery(t *testing.T) {
	s := newTestServer(t)
	s.audits.On("QueryLogs", mock.Anything, mock.MatchedBy(func(q audit.Query) bool {
		return q.UserID == "u1" && q.Size == 5 && !q.From.IsZero()
	})).Return([]audit.AuditLog{{ID: "x", Decision: "forbidden"}}, nil)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/v1/audit", "user-token", "").Code)

	w := s.do(http.MethodGet, "/api/v1/audit?user_id=u1&size=5&from=2024-01-01T00:00:00Z", "admin-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"decision":"forbidden"`)

	w = s.do(http.MethodGet, "/api/v1/audit?from=yesterday", "admin-token", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
