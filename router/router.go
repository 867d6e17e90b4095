// router/router.go

package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/keystone/auth"
	"github.com/dev-mohitbeniwal/keystone/config"
	"github.com/dev-mohitbeniwal/keystone/controller"
	logger "github.com/dev-mohitbeniwal/keystone/logging"
	"github.com/dev-mohitbeniwal/keystone/metrics"
	"github.com/dev-mohitbeniwal/keystone/middleware"
)

// Dependencies are the shared components the HTTP layer is built from.
// Redis, Recorder and Metrics are optional.
type Dependencies struct {
	Gate         *auth.Gate
	Requirements *auth.Requirements
	Resolver     middleware.CallerResolver
	Redis        redis.Cmdable
	Recorder     middleware.AuditRecorder
	Metrics      *metrics.Provider
}

func createCORSMiddleware(cfg config.CORSConfiguration) gin.HandlerFunc {
	if !cfg.Enabled || len(cfg.AllowOrigins) == 0 {
		return nil
	}
	logger.Info("CORS enabled", zap.Strings("origins", cfg.AllowOrigins))
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// SetupRouter wires the middleware chain and every controller, then freezes
// the requirement table.
func SetupRouter(cfg *config.Configuration, controllers *controller.Controllers, deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.New().String()
	})))
	router.Use(middleware.Logger())
	if corsMiddleware := createCORSMiddleware(cfg.CORS); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	router.Use(middleware.Authenticate(deps.Resolver))
	if cfg.RateLimit.Enabled && deps.Redis != nil {
		router.Use(middleware.RateLimiter(deps.Redis, cfg.RateLimit.Requests, cfg.RateLimit.Per))
	}

	var checkOpts []middleware.AuthCheckOption
	if deps.Recorder != nil {
		checkOpts = append(checkOpts, middleware.WithAuditRecorder(deps.Recorder))
	}
	if deps.Metrics != nil {
		checkOpts = append(checkOpts, middleware.WithDecisionObserver(deps.Metrics))
	}
	router.Use(middleware.AuthCheck(deps.Gate, deps.Requirements, checkOpts...))

	root := middleware.NewRoutes(&router.RouterGroup, deps.Requirements)
	controllers.Health.RegisterRoutes(root)
	if deps.Metrics != nil && cfg.Metrics.Enabled {
		root.GET(cfg.Metrics.Path, "", gin.WrapH(deps.Metrics.Handler()))
	}

	api := root.Group("/api/v1")
	controllers.User.RegisterRoutes(api)
	controllers.Role.RegisterRoutes(api)
	controllers.Audit.RegisterRoutes(api)

	deps.Requirements.Freeze()
	logger.Info("Routes registered", zap.Int("operations", len(deps.Requirements.Snapshot())))
	return router
}
