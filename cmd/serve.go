package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dev-mohitbeniwal/keystone/audit"
	"github.com/dev-mohitbeniwal/keystone/auth"
	"github.com/dev-mohitbeniwal/keystone/cache"
	"github.com/dev-mohitbeniwal/keystone/controller"
	"github.com/dev-mohitbeniwal/keystone/dao"
	"github.com/dev-mohitbeniwal/keystone/db"
	logger "github.com/dev-mohitbeniwal/keystone/logging"
	"github.com/dev-mohitbeniwal/keystone/metrics"
	"github.com/dev-mohitbeniwal/keystone/router"
	"github.com/dev-mohitbeniwal/keystone/service"
	"github.com/dev-mohitbeniwal/keystone/util"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.Dir); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Connect Neo4j and Redis concurrently
	var (
		driver neo4j.DriverWithContext
		rdb    *redis.Client
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := db.NewNeo4jDriver(gctx, cfg.Neo4j)
		driver = d
		return err
	})
	g.Go(func() error {
		c, err := db.NewRedisClient(gctx, cfg.Redis)
		rdb = c
		return err
	})
	err = g.Wait()
	if driver != nil {
		defer db.CloseNeo4j(driver)
	}
	if rdb != nil {
		defer db.CloseRedis(rdb)
	}
	if err != nil {
		return err
	}

	var provider *metrics.Provider
	var observer cache.Observer
	if cfg.Metrics.Enabled {
		provider = metrics.NewProvider("keystone")
		observer = provider
	}

	cacheClient, err := newCacheClient(cfg.Cache, rdb, observer)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer, cfg.Auth.SessionTTL)
	if err != nil {
		return fmt.Errorf("invalid auth configuration: %w", err)
	}
	gate, err := auth.NewGate(auth.DefaultGrants())
	if err != nil {
		return err
	}

	// Initialize EventBus
	eventBus := util.NewEventBus()
	eventBus.Start(ctx)

	auditRepository, err := audit.NewElasticsearchRepository(cfg.Elasticsearch.URL, cfg.Elasticsearch.Index)
	if err != nil {
		return fmt.Errorf("failed to create audit repository: %w", err)
	}
	auditService := audit.NewService(auditRepository)
	recorder := audit.NewRecorder(auditService, 1024, 5*time.Second)
	defer recorder.Close()

	userDAO := dao.NewUserDAO(driver)
	if err := ensureSchema(ctx, rdb, userDAO); err != nil {
		return err
	}

	services := service.InitializeServices(
		userDAO,
		tokens,
		util.NewValidationUtil(),
		util.NewCacheService(cacheClient),
		util.NewNotificationService(),
		eventBus,
		service.WithAdminAccounts(cfg.Auth.AdminAccounts...),
	)
	controllers := controller.InitializeControllers(services, auditService)

	gin.SetMode(cfg.Server.Mode)
	deps := router.Dependencies{
		Gate:         gate,
		Requirements: auth.NewRequirements(),
		Resolver:     services.User,
		Redis:        rdb,
		Recorder:     recorder,
		Metrics:      provider,
	}
	engine := router.SetupRouter(cfg, controllers, deps)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-quit:
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	eventBus.Wait()

	logger.Info("Server exiting")
	return nil
}
