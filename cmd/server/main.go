package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"carfinder/internal/config"
	"carfinder/internal/events"
	"carfinder/internal/handler"
	"carfinder/internal/middleware"
	"carfinder/internal/repository"
	"carfinder/internal/service"
	"carfinder/pkg/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting carfinder",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection when a component needs it
	var repo *repository.PostgresRepository
	if cfg.UsesPostgres() {
		var err error
		repo, err = repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		log.Info("connected to PostgreSQL")
	}

	// Catalog
	var catalog service.Catalog
	var inventory handler.VehicleReader
	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		catalog, inventory = repo, repo
	case config.CatalogSourceHTTP:
		catalog = service.NewCatalogClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
		log.Info("using remote catalog", zap.String("base_url", cfg.Catalog.BaseURL))
	default:
		fileCatalog, err := repository.LoadFileCatalog(cfg.Catalog.Path)
		if err != nil {
			return err
		}
		catalog, inventory = fileCatalog, fileCatalog
		log.Info("loaded inventory file", zap.String("path", cfg.Catalog.Path), zap.Int("vehicles", fileCatalog.Len()))
	}

	// Session store
	var sessions service.SessionStore
	if cfg.Session.Store == config.SessionStoreRedis {
		redisStore, err := repository.NewRedisSessionStore(repository.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.Session.TTL,
		})
		if err != nil {
			return err
		}
		defer redisStore.Close()
		sessions = redisStore
		log.Info("using Redis session store", zap.String("addr", cfg.Redis.Addr))
	} else {
		sessions = repository.NewMemorySessionStore(cfg.Session.TTL)
	}

	// Turn recorders
	var recorders []service.TurnRecorder
	if cfg.PostgreSQL.LogQueries {
		recorders = append(recorders, repo)
	}
	if cfg.NATS.Enabled {
		client, err := events.Connect(events.Config{URL: cfg.NATS.URL, Stream: cfg.NATS.Stream, Token: cfg.NATS.Token}, log)
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.EnsureStream(ctx, cfg.NATS.Stream); err != nil {
			return err
		}
		recorders = append(recorders, events.NewTurnPublisher(client))
		log.Info("publishing turns to NATS", zap.String("stream", cfg.NATS.Stream))
	}

	contexts := service.NewContextStore(sessions)
	resolver := service.NewResolver(
		service.InstrumentCatalog(cfg.Catalog.Source, catalog),
		contexts,
		log,
		service.WithRecorders(recorders...),
		service.WithRecordTimeout(cfg.Resolver.RecordTimeout),
	)

	router := newRouter(cfg, log, resolver, contexts, inventory)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func newRouter(cfg *config.Config, log *logger.Logger, resolver *service.Resolver, contexts *service.ContextStore, inventory handler.VehicleReader) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", middleware.CorrelationHeader, handler.ConversationHeader}
	corsConfig.ExposeHeaders = []string{middleware.CorrelationHeader}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "carfinder",
			"catalog":    cfg.Catalog.Source,
			"sessions":   cfg.Session.Store,
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Raw catalog routes are only served for local backends
	if inventory != nil {
		handler.NewInventoryHandler(inventory, cfg.Catalog.MaxPageSize).Register(router.Group("/api/inventory"))
	}

	apiV1 := router.Group("/api/v1")
	handler.NewToolHandler(resolver, log).Register(apiV1)
	handler.NewConversationHandler(contexts).Register(apiV1)

	return router
}
