package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/uzhroute/uzhroute/internal/geocoding"
	"github.com/uzhroute/uzhroute/internal/history"
	"github.com/uzhroute/uzhroute/internal/places"
	"github.com/uzhroute/uzhroute/internal/poi"
	"github.com/uzhroute/uzhroute/internal/routing"
	"github.com/uzhroute/uzhroute/internal/session"
	"github.com/uzhroute/uzhroute/internal/share"
	"github.com/uzhroute/uzhroute/internal/transit"
	"github.com/uzhroute/uzhroute/pkg/cache"
	"github.com/uzhroute/uzhroute/pkg/config"
	"github.com/uzhroute/uzhroute/pkg/database"
	"github.com/uzhroute/uzhroute/pkg/errors"
	"github.com/uzhroute/uzhroute/pkg/eventbus"
	"github.com/uzhroute/uzhroute/pkg/health"
	"github.com/uzhroute/uzhroute/pkg/logger"
	"github.com/uzhroute/uzhroute/pkg/middleware"
	"github.com/uzhroute/uzhroute/pkg/ratelimit"
	redisclient "github.com/uzhroute/uzhroute/pkg/redis"
	"github.com/uzhroute/uzhroute/pkg/swagger"
	"github.com/uzhroute/uzhroute/pkg/tracing"
	"github.com/uzhroute/uzhroute/pkg/websocket"
)

const (
	serviceName = "uzhroute"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting route planner",
		zap.String("service", serviceName),
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("city", cfg.City.Name),
	)

	sentryConfig := errors.DefaultSentryConfig()
	sentryConfig.ServerName = serviceName
	sentryConfig.Release = version
	if err := errors.InitSentry(sentryConfig); err != nil {
		logger.Warn("Failed to initialize Sentry, continuing without error tracking", zap.Error(err))
	} else {
		defer errors.Flush(2 * time.Second)
	}

	tracerEnabled := os.Getenv("OTEL_ENABLED") == "true"
	if tracerEnabled {
		tracerCfg := tracing.Config{
			ServiceName:    serviceName,
			ServiceVersion: version,
			Environment:    cfg.Server.Environment,
			OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Enabled:        true,
		}

		tp, err := tracing.InitTracer(tracerCfg, logger.Get())
		if err != nil {
			logger.Warn("Failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Warn("Failed to shutdown tracer", zap.Error(err))
				}
			}()
		}
	}

	if err := database.RunMigrations(&cfg.Database, os.Getenv("MIGRATIONS_PATH")); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	db, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)
	logger.Info("Connected to database")

	redisClient, err := redisclient.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}()
	logger.Info("Connected to redis")

	cacheManager := cache.NewManager(redisClient)

	var bus *eventbus.Bus
	if cfg.NATS.Enabled {
		busCfg := eventbus.DefaultConfig()
		busCfg.URL = cfg.NATS.URL
		busCfg.Name = serviceName
		bus, err = eventbus.New(busCfg)
		if err != nil {
			logger.Warn("Failed to connect to NATS, continuing without events", zap.Error(err))
			bus = nil
		} else {
			defer bus.Close()
			logger.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))
		}
	}

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewLimiter(redisClient.Client, cfg.RateLimit)
		logger.Info("Rate limiting enabled",
			zap.Int("default_limit", cfg.RateLimit.DefaultLimit),
			zap.Int("default_burst", cfg.RateLimit.DefaultBurst),
		)
	}

	// Domain services
	routingService := routing.NewService(cfg, cacheManager, bus)
	geocodingService := geocoding.NewService(cfg, cacheManager, bus)
	poiService := poi.NewService(cfg, cacheManager)
	placesService := places.NewService(places.NewRepository(db), bus)
	historyService := history.NewService(history.NewRepository(db))

	routingHandler := routing.NewHandler(routingService)
	geocodingHandler := geocoding.NewHandler(geocodingService)
	poiHandler := poi.NewHandler(poiService)
	placesHandler := places.NewHandler(placesService)
	historyHandler := history.NewHandler(historyService)
	shareHandler := share.NewHandler(routingService)
	transitHandler := transit.NewHandler(cfg.Transit)

	// Websocket route sessions
	hub := websocket.NewHub()
	go hub.Run()
	sessionController := session.NewController(routingService, historyService, hub, cfg.Session)
	sessionHandler := session.NewHandler(hub, sessionController)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryWithSentry())
	router.Use(middleware.SentryMiddleware())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger(serviceName))
	router.Use(middleware.CORS())
	router.Use(middleware.SanitizeRequest())
	if tracerEnabled {
		router.Use(middleware.TracingMiddleware(serviceName))
	}
	router.Use(middleware.ErrorHandler())

	// Health and observability
	deepChecker := health.NewDeepChecker(health.DeepCheckerConfig{
		Version:  version,
		Timeout:  5 * time.Second,
		CacheTTL: 10 * time.Second,
	})
	deepChecker.SetDatabase(db)
	deepChecker.SetRedis(redisClient.Client)
	deepChecker.AddEndpoint("osrm", cfg.Routing.OSRMBaseURL)
	deepChecker.AddEndpoint("nominatim", cfg.Geocoding.NominatimBaseURL)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName, "version": version})
	})
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
	})
	router.GET("/health/ready", func(c *gin.Context) {
		status := deepChecker.Check(c.Request.Context())
		code := http.StatusOK
		if status.Status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	swagger.RegisterRoutes(router)

	api := router.Group("/api/v1")
	api.Use(middleware.RequestTimeout(time.Duration(cfg.Server.WriteTimeout) * time.Second))
	if limiter != nil {
		api.Use(middleware.RateLimit(limiter, cfg.RateLimit))
	}

	routingHandler.RegisterRoutes(api)
	geocodingHandler.RegisterRoutes(api)
	poiHandler.RegisterRoutes(api)
	placesHandler.RegisterRoutes(api)
	historyHandler.RegisterRoutes(api)
	shareHandler.RegisterRoutes(api)
	transitHandler.RegisterRoutes(api)
	sessionHandler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
