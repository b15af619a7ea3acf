package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/hackathon-hub/registration-api/config"
	"github.com/hackathon-hub/registration-api/internal/cache"
	"github.com/hackathon-hub/registration-api/internal/handlers"
	"github.com/hackathon-hub/registration-api/internal/middleware"
	"github.com/hackathon-hub/registration-api/internal/repository"
	"github.com/hackathon-hub/registration-api/internal/services"
	"github.com/hackathon-hub/registration-api/pkg/db"
	"github.com/hackathon-hub/registration-api/pkg/httpclient"
	"github.com/hackathon-hub/registration-api/pkg/logger"
	"github.com/hackathon-hub/registration-api/pkg/metrics"
	"github.com/hackathon-hub/registration-api/pkg/profiling"
	"github.com/hackathon-hub/registration-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const (
	submissionBodyLimit = 256 * 1024
	calibrateBodyLimit  = 4 * 1024
)

// registerRoutes wires every public endpoint onto the router
func registerRoutes(
	router *gin.Engine,
	cfg *config.Config,
	generalRateLimiter, registrationRateLimiter *middleware.RateLimiter,
	registrationHandler *handlers.RegistrationHandler,
	certificateHandler *handlers.CertificateHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	hackathons := api.Group("/hackathons/:id")
	hackathons.GET("/register-form", generalRateLimiter.Middleware(), registrationHandler.GetForm)
	hackathons.POST("/register-form",
		registrationRateLimiter.Middleware(),
		middleware.BodySizeLimitMiddleware(submissionBodyLimit),
		registrationHandler.Submit)

	// Templates travel base64 encoded, so allow for the 4/3 expansion
	previewBodyLimit := cfg.Certificates.MaxTemplateBytes*4/3 + 64*1024

	certificates := router.Group("/api/v1/certificates")
	certificates.Use(generalRateLimiter.Middleware())
	certificates.POST("/calibrate", middleware.BodySizeLimitMiddleware(calibrateBodyLimit), certificateHandler.Calibrate)
	certificates.POST("/preview", middleware.BodySizeLimitMiddleware(previewBodyLimit), certificateHandler.Preview)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting registration API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(tracing.Settings{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceNamespace:  cfg.Observability.ServiceNamespace,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		ServiceInstanceID: cfg.Observability.ServiceInstanceID,
		Environment:       cfg.Server.AppEnv,
		Endpoint:          cfg.Observability.ExporterEndpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(shutdownCtx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	// Initialize metrics with service name from config
	metrics.Init(cfg.Observability.ServiceName)
	metrics.RecordInfrastructureMetrics()

	// Initialize PostgreSQL connection pool.
	// Migrations are applied separately by cmd/migrate.
	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:        cfg.Database.URL,
		MaxConns:   cfg.Database.MaxConns,
		MinConns:   cfg.Database.MinConns,
		CACertPath: cfg.Database.CACertPath,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	formRepo := repository.NewFormRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	formCache := cache.NewFormCache(formRepo, cfg.Cache.FormTTL())

	httpClient := httpclient.NewStandardClient()

	registrationService := services.NewRegistrationService(formCache, submissionRepo, cfg, httpClient)
	certificateService := services.NewCertificateService(cfg.Certificates.MaxTemplateBytes, cfg.Certificates.MaxPixels)

	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	certificateHandler := handlers.NewCertificateHandler(certificateService)
	healthHandler := handlers.NewHealthHandler(pool.Ping)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader, "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length", "Retry-After", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	// Submissions get a per-minute budget; everything else shares the general one
	generalRateLimiter := middleware.NewRateLimiter(ctx, "general",
		rate.Limit(cfg.RateLimit.GeneralRPS), cfg.RateLimit.GeneralBurst)
	registrationRateLimiter := middleware.NewRateLimiter(ctx, "registration",
		rate.Limit(float64(cfg.RateLimit.RegistrationPerMin)/60), cfg.RateLimit.RegistrationBurst)

	registerRoutes(router, cfg, generalRateLimiter, registrationRateLimiter,
		registrationHandler, certificateHandler, healthHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
