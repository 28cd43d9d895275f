package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-portal/config"
	deliveryHttp "hospital-portal/internal/delivery/http"
	"hospital-portal/internal/delivery/http/handler"
	"hospital-portal/internal/delivery/http/middleware"
	"hospital-portal/internal/infrastructure/cache"
	"hospital-portal/internal/infrastructure/database"
	"hospital-portal/internal/infrastructure/imagehost"
	"hospital-portal/internal/infrastructure/mailer"
	"hospital-portal/internal/infrastructure/storage"
	"hospital-portal/internal/live"
	"hospital-portal/internal/repository"
	"hospital-portal/internal/service"
	"hospital-portal/internal/usecase"
	"hospital-portal/pkg/jwt"
	"hospital-portal/pkg/metrics"
	"hospital-portal/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const (
	profileCacheTTL     = 5 * time.Minute
	profileCacheCleanup = 10 * time.Minute
	shutdownTimeout     = 10 * time.Second
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Relay       *live.Relay
	Log         *logrus.Logger
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context) (*App, error) {
	app := &App{Log: logrus.StandardLogger()}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(app.Log, cfg.App)
	app.Log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			app.Close()
			return nil, err
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	if err := app.initialize(ctx); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(log *logrus.Logger, cfg config.AppConfig) {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
}

// initialize wires repositories, use cases and the HTTP server.
func (app *App) initialize(ctx context.Context) error {
	cfg := app.Config
	log := app.Log

	location, err := time.LoadLocation(cfg.App.TimeZone)
	if err != nil {
		return fmt.Errorf("failed to load time zone %q: %w", cfg.App.TimeZone, err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New("hospital", registry)

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(app.DB)
	userRepo := repository.NewUserRepository(app.DB)
	doctorRepo := repository.NewDoctorRepository(app.DB)
	serviceRepo := repository.NewServiceRepository(app.DB)
	appointmentRepo := repository.NewAppointmentRepository(app.DB)
	enquiryRepo := repository.NewEnquiryRepository(app.DB)
	auditLogRepo := repository.NewAuditLogRepository(app.DB)
	tokenRepo := repository.NewTokenRepository(app.RedisClient)

	// Initialize infrastructure
	profiles := cache.NewProfileCache(profileCacheTTL, profileCacheCleanup)
	blobs, err := storage.NewLocalStore(cfg.Storage.Dir, cfg.Storage.BaseURL, usecase.MaxDocumentSize)
	if err != nil {
		return fmt.Errorf("failed to open document storage: %w", err)
	}
	uploader := imagehost.NewCloudinaryClient(cfg.ImageHost)
	mail := mailer.New(cfg.SMTP, log)
	broker := live.NewRedisBroker(app.RedisClient, cfg.Redis.ChangeChannel, log)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	identityUsecase := usecase.NewIdentityUsecase(log, accountRepo, userRepo, doctorRepo, tokenRepo, jwtService, profiles, auditService, broker, cfg.Admin)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, appointmentRepo, doctorRepo, blobs, auditService, broker, appMetrics, location)
	doctorUsecase := usecase.NewDoctorUsecase(log, doctorRepo, auditService, broker, cfg.Admin)
	serviceUsecase := usecase.NewServiceUsecase(log, serviceRepo, auditService, broker)
	enquiryUsecase := usecase.NewEnquiryUsecase(log, enquiryRepo, mail, cfg.SMTP.NotifyTo, broker)
	dashboardUsecase := usecase.NewDashboardUsecase(log, userRepo, doctorRepo, appointmentRepo, serviceRepo, uploader)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditLogRepo)

	if err := identityUsecase.EnsureAdminAccount(ctx); err != nil {
		return err
	}

	// Initialize live views
	hub := live.NewHub(log, appMetrics)
	app.Relay = live.NewRelay(broker, hub, usecase.NewLiveProjector(appointmentUsecase, dashboardUsecase), log, appMetrics)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(identityUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	serviceHandler := handler.NewServiceHandler(serviceUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	enquiryHandler := handler.NewEnquiryHandler(enquiryUsecase, customValidator)
	dashboardHandler := handler.NewDashboardHandler(dashboardUsecase)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)
	liveHandler := handler.NewLiveHandler(log, hub, app.Relay, cfg.App.CORSOrigin)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(log, identityUsecase)
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:       rate.Limit(cfg.RateLimit.RPS),
		Burst:      cfg.RateLimit.Burst,
		TrustProxy: cfg.RateLimit.TrustProxy,
	})

	// Initialize router
	router := deliveryHttp.NewRouter(deliveryHttp.RouterConfig{
		AuthHandler:        authHandler,
		DoctorHandler:      doctorHandler,
		ServiceHandler:     serviceHandler,
		AppointmentHandler: appointmentHandler,
		EnquiryHandler:     enquiryHandler,
		DashboardHandler:   dashboardHandler,
		AuditLogHandler:    auditLogHandler,
		LiveHandler:        liveHandler,
		AuthMiddleware:     authMiddleware,
		CORSMiddleware:     middleware.NewCORSMiddleware(cfg.App.CORSOrigin),
		LoggingMiddleware:  middleware.NewLoggingMiddleware(log),
		MetricsMiddleware:  middleware.NewMetricsMiddleware(appMetrics),
		RateLimiter:        rateLimiter,
		Gatherer:           registry,
		Files:              http.FileServer(http.Dir(blobs.Root())),
	})

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and the live relay, and blocks until ctx is
// cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		if err := app.Relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			app.Log.Errorf("Live relay stopped: %v", err)
		}
	}()

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	app.shutdown(relayDone)
}

func (app *App) shutdown(relayDone <-chan struct{}) {
	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	select {
	case <-relayDone:
	case <-ctx.Done():
		app.Log.Warn("Live relay did not stop in time")
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
