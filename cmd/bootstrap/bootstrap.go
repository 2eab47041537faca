package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doctor-intro-service/config"
	deliveryHttp "doctor-intro-service/internal/delivery/http"
	"doctor-intro-service/internal/delivery/http/handler"
	"doctor-intro-service/internal/delivery/http/middleware"
	"doctor-intro-service/internal/infrastructure/cache"
	"doctor-intro-service/internal/infrastructure/database"
	"doctor-intro-service/internal/infrastructure/storage"
	"doctor-intro-service/internal/repository"
	"doctor-intro-service/internal/service"
	"doctor-intro-service/internal/usecase"
	"doctor-intro-service/pkg/lock"
	"doctor-intro-service/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	doctorUsecase usecase.DoctorUsecase
	keyedMutex    *lock.KeyedMutex
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database and apply migrations
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	app.DB = db

	log := logrus.StandardLogger()

	// Per-video lock: Redis when configured, in-process otherwise
	var locker service.VideoLocker
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		locker = cache.NewRedisVideoLock(redisClient, log)
	} else {
		app.keyedMutex = lock.NewKeyedMutex()
		locker = app.keyedMutex
		logrus.Info("Redis not configured, using in-process video lock")
	}

	// Remote video storage is optional; without it finalized videos are
	// served from local disk under /videos.
	var videoStorage service.VideoStorage
	if cfg.Storage.Enabled() {
		minioClient, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		videoStorage = storage.NewMinioVideoStorage(minioClient, cfg.Storage, log)
	}

	// Initialize all layers
	server := initializeServer(cfg, db, locker, videoStorage, log, app)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	db *gorm.DB,
	locker service.VideoLocker,
	videoStorage service.VideoStorage,
	log *logrus.Logger,
	app *App,
) *http.Server {
	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	doctorRepo := repository.NewDoctorRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	chunkStore := service.NewDiskChunkStore(cfg.Video.Dir, log)
	notifier := service.NewSMTPNotifier(cfg.Mail, cfg.App.FrontendBaseURL, log)
	auditService := service.NewAuditService(log, auditRepo)

	// Initialize usecases
	doctorUsecase := usecase.NewDoctorUsecase(log, doctorRepo, chunkStore, videoStorage, notifier, auditService)
	videoUsecase := usecase.NewVideoUsecase(log, doctorRepo, chunkStore, videoStorage, locker, auditService, cfg.App.BackendBaseURL)
	app.doctorUsecase = doctorUsecase

	// Initialize handlers
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	videoHandler := handler.NewVideoHandler(videoUsecase)

	// Initialize middleware
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.FrontendBaseURL)

	// Initialize router
	router := deliveryHttp.NewRouter(doctorHandler, videoHandler, corsMiddleware, cfg.Video.Dir)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Let in-flight email deliveries record their outcome
	app.waitForNotifications(5 * time.Second)

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

func (app *App) waitForNotifications(timeout time.Duration) {
	if app.doctorUsecase == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		app.doctorUsecase.WaitNotifications()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		logrus.Warn("Timed out waiting for pending email notifications")
	}
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

	// Stop the in-process lock cleanup goroutine
	if app.keyedMutex != nil {
		app.keyedMutex.Stop()
	}
}
