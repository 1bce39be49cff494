package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/aktywni/backend/docs"
	authMiddleware "github.com/aktywni/backend/internal/auth/middleware"
	"github.com/aktywni/backend/internal/auth/service"
	"github.com/aktywni/backend/internal/config"
	"github.com/aktywni/backend/internal/handlers"
	"github.com/aktywni/backend/internal/logger"
	loggerMiddleware "github.com/aktywni/backend/internal/logger/middleware"
	"github.com/aktywni/backend/internal/mailer"
	"github.com/aktywni/backend/internal/middlewares"
	"github.com/aktywni/backend/internal/models"
	"github.com/aktywni/backend/internal/repositories"
	"github.com/aktywni/backend/internal/services"
)

// @title Aktywni API
// @version 1.0
// @description API for tracking workout activities and GPS tracks

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Aktywni backend")

	// Connect to database
	db, err := connectDB(cfg)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize JWT token generator
	tokenGenerator := service.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	trackRepo := repositories.NewTrackRepository(db)

	// Initialize reset-link delivery (optional)
	var resetMailer services.ResetMailer
	if cfg.SMTP.Host != "" {
		resetMailer = mailer.New(cfg.SMTP)
	} else {
		logger.Logger.Warn("SMTP_HOST not set, reset links will only be logged")
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenGenerator, logger.Logger)
	passwordResetService := services.NewPasswordResetService(
		userRepo,
		resetMailer,
		logger.Logger,
		cfg.Reset.TokenTTL,
		cfg.Reset.MinPasswordLength,
		cfg.Reset.PublicBaseURL,
	)
	activityService := services.NewActivityService(activityRepo, trackRepo)
	adminService := services.NewAdminService(userRepo, activityRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger.Logger)
	passwordResetHandler := handlers.NewPasswordResetHandler(passwordResetService, cfg.Reset.TokenInResponse, logger.Logger)
	activityHandler := handlers.NewActivityHandler(activityService, logger.Logger)
	adminHandler := handlers.NewAdminHandler(adminService, logger.Logger)
	healthHandler := handlers.NewHealthHandler(db, logger.Logger)

	// Initialize auth middleware
	adminMiddleware := authMiddleware.RoleMiddleware(tokenGenerator, models.RoleAdmin)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middlewares.RequestSizeLimitMiddleware(10 * 1024 * 1024)) // 10MB

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Register routes
	healthHandler.RegisterRoutes(r)
	authHandler.RegisterRoutes(r)
	passwordResetHandler.RegisterRoutes(r)
	activityHandler.RegisterRoutes(r)

	// Register admin routes with role middleware
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(adminMiddleware)
		adminHandler.RegisterRoutes(r)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database, retrying while the store starts up
func connectDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	for attempt := 1; ; attempt++ {
		err = db.Ping()
		if err == nil {
			return db, nil
		}
		if attempt >= cfg.Database.ConnectRetries {
			break
		}
		logger.Logger.Warn("Database not ready, retrying",
			zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(cfg.Database.ConnectBackoff)
	}

	db.Close()
	return nil, fmt.Errorf("failed to ping database: %w", err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
