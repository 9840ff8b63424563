package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/api"
	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/db"
	"hotel-booking-backend/internal/metrics"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/notification"
	"hotel-booking-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "hotel-backend ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Printf("database initialized successfully (driver %s)", cfg.Database.Driver)

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bookings := store.NewGormRepository[model.Booking](gormDB)
	rooms := store.NewGormRepository[model.Room](gormDB)
	customers := store.NewGormRepository[model.Customer](gormDB)

	appMetrics := metrics.New()
	opts := []booking.Option{
		booking.WithLocation(cfg.Booking.Location),
		booking.WithMaxStay(cfg.Booking.MaxStayDays),
		booking.WithMetrics(appMetrics),
	}

	// Booking confirmations are only pushed when VAPID keys are configured.
	var webpushOptions *webpush.Options
	var pushDB *gorm.DB
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pushDB = gormDB

		workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		workerPool.Start(ctx)
		opts = append(opts, booking.WithNotifier(workerPool))
		logger.Printf("notification worker pool started with %d workers", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys are not configured, booking confirmations are disabled")
	}

	manager := booking.NewManager(bookings, rooms, customers, opts...)
	handler := api.NewHandler(manager, rooms, customers, pushDB, webpushOptions)

	// Initialize router
	router := api.NewRouter(handler, &cfg.Server, appMetrics)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}
	cancel()

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Println("Server gracefully stopped")
}
