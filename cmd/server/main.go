package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/merchbridge/payment-service/internal/config"
	"github.com/merchbridge/payment-service/internal/infrastructure/database"
	httpServer "github.com/merchbridge/payment-service/internal/infrastructure/http"
	"github.com/merchbridge/payment-service/internal/infrastructure/provider/openpayments"
	"github.com/merchbridge/payment-service/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Optional .env for local development; the file is absent in deployments.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		Development: cfg.Service.Environment != "production",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	db, err := database.NewConnection(&cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, appLogger); err != nil {
			appLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := database.Migrate(db, appLogger); err != nil {
		appLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	repos := database.NewRepositories(db, appLogger)

	gateway := openpayments.NewClient(
		cfg.Service.OpenPayments.AccessToken,
		cfg.Service.OpenPayments.RequestTimeout,
		appLogger.With(zap.String("component", "OpenPaymentsClient")),
	)

	srv := httpServer.NewServer(cfg, appLogger, repos, gateway)

	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	appLogger.Info("Server shut down successfully")
}
