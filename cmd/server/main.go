// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"credential_service_backend/internal/account"
	"credential_service_backend/internal/config"
	"credential_service_backend/internal/platform/database"
	"credential_service_backend/internal/platform/logger"

	"go.uber.org/zap"
)

func main() {
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := migrateCmd.Parse(os.Args[2:]); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
		if err := runMigrate(); err != nil {
			log.Fatalf("FATAL: Migration failed: %v", err)
		}
		return
	}

	startServer()
}

// runMigrate creates or updates the registrations table and exits.
func runMigrate() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Cleanup(appLogger)()

	db, closeDB, err := database.NewGORM(cfg, appLogger)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := account.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate registrations table: %w", err)
	}
	appLogger.Info("Migration completed successfully.")
	return nil
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("ERROR: Server failed: %v", err)
			return
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// provideLogger builds the application logger and flushes it on cleanup.
func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	appLogger, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return appLogger, logger.Cleanup(appLogger), nil
}
