// Package server boots the application and runs the HTTP server with
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrianfauzi/warungku/app/routes"
	"github.com/andrianfauzi/warungku/config"
	"github.com/andrianfauzi/warungku/pkg/cache"
	"github.com/andrianfauzi/warungku/pkg/database"
	"github.com/andrianfauzi/warungku/pkg/logger"
	"github.com/andrianfauzi/warungku/pkg/migration"
	"github.com/andrianfauzi/warungku/pkg/router"
	"github.com/andrianfauzi/warungku/pkg/storage"
)

const shutdownGrace = 15 * time.Second

// Start boots config, stores, and routes, then serves until SIGINT or
// SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	// Mirror WARN+ records into MongoDB when an ops-log URI is configured,
	// keeping stdout as the primary sink.
	var opsHandler *logger.OpsHandler
	if uri := config.OpsLogMongoURI(); uri != "" {
		h, err := logger.NewOpsHandler(uri, config.OpsLogMongoDatabase(), config.OpsLogMongoCollection())
		if err != nil {
			logger.Warn("server: ops log disabled", "error", err.Error())
		} else {
			opsHandler = h
			logger.SetHandler(logger.NewMultiHandler(logger.L.Handler(), h))
		}
	}
	defer func() {
		if opsHandler != nil {
			opsHandler.Close()
		}
	}()

	if err := database.Connect(); err != nil {
		return err
	}
	if err := migration.New(database.DB).Run(); err != nil {
		return fmt.Errorf("server: migrate: %w", err)
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("server: cache unavailable, reads fall through to the database",
			"error", err.Error())
	}
	storage.Connect()

	r := router.New()
	routes.RegisterAPI(r)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case sig := <-stop:
		logger.Info("server: shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}

	logger.Info("server: stopped")
	return nil
}
