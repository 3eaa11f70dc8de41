package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zoo/animals"
	"zoo/config"
	"zoo/database"
	"zoo/i18n"
	"zoo/logger"
	"zoo/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	gin.SetMode(cfg.HTTP.GinMode)

	// Create context with timeout for initial connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer store.Close()

	bundle, err := i18n.NewBundle(cfg.I18n.DefaultLang)
	if err != nil {
		logger.Fatal("Failed to load message catalogs", zap.Error(err))
	}

	svc := animals.NewService(store, logger, animals.WithThreshold(cfg.Search.Threshold))

	r := router.New(router.Options{
		Service:     svc,
		Store:       store,
		Bundle:      bundle,
		Logger:      logger,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	go shutdownOnSignal(server, cfg.HTTP.ShutdownTimeout, logger, done)

	logger.Info("Server starting",
		zap.String("address", cfg.HTTP.Addr),
		zap.String("driver", cfg.Database.Driver),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed", zap.Error(err))
	}

	<-done
	logger.Info("Server shutdown complete")
}

// shutdownOnSignal stops the server gracefully on SIGINT or SIGTERM.
func shutdownOnSignal(server *http.Server, timeout time.Duration, logger *zap.Logger, done chan<- struct{}) {
	defer close(done)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	logger.Info("Shutting down server", zap.String("signal", s.String()))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
