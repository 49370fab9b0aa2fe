// @title I am in API
// @version 1.0
// @description Event attendance registration service: create events, list
// @description them, and register "I am in" attendance with idempotent joins.
// @BasePath /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"iamin/config"
	"iamin/internal/adapters/notify"
	delivery "iamin/internal/delivery/http"
	"iamin/internal/delivery/http/controllers"
	"iamin/internal/delivery/http/middleware"
	"iamin/internal/domain"
	"iamin/internal/repository/mongodb"
	"iamin/internal/services"
)

const (
	serviceTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The store connection is a process-wide resource: initialized once,
	// shared by every request, torn down on shutdown. Without a connection
	// string the server still starts, but every event endpoint answers a
	// fixed "store not configured" error.
	var eventRepo domain.EventRepository
	if cfg.StoreConfigured() {
		client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoTLSAllowInvalid)
		if err != nil {
			logger.Error("mongo connection failed", "err", err)
			os.Exit(1)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error("mongo disconnect failed", "err", err)
			}
		}()
		coll := client.Database(cfg.MongoDBName).Collection(cfg.MongoEventsCollection)
		eventRepo = mongodb.NewEventRepository(coll)
		logger.Info("connected to mongo", "db", cfg.MongoDBName, "collection", cfg.MongoEventsCollection)
	} else {
		eventRepo = mongodb.NewUnconfiguredRepository()
		logger.Warn("MONGODB_URI is not set; event endpoints will report store not configured")
	}

	notifier, err := notify.NewNotifier(cfg.Notifier, logger)
	if err != nil {
		logger.Error("notifier setup failed", "err", err)
		os.Exit(1)
	}

	eventService := services.NewEventService(eventRepo, serviceTimeout)
	registrationService := services.NewRegistrationService(eventRepo, notifier, logger, serviceTimeout)

	eventController := controllers.NewEventController(logger, eventService, registrationService)
	healthController := controllers.NewHealthController(cfg.StoreConfigured())

	mux := delivery.NewRouter(eventController, healthController)
	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "err", err)
		}
	}
}
