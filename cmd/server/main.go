package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/app"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/logger"
)

// @title           ITSM AI Gateway
// @version         1.0
// @description     AI request routing and webhook-to-ticket ingestion for an IT asset and ticketing platform.

// @contact.name   API Support
// @contact.url    https://github.com/aimanagersix/go-itsm-ai-gateway

// @host      0.0.0.0:8082
// @BasePath  /

func main() {
	// Initialize structured logging
	if err := logger.InitFromEnv(); err != nil {
		// Can't use logger here as it failed to initialize
		_, _ = os.Stderr.WriteString("FATAL: Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	application, err := app.NewApp()
	if err != nil {
		logger.Error("Failed to initialize application", "error", err.Error())
		os.Exit(1)
	}
	defer application.Shutdown()

	handler := application.SetupRoutes()

	address := fmt.Sprintf("%s:%d", application.Settings.Server.Host, application.Settings.Server.Port)
	srv := &http.Server{
		Addr:         address,
		Handler:      handler,
		ReadTimeout:  application.Settings.Server.ReadTimeout,
		WriteTimeout: application.Settings.Server.WriteTimeout,
		IdleTimeout:  application.Settings.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Server starting",
			"address", address,
			"ai_mode", string(application.Dispatcher.Mode()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err.Error())
	}
}
