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

	"gobioact/adapters/api"
	"gobioact/internal/config"
	"gobioact/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig, container.Options{})
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	router := api.NewRouter(api.RouterConfig{
		Handler:      api.NewRunHandler(appContainer.Pipeline, appConfig.Pipeline, appContainer.Logger),
		Metrics:      appContainer.Metrics.Handler(),
		Logger:       appContainer.Logger,
		MaxBodyBytes: appConfig.Server.MaxBodyBytes,
		Timeout:      appConfig.Server.WriteTimeout,
	})

	server := &http.Server{
		Addr:         ":" + appConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  appConfig.Server.ReadTimeout,
		WriteTimeout: appConfig.Server.WriteTimeout,
	}

	go func() {
		appContainer.Logger.Info("listening on %s (parser %s)", server.Addr, appContainer.Parser.Name())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appContainer.Logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appContainer.Logger.Error("server shutdown: %v", err)
	}
	if err := appContainer.Shutdown(ctx); err != nil {
		appContainer.Logger.Error("telemetry shutdown: %v", err)
	}
}
