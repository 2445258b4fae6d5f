package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/abdurwebdev/rerosewithmeee/internal/app"
	"github.com/abdurwebdev/rerosewithmeee/pkg/config"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"go.uber.org/fx"
)

func main() {
	log := logger.New(logger.Opts{})

	cfg, err := config.New()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	app := fx.New(
		fx.Logger(log),
		app.Module(cfg),
	)

	// Start the application
	if err := app.Start(context.Background()); err != nil {
		log.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	// Gracefully shutdown the application
	if err := app.Stop(context.Background()); err != nil {
		log.Error("Failed to stop application", "error", err)
		os.Exit(1)
	}
}
