package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/carson-networks/finances-tracker/api"
	"github.com/carson-networks/finances-tracker/internal/app"
	"github.com/carson-networks/finances-tracker/internal/config"
	"github.com/carson-networks/finances-tracker/internal/logging"
)

func main() {
	logger := logging.SetupLogging()
	logger.Info("finances-tracker starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}
	if err := logging.SetLevel(logger, envConfig.LogLevel); err != nil {
		logger.WithError(err).Fatal("logging.SetLevel")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(envConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("app.New")
		return
	}
	defer application.Close()

	httpRest := api.Rest{
		Logger:          logger,
		Port:            envConfig.HTTPPort,
		Service:         application.Service,
		DefaultCurrency: envConfig.DefaultCurrency,
		DB:              application.Pinger(),
	}
	httpRest.Serve(ctx)

	logger.Info("finances-tracker stopped")
}
