package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"checkout_service/internal/app"
	"checkout_service/internal/config"
	"checkout_service/pkg/logger"

	_ "github.com/joho/godotenv/autoload"
)

// The scheduler expires stale intents, retries and polls invoices and resumes
// stalled purchases. Enrolled purchases found here are issued through the same
// dispatcher the API uses.
func main() {
	logg := logger.New(logger.Options{ServiceName: "checkout-scheduler"})

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: cfg.App.Name + "-scheduler",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap pipeline", err)
		os.Exit(1)
	}
	a.StartDispatcher(context.Background())

	s, err := a.NewScheduler()
	if err != nil {
		logg.Error(ctx, "failed to register scheduler jobs", err)
		_ = a.Close()
		os.Exit(1)
	}
	logg.Info(ctx, "starting scheduler")
	s.Start()

	<-ctx.Done()
	logg.Info(ctx, "scheduler shutting down gracefully")
	s.Stop()
	if err := a.Close(); err != nil {
		logg.Error(context.Background(), "error closing pipeline", err)
	}
}
