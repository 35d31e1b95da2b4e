package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "checkout_service/docs"
	"checkout_service/internal/adapter/http/routes"
	"checkout_service/internal/app"
	"checkout_service/internal/config"
	"checkout_service/internal/infrastructure/scheduler"
	"checkout_service/pkg/logger"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
)

// @title           Checkout Service API
// @version         1.0
// @description     Course checkout: payment capture, ledger, enrollment and NFS-e issuance.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logg := logger.New(logger.Options{ServiceName: "checkout-api"})

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: cfg.App.Name,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap pipeline", err)
		os.Exit(1)
	}
	// Workers get their own context so queued invoices drain after the signal.
	a.StartDispatcher(context.Background())

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Embedded {
		if sched, err = a.NewScheduler(); err != nil {
			logg.Error(ctx, "failed to register scheduler jobs", err)
			os.Exit(1)
		}
		sched.Start()
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Orchestrator: a.Orchestrator,
			Auth:         cfg.Auth,
			Logger:       logg,
			Gatherer:     a.Registry,
		}),
	}

	serverErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", addr), "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "graceful shutdown failed", err)
	}
	if sched != nil {
		sched.Stop()
	}
	if err := a.Close(); err != nil {
		logg.Error(shutdownCtx, "error closing pipeline", err)
	}
	logg.Info(shutdownCtx, "api server stopped")
}
