// Package app wires configuration, storage and infrastructure into the
// purchase pipeline shared by cmd/api and cmd/scheduler.
package app

import (
	"context"
	"errors"

	"checkout_service/internal/config"
	"checkout_service/internal/domain/entities"
	"checkout_service/internal/infrastructure/fiscal"
	"checkout_service/internal/infrastructure/locking"
	"checkout_service/internal/infrastructure/messaging"
	"checkout_service/internal/infrastructure/metrics"
	"checkout_service/internal/infrastructure/payments"
	"checkout_service/internal/infrastructure/scheduler"
	"checkout_service/internal/usecase"
	"checkout_service/internal/usecase/interfaces"
	"checkout_service/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

type App struct {
	Config       *config.Config
	Log          *logger.Logger
	Registry     *prometheus.Registry
	Orchestrator *usecase.PurchaseOrchestrator
	Dispatcher   *usecase.FiscalDispatcher

	redis     *locking.Client
	publisher *messaging.Publisher
}

// New builds the pipeline. Redis and RabbitMQ are optional: without them the
// idempotency store is process-local and events are only logged.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	ctx = log.WithComponent(ctx, "app")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pipelineMetrics := metrics.NewPipelineMetrics(reg)

	a := &App{Config: cfg, Log: log, Registry: reg}

	st, err := newStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	idem, err := a.idempotencyStore(ctx)
	if err != nil {
		return nil, err
	}

	gateway, err := payments.NewMercadoPagoGateway(cfg.Payments, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	authorities, err := fiscal.NewAuthorities(cfg.Fiscal, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	fiscalMode, err := entities.ParseFiscalMode(cfg.Fiscal.Mode)
	if err != nil {
		a.Close()
		return nil, err
	}

	intents := usecase.NewPaymentIntentUseCase(st.intents, idem, gateway, usecase.PaymentIntentSettings{
		PixExpiration: cfg.Payments.PixExpiration,
		BoletoDueDays: cfg.Payments.BoletoDueDays,
		DedupWindow:   cfg.Payments.IntentDedupWindow,
	}, log, pipelineMetrics)
	invoices := usecase.NewFiscalInvoiceUseCase(st.invoices, usecase.NewTaxAuthorityRegistry(authorities...), usecase.FiscalSettings{
		RequestTimeout:   cfg.Fiscal.RequestTimeout,
		SubmissionWindow: cfg.Fiscal.SubmissionWindow,
	}, log, pipelineMetrics)

	a.Dispatcher = usecase.NewFiscalDispatcher(cfg.Fiscal.Workers, cfg.Fiscal.QueueSize, log, pipelineMetrics)

	a.Orchestrator, err = usecase.NewPurchaseOrchestrator(usecase.PurchaseOrchestratorParams{
		Intents:     intents,
		Ledger:      usecase.NewLedgerUseCase(st.ledger, log),
		Enrollments: usecase.NewEnrollmentUseCase(st.enrollments, log),
		Invoices:    invoices,
		Purchases:   st.purchases,
		Offerings:   st.offerings,
		Coupons:     st.coupons,
		Events:      a.eventPublisher(ctx),
		Dispatcher:  a.Dispatcher,
		Retry: usecase.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
			MaxDelay:    cfg.Retry.MaxDelay,
		},
		FiscalMode: fiscalMode,
		BatchSize:  cfg.Scheduler.BatchSize,
		Logger:     log,
		Metrics:    pipelineMetrics,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	log.Info(log.WithFields(ctx, map[string]any{
		"storage":     cfg.Storage.Driver,
		"fiscal_mode": string(fiscalMode),
		"authorities": len(authorities),
	}), "pipeline ready")
	return a, nil
}

// StartDispatcher launches the invoice workers. ctx must outlive Close so
// queued orders can drain.
func (a *App) StartDispatcher(ctx context.Context) {
	a.Dispatcher.Start(ctx, a.Orchestrator.IssueInvoice)
}

// NewScheduler registers the maintenance jobs. With Redis configured every
// job runs on one replica at a time.
func (a *App) NewScheduler() (*scheduler.Scheduler, error) {
	p := scheduler.Params{
		Logger:  a.Log,
		Metrics: metrics.NewJobMetrics(a.Registry),
		Timeout: a.Config.Scheduler.JobTimeout,
	}
	if a.redis != nil {
		client, ttl := a.redis, a.Config.Scheduler.LockTTL
		p.LockFor = func(job string) (scheduler.Lock, error) {
			return locking.NewJobLock(client, job, ttl)
		}
	}
	s := scheduler.New(p)
	if err := s.Register(scheduler.MaintenanceJobs(a.Orchestrator, a.Config.Scheduler)...); err != nil {
		return nil, err
	}
	return s, nil
}

// Close drains the dispatcher and releases broker and Redis connections.
func (a *App) Close() error {
	if a.Dispatcher != nil {
		a.Dispatcher.Stop()
	}
	if a.publisher != nil {
		a.publisher.Close()
	}
	var errs error
	if a.redis != nil {
		errs = multierr.Append(errs, a.redis.Close())
	}
	return errs
}

func (a *App) idempotencyStore(ctx context.Context) (interfaces.IIdempotencyStore, error) {
	if a.Config.Redis.URL == "" {
		a.Log.Warn(ctx, "REDIS_URL not set; intent reservations are local to this process")
		return newLocalIdempotencyStore(), nil
	}
	client, err := locking.NewClient(ctx, a.Config.Redis)
	if err != nil {
		return nil, err
	}
	a.redis = client
	return locking.NewIdempotencyStore(client), nil
}

func (a *App) eventPublisher(ctx context.Context) interfaces.IEventPublisher {
	fallback := messaging.Fallback{Log: a.Log}
	if a.Config.RabbitMQ.URL == "" {
		return fallback
	}
	pub, err := messaging.NewPublisher(a.Config.RabbitMQ.URL, a.Config.RabbitMQ.Exchange, a.Log)
	if err != nil {
		a.Log.Error(ctx, "rabbitmq unavailable; purchase events will only be logged", err)
		return fallback
	}
	a.publisher = pub
	return pub
}
