// Package scheduler runs the pipeline maintenance jobs on cron specs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"checkout_service/internal/config"
	"checkout_service/internal/infrastructure/metrics"
	"checkout_service/internal/usecase"
	"checkout_service/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Job is one maintenance task. Run returns how many items it handled.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) (int, error)
}

// Lock keeps a job to one runner across replicas.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type Params struct {
	Logger  *logger.Logger
	Metrics *metrics.JobMetrics
	// LockFor is optional; without it every replica runs every job.
	LockFor func(job string) (Lock, error)
	Timeout time.Duration
}

type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	metrics *metrics.JobMetrics
	lockFor func(job string) (Lock, error)
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(p Params) *Scheduler {
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	if p.Timeout <= 0 {
		p.Timeout = 5 * time.Minute
	}
	cl := cronLogger{log: p.Logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		log:     p.Logger,
		metrics: p.Metrics,
		lockFor: p.LockFor,
		timeout: p.Timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register validates every spec before anything is scheduled.
func (s *Scheduler) Register(jobs ...Job) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for _, job := range jobs {
		if job.Name == "" || job.Run == nil {
			return errors.New("job name and run func are required")
		}
		if _, err := parser.Parse(job.Spec); err != nil {
			return fmt.Errorf("job %s: invalid spec %q: %w", job.Name, job.Spec, err)
		}
	}
	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.Spec, func() { s.RunJob(s.ctx, job) }); err != nil {
			return fmt.Errorf("job %s: %w", job.Name, err)
		}
		s.log.Info(s.log.WithFields(context.Background(), map[string]any{"job": job.Name, "schedule": job.Spec}), "scheduled job")
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	stopped := s.cron.Stop()
	s.cancel()
	<-stopped.Done()
}

// RunJob executes a job once, under its lock when one is configured.
func (s *Scheduler) RunJob(ctx context.Context, job Job) {
	jobCtx := s.log.WithFields(ctx, map[string]any{"job": job.Name, "event": "cron.job"})
	jobCtx, cancel := context.WithTimeout(jobCtx, s.timeout)
	defer cancel()

	if s.lockFor != nil {
		lock, err := s.lockFor(job.Name)
		if err != nil {
			s.log.Error(jobCtx, "job lock unavailable", err)
			s.metrics.IncFailure(job.Name)
			return
		}
		locked, err := lock.Acquire(jobCtx)
		if err != nil {
			s.log.Error(jobCtx, "job lock acquire failed", err)
			s.metrics.IncFailure(job.Name)
			return
		}
		if !locked {
			s.log.Info(jobCtx, "another instance is running the job; skipping")
			return
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(jobCtx)); err != nil {
				s.log.Error(jobCtx, "job lock release failed", err)
			}
		}()
	}

	start := time.Now()
	n, err := job.Run(jobCtx)
	duration := time.Since(start)
	s.metrics.ObserveDuration(job.Name, duration)
	s.metrics.AddProcessed(job.Name, n)
	jobCtx = s.log.WithFields(jobCtx, map[string]any{"duration_ms": duration.Milliseconds(), "items": n})
	if err != nil {
		s.log.Error(jobCtx, "job failed", err)
		s.metrics.IncFailure(job.Name)
		return
	}
	s.log.Info(jobCtx, "job completed")
	s.metrics.IncSuccess(job.Name)
}

// MaintenanceJobs binds the orchestrator's recovery operations to their specs.
func MaintenanceJobs(o usecase.IPurchaseOrchestrator, cfg config.SchedulerConfig) []Job {
	return []Job{
		{Name: "expire_intents", Spec: cfg.ExpireIntentsSpec, Run: func(ctx context.Context) (int, error) {
			return o.ExpireStaleIntents(ctx)
		}},
		{Name: "retry_invoices", Spec: cfg.RetryInvoicesSpec, Run: func(ctx context.Context) (int, error) {
			return o.RetryPendingInvoices(ctx)
		}},
		{Name: "poll_invoices", Spec: cfg.PollInvoicesSpec, Run: func(ctx context.Context) (int, error) {
			return o.PollSubmittedInvoices(ctx)
		}},
		{Name: "resume_purchases", Spec: cfg.ResumePurchasesSpec, Run: func(ctx context.Context) (int, error) {
			return o.ResumeStalledPurchases(ctx, cfg.ResumeStaleAfter)
		}},
	}
}

// cronLogger routes robfig/cron's own logging through the service logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Info(l.log.WithFields(context.Background(), kv(keysAndValues)), "cron: "+msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(l.log.WithFields(context.Background(), kv(keysAndValues)), "cron: "+msg, err)
}

func kv(keysAndValues []any) map[string]any {
	out := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return out
}
