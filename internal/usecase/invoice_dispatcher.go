package usecase

import (
	"context"
	"sync"

	"checkout_service/internal/infrastructure/metrics"
	"checkout_service/pkg/logger"
)

// InvoiceDispatcher hands an enrolled purchase to asynchronous invoice
// issuance. Dispatch never blocks; false means the order was not queued.
type InvoiceDispatcher interface {
	Dispatch(orderID string) bool
}

// FiscalDispatcher is a bounded worker pool. Orders that do not fit in the
// queue are left to the scheduled invoice retry.
type FiscalDispatcher struct {
	queue   chan string
	workers int
	log     *logger.Logger
	metrics *metrics.PipelineMetrics

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

var _ InvoiceDispatcher = (*FiscalDispatcher)(nil)

func NewFiscalDispatcher(workers, queueSize int, log *logger.Logger, m *metrics.PipelineMetrics) *FiscalDispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &FiscalDispatcher{queue: make(chan string, queueSize), workers: workers, log: log, metrics: m}
}

// Start launches the workers. handle runs once per dispatched order; ctx is
// passed to every call and should outlive Stop so queued work can drain.
func (d *FiscalDispatcher) Start(ctx context.Context, handle func(ctx context.Context, orderID string) error) {
	ctx = d.log.WithComponent(ctx, "fiscal.dispatcher")
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for orderID := range d.queue {
				if err := handle(ctx, orderID); err != nil {
					d.log.Warn(d.log.WithFields(ctx, map[string]any{"order_id": orderID, "error": err.Error()}), "invoice issuance failed; scheduled retry will pick it up")
				}
			}
		}()
	}
}

func (d *FiscalDispatcher) Dispatch(orderID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.metrics.IncDispatchDropped()
		return false
	}
	select {
	case d.queue <- orderID:
		return true
	default:
		d.metrics.IncDispatchDropped()
		return false
	}
}

// Stop refuses new work, drains the queue and waits for the workers.
func (d *FiscalDispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
}
