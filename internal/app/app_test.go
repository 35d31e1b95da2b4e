package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"checkout_service/internal/adapter/persistence/memory"
	"checkout_service/internal/config"
	"checkout_service/internal/domain/entities"

	"github.com/shopspring/decimal"
)

const seedJSON = `{
  "offerings": [{"id": "go-101", "title": "Go do zero", "price": "299.00", "requires_fiscal_invoice": true, "active": true}],
  "coupons": [{"id": "BF20", "code": "BF20", "kind": "percent", "value": "20", "active": true}]
}`

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	seed := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(seed, []byte(seedJSON), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return &config.Config{
		App:      config.AppConfig{Name: "checkout-test"},
		Storage:  config.StorageConfig{Driver: config.StorageDriverMemory, CatalogSeedFile: seed},
		Payments: config.PaymentsConfig{Mock: "true", PixExpiration: 30 * time.Minute, BoletoDueDays: 3, IntentDedupWindow: time.Minute},
		Fiscal: config.FiscalConfig{
			Mode:             config.FiscalModeHomologation,
			HomologationURL:  "http://127.0.0.1:1/nfse",
			RequestTimeout:   time.Second,
			SubmissionWindow: time.Hour,
			Workers:          1,
			QueueSize:        4,
		},
		Retry: config.RetryConfig{MaxAttempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
		Scheduler: config.SchedulerConfig{
			ExpireIntentsSpec:   "@every 1m",
			RetryInvoicesSpec:   "@every 5m",
			PollInvoicesSpec:    "@every 2m",
			ResumePurchasesSpec: "@every 10m",
			ResumeStaleAfter:    5 * time.Minute,
			BatchSize:           10,
		},
	}
}

func TestNew_InMemory(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(t), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.redis != nil || a.publisher != nil {
		t.Fatalf("expected no redis or broker without urls")
	}

	intent, err := a.Orchestrator.SubmitPurchase(context.Background(), entities.PurchaseRequest{
		Purchaser:  entities.Purchaser{ID: "stu-1", Name: "Ana", TaxID: "12345678909"},
		OfferingID: "go-101",
		Amount:     decimal.RequireFromString("299.00"),
		Instrument: entities.InstrumentPix,
	})
	if err != nil {
		t.Fatalf("SubmitPurchase: %v", err)
	}
	if intent.Status != entities.IntentStatusPending {
		t.Fatalf("expected pending pix intent, got %s", intent.Status)
	}
	if _, ok := intent.Payload().(entities.PixPayload); !ok {
		t.Fatalf("expected pix payload, got %T", intent.Payload())
	}

	s, err := a.NewScheduler()
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	s.Stop()
}

func TestNew_InvalidSchedulerSpec(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Scheduler.PollInvoicesSpec = "every now and then"
	a, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	if _, err := a.NewScheduler(); err == nil {
		t.Fatalf("expected invalid cron spec to be refused")
	}
}

func TestSeedCatalog(t *testing.T) {
	catalog := memory.NewCatalogRepository()

	if _, err := seedCatalog(catalog, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected missing file error")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(bad, []byte("{"), 0o600)
	if _, err := seedCatalog(catalog, bad); err == nil {
		t.Fatalf("expected parse error")
	}

	good := filepath.Join(t.TempDir(), "good.json")
	_ = os.WriteFile(good, []byte(seedJSON), 0o600)
	n, err := seedCatalog(catalog, good)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 seeded items, got %d (%v)", n, err)
	}
	o, _ := catalog.Offerings().GetByID(context.Background(), "go-101")
	if !o.Price.Equal(decimal.NewFromInt(299)) || !o.RequiresFiscalInvoice {
		t.Fatalf("unexpected offering %+v", o)
	}
}
