package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
)

var repoNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func tableKeys() map[string]string {
	return map[string]string{
		"payment_intents": "order_id",
		"ledger_entries":  "reference_key",
		"enrollments":     "id",
		"fiscal_invoices": "id",
		"purchases":       "order_id",
		"offerings":       "id",
		"coupons":         "id",
	}
}

func pixIntent(orderID string) entities.PaymentIntent {
	expires := repoNow.Add(30 * time.Minute)
	intent := entities.PaymentIntent{
		OrderID:            orderID,
		ProcessorReference: "mp-" + orderID,
		Instrument:         entities.InstrumentPix,
		Status:             entities.IntentStatusPending,
		Amount:             decimal.RequireFromString("299.00"),
		Purchaser:          entities.Purchaser{ID: "stu-1", Name: "Ana", TaxID: "12345678901"},
		OfferingID:         "go-101",
		BusinessKey:        "bk-" + orderID,
		CreatedAt:          repoNow,
		ExpiresAt:          &expires,
	}
	_ = intent.SetPayload(entities.PixPayload{QRCode: "000201"})
	return intent
}

func TestPaymentIntentDynamoRepository(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDynamo(tableKeys())
	repo := NewPaymentIntentDynamoRepository(ddb, "payment_intents")

	t.Run("create is conditional", func(t *testing.T) {
		if err := repo.Create(ctx, pixIntent("o-1")); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if err := repo.Create(ctx, pixIntent("o-1")); !errors.Is(err, interfaces.ErrConditionFailed) {
			t.Fatalf("expected ErrConditionFailed, got %v", err)
		}
	})

	t.Run("reads keep the payload variant", func(t *testing.T) {
		got, err := repo.GetByProcessorReference(ctx, "mp-o-1")
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		pix, ok := got.PixPayload()
		if !ok || pix.QRCode != "000201" || !got.Amount.Equal(decimal.NewFromInt(299)) || got.ExpiresAt == nil {
			t.Fatalf("unexpected intent: %+v", got)
		}
		missing, err := repo.GetByOrderID(ctx, "nope")
		if err != nil || missing.OrderID != "" {
			t.Fatalf("expected zero intent, got %+v err=%v", missing, err)
		}
	})

	t.Run("status update checks the stored status", func(t *testing.T) {
		intent, _ := repo.GetByOrderID(ctx, "o-1")
		if err := intent.Confirm(repoNow.Add(time.Minute)); err != nil {
			t.Fatalf("confirm failed: %v", err)
		}
		if err := repo.UpdateStatus(ctx, intent, entities.IntentStatusFailed); !errors.Is(err, interfaces.ErrConditionFailed) {
			t.Fatalf("expected ErrConditionFailed, got %v", err)
		}
		if err := repo.UpdateStatus(ctx, intent, entities.IntentStatusPending); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		got, _ := repo.GetByOrderID(ctx, "o-1")
		if got.Status != entities.IntentStatusConfirmed || got.ConfirmedAt == nil {
			t.Fatalf("unexpected stored intent: %+v", got)
		}
	})

	t.Run("list expired follows expiry order across pages", func(t *testing.T) {
		ddb.pageSize = 1
		defer func() { ddb.pageSize = 0 }()
		for id, window := range map[string]time.Duration{"o-2": 30 * time.Minute, "o-3": 10 * time.Minute, "o-4": 20 * time.Minute} {
			intent := pixIntent(id)
			expires := repoNow.Add(window)
			intent.ExpiresAt = &expires
			if err := repo.Create(ctx, intent); err != nil {
				t.Fatalf("create %s: %v", id, err)
			}
		}
		card := pixIntent("o-5")
		card.ExpiresAt = nil
		_ = repo.Create(ctx, card)

		if none, _ := repo.ListExpired(ctx, repoNow, 0); len(none) != 0 {
			t.Fatalf("nothing expired yet, got %d", len(none))
		}
		all, err := repo.ListExpired(ctx, repoNow.Add(time.Hour), 0)
		if err != nil || len(all) != 3 || all[0].OrderID != "o-3" || all[1].OrderID != "o-4" || all[2].OrderID != "o-2" {
			t.Fatalf("expected o-3, o-4, o-2, got %+v err=%v", all, err)
		}
		two, _ := repo.ListExpired(ctx, repoNow.Add(time.Hour), 2)
		if len(two) != 2 || two[1].OrderID != "o-4" {
			t.Fatalf("expected the two earliest expiries, got %+v", two)
		}
		edge, _ := repo.ListExpired(ctx, repoNow.Add(20*time.Minute), 0)
		if len(edge) != 2 {
			t.Fatalf("expected expiry at the cutoff to count, got %d", len(edge))
		}
	})

	t.Run("storage errors surface", func(t *testing.T) {
		ddb.err = errors.New("throttled")
		defer func() { ddb.err = nil }()
		if _, err := repo.GetByOrderID(ctx, "o-1"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestLedgerDynamoRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewLedgerDynamoRepository(newFakeDynamo(tableKeys()), "ledger_entries")

	entry := func(ref string, typ entities.LedgerEntryType, amount string, day int) entities.RecordedEntry {
		return entities.RecordedEntry{
			LedgerEntry: entities.LedgerEntry{
				ID:              "le-" + ref,
				Description:     "entry " + ref,
				Type:            typ,
				Amount:          decimal.RequireFromString(amount),
				TransactionDate: repoNow.AddDate(0, 0, day),
				ReferenceID:     ref,
				ReferenceType:   "enrollment",
			},
			RecordedAt: repoNow,
		}
	}

	if err := repo.Append(ctx, entry("e-2", entities.LedgerEntryIncome, "399", 2)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := repo.Append(ctx, entry("e-1", entities.LedgerEntryIncome, "299", 1)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := repo.Append(ctx, entry("e-1", entities.LedgerEntryIncome, "1", 1)); !errors.Is(err, interfaces.ErrConditionFailed) {
		t.Fatalf("expected duplicate reference to fail, got %v", err)
	}

	got, err := repo.GetByReference(ctx, entities.LedgerReferenceKey("enrollment", "e-1", entities.LedgerEntryIncome))
	if err != nil || !got.Amount.Equal(decimal.NewFromInt(299)) {
		t.Fatalf("original entry must be kept, got %+v err=%v", got, err)
	}

	list, err := repo.List(ctx, entities.LedgerFilter{Type: entities.LedgerEntryIncome})
	if err != nil || len(list) != 2 || list[0].ReferenceID != "e-1" {
		t.Fatalf("expected two entries ordered by date, got %+v err=%v", list, err)
	}
}

func TestFiscalInvoiceDynamoRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewFiscalInvoiceDynamoRepository(newFakeDynamo(tableKeys()), "fiscal_invoices")

	inv := entities.FiscalInvoice{
		ID:             entities.FiscalInvoiceID("enr-1", 1),
		EnrollmentID:   "enr-1",
		Sequence:       1,
		Mode:           entities.FiscalModeHomologation,
		Status:         entities.FiscalStatusPending,
		PurchaserTaxID: "12345678901",
		Amount:         decimal.RequireFromString("299"),
		CreatedAt:      repoNow,
		UpdatedAt:      repoNow,
	}
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if err := inv.MarkSubmitted("H-1", repoNow); err != nil {
		t.Fatalf("mark submitted: %v", err)
	}
	if err := repo.Update(ctx, inv, entities.FiscalStatusSubmitted); !errors.Is(err, interfaces.ErrConditionFailed) {
		t.Fatalf("expected stale update to fail, got %v", err)
	}
	if err := repo.Update(ctx, inv, entities.FiscalStatusPending); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	second := inv
	second.ID = entities.FiscalInvoiceID("enr-1", 2)
	second.Sequence = 2
	second.Status = entities.FiscalStatusPending
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	list, err := repo.ListByEnrollmentID(ctx, "enr-1")
	if err != nil || len(list) != 2 || list[0].Sequence != 1 || list[0].ExternalReference != "H-1" || list[0].SubmittedAt == nil {
		t.Fatalf("unexpected invoices: %+v err=%v", list, err)
	}
	submitted, _ := repo.ListByStatus(ctx, entities.FiscalStatusSubmitted, 10)
	if len(submitted) != 1 {
		t.Fatalf("expected one submitted invoice, got %d", len(submitted))
	}

	older := second
	older.ID = entities.FiscalInvoiceID("enr-2", 1)
	older.EnrollmentID = "enr-2"
	older.Sequence = 1
	older.UpdatedAt = second.UpdatedAt.Add(-time.Hour)
	if err := repo.Create(ctx, older); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	pending, _ := repo.ListByStatus(ctx, entities.FiscalStatusPending, 1)
	if len(pending) != 1 || pending[0].ID != older.ID {
		t.Fatalf("expected least recently updated pending invoice, got %+v", pending)
	}
}

func TestPurchaseDynamoRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPurchaseDynamoRepository(newFakeDynamo(tableKeys()), "purchases")

	p := entities.Purchase{
		OrderID:    "o-1",
		Purchaser:  entities.Purchaser{ID: "stu-1", Email: "ana@example.com"},
		OfferingID: "go-101",
		Instrument: entities.InstrumentPix,
		Amount:     decimal.RequireFromString("299"),
		Quote:      entities.PriceQuote{ListPrice: decimal.RequireFromString("399"), Discount: decimal.NewFromInt(100)},
		State:      entities.PurchaseStateIntentCreated,
		CreatedAt:  repoNow,
		UpdatedAt:  repoNow,
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	next := p
	next.State = entities.PurchaseStatePaymentConfirmed
	if err := repo.Update(ctx, next, entities.PurchaseStateInitiated); !errors.Is(err, interfaces.ErrConditionFailed) {
		t.Fatalf("expected ErrConditionFailed, got %v", err)
	}
	if err := repo.Update(ctx, next, entities.PurchaseStateIntentCreated); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	got, _ := repo.GetByOrderID(ctx, "o-1")
	if got.State != entities.PurchaseStatePaymentConfirmed || got.Purchaser.Email != "ana@example.com" ||
		!got.Quote.ListPrice.Equal(decimal.RequireFromString("399")) || !got.Quote.Discount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected purchase: %+v", got)
	}
	list, err := repo.ListByState(ctx, entities.PurchaseStatePaymentConfirmed, repoNow, 10)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one purchase, got %d err=%v", len(list), err)
	}
}

func TestPurchaseDynamoRepository_ListByStateOldestFirst(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDynamo(tableKeys())
	ddb.pageSize = 2
	repo := NewPurchaseDynamoRepository(ddb, "purchases")

	// Keys sort a..e while updates run the other way round.
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		updated := repoNow.Add(time.Duration(5-i) * time.Minute)
		if err := repo.Create(ctx, entities.Purchase{OrderID: id, State: entities.PurchaseStateEnrolled, Amount: decimal.NewFromInt(1), CreatedAt: updated, UpdatedAt: updated}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	got, err := repo.ListByState(ctx, entities.PurchaseStateEnrolled, repoNow.Add(time.Hour), 3)
	if err != nil || len(got) != 3 || got[0].OrderID != "e" || got[1].OrderID != "d" || got[2].OrderID != "c" {
		t.Fatalf("expected e, d, c, got %+v err=%v", got, err)
	}
	stale, _ := repo.ListByState(ctx, entities.PurchaseStateEnrolled, repoNow.Add(2*time.Minute), 0)
	if len(stale) != 2 || stale[0].OrderID != "e" || stale[1].OrderID != "d" {
		t.Fatalf("expected purchases updated up to the cutoff, got %+v", stale)
	}
}

func TestCatalogDynamoRepositories(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDynamo(tableKeys())
	if err := put(ctx, ddb, "offerings", offeringItem{ID: "go-101", Title: "Go 101", Price: "299.00", Active: true}, "", nil, nil); err != nil {
		t.Fatalf("seed offering: %v", err)
	}
	if err := put(ctx, ddb, "coupons", couponItem{ID: "PROMO100", Kind: "fixed", Value: "100", Active: true, ExpiresAt: "2026-12-31T23:59:59Z"}, "", nil, nil); err != nil {
		t.Fatalf("seed coupon: %v", err)
	}

	o, err := NewOfferingDynamoRepository(ddb, "offerings").GetByID(ctx, "go-101")
	if err != nil || !o.Price.Equal(decimal.NewFromInt(299)) || !o.Active {
		t.Fatalf("unexpected offering: %+v err=%v", o, err)
	}
	c, err := NewCouponDynamoRepository(ddb, "coupons").GetByID(ctx, "PROMO100")
	if err != nil || c.Kind != entities.CouponKindFixed || c.ExpiresAt == nil {
		t.Fatalf("unexpected coupon: %+v err=%v", c, err)
	}
	missing, err := NewCouponDynamoRepository(ddb, "coupons").GetByID(ctx, "NOPE")
	if err != nil || missing.ID != "" {
		t.Fatalf("expected zero coupon, got %+v err=%v", missing, err)
	}
}
