package response

import (
	"testing"
	"time"

	"checkout_service/internal/domain/entities"

	"github.com/shopspring/decimal"
)

func TestFromIntent(t *testing.T) {
	t.Run("pix intent carries the qr code", func(t *testing.T) {
		exp := time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)
		intent := entities.PaymentIntent{
			OrderID:    "o-1",
			Instrument: entities.InstrumentPix,
			Status:     entities.IntentStatusPending,
			Amount:     decimal.RequireFromString("299"),
			ExpiresAt:  &exp,
		}
		_ = intent.SetPayload(entities.PixPayload{QRCode: "000201"})

		got := FromIntent(intent)
		if got.State != string(entities.PurchaseStateIntentCreated) || got.Amount != "299.00" {
			t.Fatalf("unexpected response: %+v", got)
		}
		if got.Payment == nil || got.Payment.QRCode != "000201" || got.ExpiresAt == nil {
			t.Fatalf("expected pix instructions, got %+v", got.Payment)
		}
	})

	t.Run("approved card shows the installments", func(t *testing.T) {
		intent := entities.PaymentIntent{OrderID: "o-2", Instrument: entities.InstrumentCreditCard, Status: entities.IntentStatusConfirmed, Amount: decimal.RequireFromString("399.2")}
		_ = intent.SetPayload(entities.CardPayload{Brand: "visa", Installments: 3})

		got := FromIntent(intent)
		if got.State != string(entities.PurchaseStatePaymentConfirmed) || got.Payment == nil || got.Payment.Installments != 3 {
			t.Fatalf("unexpected response: %+v", got)
		}
	})
}

func TestFromPurchase_FailedPurchaseHidesInstructions(t *testing.T) {
	intent := entities.PaymentIntent{OrderID: "o-3", Instrument: entities.InstrumentBoleto, Status: entities.IntentStatusExpired}
	_ = intent.SetPayload(entities.BoletoPayload{Barcode: "2379"})
	p := entities.Purchase{OrderID: "o-3", Instrument: entities.InstrumentBoleto, State: entities.PurchaseStatePaymentExpired, Amount: decimal.NewFromInt(150)}

	got := FromPurchase(p, intent, "payment window expired")
	if got.Payment != nil || got.Message != "payment window expired" || got.PaymentStatus != "expired" {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestFromPurchaseDetails(t *testing.T) {
	entry := entities.RecordedEntry{LedgerEntry: entities.LedgerEntry{ID: "le-1", Type: entities.LedgerEntryIncome, Amount: decimal.NewFromInt(299)}}
	enrollment := entities.Enrollment{ID: "enr-1", PaymentAmount: decimal.NewFromInt(299), OriginalAmount: decimal.NewFromInt(299), DiscountAmount: decimal.Zero}
	invoices := []entities.FiscalInvoice{{ID: "enr-1-1", Status: entities.FiscalStatusAuthorized, Amount: decimal.NewFromInt(299)}}

	got := FromPurchaseDetails(entities.Purchase{OrderID: "o-1", State: entities.PurchaseStateInvoiceIssued}, entities.PaymentIntent{}, &entry, &enrollment, invoices)
	if got.LedgerEntry == nil || got.LedgerEntry.Amount != "299.00" {
		t.Fatalf("unexpected ledger entry: %+v", got.LedgerEntry)
	}
	if got.Enrollment == nil || got.Enrollment.DiscountAmount != "0.00" {
		t.Fatalf("unexpected enrollment: %+v", got.Enrollment)
	}
	if len(got.Invoices) != 1 || got.Invoices[0].Status != "authorized" {
		t.Fatalf("unexpected invoices: %+v", got.Invoices)
	}

	empty := FromPurchaseDetails(entities.Purchase{OrderID: "o-2"}, entities.PaymentIntent{}, nil, nil, nil)
	if empty.LedgerEntry != nil || empty.Enrollment != nil || empty.Invoices == nil {
		t.Fatalf("expected empty non-nil invoice list, got %+v", empty)
	}
}
