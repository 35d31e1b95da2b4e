package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"checkout_service/internal/config"
	"checkout_service/internal/domain/entities"

	"github.com/shopspring/decimal"
)

func TestNewMercadoPagoGateway_MissingToken(t *testing.T) {
	_, err := NewMercadoPagoGateway(config.PaymentsConfig{}, nil)
	if !errors.Is(err, ErrMissingMercadoPagoAccessToken) {
		t.Fatalf("expected ErrMissingMercadoPagoAccessToken, got %v", err)
	}
}

func TestMercadoPagoGateway_Mock(t *testing.T) {
	g, err := NewMercadoPagoGateway(config.PaymentsConfig{Mock: "true"}, nil)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	ctx := context.Background()
	expires := time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)

	t.Run("pix stays pending until queried", func(t *testing.T) {
		p, err := g.CreatePayment(ctx, entities.ProcessorPaymentRequest{
			OrderID: "order-pix", Instrument: entities.InstrumentPix, Amount: decimal.RequireFromString("299.00"), ExpiresAt: &expires,
		})
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if p.IntentStatus() != entities.IntentStatusPending {
			t.Fatalf("expected pending, got %s", p.Status)
		}
		pix, ok := p.Payload.(entities.PixPayload)
		if !ok || pix.QRCode == "" {
			t.Fatalf("expected pix payload, got %#v", p.Payload)
		}
		got, err := g.GetPayment(ctx, p.Reference)
		if err != nil || got.IntentStatus() != entities.IntentStatusConfirmed {
			t.Fatalf("expected confirmed on query, got %+v err=%v", got, err)
		}
	})

	t.Run("card approved with installments", func(t *testing.T) {
		p, err := g.CreatePayment(ctx, entities.ProcessorPaymentRequest{
			OrderID: "order-card", Instrument: entities.InstrumentCreditCard, Amount: decimal.RequireFromString("399.00"),
			Card: &entities.CardData{Token: "tok", PaymentMethodID: "visa"}, Installments: 3,
		})
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		card, ok := p.Payload.(entities.CardPayload)
		if !ok || card.Installments != 3 || p.Status != entities.ProcessorStatusApproved {
			t.Fatalf("unexpected card answer: %+v", p)
		}
	})

	t.Run("boleto carries due date", func(t *testing.T) {
		p, err := g.CreatePayment(ctx, entities.ProcessorPaymentRequest{
			OrderID: "order-boleto", Instrument: entities.InstrumentBoleto, Amount: decimal.RequireFromString("299.00"), ExpiresAt: &expires,
		})
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		b, ok := p.Payload.(entities.BoletoPayload)
		if !ok || !b.DueDate.Equal(expires) || b.DigitableLine == "" {
			t.Fatalf("unexpected boleto payload: %#v", p.Payload)
		}
	})

	t.Run("unknown reference", func(t *testing.T) {
		if _, err := g.GetPayment(ctx, "nope"); !errors.Is(err, ErrInvalidProcessorReference) {
			t.Fatalf("expected ErrInvalidProcessorReference, got %v", err)
		}
	})
}

func TestNormalize(t *testing.T) {
	resp := map[string]any{
		"id":                 int64(123456),
		"status":             "pending",
		"status_detail":      "pending_waiting_payment",
		"payment_method_id":  "bolbradesco",
		"date_of_expiration": "2026-03-13T23:59:59Z",
		"transaction_details": map[string]any{
			"external_resource_url": "https://mp/ticket",
			"digitable_line":        "2379000009",
			"barcode":               map[string]any{"content": "23791"},
		},
	}
	got, err := normalize(instrumentFromMethod("bolbradesco"), resp)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	b, ok := got.Payload.(entities.BoletoPayload)
	if !ok || b.Barcode != "23791" || b.URL != "https://mp/ticket" || got.Reference != "123456" {
		t.Fatalf("unexpected normalized payment: %+v", got)
	}
	if got.ExpiresAt == nil || b.DueDate.Day() != 13 {
		t.Fatalf("expected due date from expiration, got %+v", got.ExpiresAt)
	}

	if _, err := normalize(entities.InstrumentPix, map[string]any{"status": "pending"}); err == nil {
		t.Fatal("expected error for answer without id")
	}
}

func TestBuildRequest(t *testing.T) {
	g := &MercadoPagoGateway{notificationURL: "https://hooks/mp"}
	body := g.buildRequest(entities.ProcessorPaymentRequest{
		OrderID:      "order-1",
		Instrument:   entities.InstrumentCreditCard,
		Amount:       decimal.RequireFromString("399.00"),
		Payer:        entities.Purchaser{Name: "Ana Maria Souza", Email: "ana@example.com", TaxID: "12345678901"},
		Card:         &entities.CardData{Token: "tok", PaymentMethodID: "master", IssuerID: "24"},
		Installments: 3,
	})
	if body["external_reference"] != "order-1" || body["installments"] != 3 || body["token"] != "tok" || body["issuer_id"] != "24" {
		t.Fatalf("unexpected body: %+v", body)
	}
	payer := body["payer"].(map[string]any)
	if payer["first_name"] != "Ana Maria" || payer["last_name"] != "Souza" {
		t.Fatalf("unexpected payer: %+v", payer)
	}
	if id := payer["identification"].(map[string]any); id["type"] != "CPF" {
		t.Fatalf("expected CPF identification, got %+v", id)
	}
}
