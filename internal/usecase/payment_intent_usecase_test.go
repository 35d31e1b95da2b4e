package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
	mock_interfaces "checkout_service/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

var intentNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

type intentMocks struct {
	repo    *mock_interfaces.MockIPaymentIntentRepository
	idem    *mock_interfaces.MockIIdempotencyStore
	gateway *mock_interfaces.MockIPaymentGateway
}

func newIntentUseCase(ctrl *gomock.Controller) (*PaymentIntentUseCase, intentMocks) {
	m := intentMocks{
		repo:    mock_interfaces.NewMockIPaymentIntentRepository(ctrl),
		idem:    mock_interfaces.NewMockIIdempotencyStore(ctrl),
		gateway: mock_interfaces.NewMockIPaymentGateway(ctrl),
	}
	uc := NewPaymentIntentUseCase(m.repo, m.idem, m.gateway, DefaultPaymentIntentSettings(), nil, nil)
	return uc.WithClock(func() time.Time { return intentNow }), m
}

func pixPurchase() entities.PurchaseRequest {
	return entities.PurchaseRequest{
		Purchaser:  entities.Purchaser{ID: "stu-1", Name: "Ana", TaxID: "12345678909"},
		Amount:     decimal.RequireFromString("299.00"),
		Instrument: entities.InstrumentPix,
		OfferingID: "go-101",
	}
}

func TestPaymentIntentUseCase_CreateIntent_Validations(t *testing.T) {
	uc := NewPaymentIntentUseCase(nil, nil, nil, DefaultPaymentIntentSettings(), nil, nil)

	t.Run("pix with installments", func(t *testing.T) {
		req := pixPurchase()
		req.Installments = 2
		_, err := uc.CreateIntent(context.Background(), req)
		if !errors.Is(err, entities.ErrUnexpectedInstallments) || entities.KindOf(err) != entities.ErrorKindInvalidRequest {
			t.Fatalf("expected invalid request, got %v", err)
		}
	})

	t.Run("card with 13 installments", func(t *testing.T) {
		req := pixPurchase()
		req.Instrument = entities.InstrumentCreditCard
		req.Card = &entities.CardData{Token: "tok", PaymentMethodID: "visa"}
		req.Installments = 13
		_, err := uc.CreateIntent(context.Background(), req)
		if !errors.Is(err, entities.ErrInstallmentsOutOfRange) {
			t.Fatalf("expected ErrInstallmentsOutOfRange, got %v", err)
		}
	})

	t.Run("boleto with card data", func(t *testing.T) {
		req := pixPurchase()
		req.Instrument = entities.InstrumentBoleto
		req.Card = &entities.CardData{Token: "tok", PaymentMethodID: "visa"}
		_, err := uc.CreateIntent(context.Background(), req)
		if !errors.Is(err, entities.ErrUnexpectedCardData) {
			t.Fatalf("expected ErrUnexpectedCardData, got %v", err)
		}
	})
}

func TestPaymentIntentUseCase_CreateIntent_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc, m := newIntentUseCase(ctrl)

	var orderID string
	m.idem.EXPECT().Reserve(gomock.Any(), gomock.Any(), gomock.Any(), 30*time.Minute).DoAndReturn(func(_ context.Context, key, holder string, _ time.Duration) (string, bool, error) {
		orderID = holder
		return holder, true, nil
	})
	m.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req entities.ProcessorPaymentRequest) (entities.ProcessorPayment, error) {
		if req.OrderID != orderID || req.ExpiresAt == nil {
			t.Fatalf("unexpected request: %+v", req)
		}
		return entities.ProcessorPayment{Reference: "mp-1", Status: entities.ProcessorStatusPending, Payload: entities.PixPayload{QRCode: "qr"}}, nil
	})
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	intent, err := uc.CreateIntent(context.Background(), pixPurchase())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if intent.OrderID != orderID || intent.ProcessorReference != "mp-1" || intent.Status != entities.IntentStatusPending {
		t.Fatalf("unexpected intent: %+v", intent)
	}
	if intent.BusinessKey != pixPurchase().BusinessKey() {
		t.Fatal("business key not recorded")
	}
}

func TestPaymentIntentUseCase_CreateIntent_Duplicates(t *testing.T) {
	t.Run("live intent is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newIntentUseCase(ctrl)

		exp := intentNow.Add(10 * time.Minute)
		existing := entities.PaymentIntent{OrderID: "order-1", Instrument: entities.InstrumentPix, Status: entities.IntentStatusPending, ExpiresAt: &exp}
		m.idem.EXPECT().Reserve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("order-1", false, nil)
		m.repo.EXPECT().GetByOrderID(gomock.Any(), "order-1").Return(existing, nil)

		intent, err := uc.CreateIntent(context.Background(), pixPurchase())
		if err != nil || intent.OrderID != "order-1" {
			t.Fatalf("expected existing intent, got %+v err=%v", intent, err)
		}
	})

	t.Run("first submission still in flight", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newIntentUseCase(ctrl)

		m.idem.EXPECT().Reserve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("order-1", false, nil)
		m.repo.EXPECT().GetByOrderID(gomock.Any(), "order-1").Return(entities.PaymentIntent{}, nil)

		_, err := uc.CreateIntent(context.Background(), pixPurchase())
		if !errors.Is(err, ErrIntentCreationInProgress) || !entities.IsRetryable(err) {
			t.Fatalf("expected retryable in-progress error, got %v", err)
		}
	})

	t.Run("failed intent frees the key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newIntentUseCase(ctrl)

		dead := entities.PaymentIntent{OrderID: "order-1", Status: entities.IntentStatusFailed}
		gomock.InOrder(
			m.idem.EXPECT().Reserve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("order-1", false, nil),
			m.idem.EXPECT().Release(gomock.Any(), gomock.Any(), "order-1").Return(nil),
			m.idem.EXPECT().Reserve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _, holder string, _ time.Duration) (string, bool, error) {
				return holder, true, nil
			}),
		)
		m.repo.EXPECT().GetByOrderID(gomock.Any(), "order-1").Return(dead, nil)
		m.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(entities.ProcessorPayment{Reference: "mp-2", Status: entities.ProcessorStatusPending, Payload: entities.PixPayload{QRCode: "qr"}}, nil)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		intent, err := uc.CreateIntent(context.Background(), pixPurchase())
		if err != nil || intent.OrderID == "order-1" {
			t.Fatalf("expected a new intent, got %+v err=%v", intent, err)
		}
	})
}

func TestPaymentIntentUseCase_CreateIntent_ProcessorFailures(t *testing.T) {
	t.Run("network failure releases reservation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newIntentUseCase(ctrl)

		m.idem.EXPECT().Reserve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _, holder string, _ time.Duration) (string, bool, error) {
			return holder, true, nil
		})
		m.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(entities.ProcessorPayment{}, errors.New("dial tcp: connection reset"))
		m.idem.EXPECT().Release(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := uc.CreateIntent(context.Background(), pixPurchase())
		if entities.KindOf(err) != entities.ErrorKindUnreachable {
			t.Fatalf("expected unreachable, got %v", err)
		}
	})

	t.Run("bad request from processor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newIntentUseCase(ctrl)

		m.idem.EXPECT().Reserve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _, holder string, _ time.Duration) (string, bool, error) {
			return holder, true, nil
		})
		m.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(entities.ProcessorPayment{}, errors.New(`{"message":"invalid payer","error":"bad_request","status":400}`))
		m.idem.EXPECT().Release(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := uc.CreateIntent(context.Background(), pixPurchase())
		if entities.KindOf(err) != entities.ErrorKindInvalidRequest {
			t.Fatalf("expected invalid request, got %v", err)
		}
	})

	t.Run("payload for another instrument", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newIntentUseCase(ctrl)

		m.idem.EXPECT().Reserve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _, holder string, _ time.Duration) (string, bool, error) {
			return holder, true, nil
		})
		m.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(entities.ProcessorPayment{Reference: "mp-3", Status: entities.ProcessorStatusPending, Payload: entities.BoletoPayload{Barcode: "123"}}, nil)

		_, err := uc.CreateIntent(context.Background(), pixPurchase())
		if !errors.Is(err, ErrUnexpectedProcessorAnswer) {
			t.Fatalf("expected ErrUnexpectedProcessorAnswer, got %v", err)
		}
	})
}

func TestPaymentIntentUseCase_RefreshStatus(t *testing.T) {
	pending := func(expiresIn time.Duration) entities.PaymentIntent {
		exp := intentNow.Add(expiresIn)
		return entities.PaymentIntent{OrderID: "order-1", ProcessorReference: "mp-1", Instrument: entities.InstrumentPix, Status: entities.IntentStatusPending, BusinessKey: "bk", ExpiresAt: &exp}
	}

	t.Run("approved confirms", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newIntentUseCase(ctrl)

		m.repo.EXPECT().GetByOrderID(gomock.Any(), "order-1").Return(pending(time.Minute), nil)
		m.gateway.EXPECT().GetPayment(gomock.Any(), "mp-1").Return(entities.ProcessorPayment{Status: entities.ProcessorStatusApproved}, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), entities.IntentStatusPending).Return(nil)

		intent, err := uc.RefreshStatus(context.Background(), "order-1")
		if err != nil || intent.Status != entities.IntentStatusConfirmed || intent.ConfirmedAt == nil {
			t.Fatalf("unexpected result: %+v err=%v", intent, err)
		}
	})

	t.Run("expired intent never reaches the processor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newIntentUseCase(ctrl)

		m.repo.EXPECT().GetByOrderID(gomock.Any(), "order-1").Return(pending(-time.Second), nil)
		m.gateway.EXPECT().GetPayment(gomock.Any(), gomock.Any()).Times(0)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), entities.IntentStatusPending).Return(nil)
		m.idem.EXPECT().Release(gomock.Any(), gomock.Any(), "order-1").Return(nil)

		intent, err := uc.RefreshStatus(context.Background(), "order-1")
		if err != nil || intent.Status != entities.IntentStatusExpired {
			t.Fatalf("expected expired, got %+v err=%v", intent, err)
		}
	})

	t.Run("rejected fails and frees the key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newIntentUseCase(ctrl)

		m.repo.EXPECT().GetByOrderID(gomock.Any(), "order-1").Return(pending(time.Minute), nil)
		m.gateway.EXPECT().GetPayment(gomock.Any(), "mp-1").Return(entities.ProcessorPayment{Status: entities.ProcessorStatusCancelled}, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), entities.IntentStatusPending).Return(nil)
		m.idem.EXPECT().Release(gomock.Any(), gomock.Any(), "order-1").Return(nil)

		intent, err := uc.RefreshStatus(context.Background(), "order-1")
		if err != nil || intent.Status != entities.IntentStatusFailed {
			t.Fatalf("expected failed, got %+v err=%v", intent, err)
		}
	})

	t.Run("concurrent delivery wins", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newIntentUseCase(ctrl)

		confirmed := pending(time.Minute)
		confirmed.Status = entities.IntentStatusConfirmed
		gomock.InOrder(
			m.repo.EXPECT().GetByOrderID(gomock.Any(), "order-1").Return(pending(time.Minute), nil),
			m.repo.EXPECT().GetByOrderID(gomock.Any(), "order-1").Return(confirmed, nil),
		)
		m.gateway.EXPECT().GetPayment(gomock.Any(), "mp-1").Return(entities.ProcessorPayment{Status: entities.ProcessorStatusApproved}, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), entities.IntentStatusPending).Return(interfaces.ErrConditionFailed)

		intent, err := uc.RefreshStatus(context.Background(), "order-1")
		if err != nil || intent.Status != entities.IntentStatusConfirmed {
			t.Fatalf("expected stored confirmed intent, got %+v err=%v", intent, err)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newIntentUseCase(ctrl)

		m.repo.EXPECT().GetByOrderID(gomock.Any(), "nope").Return(entities.PaymentIntent{}, nil)
		_, err := uc.RefreshStatus(context.Background(), "nope")
		if !errors.Is(err, ErrPaymentIntentNotFound) || entities.KindOf(err) != entities.ErrorKindNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestPaymentIntentUseCase_ListExpired(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc, m := newIntentUseCase(ctrl)

	past := intentNow.Add(-time.Minute)
	future := intentNow.Add(time.Minute)
	m.repo.EXPECT().ListExpired(gomock.Any(), intentNow, int32(50)).Return([]entities.PaymentIntent{
		{OrderID: "a", Status: entities.IntentStatusPending, ExpiresAt: &past},
		{OrderID: "b", Status: entities.IntentStatusPending, ExpiresAt: &future},
		{OrderID: "c", Status: entities.IntentStatusPending},
	}, nil)

	got, err := uc.ListExpired(context.Background(), 50)
	if err != nil || len(got) != 1 || got[0].OrderID != "a" {
		t.Fatalf("expected only a, got %+v err=%v", got, err)
	}
}
