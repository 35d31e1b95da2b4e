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

func confirmedIntent(amount string) entities.PaymentIntent {
	return entities.PaymentIntent{
		OrderID:    "order-1",
		Instrument: entities.InstrumentPix,
		Status:     entities.IntentStatusConfirmed,
		Amount:     decimal.RequireFromString(amount),
		Purchaser:  entities.Purchaser{ID: "stu-1"},
		OfferingID: "k8s-pro",
	}
}

func k8sOffering() entities.Offering {
	return entities.Offering{ID: "k8s-pro", Title: "Kubernetes Pro", Price: decimal.RequireFromString("499.00"), Active: true}
}

func TestEnrollmentUseCase_Provision(t *testing.T) {
	t.Run("intent not confirmed", func(t *testing.T) {
		uc := NewEnrollmentUseCase(nil, nil)
		intent := confirmedIntent("499.00")
		intent.Status = entities.IntentStatusPending
		_, err := uc.Provision(context.Background(), ProvisionInput{Intent: intent, Offering: k8sOffering()})
		if !errors.Is(err, ErrIntentNotConfirmed) || entities.KindOf(err) != entities.ErrorKindPreconditionFailed {
			t.Fatalf("expected precondition failed, got %v", err)
		}
	})

	t.Run("discount arithmetic with percent coupon", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEnrollmentRepository(ctrl)
		uc := NewEnrollmentUseCase(repo, nil)

		coupon := &entities.Coupon{ID: "C20", Kind: entities.CouponKindPercent, Value: decimal.NewFromInt(20), Active: true}
		id := entities.EnrollmentIDForIntent("order-1")
		repo.EXPECT().GetByID(gomock.Any(), id).Return(entities.Enrollment{}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		got, err := uc.Provision(context.Background(), ProvisionInput{Intent: confirmedIntent("399.20"), Offering: k8sOffering(), Coupon: coupon})
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if !got.DiscountAmount.Equal(decimal.RequireFromString("99.80")) || got.ID != id || got.Status != entities.EnrollmentStatusPaid {
			t.Fatalf("unexpected enrollment: %+v", got)
		}
		if !got.OriginalAmount.Sub(got.DiscountAmount).Equal(got.PaymentAmount) {
			t.Fatal("original - discount must equal payment")
		}
	})

	t.Run("negative discount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEnrollmentRepository(ctrl)
		uc := NewEnrollmentUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(entities.Enrollment{}, nil)
		_, err := uc.Provision(context.Background(), ProvisionInput{Intent: confirmedIntent("500.00"), Offering: k8sOffering()})
		if !errors.Is(err, ErrNegativeDiscount) || entities.KindOf(err) != entities.ErrorKindInvalidDiscount {
			t.Fatalf("expected invalid discount, got %v", err)
		}
	})

	t.Run("discount without coupon", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEnrollmentRepository(ctrl)
		uc := NewEnrollmentUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(entities.Enrollment{}, nil)
		_, err := uc.Provision(context.Background(), ProvisionInput{Intent: confirmedIntent("399.00"), Offering: k8sOffering()})
		if !errors.Is(err, ErrDiscountNotCovered) {
			t.Fatalf("expected ErrDiscountNotCovered, got %v", err)
		}
	})

	t.Run("expired coupon still honours the paid discount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEnrollmentRepository(ctrl)
		uc := NewEnrollmentUseCase(repo, nil)

		expired := time.Now().Add(-time.Hour)
		coupon := &entities.Coupon{ID: "OFF100", Kind: entities.CouponKindFixed, Value: decimal.NewFromInt(100), Active: false, ExpiresAt: &expired}
		repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(entities.Enrollment{}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		got, err := uc.Provision(context.Background(), ProvisionInput{Intent: confirmedIntent("399.00"), Offering: k8sOffering(), Coupon: coupon})
		if err != nil || !got.DiscountAmount.Equal(decimal.NewFromInt(100)) {
			t.Fatalf("unexpected result: %+v err=%v", got, err)
		}
	})

	t.Run("second call returns the existing enrollment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEnrollmentRepository(ctrl)
		uc := NewEnrollmentUseCase(repo, nil)

		existing := entities.Enrollment{ID: entities.EnrollmentIDForIntent("order-1"), IntentID: "order-1"}
		repo.EXPECT().GetByID(gomock.Any(), existing.ID).Return(existing, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		got, err := uc.Provision(context.Background(), ProvisionInput{Intent: confirmedIntent("499.00"), Offering: k8sOffering()})
		if err != nil || got.ID != existing.ID {
			t.Fatalf("expected existing enrollment, got %+v err=%v", got, err)
		}
	})

	t.Run("quote taken at submission wins over the current price", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEnrollmentRepository(ctrl)
		uc := NewEnrollmentUseCase(repo, nil)

		repriced := k8sOffering()
		repriced.Price = decimal.RequireFromString("599.00")
		quote := entities.PriceQuote{ListPrice: decimal.RequireFromString("499.00"), Discount: decimal.NewFromInt(100)}
		repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(entities.Enrollment{}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		got, err := uc.Provision(context.Background(), ProvisionInput{Intent: confirmedIntent("399.00"), Offering: repriced, Quote: quote})
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if !got.OriginalAmount.Equal(quote.ListPrice) || !got.DiscountAmount.Equal(decimal.NewFromInt(100)) {
			t.Fatalf("expected quoted price and discount, got %+v", got)
		}
	})

	t.Run("quote does not cover a larger discount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEnrollmentRepository(ctrl)
		uc := NewEnrollmentUseCase(repo, nil)

		quote := entities.PriceQuote{ListPrice: decimal.RequireFromString("499.00"), Discount: decimal.NewFromInt(50)}
		repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(entities.Enrollment{}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := uc.Provision(context.Background(), ProvisionInput{Intent: confirmedIntent("399.00"), Offering: k8sOffering(), Quote: quote})
		if !errors.Is(err, ErrDiscountNotCovered) || entities.KindOf(err) != entities.ErrorKindInvalidDiscount {
			t.Fatalf("expected discount not covered, got %v", err)
		}
	})

	t.Run("lost create race returns the winner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEnrollmentRepository(ctrl)
		uc := NewEnrollmentUseCase(repo, nil)

		id := entities.EnrollmentIDForIntent("order-1")
		winner := entities.Enrollment{ID: id, IntentID: "order-1", CreatedBy: "other-worker"}
		gomock.InOrder(
			repo.EXPECT().GetByID(gomock.Any(), id).Return(entities.Enrollment{}, nil),
			repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(interfaces.ErrConditionFailed),
			repo.EXPECT().GetByID(gomock.Any(), id).Return(winner, nil),
		)

		got, err := uc.Provision(context.Background(), ProvisionInput{Intent: confirmedIntent("499.00"), Offering: k8sOffering()})
		if err != nil || got.CreatedBy != "other-worker" {
			t.Fatalf("expected winner enrollment, got %+v err=%v", got, err)
		}
	})
}

func TestEnrollmentUseCase_GetByIntent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIEnrollmentRepository(ctrl)
	uc := NewEnrollmentUseCase(repo, nil)

	repo.EXPECT().GetByID(gomock.Any(), entities.EnrollmentIDForIntent("order-9")).Return(entities.Enrollment{}, nil)
	_, err := uc.GetByIntent(context.Background(), "order-9")
	if !errors.Is(err, ErrEnrollmentNotFound) || entities.KindOf(err) != entities.ErrorKindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
