package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"checkout_service/internal/adapter/persistence/memory"
	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
	mock_interfaces "checkout_service/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

var ledgerNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func incomeEntry(ref string, amount string, at time.Time) entities.LedgerEntry {
	return entities.LedgerEntry{
		Description:     "Enrollment payment",
		Type:            entities.LedgerEntryIncome,
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: at,
		ReferenceID:     ref,
		ReferenceType:   entities.LedgerReferenceEnrollment,
	}
}

func TestLedgerUseCase_Record(t *testing.T) {
	t.Run("invalid entry", func(t *testing.T) {
		uc := NewLedgerUseCase(nil, nil)
		entry := incomeEntry("enr-1", "0", ledgerNow)
		_, err := uc.Record(context.Background(), entry)
		if !errors.Is(err, entities.ErrLedgerNonPositive) || entities.KindOf(err) != entities.ErrorKindInvalidRequest {
			t.Fatalf("expected invalid request, got %v", err)
		}
	})

	t.Run("duplicate reference", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockILedgerRepository(ctrl)
		uc := NewLedgerUseCase(repo, nil)

		repo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(interfaces.ErrConditionFailed)
		_, err := uc.Record(context.Background(), incomeEntry("enr-1", "10", ledgerNow))
		if entities.KindOf(err) != entities.ErrorKindDuplicate {
			t.Fatalf("expected duplicate, got %v", err)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockILedgerRepository(ctrl)
		uc := NewLedgerUseCase(repo, nil)

		repo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("throttled"))
		_, err := uc.Record(context.Background(), incomeEntry("enr-1", "10", ledgerNow))
		if entities.KindOf(err) != entities.ErrorKindStorageUnavailable || !entities.IsRetryable(err) {
			t.Fatalf("expected retryable storage error, got %v", err)
		}
	})

	t.Run("assigns id and timestamp", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockILedgerRepository(ctrl)
		uc := NewLedgerUseCase(repo, nil).WithClock(func() time.Time { return ledgerNow })

		repo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
		got, err := uc.Record(context.Background(), incomeEntry("enr-1", "10", ledgerNow))
		if err != nil || got.ID == "" || !got.RecordedAt.Equal(ledgerNow) {
			t.Fatalf("unexpected result: %+v err=%v", got, err)
		}
	})
}

func TestLedgerUseCase_StatsOverMemoryLog(t *testing.T) {
	ctx := context.Background()
	uc := NewLedgerUseCase(memory.NewLedgerRepository(), nil).WithClock(func() time.Time { return ledgerNow })

	mustRecord := func(e entities.LedgerEntry) {
		t.Helper()
		if _, err := uc.Record(ctx, e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	mustRecord(incomeEntry("enr-1", "299.00", ledgerNow.Add(-time.Hour)))
	mustRecord(incomeEntry("enr-2", "399.00", ledgerNow.Add(24*time.Hour)))
	expense := incomeEntry("inv-1", "50.00", ledgerNow.Add(-time.Hour))
	expense.Type = entities.LedgerEntryExpense
	expense.ReferenceType = "supplier_invoice"
	mustRecord(expense)
	refund := incomeEntry("enr-1", "20.00", ledgerNow.Add(-time.Minute))
	refund.Type = entities.LedgerEntryRefund
	mustRecord(refund)

	if _, err := uc.Record(ctx, incomeEntry("enr-1", "299.00", ledgerNow)); entities.KindOf(err) != entities.ErrorKindDuplicate {
		t.Fatalf("expected duplicate income refused, got %v", err)
	}

	stats, err := uc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := entities.LedgerStats{
		TotalReceivables:   decimal.RequireFromString("698.00"),
		TotalPayables:      decimal.RequireFromString("70.00"),
		CurrentBalance:     decimal.RequireFromString("229.00"),
		PendingReceivables: decimal.RequireFromString("399.00"),
		PendingPayables:    decimal.Zero,
	}
	if !stats.Equal(want) {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	entry, found, err := uc.FindByReference(ctx, entities.LedgerReferenceEnrollment, "enr-1", entities.LedgerEntryRefund)
	if err != nil || !found || !entry.Amount.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("expected refund entry, got %+v found=%v err=%v", entry, found, err)
	}
	incomes, _ := uc.List(ctx, entities.LedgerFilter{Type: entities.LedgerEntryIncome})
	if len(incomes) != 2 {
		t.Fatalf("expected two income entries, got %d", len(incomes))
	}
}
