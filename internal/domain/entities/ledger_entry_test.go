package entities

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func entry(typ LedgerEntryType, amount string, date time.Time) RecordedEntry {
	return RecordedEntry{LedgerEntry: LedgerEntry{
		Type:            typ,
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: date,
		ReferenceType:   LedgerReferenceEnrollment,
		ReferenceID:     "ref",
	}}
}

func TestLedgerEntryValidate(t *testing.T) {
	base := entry(LedgerEntryIncome, "10", time.Now()).LedgerEntry
	cases := []struct {
		name   string
		mutate func(e *LedgerEntry)
		want   error
	}{
		{name: "valid", mutate: func(e *LedgerEntry) {}, want: nil},
		{name: "bad type", mutate: func(e *LedgerEntry) { e.Type = "gift" }, want: ErrLedgerInvalidType},
		{name: "zero amount", mutate: func(e *LedgerEntry) { e.Amount = decimal.Zero }, want: ErrLedgerNonPositive},
		{name: "negative amount", mutate: func(e *LedgerEntry) { e.Amount = decimal.NewFromInt(-1) }, want: ErrLedgerNonPositive},
		{name: "no reference", mutate: func(e *LedgerEntry) { e.ReferenceID = "" }, want: ErrLedgerMissingReference},
		{name: "no date", mutate: func(e *LedgerEntry) { e.TransactionDate = time.Time{} }, want: ErrLedgerMissingDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := base
			tc.mutate(&e)
			if err := e.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestComputeLedgerStats(t *testing.T) {
	asOf := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	past := asOf.Add(-24 * time.Hour)
	future := asOf.Add(24 * time.Hour)

	entries := []RecordedEntry{
		entry(LedgerEntryIncome, "299.00", past),
		entry(LedgerEntryIncome, "100.00", future),
		entry(LedgerEntryExpense, "50.00", past),
		entry(LedgerEntryRefund, "20.00", past),
		entry(LedgerEntryExpense, "30.00", future),
		entry(LedgerEntryTransfer, "1000.00", past),
	}

	stats := ComputeLedgerStats(entries, asOf)

	want := LedgerStats{
		TotalReceivables:   decimal.RequireFromString("399.00"),
		TotalPayables:      decimal.RequireFromString("100.00"),
		CurrentBalance:     decimal.RequireFromString("229.00"),
		PendingReceivables: decimal.RequireFromString("100.00"),
		PendingPayables:    decimal.RequireFromString("30.00"),
	}
	if !stats.Equal(want) {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}

	t.Run("entry dated exactly at asOf is settled", func(t *testing.T) {
		s := ComputeLedgerStats([]RecordedEntry{entry(LedgerEntryIncome, "10", asOf)}, asOf)
		if !s.CurrentBalance.Equal(decimal.NewFromInt(10)) || !s.PendingReceivables.IsZero() {
			t.Fatalf("unexpected stats %+v", s)
		}
	})

	t.Run("empty ledger", func(t *testing.T) {
		s := ComputeLedgerStats(nil, asOf)
		if !s.Equal(LedgerStats{}) {
			t.Fatalf("expected zero stats, got %+v", s)
		}
	})
}

func TestLedgerProjectionMatchesRecompute(t *testing.T) {
	asOf := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(42))
	types := []LedgerEntryType{LedgerEntryIncome, LedgerEntryExpense, LedgerEntryTransfer, LedgerEntryRefund}

	for round := 0; round < 20; round++ {
		projection := NewLedgerProjection(asOf)
		var log []RecordedEntry
		for i := 0; i < 50; i++ {
			cents := rng.Int63n(1_000_000) + 1
			offset := time.Duration(rng.Intn(240)-120) * time.Hour
			e := RecordedEntry{LedgerEntry: LedgerEntry{
				Type:            types[rng.Intn(len(types))],
				Amount:          decimal.New(cents, -2),
				TransactionDate: asOf.Add(offset),
				ReferenceType:   LedgerReferenceEnrollment,
				ReferenceID:     "ref",
			}}
			log = append(log, e)
			projection.Apply(e.LedgerEntry)

			if got, want := projection.Stats(), ComputeLedgerStats(log, asOf); !got.Equal(want) {
				t.Fatalf("round %d entry %d: incremental %+v != recomputed %+v", round, i, got, want)
			}
		}
		if projection.Count() != len(log) {
			t.Fatalf("expected count %d, got %d", len(log), projection.Count())
		}
	}
}

func TestLedgerFilterMatches(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	e := entry(LedgerEntryIncome, "1", day).LedgerEntry

	if !(LedgerFilter{}).Matches(e) {
		t.Fatalf("empty filter must match")
	}
	if (LedgerFilter{Type: LedgerEntryExpense}).Matches(e) {
		t.Fatalf("type filter must exclude income")
	}
	if (LedgerFilter{From: day.Add(time.Hour)}).Matches(e) {
		t.Fatalf("from filter must exclude earlier entries")
	}
	if !(LedgerFilter{From: day, To: day}).Matches(e) {
		t.Fatalf("bounds are inclusive")
	}
}

func TestLedgerReferenceKey(t *testing.T) {
	e := entry(LedgerEntryIncome, "1", time.Now()).LedgerEntry
	if e.ReferenceKey() != "enrollment#ref#income" {
		t.Fatalf("unexpected key %s", e.ReferenceKey())
	}
}
