package interfaces

import (
	"context"

	"checkout_service/internal/domain/entities"
)

// ILedgerReader is the read side of the append-only ledger.
type ILedgerReader interface {
	GetByReference(ctx context.Context, referenceKey string) (entities.RecordedEntry, error)
	List(ctx context.Context, filter entities.LedgerFilter) ([]entities.RecordedEntry, error)
	// Scan streams every entry to fn; it stops at the first error fn returns.
	Scan(ctx context.Context, fn func(entities.RecordedEntry) error) error
}

// ILedgerRepository has no update or delete: entries are immutable once appended.
type ILedgerRepository interface {
	ILedgerReader
	// Append fails with ErrConditionFailed when the reference key already exists.
	Append(ctx context.Context, entry entities.RecordedEntry) error
}
