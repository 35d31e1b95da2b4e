package repository

import (
	"context"
	"sort"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
)

type ledgerItem struct {
	ReferenceKey    string `dynamodbav:"reference_key"`
	ID              string `dynamodbav:"id"`
	Description     string `dynamodbav:"description"`
	Type            string `dynamodbav:"type"`
	Amount          string `dynamodbav:"amount"`
	TransactionDate string `dynamodbav:"transaction_date"`
	ReferenceID     string `dynamodbav:"reference_id"`
	ReferenceType   string `dynamodbav:"reference_type"`
	Notes           string `dynamodbav:"notes,omitempty"`
	RecordedAt      string `dynamodbav:"recorded_at"`
}

// LedgerDynamoRepository is the append-only ledger log.
//
// Table requirements:
//   - PK: reference_key (string) = reference_type#reference_id#type
//
// Items are only ever inserted; the repository exposes no update or delete.
type LedgerDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.ILedgerRepository = (*LedgerDynamoRepository)(nil)

func NewLedgerDynamoRepository(ddb dynamoAPI, tableName string) *LedgerDynamoRepository {
	return &LedgerDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *LedgerDynamoRepository) Append(ctx context.Context, entry entities.RecordedEntry) error {
	return insert(ctx, r.ddb, r.tableName, toLedgerItem(entry), "reference_key")
}

func (r *LedgerDynamoRepository) GetByReference(ctx context.Context, referenceKey string) (entities.RecordedEntry, error) {
	it, found, err := getItem[ledgerItem](ctx, r.ddb, r.tableName, "reference_key", referenceKey)
	if err != nil || !found {
		return entities.RecordedEntry{}, err
	}
	return fromLedgerItem(it), nil
}

// List filters a full scan; ordering is by transaction date.
func (r *LedgerDynamoRepository) List(ctx context.Context, filter entities.LedgerFilter) ([]entities.RecordedEntry, error) {
	out := make([]entities.RecordedEntry, 0)
	err := r.Scan(ctx, func(e entities.RecordedEntry) error {
		if filter.Matches(e.LedgerEntry) {
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TransactionDate.Before(out[j].TransactionDate) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *LedgerDynamoRepository) Scan(ctx context.Context, fn func(entities.RecordedEntry) error) error {
	return scanAll(ctx, r.ddb, r.tableName, func(it ledgerItem) error {
		return fn(fromLedgerItem(it))
	})
}

func toLedgerItem(e entities.RecordedEntry) ledgerItem {
	return ledgerItem{
		ReferenceKey:    e.ReferenceKey(),
		ID:              e.ID,
		Description:     e.Description,
		Type:            string(e.Type),
		Amount:          e.Amount.String(),
		TransactionDate: formatTime(e.TransactionDate),
		ReferenceID:     e.ReferenceID,
		ReferenceType:   e.ReferenceType,
		Notes:           e.Notes,
		RecordedAt:      formatTime(e.RecordedAt),
	}
}

func fromLedgerItem(it ledgerItem) entities.RecordedEntry {
	return entities.RecordedEntry{
		LedgerEntry: entities.LedgerEntry{
			ID:              it.ID,
			Description:     it.Description,
			Type:            entities.LedgerEntryType(it.Type),
			Amount:          parseDecimal(it.Amount),
			TransactionDate: parseTime(it.TransactionDate),
			ReferenceID:     it.ReferenceID,
			ReferenceType:   it.ReferenceType,
			Notes:           it.Notes,
		},
		RecordedAt: parseTime(it.RecordedAt),
	}
}
