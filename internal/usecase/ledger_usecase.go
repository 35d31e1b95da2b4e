package usecase

import (
	"context"
	"errors"
	"time"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
	"checkout_service/pkg/logger"

	"github.com/google/uuid"
)

// ILedgerUseCase is the ledger recorder. It only appends; reads go through
// the projection.
type ILedgerUseCase interface {
	Record(ctx context.Context, entry entities.LedgerEntry) (entities.RecordedEntry, error)
	FindByReference(ctx context.Context, referenceType, referenceID string, entryType entities.LedgerEntryType) (entities.RecordedEntry, bool, error)
	List(ctx context.Context, filter entities.LedgerFilter) ([]entities.RecordedEntry, error)
	Stats(ctx context.Context) (entities.LedgerStats, error)
}

type LedgerUseCase struct {
	repo interfaces.ILedgerRepository
	log  *logger.Logger
	now  func() time.Time
}

var _ ILedgerUseCase = (*LedgerUseCase)(nil)

func NewLedgerUseCase(repo interfaces.ILedgerRepository, log *logger.Logger) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (u *LedgerUseCase) WithClock(now func() time.Time) *LedgerUseCase {
	u.now = now
	return u
}

func (u *LedgerUseCase) Record(ctx context.Context, entry entities.LedgerEntry) (entities.RecordedEntry, error) {
	if err := entry.Validate(); err != nil {
		return entities.RecordedEntry{}, entities.NewLedgerError(entities.ErrorKindInvalidRequest, err)
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	recorded := entities.RecordedEntry{LedgerEntry: entry, RecordedAt: u.now()}
	ctx = u.log.WithFields(ctx, map[string]any{
		"component":     "ledger.usecase",
		"reference_key": entry.ReferenceKey(),
		"amount":        entry.Amount.StringFixed(2),
	})

	err := u.repo.Append(ctx, recorded)
	if errors.Is(err, interfaces.ErrConditionFailed) {
		u.log.Info(ctx, "ledger entry already recorded for reference")
		return entities.RecordedEntry{}, entities.NewLedgerError(entities.ErrorKindDuplicate, err)
	}
	if err != nil {
		u.log.Error(ctx, "append ledger entry failed", err)
		return entities.RecordedEntry{}, entities.NewLedgerError(entities.ErrorKindStorageUnavailable, err)
	}
	u.log.Info(ctx, "ledger entry recorded")
	return recorded, nil
}

func (u *LedgerUseCase) FindByReference(ctx context.Context, referenceType, referenceID string, entryType entities.LedgerEntryType) (entities.RecordedEntry, bool, error) {
	entry, err := u.repo.GetByReference(ctx, entities.LedgerReferenceKey(referenceType, referenceID, entryType))
	if err != nil {
		return entities.RecordedEntry{}, false, entities.NewLedgerError(entities.ErrorKindStorageUnavailable, err)
	}
	return entry, entry.ID != "", nil
}

func (u *LedgerUseCase) List(ctx context.Context, filter entities.LedgerFilter) ([]entities.RecordedEntry, error) {
	entries, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, entities.NewLedgerError(entities.ErrorKindStorageUnavailable, err)
	}
	return entries, nil
}

// Stats folds the whole log at the current instant.
func (u *LedgerUseCase) Stats(ctx context.Context) (entities.LedgerStats, error) {
	projection := entities.NewLedgerProjection(u.now())
	err := u.repo.Scan(ctx, func(e entities.RecordedEntry) error {
		projection.Apply(e.LedgerEntry)
		return nil
	})
	if err != nil {
		return entities.LedgerStats{}, entities.NewLedgerError(entities.ErrorKindStorageUnavailable, err)
	}
	return projection.Stats(), nil
}
