package request

import (
	"errors"
	"strings"
	"time"

	"checkout_service/internal/domain/entities"
)

var ErrInvalidDate = errors.New("dates must be RFC3339 or YYYY-MM-DD")

type LedgerListQuery struct {
	Type          string `form:"type" binding:"omitempty,oneof=income expense transfer refund"`
	ReferenceType string `form:"reference_type"`
	From          string `form:"from"`
	To            string `form:"to"`
	Limit         int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

func (q LedgerListQuery) ToFilter() (entities.LedgerFilter, error) {
	from, err := parseDate(q.From, false)
	if err != nil {
		return entities.LedgerFilter{}, err
	}
	to, err := parseDate(q.To, true)
	if err != nil {
		return entities.LedgerFilter{}, err
	}
	return entities.LedgerFilter{
		Type:          entities.LedgerEntryType(q.Type),
		ReferenceType: strings.TrimSpace(q.ReferenceType),
		From:          from,
		To:            to,
		Limit:         q.Limit,
	}, nil
}

// parseDate reads a bare date as the start of the day, or as its last instant
// when endOfDay is set.
func parseDate(v string, endOfDay bool) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
