package usecase

import (
	"errors"
	"fmt"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
)

var ErrNoTaxAuthority = errors.New("no tax authority configured for mode")

// TaxAuthorityRegistry resolves the authority endpoint from an invoice's own
// mode, never from process configuration.
type TaxAuthorityRegistry struct {
	byMode map[entities.FiscalMode]interfaces.ITaxAuthority
}

func NewTaxAuthorityRegistry(authorities ...interfaces.ITaxAuthority) *TaxAuthorityRegistry {
	r := &TaxAuthorityRegistry{byMode: make(map[entities.FiscalMode]interfaces.ITaxAuthority, len(authorities))}
	for _, a := range authorities {
		if a == nil {
			continue
		}
		r.byMode[a.Mode()] = a
	}
	return r
}

func (r *TaxAuthorityRegistry) For(mode entities.FiscalMode) (interfaces.ITaxAuthority, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTaxAuthority, mode)
	}
	a, ok := r.byMode[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTaxAuthority, mode)
	}
	return a, nil
}
