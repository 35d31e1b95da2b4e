package usecase

import (
	"errors"
	"strings"

	"checkout_service/internal/domain/entities"
)

var (
	ErrCapabilityRequired = errors.New("administrative capability required")
	ErrRoleNotAllowed     = errors.New("role not allowed for administrative operations")
)

// AdminCapability authorizes ledger and invoice administration. It can only be
// minted by GrantAdminCapability; the zero value authorizes nothing.
type AdminCapability struct {
	actorID string
	role    string
}

// GrantAdminCapability mints a capability when one of roles is allowed.
func GrantAdminCapability(actorID string, roles []string, allowed []string) (AdminCapability, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return AdminCapability{}, ErrCapabilityRequired
	}
	for _, r := range roles {
		r = strings.ToLower(strings.TrimSpace(r))
		for _, a := range allowed {
			if r != "" && r == strings.ToLower(strings.TrimSpace(a)) {
				return AdminCapability{actorID: actorID, role: r}, nil
			}
		}
	}
	return AdminCapability{}, ErrRoleNotAllowed
}

func (c AdminCapability) ActorID() string { return c.actorID }
func (c AdminCapability) Role() string    { return c.role }

func (c AdminCapability) check() error {
	if c.actorID == "" {
		return entities.NewPipelineError(entities.ErrorKindPreconditionFailed, ErrCapabilityRequired)
	}
	return nil
}
