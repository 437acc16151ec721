// Package policy decides whether a principal may act on an owned resource.
// It must be consulted before any write reaches the repository.
package policy

import (
	"fmt"

	"github.com/whiskerworks/cats-api/internal/core/domain"
)

// Action is an operation gated by ownership.
type Action string

const (
	ActionReadOwn     Action = "read_own"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionChangeOwner Action = "change_owner"
)

// Authorize returns nil when p may perform action on a resource owned by
// ownerID, domain.ErrUnauthenticated when there is no principal, and
// domain.ErrForbidden otherwise.
//
//	read_own      any authenticated principal; callers filter by p.ID
//	update/delete admin, or p.ID == ownerID
//	change_owner  admin only
func Authorize(p *domain.Principal, action Action, ownerID string) error {
	if p == nil || p.ID == "" {
		return domain.ErrUnauthenticated
	}

	switch action {
	case ActionReadOwn:
		return nil
	case ActionUpdate, ActionDelete:
		if p.IsAdmin() || p.ID == ownerID {
			return nil
		}
	case ActionChangeOwner:
		if p.IsAdmin() {
			return nil
		}
	default:
		return fmt.Errorf("%w: unknown action %q", domain.ErrForbidden, action)
	}

	return domain.ErrForbidden
}
