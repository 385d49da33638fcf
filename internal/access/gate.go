// Package access answers membership and role questions for one caller
// against one organization. It fails closed: any state it cannot prove
// is a denial.
package access

import (
	"context"
	"errors"
	"fmt"

	"seva-backend/internal/models"
	"seva-backend/internal/storage"
)

var (
	ErrUnauthenticated = errors.New("no caller identity")
	ErrNotAMember      = errors.New("caller is not an active member")
	ErrForbidden       = errors.New("caller role not allowed for this operation")
)

type MembershipStore interface {
	GetActiveMembership(ctx context.Context, orgID, userID string) (*models.Membership, error)
}

type Gate struct {
	store MembershipStore
}

func NewGate(store MembershipStore) *Gate {
	return &Gate{store: store}
}

// CheckMembership reports whether callerID holds a non-archived membership
// in orgID. Read-only; callers invoke it before any mutation reaches the
// tenant gateway.
func (g *Gate) CheckMembership(ctx context.Context, callerID, orgID string) (*models.Membership, error) {
	if callerID == "" {
		return nil, ErrUnauthenticated
	}

	m, err := g.store.GetActiveMembership(ctx, orgID, callerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotAMember
		}
		return nil, fmt.Errorf("membership lookup org_id=%s: %w", orgID, err)
	}
	return m, nil
}

// RequireRole additionally checks the membership role against the allowed
// set. The four roles are never ordered; each call site passes the exact
// set it accepts.
func (g *Gate) RequireRole(ctx context.Context, callerID, orgID string, allowed ...models.Role) (*models.Membership, error) {
	m, err := g.CheckMembership(ctx, callerID, orgID)
	if err != nil {
		return nil, err
	}

	for _, role := range allowed {
		if m.Role == role {
			return m, nil
		}
	}
	return nil, ErrForbidden
}
