// Package invite manages the invitation token lifecycle:
// PENDING -> CONSUMED on redemption, PENDING -> EXPIRED by clock. Both end
// states are terminal; EXPIRED is derived, never stored.
package invite

import (
	"context"
	"log"
	"net/url"
	"time"

	"seva-backend/internal/models"
)

const DefaultTTL = 48 * time.Hour

type Store interface {
	CreateInvitation(ctx context.Context, orgID, invitedByID string, input models.CreateInvitationInput, expiresAt time.Time) (*models.Invitation, error)
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
	RedeemInvitation(ctx context.Context, token, userID string, now time.Time) (*models.Membership, error)
}

// Notification is handed to the notifier; delivery failure never affects
// the invitation itself.
type Notification struct {
	Email            string
	OrganizationName string
	Role             models.Role
	AcceptURL        string
}

type Notifier interface {
	SendInvitation(ctx context.Context, n Notification) error
}

type Manager struct {
	store    Store
	notifier Notifier
	baseURL  string
	ttl      time.Duration
	clock    func() time.Time
}

func NewManager(store Store, notifier Notifier, baseURL string) *Manager {
	return &Manager{
		store:    store,
		notifier: notifier,
		baseURL:  baseURL,
		ttl:      DefaultTTL,
		clock:    time.Now,
	}
}

// Issue creates a PENDING invitation with a fresh token and fires the
// notification. The token is returned to the issuer exactly once; the link
// stays shareable even when delivery fails.
func (m *Manager) Issue(ctx context.Context, orgID, invitedByID string, input models.CreateInvitationInput) (*models.CreateInvitationResponse, error) {
	org, err := m.store.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	expiresAt := m.clock().Add(m.ttl).UTC()
	inv, err := m.store.CreateInvitation(ctx, orgID, invitedByID, input, expiresAt)
	if err != nil {
		return nil, err
	}

	acceptURL := m.AcceptURL(inv.Token)
	if m.notifier != nil {
		err := m.notifier.SendInvitation(ctx, Notification{
			Email:            inv.Email,
			OrganizationName: org.Name,
			Role:             inv.Role,
			AcceptURL:        acceptURL,
		})
		if err != nil {
			log.Printf("WARN invitation notification failed org_id=%s email=%s: %v", orgID, inv.Email, err)
		}
	}

	return &models.CreateInvitationResponse{
		Invitation: *inv,
		Token:      inv.Token,
		AcceptURL:  acceptURL,
	}, nil
}

// Redeem consumes the token for userID. The store performs the
// consumed-mark and membership write atomically; concurrent redeemers
// beyond the first get storage.ErrTokenAlreadyUsed.
func (m *Manager) Redeem(ctx context.Context, token, userID string) (*models.Membership, error) {
	return m.store.RedeemInvitation(ctx, token, userID, m.clock().UTC())
}

// AcceptURL builds the redemption link embedded in shared messages.
func (m *Manager) AcceptURL(token string) string {
	return m.baseURL + "/accept-invite?token=" + url.QueryEscape(token)
}
