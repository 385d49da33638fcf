package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"seva-backend/internal/models"
)

const (
	// TokenPrefix makes invitation tokens recognizable in logs and links.
	TokenPrefix = "seva_inv_"
	// TokenBytes gives 128 bits of entropy.
	TokenBytes = 16
)

// GenerateInviteToken returns an opaque token: prefix + 32 hex chars.
func GenerateInviteToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return TokenPrefix + hex.EncodeToString(buf), nil
}

// CreateInvitation stores a PENDING invitation scoped to the tenant. The
// token column is unique across all organizations; the redemption lookup
// has no org context.
func (t *Tenant) CreateInvitation(ctx context.Context, invitedByID string, input models.CreateInvitationInput, expiresAt time.Time) (*models.Invitation, error) {
	token, err := GenerateInviteToken()
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO invitations (id, organization_id, email, role, token, event_id, invited_by_id, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, organization_id, email, role, token, event_id, invited_by_id, expires_at, consumed_at, created_at
	`

	var inv models.Invitation
	err = t.db.QueryRowContext(ctx, query,
		uuid.New().String(), t.orgID, input.Email, input.Role, token, input.EventID, invitedByID, expiresAt,
	).Scan(
		&inv.ID, &inv.OrganizationID, &inv.Email, &inv.Role, &inv.Token,
		&inv.EventID, &inv.InvitedByID, &inv.ExpiresAt, &inv.ConsumedAt, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (t *Tenant) ListInvitations(ctx context.Context) ([]models.Invitation, error) {
	invs := make([]models.Invitation, 0)
	query := `
		SELECT id, organization_id, email, role, token, event_id, invited_by_id, expires_at, consumed_at, created_at
		FROM invitations
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`
	if err := t.db.SelectContext(ctx, &invs, query, t.orgID); err != nil {
		return nil, err
	}
	return invs, nil
}

// CreateInvitation on Storage is the org-explicit form used by the
// invitation manager; it scopes through the tenant handle.
func (s *Storage) CreateInvitation(ctx context.Context, orgID, invitedByID string, input models.CreateInvitationInput, expiresAt time.Time) (*models.Invitation, error) {
	return s.Tenant(orgID).CreateInvitation(ctx, invitedByID, input, expiresAt)
}

// GetInvitationByToken is a system-wide lookup; redemption carries no
// organization context.
func (s *Storage) GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var inv models.Invitation
	query := `
		SELECT id, organization_id, email, role, token, event_id, invited_by_id, expires_at, consumed_at, created_at
		FROM invitations
		WHERE token = $1
	`
	if err := s.db.GetContext(ctx, &inv, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// RedeemInvitation consumes the token and creates (or reactivates) the
// membership in one transaction. The consumed_at mark is a conditional
// update, so exactly one of N concurrent redeemers wins; the rest get
// ErrTokenAlreadyUsed.
func (s *Storage) RedeemInvitation(ctx context.Context, token, userID string, now time.Time) (*models.Membership, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var inv models.Invitation
	err = tx.GetContext(ctx, &inv, `
		SELECT id, organization_id, email, role, token, event_id, invited_by_id, expires_at, consumed_at, created_at
		FROM invitations
		WHERE token = $1
	`, token)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	if inv.ConsumedAt != nil {
		return nil, ErrTokenAlreadyUsed
	}
	if !now.Before(inv.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE invitations
		SET consumed_at = $2
		WHERE id = $1 AND consumed_at IS NULL
	`, inv.ID, now)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrTokenAlreadyUsed
	}

	// Redeeming into an org where the caller is already the sole active
	// ADMIN must not demote them through the role upsert below.
	if inv.Role != models.RoleAdmin {
		if err := guardLastAdmin(ctx, tx, inv.OrganizationID, userID); err != nil {
			return nil, err
		}
	}

	// Active membership gets the invited role; archived rows stay as
	// history and a fresh active row is inserted.
	var m models.Membership
	err = tx.QueryRowContext(ctx, `
		INSERT INTO memberships (id, organization_id, user_id, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (organization_id, user_id) WHERE NOT is_archived
		DO UPDATE SET role = EXCLUDED.role
		RETURNING id, organization_id, user_id, role, is_archived, created_at
	`, uuid.New().String(), inv.OrganizationID, userID, inv.Role).
		Scan(&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.IsArchived, &m.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &m, nil
}
