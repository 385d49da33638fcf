package storage

import (
	"context"
	"database/sql"

	"seva-backend/internal/models"
)

// GetActiveMembership returns the single non-archived membership for
// (orgID, userID), or ErrNotFound.
func (s *Storage) GetActiveMembership(ctx context.Context, orgID, userID string) (*models.Membership, error) {
	var m models.Membership
	query := `
		SELECT id, organization_id, user_id, role, is_archived, created_at
		FROM memberships
		WHERE organization_id = $1 AND user_id = $2 AND NOT is_archived
	`
	if err := s.db.GetContext(ctx, &m, query, orgID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *Storage) ListMembers(ctx context.Context, orgID string) ([]models.Member, error) {
	members := make([]models.Member, 0)
	query := `
		SELECT m.id, m.organization_id, m.user_id, m.role, m.is_archived, m.created_at,
			u.email, u.name AS user_name
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.organization_id = $1 AND NOT m.is_archived
		ORDER BY m.created_at
	`
	if err := s.db.SelectContext(ctx, &members, query, orgID); err != nil {
		return nil, err
	}
	return members, nil
}

// ChangeMemberRole updates the role of an active membership. Demoting the
// last active ADMIN fails with ErrLastAdmin; the admin rows are locked so
// two concurrent demotions cannot both pass the count.
func (s *Storage) ChangeMemberRole(ctx context.Context, orgID, userID string, role models.Role) (*models.Membership, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if role != models.RoleAdmin {
		if err := guardLastAdmin(ctx, tx, orgID, userID); err != nil {
			return nil, err
		}
	}

	var m models.Membership
	err = tx.QueryRowContext(ctx, `
		UPDATE memberships
		SET role = $3
		WHERE organization_id = $1 AND user_id = $2 AND NOT is_archived
		RETURNING id, organization_id, user_id, role, is_archived, created_at
	`, orgID, userID, role).Scan(&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.IsArchived, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ArchiveMember soft-removes a membership. The last active ADMIN cannot be
// archived.
func (s *Storage) ArchiveMember(ctx context.Context, orgID, userID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := guardLastAdmin(ctx, tx, orgID, userID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE memberships
		SET is_archived = true
		WHERE organization_id = $1 AND user_id = $2 AND NOT is_archived
	`, orgID, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// guardLastAdmin locks the org's active admin rows and fails when userID
// is the only one left.
func guardLastAdmin(ctx context.Context, tx queryer, orgID, userID string) error {
	adminIDs := make([]string, 0)
	err := tx.SelectContext(ctx, &adminIDs, `
		SELECT user_id FROM memberships
		WHERE organization_id = $1 AND role = $2 AND NOT is_archived
		FOR UPDATE
	`, orgID, models.RoleAdmin)
	if err != nil {
		return err
	}

	if len(adminIDs) == 1 && adminIDs[0] == userID {
		return ErrLastAdmin
	}
	return nil
}

type queryer interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}
