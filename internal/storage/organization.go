package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"seva-backend/internal/models"
)

// CreateOrganization inserts the organization and an ADMIN membership for
// the creator in one transaction.
func (s *Storage) CreateOrganization(ctx context.Context, creatorID string, input models.CreateOrganizationInput) (*models.Organization, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO organizations (id, name, slug, budget_target)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, slug, budget_target, created_at
	`

	var org models.Organization
	err = tx.QueryRowContext(ctx, query, uuid.New().String(), input.Name, input.Slug, input.BudgetTarget).
		Scan(&org.ID, &org.Name, &org.Slug, &org.BudgetTarget, &org.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO memberships (id, organization_id, user_id, role)
		VALUES ($1, $2, $3, $4)
	`, uuid.New().String(), org.ID, creatorID, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &org, nil
}

func (s *Storage) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	query := `SELECT id, name, slug, budget_target, created_at FROM organizations WHERE id = $1`
	if err := s.db.GetContext(ctx, &org, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (s *Storage) GetOrganizationBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	var org models.Organization
	query := `SELECT id, name, slug, budget_target, created_at FROM organizations WHERE slug = $1`
	if err := s.db.GetContext(ctx, &org, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// ListOrganizationsForUser returns organizations where the user holds a
// non-archived membership.
func (s *Storage) ListOrganizationsForUser(ctx context.Context, userID string) ([]models.Organization, error) {
	orgs := make([]models.Organization, 0)
	query := `
		SELECT o.id, o.name, o.slug, o.budget_target, o.created_at
		FROM organizations o
		JOIN memberships m ON m.organization_id = o.id
		WHERE m.user_id = $1 AND NOT m.is_archived
		ORDER BY o.created_at
	`
	if err := s.db.SelectContext(ctx, &orgs, query, userID); err != nil {
		return nil, err
	}
	return orgs, nil
}
