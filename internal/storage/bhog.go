package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"seva-backend/internal/models"
)

func (t *Tenant) CreateBhogItem(ctx context.Context, input models.CreateBhogItemInput) (*models.BhogItem, error) {
	query := `
		INSERT INTO bhog_items (id, organization_id, name, quantity, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, organization_id, name, quantity, sponsor_name, status, is_archived, created_at
	`

	var b models.BhogItem
	err := t.db.QueryRowContext(ctx, query,
		uuid.New().String(), t.orgID, input.Name, input.Quantity, models.BhogPending,
	).Scan(&b.ID, &b.OrganizationID, &b.Name, &b.Quantity, &b.SponsorName, &b.Status, &b.IsArchived, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (t *Tenant) GetBhogItem(ctx context.Context, id string) (*models.BhogItem, error) {
	var b models.BhogItem
	query := `
		SELECT id, organization_id, name, quantity, sponsor_name, status, is_archived, created_at
		FROM bhog_items
		WHERE id = $1 AND organization_id = $2
	`
	if err := t.db.GetContext(ctx, &b, query, id, t.orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (t *Tenant) ListBhogItems(ctx context.Context) ([]models.BhogItem, error) {
	items := make([]models.BhogItem, 0)
	query := `
		SELECT id, organization_id, name, quantity, sponsor_name, status, is_archived, created_at
		FROM bhog_items
		WHERE organization_id = $1 AND NOT is_archived
		ORDER BY created_at DESC
	`
	if err := t.db.SelectContext(ctx, &items, query, t.orgID); err != nil {
		return nil, err
	}
	return items, nil
}

// SponsorBhogItem records a sponsor for a still-unsponsored item.
func (t *Tenant) SponsorBhogItem(ctx context.Context, id, sponsorName string) (*models.BhogItem, error) {
	var b models.BhogItem
	err := t.db.QueryRowContext(ctx, `
		UPDATE bhog_items
		SET sponsor_name = $3
		WHERE id = $1 AND organization_id = $2 AND NOT is_archived AND sponsor_name IS NULL
		RETURNING id, organization_id, name, quantity, sponsor_name, status, is_archived, created_at
	`, id, t.orgID, sponsorName).
		Scan(&b.ID, &b.OrganizationID, &b.Name, &b.Quantity, &b.SponsorName, &b.Status, &b.IsArchived, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (t *Tenant) SetBhogItemStatus(ctx context.Context, id string, status models.BhogStatus) (*models.BhogItem, error) {
	var b models.BhogItem
	err := t.db.QueryRowContext(ctx, `
		UPDATE bhog_items
		SET status = $3
		WHERE id = $1 AND organization_id = $2 AND NOT is_archived
		RETURNING id, organization_id, name, quantity, sponsor_name, status, is_archived, created_at
	`, id, t.orgID, status).
		Scan(&b.ID, &b.OrganizationID, &b.Name, &b.Quantity, &b.SponsorName, &b.Status, &b.IsArchived, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (t *Tenant) ArchiveBhogItem(ctx context.Context, id string) error {
	return t.archiveRow(ctx, "bhog_items", id)
}
