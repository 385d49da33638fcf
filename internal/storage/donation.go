package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"seva-backend/internal/models"
)

func (t *Tenant) CreateDonation(ctx context.Context, input models.CreateDonationInput) (*models.Donation, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	query := `
		INSERT INTO donations (id, organization_id, donor_name, amount, category, is_anonymous)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, organization_id, donor_name, amount, category, is_anonymous, is_archived, created_at
	`

	var d models.Donation
	err := t.db.QueryRowContext(ctx, query,
		uuid.New().String(), t.orgID, input.DonorName, input.Amount, input.Category, input.IsAnonymous,
	).Scan(&d.ID, &d.OrganizationID, &d.DonorName, &d.Amount, &d.Category, &d.IsAnonymous, &d.IsArchived, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (t *Tenant) GetDonation(ctx context.Context, id string) (*models.Donation, error) {
	var d models.Donation
	query := `
		SELECT id, organization_id, donor_name, amount, category, is_anonymous, is_archived, created_at
		FROM donations
		WHERE id = $1 AND organization_id = $2
	`
	if err := t.db.GetContext(ctx, &d, query, id, t.orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (t *Tenant) ListDonations(ctx context.Context) ([]models.Donation, error) {
	donations := make([]models.Donation, 0)
	query := `
		SELECT id, organization_id, donor_name, amount, category, is_anonymous, is_archived, created_at
		FROM donations
		WHERE organization_id = $1 AND NOT is_archived
		ORDER BY created_at DESC
	`
	if err := t.db.SelectContext(ctx, &donations, query, t.orgID); err != nil {
		return nil, err
	}
	return donations, nil
}

func (t *Tenant) UpdateDonation(ctx context.Context, id string, input models.CreateDonationInput) (*models.Donation, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var d models.Donation
	err := t.db.QueryRowContext(ctx, `
		UPDATE donations
		SET donor_name = $3, amount = $4, category = $5, is_anonymous = $6
		WHERE id = $1 AND organization_id = $2 AND NOT is_archived
		RETURNING id, organization_id, donor_name, amount, category, is_anonymous, is_archived, created_at
	`, id, t.orgID, input.DonorName, input.Amount, input.Category, input.IsAnonymous).
		Scan(&d.ID, &d.OrganizationID, &d.DonorName, &d.Amount, &d.Category, &d.IsAnonymous, &d.IsArchived, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (t *Tenant) ArchiveDonation(ctx context.Context, id string) error {
	return t.archiveRow(ctx, "donations", id)
}

// archiveRow soft-deletes one tenant-owned row. The compound match means
// an id from another tenant reports ErrNotFound, never touching that
// tenant's data.
func (t *Tenant) archiveRow(ctx context.Context, table, id string) error {
	res, err := t.db.ExecContext(ctx,
		`UPDATE `+table+` SET is_archived = true WHERE id = $1 AND organization_id = $2 AND NOT is_archived`,
		id, t.orgID)
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
	return nil
}
