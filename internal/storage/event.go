package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"seva-backend/internal/models"
)

func (t *Tenant) CreateEvent(ctx context.Context, input models.CreateEventInput) (*models.Event, error) {
	query := `
		INSERT INTO events (id, organization_id, name, description, starts_at, ends_at, budget_target)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, organization_id, name, description, starts_at, ends_at, budget_target, is_archived, created_at
	`

	var e models.Event
	err := t.db.QueryRowContext(ctx, query,
		uuid.New().String(), t.orgID, input.Name, input.Description, input.StartsAt, input.EndsAt, input.BudgetTarget,
	).Scan(&e.ID, &e.OrganizationID, &e.Name, &e.Description, &e.StartsAt, &e.EndsAt,
		&e.BudgetTarget, &e.IsArchived, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (t *Tenant) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	query := `
		SELECT id, organization_id, name, description, starts_at, ends_at, budget_target, is_archived, created_at
		FROM events
		WHERE id = $1 AND organization_id = $2
	`
	if err := t.db.GetContext(ctx, &e, query, id, t.orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (t *Tenant) ListEvents(ctx context.Context) ([]models.Event, error) {
	events := make([]models.Event, 0)
	query := `
		SELECT id, organization_id, name, description, starts_at, ends_at, budget_target, is_archived, created_at
		FROM events
		WHERE organization_id = $1 AND NOT is_archived
		ORDER BY starts_at
	`
	if err := t.db.SelectContext(ctx, &events, query, t.orgID); err != nil {
		return nil, err
	}
	return events, nil
}

func (t *Tenant) UpdateEvent(ctx context.Context, id string, input models.CreateEventInput) (*models.Event, error) {
	var e models.Event
	err := t.db.QueryRowContext(ctx, `
		UPDATE events
		SET name = $3, description = $4, starts_at = $5, ends_at = $6, budget_target = $7
		WHERE id = $1 AND organization_id = $2 AND NOT is_archived
		RETURNING id, organization_id, name, description, starts_at, ends_at, budget_target, is_archived, created_at
	`, id, t.orgID, input.Name, input.Description, input.StartsAt, input.EndsAt, input.BudgetTarget).
		Scan(&e.ID, &e.OrganizationID, &e.Name, &e.Description, &e.StartsAt, &e.EndsAt,
			&e.BudgetTarget, &e.IsArchived, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (t *Tenant) ArchiveEvent(ctx context.Context, id string) error {
	return t.archiveRow(ctx, "events", id)
}

// RegisterForEvent records a member's registration once per event.
func (t *Tenant) RegisterForEvent(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	if _, err := t.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	var reg models.Registration
	err := t.db.QueryRowContext(ctx, `
		INSERT INTO registrations (id, organization_id, event_id, user_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, organization_id, event_id, user_id, created_at
	`, uuid.New().String(), t.orgID, eventID, userID).
		Scan(&reg.ID, &reg.OrganizationID, &reg.EventID, &reg.UserID, &reg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (t *Tenant) ListRegistrations(ctx context.Context, eventID string) ([]models.Registration, error) {
	if _, err := t.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	regs := make([]models.Registration, 0)
	query := `
		SELECT id, organization_id, event_id, user_id, created_at
		FROM registrations
		WHERE organization_id = $1 AND event_id = $2
		ORDER BY created_at
	`
	if err := t.db.SelectContext(ctx, &regs, query, t.orgID, eventID); err != nil {
		return nil, err
	}
	return regs, nil
}
