package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"seva-backend/internal/models"
)

func (t *Tenant) CreateExpense(ctx context.Context, createdByID string, input models.CreateExpenseInput) (*models.Expense, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if input.EventID != nil {
		// The referenced event must belong to this tenant.
		if _, err := t.GetEvent(ctx, *input.EventID); err != nil {
			return nil, err
		}
	}

	query := `
		INSERT INTO expenses (id, organization_id, event_id, title, amount, category, status, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, organization_id, event_id, title, amount, category, status, is_archived, created_by_id, created_at
	`

	var e models.Expense
	err := t.db.QueryRowContext(ctx, query,
		uuid.New().String(), t.orgID, input.EventID, input.Title, input.Amount, input.Category,
		models.ExpensePending, createdByID,
	).Scan(&e.ID, &e.OrganizationID, &e.EventID, &e.Title, &e.Amount, &e.Category, &e.Status,
		&e.IsArchived, &e.CreatedByID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (t *Tenant) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	var e models.Expense
	query := `
		SELECT id, organization_id, event_id, title, amount, category, status, is_archived, created_by_id, created_at
		FROM expenses
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

func (t *Tenant) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	expenses := make([]models.Expense, 0)
	query := `
		SELECT id, organization_id, event_id, title, amount, category, status, is_archived, created_by_id, created_at
		FROM expenses
		WHERE organization_id = $1 AND NOT is_archived
		ORDER BY created_at DESC
	`
	if err := t.db.SelectContext(ctx, &expenses, query, t.orgID); err != nil {
		return nil, err
	}
	return expenses, nil
}

// UpdateExpense edits a non-archived expense. An edited amount restarts
// approval: status goes back to PENDING.
func (t *Tenant) UpdateExpense(ctx context.Context, id string, input models.CreateExpenseInput) (*models.Expense, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var e models.Expense
	err := t.db.QueryRowContext(ctx, `
		UPDATE expenses
		SET title = $3, amount = $4, category = $5,
			status = CASE WHEN amount <> $4 THEN 'PENDING' ELSE status END
		WHERE id = $1 AND organization_id = $2 AND NOT is_archived
		RETURNING id, organization_id, event_id, title, amount, category, status, is_archived, created_by_id, created_at
	`, id, t.orgID, input.Title, input.Amount, input.Category).
		Scan(&e.ID, &e.OrganizationID, &e.EventID, &e.Title, &e.Amount, &e.Category, &e.Status,
			&e.IsArchived, &e.CreatedByID, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (t *Tenant) SetExpenseStatus(ctx context.Context, id string, status models.ExpenseStatus) (*models.Expense, error) {
	var e models.Expense
	err := t.db.QueryRowContext(ctx, `
		UPDATE expenses
		SET status = $3
		WHERE id = $1 AND organization_id = $2 AND NOT is_archived
		RETURNING id, organization_id, event_id, title, amount, category, status, is_archived, created_by_id, created_at
	`, id, t.orgID, status).
		Scan(&e.ID, &e.OrganizationID, &e.EventID, &e.Title, &e.Amount, &e.Category, &e.Status,
			&e.IsArchived, &e.CreatedByID, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (t *Tenant) ArchiveExpense(ctx context.Context, id string) error {
	return t.archiveRow(ctx, "expenses", id)
}
