package storage

import (
	"context"

	"github.com/shopspring/decimal"
)

// Aggregation inputs for the finance engine. Sums happen in SQL over
// NUMERIC columns and are scanned into exact decimals; archived rows and
// non-approved expenses never count.

func (t *Tenant) SumDonations(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM donations
		WHERE organization_id = $1 AND NOT is_archived
	`
	if err := t.db.GetContext(ctx, &total, query, t.orgID); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (t *Tenant) SumApprovedExpenses(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE organization_id = $1 AND status = 'APPROVED' AND NOT is_archived
	`
	if err := t.db.GetContext(ctx, &total, query, t.orgID); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (t *Tenant) SumApprovedExpensesForEvent(ctx context.Context, eventID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE organization_id = $1 AND event_id = $2 AND status = 'APPROVED' AND NOT is_archived
	`
	if err := t.db.GetContext(ctx, &total, query, t.orgID, eventID); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
