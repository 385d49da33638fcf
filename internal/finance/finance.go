// Package finance computes financial projections from donation and
// expense records. All arithmetic is exact decimal; percentages are
// rounded to two decimals for display only, after every comparison that
// depends on them.
package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"seva-backend/internal/models"
)

var hundred = decimal.NewFromInt(100)

// TenantStore is the slice of the tenant gateway the engine reads from.
// *storage.Tenant satisfies it.
type TenantStore interface {
	SumDonations(ctx context.Context) (decimal.Decimal, error)
	SumApprovedExpenses(ctx context.Context) (decimal.Decimal, error)
	SumApprovedExpensesForEvent(ctx context.Context, eventID string) (decimal.Decimal, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
}

// EventSummary is the internal, per-event projection.
type EventSummary struct {
	EventID       string          `json:"event_id"`
	BudgetTarget  decimal.Decimal `json:"budget_target"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Remaining     decimal.Decimal `json:"remaining"`
	Utilization   decimal.Decimal `json:"utilization"`
	Progress      decimal.Decimal `json:"progress"`
	IsOverspent   bool            `json:"is_overspent"`
}

// PublicOverview is the organization-wide projection served on the public
// transparency path. It carries no internal identifier, no member
// identity, and nothing but a display-only creation date beyond the
// financial fields.
type PublicOverview struct {
	Name             string          `json:"name"`
	Slug             string          `json:"slug"`
	Since            time.Time       `json:"since"`
	TotalDonations   decimal.Decimal `json:"total_donations"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	BudgetTarget     decimal.Decimal `json:"budget_target"`
	UtilizationRate  decimal.Decimal `json:"utilization_rate"`
	IsOverspent      bool            `json:"is_overspent"`
}

// ComputeEventSummary derives the per-event numbers. A zero (or unset)
// budget yields utilization 0, never a division by zero; progress clamps
// to [0,100] while the overspend flag comes from the unclamped value.
func ComputeEventSummary(eventID string, budget decimal.NullDecimal, totalExpenses decimal.Decimal) EventSummary {
	target := decimal.Zero
	if budget.Valid {
		target = budget.Decimal
	}

	utilization := decimal.Zero
	if target.IsPositive() {
		utilization = totalExpenses.Div(target).Mul(hundred)
	}

	progress := utilization
	if progress.GreaterThan(hundred) {
		progress = hundred
	}
	if progress.IsNegative() {
		progress = decimal.Zero
	}

	return EventSummary{
		EventID:       eventID,
		BudgetTarget:  target,
		TotalExpenses: totalExpenses,
		Remaining:     target.Sub(totalExpenses),
		Utilization:   utilization.Round(2),
		Progress:      progress.Round(2),
		IsOverspent:   utilization.GreaterThan(hundred),
	}
}

// ComputeOverview derives the organization-wide numbers from two
// independent aggregates. The balance may go negative; overspend is
// strictly utilization > 100, decided before rounding.
func ComputeOverview(org *models.Organization, totalDonations, totalExpenses decimal.Decimal) PublicOverview {
	rate := decimal.Zero
	if totalDonations.IsPositive() {
		rate = totalExpenses.Div(totalDonations).Mul(hundred)
	}

	target := decimal.Zero
	if org.BudgetTarget.Valid {
		target = org.BudgetTarget.Decimal
	}

	return PublicOverview{
		Name:             org.Name,
		Slug:             org.Slug,
		Since:            org.CreatedAt,
		TotalDonations:   totalDonations,
		TotalExpenses:    totalExpenses,
		RemainingBalance: totalDonations.Sub(totalExpenses),
		BudgetTarget:     target,
		UtilizationRate:  rate.Round(2),
		IsOverspent:      rate.GreaterThan(hundred),
	}
}

// EventSummaryFor loads the event through the tenant gateway (cross-tenant
// ids surface as not found) and aggregates its approved, non-archived
// expenses.
func EventSummaryFor(ctx context.Context, store TenantStore, eventID string) (*EventSummary, error) {
	event, err := store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	total, err := store.SumApprovedExpensesForEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	summary := ComputeEventSummary(event.ID, event.BudgetTarget, total)
	return &summary, nil
}

// OverviewFor aggregates donations and approved expenses as two separate
// sums and derives the public projection.
func OverviewFor(ctx context.Context, store TenantStore, org *models.Organization) (*PublicOverview, error) {
	donations, err := store.SumDonations(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := store.SumApprovedExpenses(ctx)
	if err != nil {
		return nil, err
	}

	overview := ComputeOverview(org, donations, expenses)
	return &overview, nil
}
