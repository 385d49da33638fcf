package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"seva-backend/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func TestComputeEventSummaryOverspent(t *testing.T) {
	s := ComputeEventSummary("evt-1", nullDec("10000"), dec("12500"))

	if !s.Remaining.Equal(dec("-2500")) {
		t.Fatalf("expected remaining -2500, got %s", s.Remaining)
	}
	if !s.Utilization.Equal(dec("125.00")) {
		t.Fatalf("expected utilization 125.00, got %s", s.Utilization)
	}
	if !s.Progress.Equal(dec("100")) {
		t.Fatalf("expected progress clamped to 100, got %s", s.Progress)
	}
	if !s.IsOverspent {
		t.Fatal("expected overspent")
	}
}

func TestComputeEventSummaryNoExpenses(t *testing.T) {
	s := ComputeEventSummary("evt-1", nullDec("5000"), decimal.Zero)

	if !s.Remaining.Equal(dec("5000")) {
		t.Fatalf("expected remaining 5000, got %s", s.Remaining)
	}
	if !s.Utilization.IsZero() {
		t.Fatalf("expected utilization 0, got %s", s.Utilization)
	}
	if s.IsOverspent {
		t.Fatal("expected not overspent")
	}
}

func TestComputeEventSummaryZeroBudget(t *testing.T) {
	tests := []struct {
		name   string
		budget decimal.NullDecimal
	}{
		{name: "unset", budget: decimal.NullDecimal{}},
		{name: "zero", budget: nullDec("0")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputeEventSummary("evt-1", tt.budget, dec("300"))
			if !s.Utilization.IsZero() {
				t.Fatalf("expected utilization 0, got %s", s.Utilization)
			}
			if !s.Progress.IsZero() {
				t.Fatalf("expected progress 0, got %s", s.Progress)
			}
			if s.IsOverspent {
				t.Fatal("spending against no budget must not flag overspend")
			}
			if !s.Remaining.Equal(dec("-300")) {
				t.Fatalf("expected remaining -300, got %s", s.Remaining)
			}
		})
	}
}

func TestComputeEventSummaryOverspendDecidedBeforeRounding(t *testing.T) {
	// 100.004% rounds down to 100.00 for display but is still > 100.
	s := ComputeEventSummary("evt-1", nullDec("100000"), dec("100004"))

	if !s.Utilization.Equal(dec("100.00")) {
		t.Fatalf("expected displayed utilization 100.00, got %s", s.Utilization)
	}
	if !s.IsOverspent {
		t.Fatal("expected overspent from the unrounded ratio")
	}
}

func TestComputeEventSummaryExactBudget(t *testing.T) {
	s := ComputeEventSummary("evt-1", nullDec("10000"), dec("10000"))

	if s.IsOverspent {
		t.Fatal("exactly 100% is not overspent")
	}
	if !s.Utilization.Equal(dec("100.00")) {
		t.Fatalf("expected utilization 100.00, got %s", s.Utilization)
	}
}

func TestComputeOverview(t *testing.T) {
	org := &models.Organization{
		Name:         "Sarbojanin Puja Committee",
		Slug:         "sarbojanin-puja",
		BudgetTarget: nullDec("200000"),
		CreatedAt:    time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
	}

	o := ComputeOverview(org, dec("150000"), dec("90000"))

	if !o.RemainingBalance.Equal(dec("60000")) {
		t.Fatalf("expected balance 60000, got %s", o.RemainingBalance)
	}
	if !o.UtilizationRate.Equal(dec("60.00")) {
		t.Fatalf("expected rate 60.00, got %s", o.UtilizationRate)
	}
	if o.IsOverspent {
		t.Fatal("expected not overspent")
	}
	if o.Slug != org.Slug || o.Name != org.Name {
		t.Fatalf("unexpected identity fields %q %q", o.Name, o.Slug)
	}
}

func TestComputeOverviewNoDonations(t *testing.T) {
	org := &models.Organization{Name: "New Committee", Slug: "new"}

	o := ComputeOverview(org, decimal.Zero, dec("500"))

	if !o.UtilizationRate.IsZero() {
		t.Fatalf("expected rate 0 with no donations, got %s", o.UtilizationRate)
	}
	if o.IsOverspent {
		t.Fatal("expected not overspent with no donations")
	}
	if !o.RemainingBalance.Equal(dec("-500")) {
		t.Fatalf("expected balance -500, got %s", o.RemainingBalance)
	}
}

func TestComputeOverviewRepeatingDivision(t *testing.T) {
	// 1000/3000 has no finite decimal expansion; the displayed rate still
	// lands on exactly two decimals.
	o := ComputeOverview(&models.Organization{}, dec("3000"), dec("1000"))

	if !o.UtilizationRate.Equal(dec("33.33")) {
		t.Fatalf("expected rate 33.33, got %s", o.UtilizationRate)
	}
}

type fakeTenant struct {
	donations decimal.Decimal
	expenses  decimal.Decimal
	perEvent  map[string]decimal.Decimal
	events    map[string]*models.Event
	err       error
}

func (f *fakeTenant) SumDonations(ctx context.Context) (decimal.Decimal, error) {
	return f.donations, f.err
}

func (f *fakeTenant) SumApprovedExpenses(ctx context.Context) (decimal.Decimal, error) {
	return f.expenses, f.err
}

func (f *fakeTenant) SumApprovedExpensesForEvent(ctx context.Context, eventID string) (decimal.Decimal, error) {
	return f.perEvent[eventID], f.err
}

func (f *fakeTenant) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, errNoEvent
	}
	return e, nil
}

var errNoEvent = errors.New("event not found")

func TestEventSummaryFor(t *testing.T) {
	store := &fakeTenant{
		perEvent: map[string]decimal.Decimal{"evt-1": dec("7500")},
		events: map[string]*models.Event{
			"evt-1": {ID: "evt-1", BudgetTarget: nullDec("10000")},
		},
	}

	s, err := EventSummaryFor(context.Background(), store, "evt-1")
	if err != nil {
		t.Fatalf("event summary: %v", err)
	}
	if !s.Utilization.Equal(dec("75.00")) {
		t.Fatalf("expected utilization 75.00, got %s", s.Utilization)
	}
	if !s.Remaining.Equal(dec("2500")) {
		t.Fatalf("expected remaining 2500, got %s", s.Remaining)
	}
}

func TestEventSummaryForUnknownEvent(t *testing.T) {
	store := &fakeTenant{events: map[string]*models.Event{}}

	_, err := EventSummaryFor(context.Background(), store, "evt-missing")
	if !errors.Is(err, errNoEvent) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestOverviewFor(t *testing.T) {
	store := &fakeTenant{donations: dec("10000"), expenses: dec("12500")}
	org := &models.Organization{Name: "Durga Puja", Slug: "durga-puja"}

	o, err := OverviewFor(context.Background(), store, org)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if !o.RemainingBalance.Equal(dec("-2500")) {
		t.Fatalf("expected balance -2500, got %s", o.RemainingBalance)
	}
	if !o.UtilizationRate.Equal(dec("125.00")) {
		t.Fatalf("expected rate 125.00, got %s", o.UtilizationRate)
	}
	if !o.IsOverspent {
		t.Fatal("expected overspent")
	}
}
