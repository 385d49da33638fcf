package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"seva-backend/internal/models"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStorage(sqlx.NewDb(db, "sqlmock")), mock
}

var donationColumns = []string{
	"id", "organization_id", "donor_name", "amount", "category",
	"is_anonymous", "is_archived", "created_at",
}

func TestGetDonationCrossTenant(t *testing.T) {
	store, mock := newMockStorage(t)

	// org-b's gateway asks for org-a's donation id; the compound WHERE
	// yields no row and the id reads as nonexistent.
	mock.ExpectQuery(`SELECT .+ FROM donations\s+WHERE id = \$1 AND organization_id = \$2`).
		WithArgs("don-a", "org-b").
		WillReturnRows(sqlmock.NewRows(donationColumns))

	_, err := store.Tenant("org-b").GetDonation(context.Background(), "don-a")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArchiveDonationCrossTenant(t *testing.T) {
	store, mock := newMockStorage(t)

	mock.ExpectExec(`UPDATE donations SET is_archived = true WHERE id = \$1 AND organization_id = \$2 AND NOT is_archived`).
		WithArgs("don-a", "org-b").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Tenant("org-b").ArchiveDonation(context.Background(), "don-a")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSumDonationsExcludesArchived(t *testing.T) {
	store, mock := newMockStorage(t)

	// The expectation pins the archived filter into the aggregate itself;
	// a query without it does not match and fails the test.
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\)\s+FROM donations\s+WHERE organization_id = \$1 AND NOT is_archived`).
		WithArgs("org-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("10500.50"))

	total, err := store.Tenant("org-1").SumDonations(context.Background())
	if err != nil {
		t.Fatalf("sum donations: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("10500.50")) {
		t.Fatalf("expected 10500.50, got %s", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSumApprovedExpensesFilters(t *testing.T) {
	store, mock := newMockStorage(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\)\s+FROM expenses\s+WHERE organization_id = \$1 AND status = 'APPROVED' AND NOT is_archived`).
		WithArgs("org-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("0"))

	total, err := store.Tenant("org-1").SumApprovedExpenses(context.Background())
	if err != nil {
		t.Fatalf("sum approved expenses: %v", err)
	}
	if !total.IsZero() {
		t.Fatalf("expected 0, got %s", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSumApprovedExpensesForEventFilters(t *testing.T) {
	store, mock := newMockStorage(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\)\s+FROM expenses\s+WHERE organization_id = \$1 AND event_id = \$2 AND status = 'APPROVED' AND NOT is_archived`).
		WithArgs("org-1", "evt-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("7500"))

	total, err := store.Tenant("org-1").SumApprovedExpensesForEvent(context.Background(), "evt-1")
	if err != nil {
		t.Fatalf("sum event expenses: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(7500)) {
		t.Fatalf("expected 7500, got %s", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateExpenseWithoutEvent(t *testing.T) {
	store, mock := newMockStorage(t)

	expenseColumns := []string{
		"id", "organization_id", "event_id", "title", "amount", "category",
		"status", "is_archived", "created_by_id", "created_at",
	}
	mock.ExpectQuery(`INSERT INTO expenses`).
		WithArgs(sqlmock.AnyArg(), "org-1", nil, "Pandal bamboo", decimal.RequireFromString("2500"),
			models.ExpenseSupplies, models.ExpensePending, "user-1").
		WillReturnRows(sqlmock.NewRows(expenseColumns).
			AddRow("exp-1", "org-1", nil, "Pandal bamboo", "2500", "SUPPLIES", "PENDING", false, "user-1", time.Now()))

	e, err := store.Tenant("org-1").CreateExpense(context.Background(), "user-1", models.CreateExpenseInput{
		Title:    "Pandal bamboo",
		Amount:   decimal.RequireFromString("2500"),
		Category: models.ExpenseSupplies,
	})
	if err != nil {
		t.Fatalf("create org-level expense: %v", err)
	}
	if e.EventID != nil {
		t.Fatalf("expected nil event id, got %v", *e.EventID)
	}
	if e.Status != models.ExpensePending {
		t.Fatalf("expected PENDING, got %s", e.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

var invitationColumns = []string{
	"id", "organization_id", "email", "role", "token", "event_id",
	"invited_by_id", "expires_at", "consumed_at", "created_at",
}

func TestRedeemInvitationLastAdminGuard(t *testing.T) {
	store, mock := newMockStorage(t)

	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	token := "seva_inv_0123456789abcdef0123456789abcdef"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM invitations\s+WHERE token = \$1`).
		WithArgs(token).
		WillReturnRows(sqlmock.NewRows(invitationColumns).
			AddRow("inv-1", "org-1", "admin@example.org", "VOLUNTEER", token, nil,
				"other-admin", now.Add(time.Hour), nil, now.Add(-time.Hour)))
	mock.ExpectExec(`UPDATE invitations\s+SET consumed_at = \$2\s+WHERE id = \$1 AND consumed_at IS NULL`).
		WithArgs("inv-1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT user_id FROM memberships\s+WHERE organization_id = \$1 AND role = \$2 AND NOT is_archived\s+FOR UPDATE`).
		WithArgs("org-1", models.RoleAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("admin-1"))
	mock.ExpectRollback()

	// The sole active ADMIN redeems a VOLUNTEER token into their own org;
	// the upsert would demote them, so the whole redemption rolls back.
	_, err := store.RedeemInvitation(context.Background(), token, "admin-1", now)
	if !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRedeemInvitationNewMember(t *testing.T) {
	store, mock := newMockStorage(t)

	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	token := "seva_inv_feedface0123456789abcdef01234567"

	membershipColumns := []string{
		"id", "organization_id", "user_id", "role", "is_archived", "created_at",
	}
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM invitations\s+WHERE token = \$1`).
		WithArgs(token).
		WillReturnRows(sqlmock.NewRows(invitationColumns).
			AddRow("inv-2", "org-1", "new@example.org", "VOLUNTEER", token, nil,
				"admin-1", now.Add(time.Hour), nil, now.Add(-time.Hour)))
	mock.ExpectExec(`UPDATE invitations\s+SET consumed_at = \$2\s+WHERE id = \$1 AND consumed_at IS NULL`).
		WithArgs("inv-2", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT user_id FROM memberships`).
		WithArgs("org-1", models.RoleAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("admin-1"))
	mock.ExpectQuery(`INSERT INTO memberships`).
		WithArgs(sqlmock.AnyArg(), "org-1", "user-9", models.RoleVolunteer).
		WillReturnRows(sqlmock.NewRows(membershipColumns).
			AddRow("mem-9", "org-1", "user-9", "VOLUNTEER", false, now))
	mock.ExpectCommit()

	m, err := store.RedeemInvitation(context.Background(), token, "user-9", now)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if m.Role != models.RoleVolunteer {
		t.Fatalf("expected VOLUNTEER, got %s", m.Role)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
