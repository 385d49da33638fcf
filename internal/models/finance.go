package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DonationCategory string

const (
	DonationGeneral  DonationCategory = "GENERAL"
	DonationBhog     DonationCategory = "BHOG"
	DonationDecor    DonationCategory = "DECORATION"
	DonationPrasad   DonationCategory = "PRASAD"
	DonationCultural DonationCategory = "CULTURAL"
)

func (c DonationCategory) Valid() bool {
	switch c {
	case DonationGeneral, DonationBhog, DonationDecor, DonationPrasad, DonationCultural:
		return true
	}
	return false
}

type Donation struct {
	ID             string           `db:"id" json:"id"`
	OrganizationID string           `db:"organization_id" json:"organization_id"`
	DonorName      string           `db:"donor_name" json:"donor_name"`
	Amount         decimal.Decimal  `db:"amount" json:"amount"`
	Category       DonationCategory `db:"category" json:"category"`
	IsAnonymous    bool             `db:"is_anonymous" json:"is_anonymous"`
	IsArchived     bool             `db:"is_archived" json:"is_archived"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}

type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "PENDING"
	ExpenseApproved ExpenseStatus = "APPROVED"
	ExpenseRejected ExpenseStatus = "REJECTED"
)

type ExpenseCategory string

const (
	ExpenseSupplies  ExpenseCategory = "SUPPLIES"
	ExpenseFood      ExpenseCategory = "FOOD"
	ExpenseDecor     ExpenseCategory = "DECORATION"
	ExpenseLogistics ExpenseCategory = "LOGISTICS"
	ExpenseOther     ExpenseCategory = "OTHER"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseSupplies, ExpenseFood, ExpenseDecor, ExpenseLogistics, ExpenseOther:
		return true
	}
	return false
}

type CreateDonationInput struct {
	DonorName   string           `json:"donor_name" validate:"required,max=255"`
	Amount      decimal.Decimal  `json:"amount" validate:"required"`
	Category    DonationCategory `json:"category" validate:"required"`
	IsAnonymous bool             `json:"is_anonymous"`
}

type CreateExpenseInput struct {
	Title    string          `json:"title" validate:"required,max=255"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Category ExpenseCategory `json:"category" validate:"required"`
	EventID  *string         `json:"event_id"`
}

type Expense struct {
	ID             string          `db:"id" json:"id"`
	OrganizationID string          `db:"organization_id" json:"organization_id"`
	EventID        *string         `db:"event_id" json:"event_id,omitempty"`
	Title          string          `db:"title" json:"title"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	Category       ExpenseCategory `db:"category" json:"category"`
	Status         ExpenseStatus   `db:"status" json:"status"`
	IsArchived     bool            `db:"is_archived" json:"is_archived"`
	CreatedByID    string          `db:"created_by_id" json:"created_by_id"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
