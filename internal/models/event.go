package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	ID             string              `db:"id" json:"id"`
	OrganizationID string              `db:"organization_id" json:"organization_id"`
	Name           string              `db:"name" json:"name"`
	Description    string              `db:"description" json:"description"`
	StartsAt       time.Time           `db:"starts_at" json:"starts_at"`
	EndsAt         time.Time           `db:"ends_at" json:"ends_at"`
	BudgetTarget   decimal.NullDecimal `db:"budget_target" json:"budget_target"`
	IsArchived     bool                `db:"is_archived" json:"is_archived"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
}

type CreateEventInput struct {
	Name         string              `json:"name" validate:"required,max=255"`
	Description  string              `json:"description"`
	StartsAt     time.Time           `json:"starts_at" validate:"required"`
	EndsAt       time.Time           `json:"ends_at" validate:"required"`
	BudgetTarget decimal.NullDecimal `json:"budget_target"`
}

type Registration struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	EventID        string    `db:"event_id" json:"event_id"`
	UserID         string    `db:"user_id" json:"user_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
