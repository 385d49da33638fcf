package models

import "time"

type BhogStatus string

const (
	BhogPending  BhogStatus = "PENDING"
	BhogPrepared BhogStatus = "PREPARED"
)

type CreateBhogItemInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Quantity string `json:"quantity" validate:"required,max=255"`
}

type BhogItem struct {
	ID             string     `db:"id" json:"id"`
	OrganizationID string     `db:"organization_id" json:"organization_id"`
	Name           string     `db:"name" json:"name"`
	Quantity       string     `db:"quantity" json:"quantity"`
	SponsorName    *string    `db:"sponsor_name" json:"sponsor_name,omitempty"`
	Status         BhogStatus `db:"status" json:"status"`
	IsArchived     bool       `db:"is_archived" json:"is_archived"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}
