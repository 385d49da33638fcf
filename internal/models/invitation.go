package models

import "time"

type Invitation struct {
	ID             string     `db:"id" json:"id"`
	OrganizationID string     `db:"organization_id" json:"organization_id"`
	Email          string     `db:"email" json:"email"`
	Role           Role       `db:"role" json:"role"`
	Token          string     `db:"token" json:"-"`
	EventID        *string    `db:"event_id" json:"event_id,omitempty"`
	InvitedByID    string     `db:"invited_by_id" json:"invited_by_id"`
	ExpiresAt      time.Time  `db:"expires_at" json:"expires_at"`
	ConsumedAt     *time.Time `db:"consumed_at" json:"consumed_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// Status is derived from the stored row, never persisted.
func (i *Invitation) Status(now time.Time) string {
	if i.ConsumedAt != nil {
		return "CONSUMED"
	}
	if !now.Before(i.ExpiresAt) {
		return "EXPIRED"
	}
	return "PENDING"
}

type CreateInvitationInput struct {
	Email   string  `json:"email" validate:"required,email"`
	Role    Role    `json:"role" validate:"required"`
	EventID *string `json:"event_id"`
}

// CreateInvitationResponse carries the raw token back to the issuer once;
// the token is never listed again.
type CreateInvitationResponse struct {
	Invitation
	Token     string `json:"token"`
	AcceptURL string `json:"accept_url"`
}
