package models

import "time"

// Role is one of the four fixed committee roles. Authorization never
// orders them; every operation states its own allowed set.
type Role string

const (
	RoleAdmin           Role = "ADMIN"
	RoleTreasurer       Role = "TREASURER"
	RoleCommitteeMember Role = "COMMITTEE_MEMBER"
	RoleVolunteer       Role = "VOLUNTEER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTreasurer, RoleCommitteeMember, RoleVolunteer:
		return true
	}
	return false
}

type Membership struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	UserID         string    `db:"user_id" json:"user_id"`
	Role           Role      `db:"role" json:"role"`
	IsArchived     bool      `db:"is_archived" json:"is_archived"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Member is a membership joined with user display fields for org listings.
type Member struct {
	Membership
	Email    string `db:"email" json:"email"`
	UserName string `db:"user_name" json:"user_name"`
}
