package storage

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrSlugTaken        = errors.New("organization slug already taken")
	ErrEmailTaken       = errors.New("email already registered")
	ErrTokenNotFound    = errors.New("invitation token not found")
	ErrTokenExpired     = errors.New("invitation token expired")
	ErrTokenAlreadyUsed = errors.New("invitation token already used")
	ErrLastAdmin        = errors.New("organization must keep at least one active admin")
	ErrInvalidAmount    = errors.New("amount must be positive")
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// Tenant returns a handle whose every query is constrained to orgID.
// The org id must come from a trusted source (access gate or slug
// resolution), never raw client input.
func (s *Storage) Tenant(orgID string) *Tenant {
	return &Tenant{db: s.db, orgID: orgID}
}

// Tenant is a data-access handle bound to one organization for its whole
// lifetime. Row lookups match on (id, organization_id), so an id belonging
// to another organization reports ErrNotFound rather than the row.
type Tenant struct {
	db    *sqlx.DB
	orgID string
}

func (t *Tenant) OrgID() string {
	return t.orgID
}

func (s *Storage) Ping() error {
	return s.db.Ping()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
