// AngelaMos | 2026
// identity.go

package core

import "github.com/google/uuid"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Satisfies reports whether a caller holding r may perform an action that
// requires required. ADMIN satisfies every requirement.
func (r Role) Satisfies(required Role) bool {
	if r == RoleAdmin {
		return true
	}
	return r == required
}

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID string
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// RequireAdmin fails with ErrForbidden unless the caller is an admin.
func (i Identity) RequireAdmin() error {
	if !i.Role.Satisfies(RoleAdmin) {
		return ErrForbidden
	}
	return nil
}

// ValidID reports whether id is a well formed resource identifier. Callers
// treat a malformed id as an unknown resource.
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}
