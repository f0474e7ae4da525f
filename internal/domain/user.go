package domain

import "time"

type Role string

const (
	RoleUser   Role = "user"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin, RoleEditor:
		return true
	}
	return false
}

// User represents an account record managed by the API.
type User struct {
	ID        string
	Name      string
	Email     string
	Age       *int
	Role      Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserPatch carries the fields of a partial user update. A nil field means
// "leave unchanged"; repositories merge non-nil fields into the stored record.
type UserPatch struct {
	Name   *string
	Email  *string
	Age    *int
	Role   *Role
	Active *bool
}

// IsZero reports whether the patch carries no fields at all.
func (p UserPatch) IsZero() bool {
	return p.Name == nil && p.Email == nil && p.Age == nil && p.Role == nil && p.Active == nil
}
