package domain

import "time"

type Role string

const (
	RoleNone   Role = "none"
	RoleOwner  Role = "owner"
	RoleLawyer Role = "lawyer"
	RoleExpert Role = "expert"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleOwner, RoleLawyer, RoleExpert, RoleAdmin:
		return true
	}
	return false
}

// Assignable reports whether r may be granted by approving a join request.
// An office has exactly one owner, so owner is never assignable.
func (r Role) Assignable() bool {
	switch r {
	case RoleLawyer, RoleExpert, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int32     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	OfficeID     *int32    `db:"office_id" json:"office_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// HasOffice reports whether the user belongs to an office.
func (u *User) HasOffice() bool {
	return u.OfficeID != nil
}

// BelongsTo reports whether the user is a member of officeID.
func (u *User) BelongsTo(officeID int32) bool {
	return u.OfficeID != nil && *u.OfficeID == officeID
}
