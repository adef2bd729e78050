// Package models defines the server-side entities persisted by the
// repositories and returned by the HTTP layer.
package models

// Role is the closed set of user roles. Only the exact string "admin" is
// RoleAdmin; an empty role is RoleNone and any other stored value is
// RoleOther.
type Role int

const (
	RoleNone Role = iota
	RoleAdmin
	RoleOther
)

// ParseRole maps a stored role string to a Role.
func ParseRole(s string) Role {
	switch s {
	case "admin":
		return RoleAdmin
	case "":
		return RoleNone
	default:
		return RoleOther
	}
}

// String returns the persisted form of the role; RoleNone is empty.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleOther:
		return "other"
	default:
		return ""
	}
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	*r = ParseRole(string(b))
	return nil
}

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role,omitempty"`
	Age          *int   `json:"age,omitempty"`
}

// IsAdmin reports whether the user passes the admin gate.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserUpdate carries the mutable profile fields.
type UserUpdate struct {
	Name string `json:"name"`
	Age  *int   `json:"age"`
}
