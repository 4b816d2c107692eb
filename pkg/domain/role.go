package domain

import dErrors "rehome/pkg/domain-errors"

// Role is the caller's authorization level.
//
// Invariant: the value must be one of the supported roles.
//
// Usage: construct via ParseRole at trust boundaries (JWT claims, admin
// seeding); direct casting bypasses validation.
type Role string

const (
	// RoleUser is an ordinary registered person.
	RoleUser Role = "user"
	// RoleJob is the privileged automation role that runs scheduled
	// maintenance such as the expiry sweep.
	RoleJob Role = "job"
	// RoleAdmin may act on any resource regardless of ownership.
	RoleAdmin Role = "admin"
)

// validRoles is the single source of truth for supported roles.
var validRoles = map[Role]bool{
	RoleUser:  true,
	RoleJob:   true,
	RoleAdmin: true,
}

// ParseRole constructs a Role from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

func (r Role) String() string {
	return string(r)
}
