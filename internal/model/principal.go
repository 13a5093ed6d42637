package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleAgent UserRole = "AGENT"
)

type Principal struct {
	UserID uuid.UUID
	Role   UserRole
}

// HasAnyRole reports whether the principal holds one of roles.
func (p Principal) HasAnyRole(roles ...UserRole) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
