package models

import "github.com/google/uuid"

const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
)

// Principal is the authenticated caller a request is scoped to.
type Principal struct {
	TenantID uuid.UUID `json:"tenant_id"`
	UserID   uuid.UUID `json:"user_id"`
	Role     string    `json:"role"`
}

func (p *Principal) HasRole(roles ...string) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}
