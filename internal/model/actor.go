package model

import "github.com/google/uuid"

// Roles an authenticated actor may hold.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Actor is the authenticated caller of a request, as asserted by the
// upstream gateway. Ownership and admin checks compare against it.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns reports whether the actor owns the resource belonging to userID.
func (a Actor) Owns(userID uuid.UUID) bool {
	return a.ID == userID
}
