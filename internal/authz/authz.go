// Package authz carries the caller capability passed into every service call
// and the per-role field masks that scope what a caller may write.
package authz

import (
	"github.com/teamtrack/workforce-api/internal/models"
)

// Caller identifies the authenticated user making a request. It is resolved
// once per request by middleware and handed to services explicitly.
type Caller struct {
	ID   uint64
	Role models.Role
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}
