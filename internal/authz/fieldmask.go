package authz

import (
	"github.com/teamtrack/workforce-api/internal/models"
)

// Action names a mutating operation subject to field-level authorization.
type Action string

const (
	ActionUpdateTask       Action = "update_task"
	ActionUpdateAttendance Action = "update_attendance"
)

// FieldMask is the set of patch keys a caller may write. The wildcard entry
// grants every field.
type FieldMask map[string]bool

// Allows reports whether the field may be written under this mask.
func (m FieldMask) Allows(field string) bool {
	if m["*"] {
		return true
	}
	return m[field]
}

var adminMask = FieldMask{"*": true}

// userMasks lists which patch keys a regular user may write per action. For
// tasks the mask applies to the caller's own progress row, not the task itself.
var userMasks = map[Action]FieldMask{
	ActionUpdateTask:       {"status": true, "notes": true},
	ActionUpdateAttendance: {"status": true, "remarks": true},
}

// AllowedFields returns the writable field set for a role and action. Unknown
// role/action combinations allow nothing.
func AllowedFields(role models.Role, action Action) FieldMask {
	if role == models.RoleAdmin {
		return adminMask
	}
	if mask, ok := userMasks[action]; ok {
		return mask
	}
	return FieldMask{}
}
