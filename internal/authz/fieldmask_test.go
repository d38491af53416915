package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teamtrack/workforce-api/internal/models"
)

func TestAllowedFields_AdminWildcard(t *testing.T) {
	mask := AllowedFields(models.RoleAdmin, ActionUpdateAttendance)

	assert.True(t, mask.Allows("status"))
	assert.True(t, mask.Allows("check_in_time"))
	assert.True(t, mask.Allows("anything_at_all"))
}

func TestAllowedFields_UserTaskMask(t *testing.T) {
	mask := AllowedFields(models.RoleUser, ActionUpdateTask)

	assert.True(t, mask.Allows("status"))
	assert.True(t, mask.Allows("notes"))
	assert.False(t, mask.Allows("title"))
	assert.False(t, mask.Allows("assignees"))
	assert.False(t, mask.Allows("due_date"))
}

func TestAllowedFields_UserAttendanceMask(t *testing.T) {
	mask := AllowedFields(models.RoleUser, ActionUpdateAttendance)

	assert.True(t, mask.Allows("status"))
	assert.True(t, mask.Allows("remarks"))
	assert.False(t, mask.Allows("check_in_time"))
	assert.False(t, mask.Allows("check_out_time"))
	assert.False(t, mask.Allows("work_hours"))
	assert.False(t, mask.Allows("approved_by_id"))
}

func TestAllowedFields_UnknownAction(t *testing.T) {
	mask := AllowedFields(models.RoleUser, Action("delete_everything"))
	assert.False(t, mask.Allows("status"))
}
