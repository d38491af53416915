package constants

// Context keys
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// Session
const (
	SessionCookieName = "workforce_session"
)

// Auth
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DefaultDisapprovalRemark is stored when an admin disapproves an attendance
// record without giving a reason.
const DefaultDisapprovalRemark = "Attendance disapproved by admin"
