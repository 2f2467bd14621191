package model

// Role is the closed set of dashboard roles. The backend transmits
// roles as uppercase strings; ParseRole is the only place that mapping
// happens, so an unknown role cannot silently widen anyone's rights.
type Role int

const (
	// RoleUnknown is an authenticated user whose role string was not
	// recognized. Resolves to student-level capabilities.
	RoleUnknown Role = iota
	RoleStudent
	RoleTeacher
	RoleAdmin
)

// ParseRole maps a backend role string onto the enum. "ADMINISTRATOR"
// is a legacy alias of "ADMIN".
func ParseRole(s string) Role {
	switch s {
	case "STUDENT":
		return RoleStudent
	case "TEACHER":
		return RoleTeacher
	case "ADMIN", "ADMINISTRATOR":
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

// String returns the canonical uppercase role name.
func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "STUDENT"
	case RoleTeacher:
		return "TEACHER"
	case RoleAdmin:
		return "ADMIN"
	default:
		return "UNKNOWN"
	}
}

// TimetablePermissions is the capability set a role grants on the
// timetable as a whole. Derived on every access, never persisted.
type TimetablePermissions struct {
	CanView   bool `json:"can_view"`
	CanCreate bool `json:"can_create"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

// RecordPermissions refines the base set against one specific schedule
// record (ownership matters for teachers). Must be re-evaluated per
// record.
type RecordPermissions struct {
	CanView   bool `json:"can_view"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}
