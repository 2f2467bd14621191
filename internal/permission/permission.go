package permission

import "github.com/dthaibinhF/chemist-FE-sub000/internal/model"

// ── Capability resolution ───────────────────────────────────
//
// Role → capability mapping:
//
//	unauthenticated:  nothing
//	student:          view
//	teacher:          view, create, edit (own records only)
//	admin:            everything
//
// Base capabilities gate which controls render at all; per-record
// refinement decides whether edit/delete apply to one schedule. The
// core backend re-checks independently, so this layer is display
// gating, never the final authority.
// ─────────────────────────────────────────────────────────────

// ResolveBase returns the capability set a role grants on the
// timetable as a whole. Unknown-but-present roles deliberately resolve
// to the student set, the most restrictive authenticated default.
func ResolveBase(role model.Role) model.TimetablePermissions {
	switch role {
	case model.RoleAdmin:
		return model.TimetablePermissions{CanView: true, CanCreate: true, CanEdit: true, CanDelete: true}
	case model.RoleTeacher:
		return model.TimetablePermissions{CanView: true, CanCreate: true, CanEdit: true}
	case model.RoleStudent, model.RoleUnknown:
		return model.TimetablePermissions{CanView: true}
	default:
		return model.TimetablePermissions{}
	}
}

// ResolveUnauthenticated is the all-false set for requests with no
// role at all.
func ResolveUnauthenticated() model.TimetablePermissions {
	return model.TimetablePermissions{}
}

// ResolveForRecord refines the base set against one specific record.
// Teachers keep edit rights only on sessions assigned to them; admins
// keep everything; students and unknowns are view-only regardless of
// assignment. Not cacheable across records for the same user.
func ResolveForRecord(role model.Role, userID int64, rec *model.ScheduleRecord) model.RecordPermissions {
	base := ResolveBase(role)
	out := model.RecordPermissions{CanView: base.CanView}

	switch role {
	case model.RoleAdmin:
		out.CanEdit = true
		out.CanDelete = true
	case model.RoleTeacher:
		owns := rec != nil && rec.TeacherID != nil && *rec.TeacherID == userID
		out.CanEdit = owns
		// Deletion stays admin-only even for a teacher's own sessions.
		out.CanDelete = false
	}

	return out
}
