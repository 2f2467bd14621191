package permission

import (
	"testing"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
)

func TestResolveBase_Table(t *testing.T) {
	tests := []struct {
		role string
		want model.TimetablePermissions
	}{
		{"STUDENT", model.TimetablePermissions{CanView: true}},
		{"TEACHER", model.TimetablePermissions{CanView: true, CanCreate: true, CanEdit: true}},
		{"ADMIN", model.TimetablePermissions{CanView: true, CanCreate: true, CanEdit: true, CanDelete: true}},
		{"ADMINISTRATOR", model.TimetablePermissions{CanView: true, CanCreate: true, CanEdit: true, CanDelete: true}},
		// Unknown-but-present role falls back to student level.
		{"JANITOR", model.TimetablePermissions{CanView: true}},
	}
	for _, tt := range tests {
		got := ResolveBase(model.ParseRole(tt.role))
		if got != tt.want {
			t.Errorf("ResolveBase(%s) = %+v, want %+v", tt.role, got, tt.want)
		}
	}
}

func TestResolveUnauthenticated(t *testing.T) {
	if got := ResolveUnauthenticated(); got != (model.TimetablePermissions{}) {
		t.Errorf("unauthenticated must grant nothing, got %+v", got)
	}
}

func recordWithTeacher(id int64) *model.ScheduleRecord {
	return &model.ScheduleRecord{ID: 1, TeacherID: &id}
}

func TestResolveForRecord_TeacherOwnership(t *testing.T) {
	role := model.ParseRole("TEACHER")

	own := ResolveForRecord(role, 5, recordWithTeacher(5))
	if !own.CanEdit {
		t.Error("teacher must be able to edit an owned session")
	}
	if own.CanDelete {
		t.Error("teacher must never delete, even an owned session")
	}

	other := ResolveForRecord(role, 5, recordWithTeacher(9))
	if other.CanEdit || other.CanDelete {
		t.Errorf("teacher must not modify another teacher's session: %+v", other)
	}

	unassigned := ResolveForRecord(role, 5, &model.ScheduleRecord{ID: 2})
	if unassigned.CanEdit {
		t.Error("teacher must not edit an unassigned session")
	}
}

func TestResolveForRecord_AdminUnconditional(t *testing.T) {
	got := ResolveForRecord(model.ParseRole("ADMIN"), 5, recordWithTeacher(9))
	if !got.CanEdit || !got.CanDelete {
		t.Errorf("admin keeps full rights regardless of assignment: %+v", got)
	}
}

func TestResolveForRecord_StudentViewOnly(t *testing.T) {
	got := ResolveForRecord(model.ParseRole("STUDENT"), 5, recordWithTeacher(5))
	if !got.CanView {
		t.Error("student must view")
	}
	if got.CanEdit || got.CanDelete {
		t.Errorf("student must be view-only: %+v", got)
	}
}
