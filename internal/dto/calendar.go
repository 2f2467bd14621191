package dto

import "github.com/dthaibinhF/chemist-FE-sub000/internal/model"

// CalendarEventView is a projected event plus the capability flags the
// requesting user holds on the underlying record.
type CalendarEventView struct {
	model.CalendarEvent
	Permissions model.RecordPermissions `json:"permissions"`
}

// WeekDayView is one day column of the week view.
type WeekDayView struct {
	Date   string              `json:"date"` // YYYY-MM-DD, Vietnam-local
	Events []CalendarEventView `json:"events"`
}

// WeekViewResponse is the seven-day grid.
type WeekViewResponse struct {
	WeekStart string        `json:"week_start"`
	Days      []WeekDayView `json:"days"`
	// Dropped counts records excluded because their anchors could not
	// be projected; the calendar stays usable, the UI may flag it.
	Dropped int `json:"dropped,omitempty"`
}

// TimeSlotView is one hour row of the day view.
type TimeSlotView struct {
	Hour   int                 `json:"hour"`
	Events []CalendarEventView `json:"events"`
}

// DayViewResponse is the single-day slot list.
type DayViewResponse struct {
	Date      string         `json:"date"`
	StartHour int            `json:"start_hour"`
	EndHour   int            `json:"end_hour"`
	Slots     []TimeSlotView `json:"slots"`
	// Excluded counts same-day events outside the hour range.
	Excluded int `json:"excluded"`
	Dropped  int `json:"dropped,omitempty"`
}

// PermissionsResponse is the caller's base capability set.
type PermissionsResponse struct {
	Role        string                     `json:"role"`
	Permissions model.TimetablePermissions `json:"permissions"`
}
