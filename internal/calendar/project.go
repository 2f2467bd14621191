package calendar

import (
	"errors"
	"fmt"

	"time"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/timeutil"
)

// ── Event projection ────────────────────────────────────────
//
// Project turns a raw schedule record into a display-ready calendar
// event: resolved Vietnam-local times, deterministic group color,
// active flag. Pure apart from the palette memo; no network, no
// clock reads (the caller passes "now").
// ─────────────────────────────────────────────────────────────

// PlaceholderName is rendered when a record has no assigned teacher or
// room. Events must never render with an empty name.
const PlaceholderName = "Unassigned"

// ErrInvalidInterval reports a record whose start/end anchors are
// unusable. Unlike timeutil's recoverable clock fallback this is a
// hard failure: a calendar cannot invent anchor times, so the fetch
// pipeline must drop or flag the record.
var ErrInvalidInterval = errors.New("schedule record has invalid start/end")

// Project maps one schedule record to a calendar event. now must be a
// Vietnam-local instant (timeutil.NowLocal at render time).
func Project(rec model.ScheduleRecord, now time.Time, pal *Palette) (model.CalendarEvent, error) {
	if rec.StartTime.IsZero() || rec.EndTime.IsZero() {
		return model.CalendarEvent{}, fmt.Errorf("%w: record %d has zero anchor", ErrInvalidInterval, rec.ID)
	}
	if rec.EndTime.Before(rec.StartTime) {
		return model.CalendarEvent{}, fmt.Errorf("%w: record %d ends before it starts", ErrInvalidInterval, rec.ID)
	}

	start := timeutil.ToLocal(rec.StartTime)
	end := timeutil.ToLocal(rec.EndTime)

	teacher := rec.TeacherName
	if rec.TeacherID == nil || teacher == "" {
		teacher = PlaceholderName
	}
	room := rec.RoomName
	if rec.RoomID == nil || room == "" {
		room = PlaceholderName
	}

	return model.CalendarEvent{
		ID:          rec.ID,
		Title:       rec.GroupName,
		GroupID:     rec.GroupID,
		Start:       start,
		End:         end,
		TeacherID:   rec.TeacherID,
		TeacherName: teacher,
		RoomName:    room,
		Mode:        rec.Mode, // raw value preserved; Normalize() is for labels
		MeetingLink: rec.MeetingLink,
		Color:       pal.ColorOf(rec.GroupID),
		// Closed interval: an event is active at the exact start and
		// exact end instants.
		Active: !now.Before(start) && !now.After(end),
	}, nil
}
