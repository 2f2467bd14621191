package model

import "time"

// CalendarEvent is the display-ready projection of a ScheduleRecord.
// Start/End are Vietnam-local instants. Events are rebuilt wholesale on
// every fetch and never mutated in place.
type CalendarEvent struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	GroupID     int64        `json:"group_id"`
	Start       time.Time    `json:"start"`
	End         time.Time    `json:"end"`
	TeacherID   *int64       `json:"teacher_id,omitempty"`
	TeacherName string       `json:"teacher_name"`
	RoomName    string       `json:"room_name"`
	Mode        DeliveryMode `json:"delivery_mode"`
	MeetingLink string       `json:"meeting_link,omitempty"`
	Color       string       `json:"color"`
	// Active is time-dependent and recomputed at projection time, never
	// cached across renders.
	Active bool `json:"active"`
}

// DayBucket holds the events whose local start date equals Date.
type DayBucket struct {
	Date   time.Time       `json:"date"`
	Events []CalendarEvent `json:"events"`
}

// WeekGrid covers exactly seven consecutive days starting at the
// Monday on or before the reference date.
type WeekGrid struct {
	WeekStart time.Time    `json:"week_start"`
	Days      [7]DayBucket `json:"days"`
}

// TimeSlot holds the events whose local start hour equals Hour.
type TimeSlot struct {
	Hour   int             `json:"hour"`
	Events []CalendarEvent `json:"events"`
}

// TimeSlotList is the single-day view: one slot per whole hour in
// [StartHour, EndHour] inclusive. Excluded counts the day's events
// whose start hour fell outside the range and were therefore dropped
// from the slots.
type TimeSlotList struct {
	Date      time.Time  `json:"date"`
	StartHour int        `json:"start_hour"`
	EndHour   int        `json:"end_hour"`
	Slots     []TimeSlot `json:"slots"`
	Excluded  int        `json:"excluded"`
}
