package model

import (
	"time"

	"github.com/dthaibinhF/chemist-FE-sub000/pkg/timeutil"
)

// DeliveryMode is how a class session is delivered.
type DeliveryMode string

const (
	ModeInPerson DeliveryMode = "IN_PERSON"
	ModeOnline   DeliveryMode = "ONLINE"
	ModeHybrid   DeliveryMode = "HYBRID"
)

// Normalize maps unknown modes onto in-person for labeling and color
// purposes. The raw value is kept wherever the record is carried, so
// strict consumers still see what the backend sent.
func (m DeliveryMode) Normalize() DeliveryMode {
	switch m {
	case ModeInPerson, ModeOnline, ModeHybrid:
		return m
	default:
		return ModeInPerson
	}
}

// ScheduleRecord is a single class session as the core backend stores
// it. StartTime/EndTime are UTC instants; this service treats the
// record as immutable and only projects it for display.
type ScheduleRecord struct {
	ID          int64        `json:"id"`
	GroupID     int64        `json:"group_id"`
	GroupName   string       `json:"group_name"`
	TeacherID   *int64       `json:"teacher_id,omitempty"`
	TeacherName string       `json:"teacher_name,omitempty"`
	RoomID      *int64       `json:"room_id,omitempty"`
	RoomName    string       `json:"room_name,omitempty"`
	StartTime   time.Time    `json:"start_time"`
	EndTime     time.Time    `json:"end_time"`
	Mode        DeliveryMode `json:"delivery_mode"`
	MeetingLink string       `json:"meeting_link,omitempty"`
}

// Group is a tutoring group as the core backend stores it.
type Group struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Level  string `json:"level,omitempty"`
	Active bool   `json:"active"`
}

// WeeklyTemplate is one recurring weekly session of a group. The
// backend stores the clock fields as zone-naive Vietnam wall-clock
// strings, which is why they are timeutil.TimeOfDay and not instants:
// they must never be zone-shifted.
type WeeklyTemplate struct {
	ID         int64              `json:"id"`
	GroupID    int64              `json:"group_id"`
	DayOfWeek  int                `json:"day_of_week"` // 1=Monday … 7=Sunday
	StartClock timeutil.TimeOfDay `json:"start_time"`
	EndClock   timeutil.TimeOfDay `json:"end_time"`
	Mode       DeliveryMode       `json:"delivery_mode"`
}
