package dto

import (
	"time"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
)

// ScheduleFilter narrows a schedule fetch. Zero values mean "no
// filter". FromDate/ToDate are Vietnam-local calendar dates.
type ScheduleFilter struct {
	GroupID   int64
	TeacherID int64
	RoomID    int64
	Mode      model.DeliveryMode
	FromDate  time.Time
	ToDate    time.Time
}

// CreateScheduleRequest creates one session upstream. StartTime and
// EndTime arrive as the user edited them (Vietnam-local, RFC3339 with
// offset); the service converts them to UTC before submission.
type CreateScheduleRequest struct {
	GroupID     int64     `json:"group_id" binding:"required"`
	TeacherID   *int64    `json:"teacher_id"`
	RoomID      *int64    `json:"room_id"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Mode        string    `json:"delivery_mode" binding:"required"`
	MeetingLink string    `json:"meeting_link"`
}

// UpdateScheduleRequest applies a partial edit to one session.
type UpdateScheduleRequest struct {
	TeacherID   *int64     `json:"teacher_id"`
	RoomID      *int64     `json:"room_id"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Mode        *string    `json:"delivery_mode"`
	MeetingLink *string    `json:"meeting_link"`
}
