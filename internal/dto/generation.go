package dto

import (
	"time"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
)

// Generation run modes.
const (
	GenerationModeSelectedGroups = "selected_groups"
	GenerationModeAllGroups      = "all_groups"
	GenerationModeNextWeek       = "next_week"
	GenerationModeManual         = "manual"
)

// StartGenerationRequest configures a bulk generation run. GroupIDs
// and the date range are required for the selected-groups mode; the
// date range alone for all-groups; the other two modes take nothing.
type StartGenerationRequest struct {
	Mode      string  `json:"mode" binding:"required"`
	GroupIDs  []int64 `json:"group_ids"`
	StartDate string  `json:"start_date"` // YYYY-MM-DD, Vietnam-local
	EndDate   string  `json:"end_date"`
}

// GroupOption is one selectable group in the generation dialog,
// carrying its recurring weekly sessions so the operator can see what
// a run would produce.
type GroupOption struct {
	model.Group
	Templates []model.WeeklyTemplate `json:"weekly_templates"`
}

// WeeklyGenerationRequest regenerates one group's week synchronously.
type WeeklyGenerationRequest struct {
	GroupID   int64  `json:"group_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD, Vietnam-local
	EndDate   string `json:"end_date" binding:"required"`
}

// GeneratedScheduleSummary is one successfully generated session, the
// row unit of the CSV export.
type GeneratedScheduleSummary struct {
	GroupID   int64  `json:"group_id"`
	GroupName string `json:"group_name"`
	StartTime string `json:"start_time"` // Vietnam-local display form
	EndTime   string `json:"end_time"`
	Mode      string `json:"delivery_mode"`
}

// GenerationSnapshot is the progress record of one run. Snapshots are
// value copies; a failed run keeps everything accumulated up to the
// failure.
type GenerationSnapshot struct {
	RunID       string                     `json:"run_id"`
	State       string                     `json:"state"` // configuring|running|completed|failed|canceled
	Mode        string                     `json:"mode"`
	Total       int                        `json:"total"`
	Completed   int                        `json:"completed"`
	Errors      int                        `json:"errors"`
	CurrentStep string                     `json:"current_step"`
	Generated   []GeneratedScheduleSummary `json:"generated"`
	ErrorList   []string                   `json:"error_details"`
	StartedAt   time.Time                  `json:"started_at"`
	FinishedAt  *time.Time                 `json:"finished_at,omitempty"`
}
