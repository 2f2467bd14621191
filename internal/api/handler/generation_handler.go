package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/dto"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/service"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/upstream"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/response"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/timeutil"
)

// GenerationHandler serves bulk schedule generation runs.
type GenerationHandler struct {
	svc service.GenerationService
}

// NewGenerationHandler creates a GenerationHandler instance.
func NewGenerationHandler(svc service.GenerationService) *GenerationHandler {
	return &GenerationHandler{svc: svc}
}

// ListGroupOptions returns the selectable groups with their weekly
// templates for the run configuration dialog.
// GET /api/v1/generation/groups
func (h *GenerationHandler) ListGroupOptions(c *gin.Context) {
	options, err := h.svc.ListGroupOptions(c.Request.Context())
	if err != nil {
		handleGenerationError(c, err)
		return
	}
	response.OK(c, options)
}

// Start launches a generation run and returns its first snapshot.
// POST /api/v1/generation/runs
func (h *GenerationHandler) Start(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.StartGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, err.Error())
		return
	}

	snap, err := h.svc.Start(c.Request.Context(), user, &req)
	if err != nil {
		handleGenerationError(c, err)
		return
	}
	response.Accepted(c, snap)
}

// Get returns a run's current progress snapshot.
// GET /api/v1/generation/runs/:id
func (h *GenerationHandler) Get(c *gin.Context) {
	snap, err := h.svc.Get(c.Param("id"))
	if err != nil {
		handleGenerationError(c, err)
		return
	}
	response.OK(c, snap)
}

// Cancel stops a running run between steps.
// POST /api/v1/generation/runs/:id/cancel
func (h *GenerationHandler) Cancel(c *gin.Context) {
	if err := h.svc.Cancel(c.Param("id")); err != nil {
		handleGenerationError(c, err)
		return
	}
	response.OK(c, nil)
}

// GenerateWeekly regenerates one group's week synchronously.
// POST /api/v1/generation/weekly
func (h *GenerationHandler) GenerateWeekly(c *gin.Context) {
	var req dto.WeeklyGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, err.Error())
		return
	}

	from, err := time.ParseInLocation("2006-01-02", req.StartDate, timeutil.Location())
	if err != nil {
		response.BadRequest(c, 16001, "start_date must be YYYY-MM-DD")
		return
	}
	to, err := time.ParseInLocation("2006-01-02", req.EndDate, timeutil.Location())
	if err != nil {
		response.BadRequest(c, 16001, "end_date must be YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		response.BadRequest(c, 16001, "end_date precedes start_date")
		return
	}

	snap, err := h.svc.GenerateWeekly(c.Request.Context(), req.GroupID, from, to)
	if err != nil {
		handleGenerationError(c, err)
		return
	}
	response.OK(c, snap)
}

func handleGenerationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownMode),
		errors.Is(err, service.ErrNoGroupsSelected),
		errors.Is(err, service.ErrMissingDateRange),
		errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 16001, err.Error())
	case errors.Is(err, service.ErrRunInProgress):
		response.Conflict(c, 16002, "a generation run is already in progress")
	case errors.Is(err, service.ErrRunNotFound):
		response.NotFound(c, 16003, "generation run not found")
	case errors.Is(err, upstream.ErrUnavailable):
		response.BadGateway(c, 16050, "schedule backend unavailable")
	default:
		response.InternalError(c)
	}
}
