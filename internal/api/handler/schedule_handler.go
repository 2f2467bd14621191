package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/dto"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/service"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/upstream"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/response"
)

// ScheduleHandler serves schedule search and single-record CRUD.
type ScheduleHandler struct {
	svc service.ScheduleService
}

// NewScheduleHandler creates a ScheduleHandler instance.
func NewScheduleHandler(svc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// List returns projected sessions matching the filter parameters.
// GET /api/v1/schedules?group_id=&teacher_id=&room_id=&delivery_mode=
func (h *ScheduleHandler) List(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	events, err := h.svc.List(c.Request.Context(), user, parseFilterQuery(c))
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, events)
}

// Search finds sessions by free text.
// GET /api/v1/schedules/search?query=...
func (h *ScheduleHandler) Search(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	query := c.Query("query")
	if query == "" {
		response.BadRequest(c, 14002, "query must not be empty")
		return
	}

	hits, err := h.svc.Search(c.Request.Context(), user, query)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, hits)
}

// Create submits a new session.
// POST /api/v1/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14002, err.Error())
		return
	}

	created, err := h.svc.Create(c.Request.Context(), user, &req)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.Created(c, created)
}

// Update patches one session.
// PUT /api/v1/schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14002, err.Error())
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), user, id, &req)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, updated)
}

// Delete removes one session.
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), user, id); err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, nil)
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 14002, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 14004, "schedule not found")
	case errors.Is(err, service.ErrScheduleForbidden):
		response.Forbidden(c, 14003, "no permission for this schedule")
	case errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrInvalidDeliveryMod):
		response.BadRequest(c, 14002, err.Error())
	case errors.Is(err, upstream.ErrUnavailable):
		response.BadGateway(c, 14050, "schedule backend unavailable")
	case errors.Is(err, upstream.ErrRejected):
		response.BadGateway(c, 14051, "schedule backend rejected the request")
	default:
		response.InternalError(c)
	}
}
