package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dthaibinhF/chemist-FE-sub000/config"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/dto"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/permission"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/service"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/upstream"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/response"
)

// CalendarHandler serves the week/day views and the caller's
// capability set.
type CalendarHandler struct {
	svc service.ScheduleService
	cfg *config.CalendarConfig
}

// NewCalendarHandler creates a CalendarHandler instance.
func NewCalendarHandler(svc service.ScheduleService, cfg *config.CalendarConfig) *CalendarHandler {
	return &CalendarHandler{svc: svc, cfg: cfg}
}

// GetWeekView returns the seven-day grid around the requested date.
// GET /api/v1/calendar/week?date=YYYY-MM-DD
func (h *CalendarHandler) GetWeekView(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	ref, ok := parseDateQuery(c)
	if !ok {
		return
	}

	resp, err := h.svc.GetWeekView(c.Request.Context(), user, ref, parseFilterQuery(c))
	if err != nil {
		handleCalendarError(c, err)
		return
	}
	response.OK(c, resp)
}

// GetDayView returns the hour-slot list for the requested date.
// GET /api/v1/calendar/day?date=YYYY-MM-DD&start_hour=7&end_hour=22
func (h *CalendarHandler) GetDayView(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	ref, ok := parseDateQuery(c)
	if !ok {
		return
	}

	startHour := h.cfg.DayStartHour
	endHour := h.cfg.DayEndHour
	if raw := c.Query("start_hour"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			startHour = v
		}
	}
	if raw := c.Query("end_hour"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			endHour = v
		}
	}

	resp, err := h.svc.GetDayView(c.Request.Context(), user, ref, parseFilterQuery(c), startHour, endHour)
	if err != nil {
		handleCalendarError(c, err)
		return
	}
	response.OK(c, resp)
}

// GetPermissions returns the caller's base capability set so the
// dashboard can decide which controls to render.
// GET /api/v1/calendar/permissions
func (h *CalendarHandler) GetPermissions(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	response.OK(c, dto.PermissionsResponse{
		Role:        user.Role.String(),
		Permissions: permission.ResolveBase(user.Role),
	})
}

func handleCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, upstream.ErrUnavailable):
		response.BadGateway(c, 14050, "schedule backend unavailable")
	case errors.Is(err, upstream.ErrRejected):
		response.BadGateway(c, 14051, "schedule backend rejected the request")
	default:
		response.InternalError(c)
	}
}
