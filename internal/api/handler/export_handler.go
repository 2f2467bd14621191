package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/service"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/upstream"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/response"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler serves file downloads: generation CSVs and week
// timetable exports.
type ExportHandler struct {
	svc service.ExportService
}

// NewExportHandler creates an ExportHandler instance.
func NewExportHandler(svc service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// GenerationCSV downloads a finished run's generated sessions.
// GET /api/v1/generation/runs/:id/export
func (h *ExportHandler) GenerationCSV(c *gin.Context) {
	buf, filename, err := h.svc.GenerationCSV(c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	writeDownload(c, contentTypeCSV, filename, buf.Bytes())
}

// WeekXLSX downloads the caller's week view as a spreadsheet.
// GET /api/v1/export/week.xlsx?date=YYYY-MM-DD
func (h *ExportHandler) WeekXLSX(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	ref, ok := parseDateQuery(c)
	if !ok {
		return
	}

	buf, filename, err := h.svc.WeekXLSX(c.Request.Context(), user, ref, parseFilterQuery(c))
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	writeDownload(c, contentTypeXLSX, filename, buf.Bytes())
}

// WeekICS downloads the caller's week view as an iCalendar feed.
// GET /api/v1/export/week.ics?date=YYYY-MM-DD
func (h *ExportHandler) WeekICS(c *gin.Context) {
	user, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	ref, ok := parseDateQuery(c)
	if !ok {
		return
	}

	buf, filename, err := h.svc.WeekICS(c.Request.Context(), user, ref, parseFilterQuery(c))
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	writeDownload(c, contentTypeICS, filename, buf.Bytes())
}

func writeDownload(c *gin.Context, contentType, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRunNotFound):
		response.NotFound(c, 17001, "generation run not found")
	case errors.Is(err, service.ErrRunStillRunning):
		response.Conflict(c, 17002, "generation run has not finished")
	case errors.Is(err, service.ErrNothingToExport):
		response.NotFound(c, 17003, "nothing to export")
	case errors.Is(err, upstream.ErrUnavailable):
		response.BadGateway(c, 17050, "schedule backend unavailable")
	default:
		response.InternalError(c)
	}
}
