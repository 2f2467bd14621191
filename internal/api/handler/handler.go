package handler

import (
	"github.com/dthaibinhF/chemist-FE-sub000/config"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/service"
)

// Handler aggregates the per-module HTTP handlers.
type Handler struct {
	Calendar   *CalendarHandler
	Schedule   *ScheduleHandler
	Generation *GenerationHandler
	Export     *ExportHandler
}

// NewHandler creates the handler aggregate.
func NewHandler(svc *service.Service, cfg *config.Config) *Handler {
	return &Handler{
		Calendar:   NewCalendarHandler(svc.Schedule, &cfg.Calendar),
		Schedule:   NewScheduleHandler(svc.Schedule),
		Generation: NewGenerationHandler(svc.Generation),
		Export:     NewExportHandler(svc.Export),
	}
}
