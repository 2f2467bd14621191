// Package service holds the business layer: calendar views, schedule
// CRUD pass-through, bulk generation orchestration and file exports.
// Handlers depend on the interfaces here, never on upstream directly.
package service

import (
	"go.uber.org/zap"

	"github.com/dthaibinhF/chemist-FE-sub000/config"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/upstream"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/redis"
)

// Service aggregates the per-concern services for injection into the
// handler layer.
type Service struct {
	Schedule   ScheduleService
	Generation GenerationService
	Export     ExportService
}

// NewService wires the full business layer.
func NewService(cfg *config.Config, up *upstream.Client, rdb *redis.Client, logger *zap.Logger) *Service {
	schedule := NewScheduleService(up.Schedule, rdb, logger)
	generation := NewGenerationService(up.Generation, up.Group, &cfg.Generation, logger)
	export := NewExportService(schedule, generation, logger)
	return &Service{
		Schedule:   schedule,
		Generation: generation,
		Export:     export,
	}
}
