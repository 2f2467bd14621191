// Package upstream is the client boundary toward the core backend,
// which owns persistence, payment and salary computation, and schedule
// conflict checking. Everything here is fetch-and-decode; no business
// rules live on this side.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/dto"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
)

var (
	// ErrNotFound maps upstream 404s.
	ErrNotFound = errors.New("upstream: resource not found")
	// ErrRejected maps upstream 4xx rejections other than 404.
	ErrRejected = errors.New("upstream: request rejected")
	// ErrUnavailable maps network failures and upstream 5xx.
	ErrUnavailable = errors.New("upstream: backend unavailable")
)

// StatusError carries the upstream HTTP status and message alongside
// one of the sentinel errors above.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream: HTTP %d: %s", e.Status, e.Message)
}

// Unwrap classifies the status into a sentinel for errors.Is checks.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == 404:
		return ErrNotFound
	case e.Status >= 400 && e.Status < 500:
		return ErrRejected
	default:
		return ErrUnavailable
	}
}

// GenerationResult is what the generation endpoints return: the
// sessions the backend created plus an operator-readable message.
type GenerationResult struct {
	Generated []model.ScheduleRecord `json:"generated"`
	Message   string                 `json:"message"`
}

// ScheduleAPI covers schedule reads and single-record CRUD.
type ScheduleAPI interface {
	List(ctx context.Context, filter dto.ScheduleFilter) ([]model.ScheduleRecord, error)
	Search(ctx context.Context, query string) ([]model.ScheduleRecord, error)
	GetByID(ctx context.Context, id int64) (*model.ScheduleRecord, error)
	Create(ctx context.Context, rec *model.ScheduleRecord) (*model.ScheduleRecord, error)
	Update(ctx context.Context, rec *model.ScheduleRecord) (*model.ScheduleRecord, error)
	Delete(ctx context.Context, id int64) error
}

// GroupAPI covers tutoring-group reads.
type GroupAPI interface {
	ListGroups(ctx context.Context) ([]model.Group, error)
	ListTemplates(ctx context.Context, groupID int64) ([]model.WeeklyTemplate, error)
}

// GenerationAPI covers the five schedule-generation endpoints.
type GenerationAPI interface {
	GenerateWeekly(ctx context.Context, groupID int64, from, to time.Time) (*GenerationResult, error)
	BulkGenerate(ctx context.Context, groupIDs []int64, from, to time.Time) (*GenerationResult, error)
	BulkGenerateAll(ctx context.Context, from, to time.Time) (*GenerationResult, error)
	GenerateNextWeek(ctx context.Context) (*GenerationResult, error)
	TriggerAutoGeneration(ctx context.Context) (*GenerationResult, error)
}

// Client aggregates the per-concern APIs, mirroring how services
// receive them.
type Client struct {
	Schedule   ScheduleAPI
	Group      GroupAPI
	Generation GenerationAPI
}
