package service

import (
	"context"
	"time"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/dto"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/upstream"
)

// Hand-written upstream fakes. Each method delegates to an optional
// function field so a test overrides only what it exercises.

type mockScheduleAPI struct {
	ListFn    func(ctx context.Context, filter dto.ScheduleFilter) ([]model.ScheduleRecord, error)
	SearchFn  func(ctx context.Context, query string) ([]model.ScheduleRecord, error)
	GetByIDFn func(ctx context.Context, id int64) (*model.ScheduleRecord, error)
	CreateFn  func(ctx context.Context, rec *model.ScheduleRecord) (*model.ScheduleRecord, error)
	UpdateFn  func(ctx context.Context, rec *model.ScheduleRecord) (*model.ScheduleRecord, error)
	DeleteFn  func(ctx context.Context, id int64) error
}

func (m *mockScheduleAPI) List(ctx context.Context, filter dto.ScheduleFilter) ([]model.ScheduleRecord, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockScheduleAPI) Search(ctx context.Context, query string) ([]model.ScheduleRecord, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query)
	}
	return nil, nil
}

func (m *mockScheduleAPI) GetByID(ctx context.Context, id int64) (*model.ScheduleRecord, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, upstream.ErrNotFound
}

func (m *mockScheduleAPI) Create(ctx context.Context, rec *model.ScheduleRecord) (*model.ScheduleRecord, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, rec)
	}
	return rec, nil
}

func (m *mockScheduleAPI) Update(ctx context.Context, rec *model.ScheduleRecord) (*model.ScheduleRecord, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, rec)
	}
	return rec, nil
}

func (m *mockScheduleAPI) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

type mockGroupAPI struct {
	ListGroupsFn    func(ctx context.Context) ([]model.Group, error)
	ListTemplatesFn func(ctx context.Context, groupID int64) ([]model.WeeklyTemplate, error)
}

func (m *mockGroupAPI) ListGroups(ctx context.Context) ([]model.Group, error) {
	if m.ListGroupsFn != nil {
		return m.ListGroupsFn(ctx)
	}
	return nil, nil
}

func (m *mockGroupAPI) ListTemplates(ctx context.Context, groupID int64) ([]model.WeeklyTemplate, error) {
	if m.ListTemplatesFn != nil {
		return m.ListTemplatesFn(ctx, groupID)
	}
	return nil, nil
}

type mockGenerationAPI struct {
	GenerateWeeklyFn        func(ctx context.Context, groupID int64, from, to time.Time) (*upstream.GenerationResult, error)
	BulkGenerateFn          func(ctx context.Context, groupIDs []int64, from, to time.Time) (*upstream.GenerationResult, error)
	BulkGenerateAllFn       func(ctx context.Context, from, to time.Time) (*upstream.GenerationResult, error)
	GenerateNextWeekFn      func(ctx context.Context) (*upstream.GenerationResult, error)
	TriggerAutoGenerationFn func(ctx context.Context) (*upstream.GenerationResult, error)
}

func (m *mockGenerationAPI) GenerateWeekly(ctx context.Context, groupID int64, from, to time.Time) (*upstream.GenerationResult, error) {
	if m.GenerateWeeklyFn != nil {
		return m.GenerateWeeklyFn(ctx, groupID, from, to)
	}
	return &upstream.GenerationResult{}, nil
}

func (m *mockGenerationAPI) BulkGenerate(ctx context.Context, groupIDs []int64, from, to time.Time) (*upstream.GenerationResult, error) {
	if m.BulkGenerateFn != nil {
		return m.BulkGenerateFn(ctx, groupIDs, from, to)
	}
	return &upstream.GenerationResult{}, nil
}

func (m *mockGenerationAPI) BulkGenerateAll(ctx context.Context, from, to time.Time) (*upstream.GenerationResult, error) {
	if m.BulkGenerateAllFn != nil {
		return m.BulkGenerateAllFn(ctx, from, to)
	}
	return &upstream.GenerationResult{}, nil
}

func (m *mockGenerationAPI) GenerateNextWeek(ctx context.Context) (*upstream.GenerationResult, error) {
	if m.GenerateNextWeekFn != nil {
		return m.GenerateNextWeekFn(ctx)
	}
	return &upstream.GenerationResult{}, nil
}

func (m *mockGenerationAPI) TriggerAutoGeneration(ctx context.Context) (*upstream.GenerationResult, error) {
	if m.TriggerAutoGenerationFn != nil {
		return m.TriggerAutoGenerationFn(ctx)
	}
	return &upstream.GenerationResult{}, nil
}
