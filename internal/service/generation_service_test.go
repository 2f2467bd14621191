package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dthaibinhF/chemist-FE-sub000/config"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/dto"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/upstream"
)

func newTestGenerationService(gen *mockGenerationAPI, groups *mockGroupAPI) GenerationService {
	if groups == nil {
		groups = &mockGroupAPI{}
	}
	cfg := &config.GenerationConfig{RunRetention: time.Hour}
	return NewGenerationService(gen, groups, cfg, zap.NewNop())
}

// waitForFinish polls until the run leaves the running state.
func waitForFinish(t *testing.T, svc GenerationService, runID string) *dto.GenerationSnapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := svc.Get(runID)
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		if snap.State != RunStateRunning {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("run did not finish in time")
	return nil
}

func generatedRecord(groupID int64) model.ScheduleRecord {
	start := time.Date(2024, time.June, 10, 2, 0, 0, 0, time.UTC)
	return model.ScheduleRecord{
		ID:        groupID * 100,
		GroupID:   groupID,
		GroupName: fmt.Sprintf("Group %d", groupID),
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Mode:      model.ModeInPerson,
	}
}

func TestStartValidation(t *testing.T) {
	svc := newTestGenerationService(&mockGenerationAPI{}, nil)
	admin := model.Identity{UserID: 1, Role: model.RoleAdmin}

	tests := []struct {
		name    string
		req     dto.StartGenerationRequest
		wantErr error
	}{
		{
			name:    "unknown mode",
			req:     dto.StartGenerationRequest{Mode: "yolo"},
			wantErr: ErrUnknownMode,
		},
		{
			name:    "selected groups without groups",
			req:     dto.StartGenerationRequest{Mode: dto.GenerationModeSelectedGroups, StartDate: "2024-06-10", EndDate: "2024-06-16"},
			wantErr: ErrNoGroupsSelected,
		},
		{
			name:    "selected groups without dates",
			req:     dto.StartGenerationRequest{Mode: dto.GenerationModeSelectedGroups, GroupIDs: []int64{1}},
			wantErr: ErrMissingDateRange,
		},
		{
			name:    "all groups with inverted range",
			req:     dto.StartGenerationRequest{Mode: dto.GenerationModeAllGroups, StartDate: "2024-06-16", EndDate: "2024-06-10"},
			wantErr: ErrInvalidDateRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Start(context.Background(), admin, &tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSelectedGroupsRunCompletes(t *testing.T) {
	var calls [][]int64
	gen := &mockGenerationAPI{
		BulkGenerateFn: func(_ context.Context, groupIDs []int64, from, to time.Time) (*upstream.GenerationResult, error) {
			calls = append(calls, groupIDs)
			return &upstream.GenerationResult{Generated: []model.ScheduleRecord{generatedRecord(groupIDs[0])}}, nil
		},
	}
	groups := &mockGroupAPI{
		ListGroupsFn: func(_ context.Context) ([]model.Group, error) {
			return []model.Group{{ID: 1, Name: "Chem 10A"}, {ID: 2, Name: "Chem 11B"}}, nil
		},
	}
	svc := newTestGenerationService(gen, groups)

	snap, err := svc.Start(context.Background(), model.Identity{Role: model.RoleAdmin}, &dto.StartGenerationRequest{
		Mode:      dto.GenerationModeSelectedGroups,
		GroupIDs:  []int64{1, 2},
		StartDate: "2024-06-10",
		EndDate:   "2024-06-16",
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	final := waitForFinish(t, svc, snap.RunID)
	if final.State != RunStateCompleted {
		t.Fatalf("state = %s, want completed", final.State)
	}
	if final.Completed != 2 || final.Total != 2 {
		t.Errorf("progress = %d/%d, want 2/2", final.Completed, final.Total)
	}
	if len(final.Generated) != 2 {
		t.Errorf("got %d generated summaries, want 2", len(final.Generated))
	}
	if len(calls) != 2 || len(calls[0]) != 1 {
		t.Errorf("upstream must be called once per group with a single id, calls = %v", calls)
	}
	if final.Generated[0].StartTime != "2024-06-10 09:00" {
		t.Errorf("summary start = %q, want Vietnam-local 2024-06-10 09:00", final.Generated[0].StartTime)
	}
}

func TestSelectedGroupsRunKeepsPartialsOnFailure(t *testing.T) {
	gen := &mockGenerationAPI{
		BulkGenerateFn: func(_ context.Context, groupIDs []int64, from, to time.Time) (*upstream.GenerationResult, error) {
			if groupIDs[0] == 2 {
				return nil, &upstream.StatusError{Status: 409, Message: "schedule conflict"}
			}
			return &upstream.GenerationResult{Generated: []model.ScheduleRecord{generatedRecord(groupIDs[0])}}, nil
		},
	}
	svc := newTestGenerationService(gen, nil)

	snap, err := svc.Start(context.Background(), model.Identity{Role: model.RoleAdmin}, &dto.StartGenerationRequest{
		Mode:      dto.GenerationModeSelectedGroups,
		GroupIDs:  []int64{1, 2, 3},
		StartDate: "2024-06-10",
		EndDate:   "2024-06-16",
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	final := waitForFinish(t, svc, snap.RunID)
	if final.State != RunStateFailed {
		t.Fatalf("state = %s, want failed", final.State)
	}
	if final.Completed != 1 {
		t.Errorf("completed = %d, want 1 (group before the failure)", final.Completed)
	}
	if len(final.Generated) != 1 || final.Generated[0].GroupID != 1 {
		t.Errorf("partial results must survive the failure, generated = %v", final.Generated)
	}
	if final.Errors != 1 || len(final.ErrorList) != 1 {
		t.Errorf("error bookkeeping = %d/%v", final.Errors, final.ErrorList)
	}
	if final.FinishedAt == nil {
		t.Error("failed run must carry a finish timestamp")
	}
}

func TestRunCancellation(t *testing.T) {
	started := make(chan struct{})
	gen := &mockGenerationAPI{
		BulkGenerateFn: func(ctx context.Context, groupIDs []int64, from, to time.Time) (*upstream.GenerationResult, error) {
			if groupIDs[0] == 1 {
				close(started)
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return &upstream.GenerationResult{}, nil
		},
	}
	svc := newTestGenerationService(gen, nil)

	snap, err := svc.Start(context.Background(), model.Identity{Role: model.RoleAdmin}, &dto.StartGenerationRequest{
		Mode:      dto.GenerationModeSelectedGroups,
		GroupIDs:  []int64{1, 2},
		StartDate: "2024-06-10",
		EndDate:   "2024-06-16",
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	<-started
	if err := svc.Cancel(snap.RunID); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}

	final := waitForFinish(t, svc, snap.RunID)
	if final.State != RunStateCanceled {
		t.Errorf("state = %s, want canceled", final.State)
	}
}

func TestOnlyOneRunAtATime(t *testing.T) {
	block := make(chan struct{})
	gen := &mockGenerationAPI{
		BulkGenerateAllFn: func(ctx context.Context, from, to time.Time) (*upstream.GenerationResult, error) {
			<-block
			return &upstream.GenerationResult{}, nil
		},
	}
	svc := newTestGenerationService(gen, nil)
	admin := model.Identity{Role: model.RoleAdmin}
	req := dto.StartGenerationRequest{
		Mode:      dto.GenerationModeAllGroups,
		StartDate: "2024-06-10",
		EndDate:   "2024-06-16",
	}

	snap, err := svc.Start(context.Background(), admin, &req)
	if err != nil {
		t.Fatalf("first Start returned error: %v", err)
	}

	if _, err := svc.Start(context.Background(), admin, &req); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("second Start err = %v, want ErrRunInProgress", err)
	}

	close(block)
	waitForFinish(t, svc, snap.RunID)
}

func TestGetUnknownRun(t *testing.T) {
	svc := newTestGenerationService(&mockGenerationAPI{}, nil)
	if _, err := svc.Get("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("err = %v, want ErrRunNotFound", err)
	}
	if err := svc.Cancel("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Cancel err = %v, want ErrRunNotFound", err)
	}
}

func TestGenerateWeeklyInline(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		gen := &mockGenerationAPI{
			GenerateWeeklyFn: func(_ context.Context, groupID int64, from, to time.Time) (*upstream.GenerationResult, error) {
				return &upstream.GenerationResult{Generated: []model.ScheduleRecord{generatedRecord(groupID)}}, nil
			},
		}
		svc := newTestGenerationService(gen, nil)

		snap, err := svc.GenerateWeekly(context.Background(), 3, time.Now(), time.Now().AddDate(0, 0, 6))
		if err != nil {
			t.Fatalf("GenerateWeekly returned error: %v", err)
		}
		if snap.State != RunStateCompleted || snap.Completed != 1 {
			t.Errorf("snapshot = %s %d/%d", snap.State, snap.Completed, snap.Total)
		}
		if len(snap.Generated) != 1 {
			t.Errorf("got %d summaries, want 1", len(snap.Generated))
		}
	})

	t.Run("upstream rejection becomes a failed snapshot", func(t *testing.T) {
		gen := &mockGenerationAPI{
			GenerateWeeklyFn: func(_ context.Context, groupID int64, from, to time.Time) (*upstream.GenerationResult, error) {
				return nil, &upstream.StatusError{Status: 422, Message: "no weekly templates"}
			},
		}
		svc := newTestGenerationService(gen, nil)

		snap, err := svc.GenerateWeekly(context.Background(), 3, time.Now(), time.Now().AddDate(0, 0, 6))
		if err != nil {
			t.Fatalf("GenerateWeekly returned error: %v", err)
		}
		if snap.State != RunStateFailed || snap.Errors != 1 {
			t.Errorf("snapshot = %s errors=%d, want failed/1", snap.State, snap.Errors)
		}
	})
}

func TestListGroupOptions(t *testing.T) {
	groups := &mockGroupAPI{
		ListGroupsFn: func(_ context.Context) ([]model.Group, error) {
			return []model.Group{
				{ID: 1, Name: "Chem 10A", Active: true},
				{ID: 2, Name: "Old batch", Active: false},
			}, nil
		},
		ListTemplatesFn: func(_ context.Context, groupID int64) ([]model.WeeklyTemplate, error) {
			return []model.WeeklyTemplate{{ID: 7, GroupID: groupID, DayOfWeek: 1}}, nil
		},
	}
	svc := newTestGenerationService(&mockGenerationAPI{}, groups)

	options, err := svc.ListGroupOptions(context.Background())
	if err != nil {
		t.Fatalf("ListGroupOptions returned error: %v", err)
	}
	if len(options) != 1 {
		t.Fatalf("got %d options, want only the active group", len(options))
	}
	if options[0].Name != "Chem 10A" || len(options[0].Templates) != 1 {
		t.Errorf("option = %+v", options[0])
	}
}

func TestNextWeekAndManualModes(t *testing.T) {
	for _, mode := range []string{dto.GenerationModeNextWeek, dto.GenerationModeManual} {
		t.Run(mode, func(t *testing.T) {
			called := false
			gen := &mockGenerationAPI{
				GenerateNextWeekFn: func(ctx context.Context) (*upstream.GenerationResult, error) {
					called = true
					return &upstream.GenerationResult{Generated: []model.ScheduleRecord{generatedRecord(1)}}, nil
				},
				TriggerAutoGenerationFn: func(ctx context.Context) (*upstream.GenerationResult, error) {
					called = true
					return &upstream.GenerationResult{Generated: []model.ScheduleRecord{generatedRecord(1)}}, nil
				},
			}
			svc := newTestGenerationService(gen, nil)

			snap, err := svc.Start(context.Background(), model.Identity{Role: model.RoleAdmin},
				&dto.StartGenerationRequest{Mode: mode})
			if err != nil {
				t.Fatalf("Start returned error: %v", err)
			}
			final := waitForFinish(t, svc, snap.RunID)
			if final.State != RunStateCompleted {
				t.Errorf("state = %s, want completed", final.State)
			}
			if !called {
				t.Error("upstream endpoint was not called")
			}
		})
	}
}
