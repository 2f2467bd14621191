package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dthaibinhF/chemist-FE-sub000/config"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/dto"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/upstream"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/timeutil"
)

// ── generation module errors ──

var (
	ErrRunNotFound      = errors.New("generation run not found")
	ErrRunInProgress    = errors.New("a generation run is already in progress")
	ErrRunStillRunning  = errors.New("generation run has not finished")
	ErrUnknownMode      = errors.New("unknown generation mode")
	ErrNoGroupsSelected = errors.New("no groups selected")
	ErrMissingDateRange = errors.New("start and end dates are required")
	ErrInvalidDateRange = errors.New("end date precedes start date")
)

// Run states.
const (
	RunStateRunning   = "running"
	RunStateCompleted = "completed"
	RunStateFailed    = "failed"
	RunStateCanceled  = "canceled"
)

// ── GenerationService ───────────────────────────────────────
//
// Runs execute in a background goroutine detached from the request
// context, so a run survives the HTTP request that started it. Only
// one run may be in flight at a time. A failed or canceled run keeps
// every session generated before the stop; those partials already
// exist upstream and hiding them would misreport state.
// ─────────────────────────────────────────────────────────────

// GenerationService starts, tracks and cancels bulk generation runs.
type GenerationService interface {
	// Start validates the request and launches a run asynchronously.
	Start(ctx context.Context, user model.Identity, req *dto.StartGenerationRequest) (*dto.GenerationSnapshot, error)
	// Get returns a point-in-time copy of a run's progress.
	Get(runID string) (*dto.GenerationSnapshot, error)
	// Cancel stops a running run between per-group steps.
	Cancel(runID string) error
	// GenerateWeekly regenerates one group's week synchronously.
	GenerateWeekly(ctx context.Context, groupID int64, from, to time.Time) (*dto.GenerationSnapshot, error)
	// ListGroupOptions returns the selectable groups with their
	// recurring weekly sessions for the run configuration dialog.
	ListGroupOptions(ctx context.Context) ([]dto.GroupOption, error)
}

// run is the mutable tracking record behind one snapshot stream.
type run struct {
	mu       sync.Mutex
	snapshot dto.GenerationSnapshot
	cancel   context.CancelFunc
}

func (r *run) copySnapshot() *dto.GenerationSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.snapshot
	snap.Generated = append([]dto.GeneratedScheduleSummary(nil), r.snapshot.Generated...)
	snap.ErrorList = append([]string(nil), r.snapshot.ErrorList...)
	return &snap
}

func (r *run) update(fn func(s *dto.GenerationSnapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.snapshot)
}

type generationService struct {
	generation upstream.GenerationAPI
	groups     upstream.GroupAPI
	retention  time.Duration
	logger     *zap.Logger

	mu   sync.Mutex
	runs map[string]*run
}

// NewGenerationService creates a GenerationService instance.
func NewGenerationService(generation upstream.GenerationAPI, groups upstream.GroupAPI, cfg *config.GenerationConfig, logger *zap.Logger) GenerationService {
	return &generationService{
		generation: generation,
		groups:     groups,
		retention:  cfg.RunRetention,
		logger:     logger,
		runs:       make(map[string]*run),
	}
}

func (s *generationService) Start(ctx context.Context, user model.Identity, req *dto.StartGenerationRequest) (*dto.GenerationSnapshot, error) {
	from, to, groupIDs, err := validateStart(req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	for _, r := range s.runs {
		if r.copySnapshot().State == RunStateRunning {
			return nil, ErrRunInProgress
		}
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r := &run{
		snapshot: dto.GenerationSnapshot{
			RunID:       uuid.NewString(),
			State:       RunStateRunning,
			Mode:        req.Mode,
			CurrentStep: "Starting generation",
			StartedAt:   time.Now(),
		},
		cancel: cancel,
	}
	s.runs[r.snapshot.RunID] = r

	s.logger.Info("generation run started",
		zap.String("run_id", r.snapshot.RunID),
		zap.String("mode", req.Mode),
		zap.Int64("user_id", user.UserID),
	)

	go s.execute(runCtx, r, req.Mode, groupIDs, from, to)

	return r.copySnapshot(), nil
}

func (s *generationService) Get(runID string) (*dto.GenerationSnapshot, error) {
	s.mu.Lock()
	s.pruneLocked()
	r, ok := s.runs[runID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrRunNotFound
	}
	return r.copySnapshot(), nil
}

func (s *generationService) Cancel(runID string) error {
	s.mu.Lock()
	r, ok := s.runs[runID]
	s.mu.Unlock()
	if !ok {
		return ErrRunNotFound
	}
	if r.copySnapshot().State != RunStateRunning {
		return nil // already finished, nothing to stop
	}
	r.cancel()
	s.logger.Info("generation run cancel requested", zap.String("run_id", runID))
	return nil
}

// GenerateWeekly is the single-group regenerate action. It runs inline
// and returns a completed (or failed) snapshot immediately.
func (s *generationService) GenerateWeekly(ctx context.Context, groupID int64, from, to time.Time) (*dto.GenerationSnapshot, error) {
	snap := &dto.GenerationSnapshot{
		RunID:     uuid.NewString(),
		State:     RunStateRunning,
		Mode:      "weekly",
		Total:     1,
		StartedAt: time.Now(),
	}

	result, err := s.generation.GenerateWeekly(ctx, groupID, from, to)
	now := time.Now()
	snap.FinishedAt = &now
	if err != nil {
		snap.State = RunStateFailed
		snap.Errors = 1
		snap.ErrorList = []string{err.Error()}
		snap.CurrentStep = fmt.Sprintf("Generation failed for group %d", groupID)
		s.logger.Error("weekly generation failed", zap.Int64("group_id", groupID), zap.Error(err))
		return snap, nil
	}

	snap.State = RunStateCompleted
	snap.Completed = 1
	snap.Generated = summarize(result.Generated, nil)
	snap.CurrentStep = fmt.Sprintf("Generated %d schedules", len(result.Generated))
	return snap, nil
}

// ListGroupOptions loads active groups and their weekly templates. A
// failed template lookup leaves that group selectable with an empty
// template list rather than hiding it.
func (s *generationService) ListGroupOptions(ctx context.Context) ([]dto.GroupOption, error) {
	groups, err := s.groups.ListGroups(ctx)
	if err != nil {
		s.logger.Error("group listing failed", zap.Error(err))
		return nil, err
	}

	out := make([]dto.GroupOption, 0, len(groups))
	for _, g := range groups {
		if !g.Active {
			continue
		}
		templates, err := s.groups.ListTemplates(ctx, g.ID)
		if err != nil {
			s.logger.Warn("weekly template lookup failed",
				zap.Int64("group_id", g.ID), zap.Error(err))
			templates = nil
		}
		out = append(out, dto.GroupOption{Group: g, Templates: templates})
	}
	return out, nil
}

// ── run execution ──

func (s *generationService) execute(ctx context.Context, r *run, mode string, groupIDs []int64, from, to time.Time) {
	switch mode {
	case dto.GenerationModeSelectedGroups:
		s.runSelectedGroups(ctx, r, groupIDs, from, to)
	case dto.GenerationModeAllGroups:
		s.runSingleCall(ctx, r, "Generating schedules for all active groups", func() (*upstream.GenerationResult, error) {
			return s.generation.BulkGenerateAll(ctx, from, to)
		})
	case dto.GenerationModeNextWeek:
		s.runSingleCall(ctx, r, "Generating next week's schedules", func() (*upstream.GenerationResult, error) {
			return s.generation.GenerateNextWeek(ctx)
		})
	case dto.GenerationModeManual:
		s.runSingleCall(ctx, r, "Triggering auto-generation", func() (*upstream.GenerationResult, error) {
			return s.generation.TriggerAutoGeneration(ctx)
		})
	}
}

// runSelectedGroups issues one upstream call per group so that a
// mid-run failure or cancellation keeps everything generated so far.
func (s *generationService) runSelectedGroups(ctx context.Context, r *run, groupIDs []int64, from, to time.Time) {
	names := s.groupNames(ctx)
	total := len(groupIDs)
	r.update(func(snap *dto.GenerationSnapshot) { snap.Total = total })

	for i, gid := range groupIDs {
		if ctx.Err() != nil {
			s.finish(r, RunStateCanceled, "Generation canceled")
			return
		}

		label := names[gid]
		if label == "" {
			label = fmt.Sprintf("group %d", gid)
		}
		r.update(func(snap *dto.GenerationSnapshot) {
			snap.CurrentStep = fmt.Sprintf("Generating schedules for %s (%d/%d)", label, i+1, total)
		})

		result, err := s.generation.BulkGenerate(ctx, []int64{gid}, from, to)
		if err != nil {
			if ctx.Err() != nil {
				s.finish(r, RunStateCanceled, "Generation canceled")
				return
			}
			r.update(func(snap *dto.GenerationSnapshot) {
				snap.Errors++
				snap.ErrorList = append(snap.ErrorList, fmt.Sprintf("%s: %v", label, err))
			})
			s.logger.Error("generation step failed",
				zap.String("run_id", r.copySnapshot().RunID),
				zap.Int64("group_id", gid),
				zap.Error(err),
			)
			s.finish(r, RunStateFailed, fmt.Sprintf("Generation failed at %s", label))
			return
		}

		r.update(func(snap *dto.GenerationSnapshot) {
			snap.Completed++
			snap.Generated = append(snap.Generated, summarize(result.Generated, names)...)
		})
	}

	generated := len(r.copySnapshot().Generated)
	s.finish(r, RunStateCompleted, fmt.Sprintf("Generated %d schedules", generated))
}

func (s *generationService) runSingleCall(ctx context.Context, r *run, step string, call func() (*upstream.GenerationResult, error)) {
	r.update(func(snap *dto.GenerationSnapshot) {
		snap.Total = 1
		snap.CurrentStep = step
	})

	result, err := call()
	if ctx.Err() != nil {
		s.finish(r, RunStateCanceled, "Generation canceled")
		return
	}
	if err != nil {
		r.update(func(snap *dto.GenerationSnapshot) {
			snap.Errors = 1
			snap.ErrorList = append(snap.ErrorList, err.Error())
		})
		s.logger.Error("generation run failed",
			zap.String("run_id", r.copySnapshot().RunID),
			zap.Error(err),
		)
		s.finish(r, RunStateFailed, "Generation failed")
		return
	}

	names := s.groupNames(ctx)
	r.update(func(snap *dto.GenerationSnapshot) {
		snap.Completed = 1
		snap.Generated = summarize(result.Generated, names)
	})
	s.finish(r, RunStateCompleted, fmt.Sprintf("Generated %d schedules", len(result.Generated)))
}

func (s *generationService) finish(r *run, state, step string) {
	now := time.Now()
	r.update(func(snap *dto.GenerationSnapshot) {
		snap.State = state
		snap.CurrentStep = step
		snap.FinishedAt = &now
	})
	r.cancelIfSet()
	s.logger.Info("generation run finished",
		zap.String("run_id", r.copySnapshot().RunID),
		zap.String("state", state),
	)
}

func (r *run) cancelIfSet() {
	if r.cancel != nil {
		r.cancel()
	}
}

// groupNames fetches the id→name index, best effort. Summaries fall
// back to numeric labels when the lookup fails.
func (s *generationService) groupNames(ctx context.Context) map[int64]string {
	groups, err := s.groups.ListGroups(ctx)
	if err != nil {
		s.logger.Warn("group name lookup failed", zap.Error(err))
		return nil
	}
	names := make(map[int64]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}
	return names
}

// pruneLocked drops finished runs past retention. Caller holds s.mu.
func (s *generationService) pruneLocked() {
	if s.retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.retention)
	for id, r := range s.runs {
		snap := r.copySnapshot()
		if snap.FinishedAt != nil && snap.FinishedAt.Before(cutoff) {
			delete(s.runs, id)
		}
	}
}

// ── helpers ──

func validateStart(req *dto.StartGenerationRequest) (from, to time.Time, groupIDs []int64, err error) {
	switch req.Mode {
	case dto.GenerationModeSelectedGroups:
		if len(req.GroupIDs) == 0 {
			return from, to, nil, ErrNoGroupsSelected
		}
		groupIDs = req.GroupIDs
		from, to, err = parseDateRange(req.StartDate, req.EndDate)
	case dto.GenerationModeAllGroups:
		from, to, err = parseDateRange(req.StartDate, req.EndDate)
	case dto.GenerationModeNextWeek, dto.GenerationModeManual:
		// No inputs beyond the mode itself.
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
	}
	return from, to, groupIDs, err
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, ErrMissingDateRange
	}
	from, err := time.ParseInLocation("2006-01-02", start, timeutil.Location())
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date %q", ErrMissingDateRange, start)
	}
	to, err := time.ParseInLocation("2006-01-02", end, timeutil.Location())
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date %q", ErrMissingDateRange, end)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return from, to, nil
}

// summarize converts generated records into CSV-ready rows with
// Vietnam-local display times.
func summarize(records []model.ScheduleRecord, names map[int64]string) []dto.GeneratedScheduleSummary {
	out := make([]dto.GeneratedScheduleSummary, 0, len(records))
	for _, rec := range records {
		name := rec.GroupName
		if name == "" {
			name = names[rec.GroupID]
		}
		out = append(out, dto.GeneratedScheduleSummary{
			GroupID:   rec.GroupID,
			GroupName: name,
			StartTime: timeutil.Format(rec.StartTime, "2006-01-02 15:04"),
			EndTime:   timeutil.Format(rec.EndTime, "2006-01-02 15:04"),
			Mode:      string(rec.Mode),
		})
	}
	return out
}
