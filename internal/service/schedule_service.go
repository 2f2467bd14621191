package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/calendar"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/dto"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/permission"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/upstream"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/redis"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/timeutil"
)

// ── schedule module errors ──

var (
	ErrScheduleNotFound   = errors.New("schedule not found")
	ErrScheduleForbidden  = errors.New("no permission for this schedule operation")
	ErrInvalidTimeRange   = errors.New("schedule end must not precede its start")
	ErrInvalidDeliveryMod = errors.New("unknown delivery mode")
)

// ── ScheduleService ─────────────────────────────────────────
//
// Design notes:
//   - All reads go fetch → project → bucket. Projection drops records
//     with unusable anchors (counted, logged once per fetch) instead
//     of failing the whole view; one bad record must not blank the
//     calendar.
//   - The redis cache stores raw upstream payloads keyed by filter
//     fingerprint; writes bump a version counter instead of deleting
//     keys.
//   - Capability checks here gate what this gateway forwards; the core
//     backend enforces its own checks independently.
// ─────────────────────────────────────────────────────────────

// ScheduleService is the calendar read/write surface.
type ScheduleService interface {
	// GetWeekView builds the 7-day grid around ref for the caller.
	GetWeekView(ctx context.Context, user model.Identity, ref time.Time, filter dto.ScheduleFilter) (*dto.WeekViewResponse, error)
	// GetDayView builds the hour-slot list for ref's local date.
	GetDayView(ctx context.Context, user model.Identity, ref time.Time, filter dto.ScheduleFilter, startHour, endHour int) (*dto.DayViewResponse, error)
	// List returns projected events matching the filter, flat.
	List(ctx context.Context, user model.Identity, filter dto.ScheduleFilter) ([]dto.CalendarEventView, error)
	// Search runs an upstream text search and projects the hits.
	Search(ctx context.Context, user model.Identity, query string) ([]dto.CalendarEventView, error)
	// Create submits a new session upstream.
	Create(ctx context.Context, user model.Identity, req *dto.CreateScheduleRequest) (*model.ScheduleRecord, error)
	// Update patches one session upstream.
	Update(ctx context.Context, user model.Identity, id int64, req *dto.UpdateScheduleRequest) (*model.ScheduleRecord, error)
	// Delete removes one session upstream.
	Delete(ctx context.Context, user model.Identity, id int64) error
}

type scheduleService struct {
	schedules upstream.ScheduleAPI
	rdb       *redis.Client // nil disables caching
	palette   *calendar.Palette
	logger    *zap.Logger
	now       func() time.Time // injected for tests
}

// NewScheduleService creates a ScheduleService instance.
func NewScheduleService(schedules upstream.ScheduleAPI, rdb *redis.Client, logger *zap.Logger) ScheduleService {
	return &scheduleService{
		schedules: schedules,
		rdb:       rdb,
		palette:   calendar.NewPalette(),
		logger:    logger,
		now:       timeutil.NowLocal,
	}
}

// ── views ──

func (s *scheduleService) GetWeekView(ctx context.Context, user model.Identity, ref time.Time, filter dto.ScheduleFilter) (*dto.WeekViewResponse, error) {
	weekStart := calendar.WeekStart(ref)
	filter.FromDate = weekStart
	filter.ToDate = weekStart.AddDate(0, 0, 6)

	records, err := s.fetch(ctx, filter)
	if err != nil {
		return nil, err
	}

	events, views, dropped := s.project(user, records)
	grid := calendar.BuildWeek(ref, events)

	resp := &dto.WeekViewResponse{
		WeekStart: grid.WeekStart.Format("2006-01-02"),
		Days:      make([]dto.WeekDayView, 0, 7),
		Dropped:   dropped,
	}
	for _, day := range grid.Days {
		dayView := dto.WeekDayView{
			Date:   day.Date.Format("2006-01-02"),
			Events: make([]dto.CalendarEventView, 0, len(day.Events)),
		}
		for _, ev := range day.Events {
			dayView.Events = append(dayView.Events, views[ev.ID])
		}
		resp.Days = append(resp.Days, dayView)
	}
	return resp, nil
}

func (s *scheduleService) GetDayView(ctx context.Context, user model.Identity, ref time.Time, filter dto.ScheduleFilter, startHour, endHour int) (*dto.DayViewResponse, error) {
	date := timeutil.LocalDate(ref)
	filter.FromDate = date
	filter.ToDate = date

	records, err := s.fetch(ctx, filter)
	if err != nil {
		return nil, err
	}

	events, views, dropped := s.project(user, records)
	list := calendar.BuildDay(ref, events, startHour, endHour)

	resp := &dto.DayViewResponse{
		Date:      list.Date.Format("2006-01-02"),
		StartHour: list.StartHour,
		EndHour:   list.EndHour,
		Slots:     make([]dto.TimeSlotView, 0, len(list.Slots)),
		Excluded:  list.Excluded,
		Dropped:   dropped,
	}
	for _, slot := range list.Slots {
		slotView := dto.TimeSlotView{
			Hour:   slot.Hour,
			Events: make([]dto.CalendarEventView, 0, len(slot.Events)),
		}
		for _, ev := range slot.Events {
			slotView.Events = append(slotView.Events, views[ev.ID])
		}
		resp.Slots = append(resp.Slots, slotView)
	}
	return resp, nil
}

func (s *scheduleService) List(ctx context.Context, user model.Identity, filter dto.ScheduleFilter) ([]dto.CalendarEventView, error) {
	records, err := s.fetch(ctx, filter)
	if err != nil {
		return nil, err
	}

	events, views, _ := s.project(user, records)
	out := make([]dto.CalendarEventView, 0, len(events))
	for _, ev := range events {
		out = append(out, views[ev.ID])
	}
	return out, nil
}

func (s *scheduleService) Search(ctx context.Context, user model.Identity, query string) ([]dto.CalendarEventView, error) {
	records, err := s.schedules.Search(ctx, query)
	if err != nil {
		s.logger.Error("schedule search failed", zap.Error(err), zap.String("query", query))
		return nil, err
	}

	_, views, _ := s.project(user, records)
	out := make([]dto.CalendarEventView, 0, len(views))
	for _, rec := range records {
		if v, ok := views[rec.ID]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// ── CRUD pass-through ──

func (s *scheduleService) Create(ctx context.Context, user model.Identity, req *dto.CreateScheduleRequest) (*model.ScheduleRecord, error) {
	if !permission.ResolveBase(user.Role).CanCreate {
		return nil, ErrScheduleForbidden
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}
	mode := model.DeliveryMode(req.Mode)
	if mode.Normalize() != mode {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDeliveryMod, req.Mode)
	}

	rec := &model.ScheduleRecord{
		GroupID:     req.GroupID,
		TeacherID:   req.TeacherID,
		RoomID:      req.RoomID,
		StartTime:   timeutil.ToUTC(req.StartTime),
		EndTime:     timeutil.ToUTC(req.EndTime),
		Mode:        mode,
		MeetingLink: req.MeetingLink,
	}

	created, err := s.schedules.Create(ctx, rec)
	if err != nil {
		s.logger.Error("schedule create failed", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx)
	return created, nil
}

func (s *scheduleService) Update(ctx context.Context, user model.Identity, id int64, req *dto.UpdateScheduleRequest) (*model.ScheduleRecord, error) {
	rec, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	if !permission.ResolveForRecord(user.Role, user.UserID, rec).CanEdit {
		return nil, ErrScheduleForbidden
	}

	if req.TeacherID != nil {
		rec.TeacherID = req.TeacherID
	}
	if req.RoomID != nil {
		rec.RoomID = req.RoomID
	}
	if req.StartTime != nil {
		rec.StartTime = timeutil.ToUTC(*req.StartTime)
	}
	if req.EndTime != nil {
		rec.EndTime = timeutil.ToUTC(*req.EndTime)
	}
	if req.Mode != nil {
		mode := model.DeliveryMode(*req.Mode)
		if mode.Normalize() != mode {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDeliveryMod, *req.Mode)
		}
		rec.Mode = mode
	}
	if req.MeetingLink != nil {
		rec.MeetingLink = *req.MeetingLink
	}
	if rec.EndTime.Before(rec.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	updated, err := s.schedules.Update(ctx, rec)
	if err != nil {
		s.logger.Error("schedule update failed", zap.Error(err), zap.Int64("id", id))
		return nil, err
	}

	s.invalidate(ctx)
	return updated, nil
}

func (s *scheduleService) Delete(ctx context.Context, user model.Identity, id int64) error {
	rec, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}

	if !permission.ResolveForRecord(user.Role, user.UserID, rec).CanDelete {
		return ErrScheduleForbidden
	}

	if err := s.schedules.Delete(ctx, id); err != nil {
		s.logger.Error("schedule delete failed", zap.Error(err), zap.Int64("id", id))
		return err
	}

	s.invalidate(ctx)
	return nil
}

// ── internals ──

// fetch loads schedule records through the cache when available.
func (s *scheduleService) fetch(ctx context.Context, filter dto.ScheduleFilter) ([]model.ScheduleRecord, error) {
	if s.rdb == nil {
		return s.list(ctx, filter)
	}

	fp := fingerprint(filter)
	if payload, ok := s.rdb.GetScheduleList(ctx, fp); ok {
		var records []model.ScheduleRecord
		if err := json.Unmarshal(payload, &records); err == nil {
			return records, nil
		}
		// Corrupt cache entry: fall through to a fresh fetch.
	}

	records, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(records); err == nil {
		s.rdb.SetScheduleList(ctx, fp, payload)
	}
	return records, nil
}

func (s *scheduleService) list(ctx context.Context, filter dto.ScheduleFilter) ([]model.ScheduleRecord, error) {
	records, err := s.schedules.List(ctx, filter)
	if err != nil {
		s.logger.Error("schedule fetch failed", zap.Error(err))
		return nil, err
	}
	return records, nil
}

// project converts records to events and per-user views. Records whose
// anchors cannot be projected are dropped and counted.
func (s *scheduleService) project(user model.Identity, records []model.ScheduleRecord) ([]model.CalendarEvent, map[int64]dto.CalendarEventView, int) {
	now := s.now()
	events := make([]model.CalendarEvent, 0, len(records))
	views := make(map[int64]dto.CalendarEventView, len(records))
	dropped := 0

	for i := range records {
		rec := records[i]
		ev, err := calendar.Project(rec, now, s.palette)
		if err != nil {
			dropped++
			continue
		}
		events = append(events, ev)
		views[ev.ID] = dto.CalendarEventView{
			CalendarEvent: ev,
			Permissions:   permission.ResolveForRecord(user.Role, user.UserID, &rec),
		}
	}

	if dropped > 0 {
		s.logger.Warn("dropped schedule records with invalid anchors", zap.Int("count", dropped))
	}
	return events, views, dropped
}

func (s *scheduleService) invalidate(ctx context.Context) {
	if s.rdb != nil {
		s.rdb.BumpCacheVersion(ctx)
	}
}

func fingerprint(f dto.ScheduleFilter) string {
	return fmt.Sprintf("g%d:t%d:r%d:m%s:%s:%s",
		f.GroupID, f.TeacherID, f.RoomID, f.Mode,
		f.FromDate.Format("2006-01-02"), f.ToDate.Format("2006-01-02"))
}
