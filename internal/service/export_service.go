package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/dto"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
)

// ErrNothingToExport reports a run with no generated sessions.
var ErrNothingToExport = errors.New("nothing to export")

var csvHeader = []string{"group_id", "group_name", "start_time", "end_time", "delivery_mode"}

// ExportService renders generation results and week views as files.
// Exports always reflect a finished state: a run must have stopped
// before its CSV is available, and week exports render whatever the
// week view currently shows.
type ExportService interface {
	// GenerationCSV exports a finished run's generated sessions. A
	// failed run exports its partial results.
	GenerationCSV(runID string) (*bytes.Buffer, string, error)
	// WeekXLSX renders the caller's week view as a spreadsheet.
	WeekXLSX(ctx context.Context, user model.Identity, ref time.Time, filter dto.ScheduleFilter) (*bytes.Buffer, string, error)
	// WeekICS renders the caller's week view as an iCalendar feed.
	WeekICS(ctx context.Context, user model.Identity, ref time.Time, filter dto.ScheduleFilter) (*bytes.Buffer, string, error)
}

type exportService struct {
	schedules  ScheduleService
	generation GenerationService
	logger     *zap.Logger
}

// NewExportService creates an ExportService instance.
func NewExportService(schedules ScheduleService, generation GenerationService, logger *zap.Logger) ExportService {
	return &exportService{
		schedules:  schedules,
		generation: generation,
		logger:     logger,
	}
}

func (s *exportService) GenerationCSV(runID string) (*bytes.Buffer, string, error) {
	snap, err := s.generation.Get(runID)
	if err != nil {
		return nil, "", err
	}
	if snap.State == RunStateRunning {
		return nil, "", ErrRunStillRunning
	}
	if len(snap.Generated) == 0 {
		return nil, "", ErrNothingToExport
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, "", fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range snap.Generated {
		record := []string{
			fmt.Sprintf("%d", row.GroupID),
			row.GroupName,
			row.StartTime,
			row.EndTime,
			row.Mode,
		}
		if err := w.Write(record); err != nil {
			return nil, "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("flush csv: %w", err)
	}

	filename := fmt.Sprintf("generated-schedules-%s.csv", runID)
	return &buf, filename, nil
}

func (s *exportService) WeekXLSX(ctx context.Context, user model.Identity, ref time.Time, filter dto.ScheduleFilter) (*bytes.Buffer, string, error) {
	week, err := s.schedules.GetWeekView(ctx, user, ref, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Timetable"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return nil, "", fmt.Errorf("build header style: %w", err)
	}

	title := fmt.Sprintf("Week of %s", week.WeekStart)
	f.SetCellValue(sheet, "A1", title)
	f.MergeCell(sheet, "A1", "G1")

	headers := []string{"Day", "Date", "Time", "Group", "Teacher", "Room", "Mode"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A2", "G2", headerStyle)
	f.SetColWidth(sheet, "A", "B", 14)
	f.SetColWidth(sheet, "C", "C", 16)
	f.SetColWidth(sheet, "D", "F", 22)
	f.SetColWidth(sheet, "G", "G", 12)

	rowNum := 3
	for _, day := range week.Days {
		dayName := weekdayName(day.Date)
		for _, ev := range day.Events {
			values := []interface{}{
				dayName,
				day.Date,
				fmt.Sprintf("%s - %s", ev.Start.Format("15:04"), ev.End.Format("15:04")),
				ev.Title,
				ev.TeacherName,
				ev.RoomName,
				string(ev.Mode),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, rowNum)
				f.SetCellValue(sheet, cell, v)
			}
			rowNum++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("xlsx export failed", zap.Error(err))
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	filename := fmt.Sprintf("timetable-%s.xlsx", week.WeekStart)
	return buf, filename, nil
}

func (s *exportService) WeekICS(ctx context.Context, user model.Identity, ref time.Time, filter dto.ScheduleFilter) (*bytes.Buffer, string, error) {
	week, err := s.schedules.GetWeekView(ctx, user, ref, filter)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Chemist//Timetable//EN")

	stamp := time.Now()
	for _, day := range week.Days {
		for _, ev := range day.Events {
			uid := fmt.Sprintf("schedule-%d@chemist", ev.ID)
			event := cal.AddEvent(uid)
			event.SetDtStampTime(stamp)
			event.SetStartAt(ev.Start.UTC())
			event.SetEndAt(ev.End.UTC())
			event.SetSummary(ev.Title)
			if ev.RoomName != "" {
				event.SetLocation(ev.RoomName)
			}
			if ev.TeacherName != "" {
				event.SetDescription(fmt.Sprintf("Teacher: %s", ev.TeacherName))
			}
			if ev.MeetingLink != "" {
				event.SetURL(ev.MeetingLink)
			}
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("timetable-%s.ics", week.WeekStart)
	return buf, filename, nil
}

// weekdayName renders a YYYY-MM-DD date's English weekday for the
// spreadsheet; the raw date stays in its own column.
func weekdayName(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}
