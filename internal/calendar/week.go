package calendar

import (
	"time"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/timeutil"
)

// WeekStart returns the most recent Monday on or before the reference
// date, at Vietnam-local midnight. ISO convention: a Sunday reference
// yields the Monday six days earlier.
func WeekStart(ref time.Time) time.Time {
	day := timeutil.LocalDate(ref)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// BuildWeek arranges projected events into the 7-day grid around the
// reference date. Every event whose local start date falls inside the
// week lands in exactly one day bucket; events are bucketed by the
// local date of their start instant and never split across days, even
// when they run past midnight. Deterministic and side-effect free.
func BuildWeek(ref time.Time, events []model.CalendarEvent) model.WeekGrid {
	start := WeekStart(ref)

	grid := model.WeekGrid{WeekStart: start}
	for i := 0; i < 7; i++ {
		grid.Days[i] = model.DayBucket{Date: start.AddDate(0, 0, i)}
	}

	for _, ev := range events {
		offset := daysBetween(start, timeutil.LocalDate(ev.Start))
		if offset < 0 || offset > 6 {
			continue
		}
		grid.Days[offset].Events = append(grid.Days[offset].Events, ev)
	}

	return grid
}

// NextWeek shifts a reference date forward by seven days.
func NextWeek(ref time.Time) time.Time {
	return ref.AddDate(0, 0, 7)
}

// PrevWeek shifts a reference date back by seven days.
func PrevWeek(ref time.Time) time.Time {
	return ref.AddDate(0, 0, -7)
}

// ThisWeek returns the current Vietnam-local date as a reference.
func ThisWeek() time.Time {
	return timeutil.NowLocal()
}

// daysBetween counts whole local days from a to b. Both must be
// Vietnam-local midnights; counting calendar days instead of dividing
// durations keeps the result correct across any offset oddities.
func daysBetween(a, b time.Time) int {
	days := 0
	switch {
	case b.After(a):
		for t := a; t.Before(b) && days <= 7; t = t.AddDate(0, 0, 1) {
			days++
		}
	case a.After(b):
		for t := b; t.Before(a) && days >= -7; t = t.AddDate(0, 0, 1) {
			days--
		}
	}
	return days
}
