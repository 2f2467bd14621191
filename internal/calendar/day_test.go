package calendar

import (
	"testing"
	"time"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/timeutil"
)

func TestBuildDay_SlotRange(t *testing.T) {
	ref := time.Date(2024, 6, 10, 0, 0, 0, 0, timeutil.Location())
	list := BuildDay(ref, nil, DefaultStartHour, DefaultEndHour)

	if len(list.Slots) != 16 {
		t.Fatalf("expected 16 slots for 07..22 inclusive, got %d", len(list.Slots))
	}
	if list.Slots[0].Hour != 7 {
		t.Errorf("first slot hour = %d, want 7", list.Slots[0].Hour)
	}
	if list.Slots[len(list.Slots)-1].Hour != 22 {
		t.Errorf("last slot hour = %d, want 22", list.Slots[len(list.Slots)-1].Hour)
	}
}

func TestBuildDay_HourBoundaries(t *testing.T) {
	loc := timeutil.Location()
	ref := time.Date(2024, 6, 10, 0, 0, 0, 0, loc)

	events := []model.CalendarEvent{
		localEvent(1, time.Date(2024, 6, 10, 6, 59, 0, 0, loc)),  // before range
		localEvent(2, time.Date(2024, 6, 10, 7, 0, 0, 0, loc)),   // exactly 07:00
		localEvent(3, time.Date(2024, 6, 10, 22, 0, 0, 0, loc)),  // exactly 22:00
		localEvent(4, time.Date(2024, 6, 10, 22, 1, 0, 0, loc)),  // past end
		localEvent(5, time.Date(2024, 6, 10, 14, 30, 0, 0, loc)), // mid range
	}

	list := BuildDay(ref, events, DefaultStartHour, DefaultEndHour)

	slotByHour := map[int][]model.CalendarEvent{}
	for _, s := range list.Slots {
		slotByHour[s.Hour] = s.Events
	}

	if len(slotByHour[7]) != 1 || slotByHour[7][0].ID != 2 {
		t.Errorf("07:00 slot should hold event 2, got %v", slotByHour[7])
	}
	if len(slotByHour[22]) != 1 || slotByHour[22][0].ID != 3 {
		t.Errorf("22:00 slot should hold event 3 only, got %v", slotByHour[22])
	}
	if len(slotByHour[14]) != 1 || slotByHour[14][0].ID != 5 {
		t.Errorf("14:00 slot should hold event 5, got %v", slotByHour[14])
	}
	if list.Excluded != 2 {
		t.Errorf("expected 2 excluded events (06:59 and 22:01), got %d", list.Excluded)
	}
}

func TestBuildDay_FiltersOtherDates(t *testing.T) {
	loc := timeutil.Location()
	ref := time.Date(2024, 6, 10, 0, 0, 0, 0, loc)

	events := []model.CalendarEvent{
		localEvent(1, time.Date(2024, 6, 10, 9, 0, 0, 0, loc)),
		localEvent(2, time.Date(2024, 6, 11, 9, 0, 0, 0, loc)), // next day
	}

	list := BuildDay(ref, events, DefaultStartHour, DefaultEndHour)

	total := 0
	for _, s := range list.Slots {
		total += len(s.Events)
	}
	if total != 1 {
		t.Errorf("expected 1 same-day event, got %d", total)
	}
	// Other-day events are filtered, not counted as range exclusions.
	if list.Excluded != 0 {
		t.Errorf("expected 0 excluded, got %d", list.Excluded)
	}
}

func TestBuildDay_InvalidRangeFallsBack(t *testing.T) {
	ref := time.Date(2024, 6, 10, 0, 0, 0, 0, timeutil.Location())
	list := BuildDay(ref, nil, 23, 5)

	if list.StartHour != DefaultStartHour || list.EndHour != DefaultEndHour {
		t.Errorf("inverted range should fall back to defaults, got %d..%d",
			list.StartHour, list.EndHour)
	}
}

// End-to-end through project and bucket. A record at 01:00-03:00 UTC
// on 2024-06-10 is 08:00-10:00 Vietnam time, Monday bucket, 08:00 slot.
func TestProjectBucket_EndToEnd(t *testing.T) {
	rec := model.ScheduleRecord{
		ID:        1,
		GroupID:   1,
		GroupName: "G1",
		StartTime: time.Date(2024, 6, 10, 1, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 6, 10, 3, 0, 0, 0, time.UTC),
		Mode:      model.ModeOnline,
	}
	now := time.Date(2024, 6, 10, 7, 0, 0, 0, timeutil.Location())

	ev, err := Project(rec, now, NewPalette())
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if got := ev.Start.Format("2006-01-02 15:04"); got != "2024-06-10 08:00" {
		t.Fatalf("local start = %s, want 2024-06-10 08:00", got)
	}
	if got := ev.End.Format("15:04"); got != "10:00" {
		t.Fatalf("local end = %s, want 10:00", got)
	}

	grid := BuildWeek(now, []model.CalendarEvent{ev})
	if len(grid.Days[0].Events) != 1 {
		t.Fatalf("expected the event in the Monday bucket")
	}

	list := BuildDay(now, []model.CalendarEvent{ev}, DefaultStartHour, DefaultEndHour)
	var found bool
	for _, s := range list.Slots {
		if s.Hour == 8 && len(s.Events) == 1 && s.Events[0].ID == 1 {
			found = true
		}
	}
	if !found {
		t.Error("expected the event in the 08:00 slot")
	}
}
