package calendar

import (
	"time"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/timeutil"
)

// Default day-view hour range: 07:00 through 22:00 inclusive.
const (
	DefaultStartHour = 7
	DefaultEndHour   = 22
)

// BuildDay arranges projected events into one slot per whole hour in
// [startHour, endHour] inclusive. Only events whose local start date
// equals the reference date are considered; of those, events starting
// outside the hour range are excluded from the slots and counted in
// Excluded. Exclusion is documented boundary behavior, not an error.
func BuildDay(ref time.Time, events []model.CalendarEvent, startHour, endHour int) model.TimeSlotList {
	if startHour > endHour {
		startHour, endHour = DefaultStartHour, DefaultEndHour
	}

	date := timeutil.LocalDate(ref)
	list := model.TimeSlotList{
		Date:      date,
		StartHour: startHour,
		EndHour:   endHour,
		Slots:     make([]model.TimeSlot, 0, endHour-startHour+1),
	}
	for h := startHour; h <= endHour; h++ {
		list.Slots = append(list.Slots, model.TimeSlot{Hour: h})
	}

	for _, ev := range events {
		if !timeutil.SameLocalDay(ev.Start, date) {
			continue
		}
		local := ev.Start.In(timeutil.Location())
		h := local.Hour()
		// The range is inclusive of the exact end instant: 22:00:00
		// lands in the final slot, 22:01 does not (default endHour=22).
		pastEnd := h > endHour ||
			(h == endHour && (local.Minute() > 0 || local.Second() > 0 || local.Nanosecond() > 0))
		if h < startHour || pastEnd {
			list.Excluded++
			continue
		}
		idx := h - startHour
		list.Slots[idx].Events = append(list.Slots[idx].Events, ev)
	}

	return list
}
