package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// ── Timezone normalization ──────────────────────────────────
//
// All schedule instants are stored upstream as UTC. The dashboard is
// Vietnam-only, so every display conversion goes through the single
// location below. Weekly recurring templates are the exception: the
// backend stores them as zone-naive time-of-day strings already in
// Vietnam wall-clock time, and they must never be shifted. They are
// carried through the codebase as the distinct TimeOfDay type so a
// zone conversion cannot be applied to them by accident.
// ─────────────────────────────────────────────────────────────

const vietnamTZ = "Asia/Ho_Chi_Minh"

// ErrMalformedTimeOfDay reports a time-of-day string that could not be
// parsed. Callers receive DefaultTimeOfDay alongside it and are
// expected to log and continue; rendering must survive one bad record.
var ErrMalformedTimeOfDay = errors.New("malformed time-of-day value")

// vietnam is the single display location. Vietnam has no daylight
// saving, so the fixed-offset fallback is exact even without tzdata.
var vietnam = loadVietnam()

func loadVietnam() *time.Location {
	loc, err := time.LoadLocation(vietnamTZ)
	if err != nil {
		return time.FixedZone("+07", 7*60*60)
	}
	return loc
}

// Location returns the Vietnam display location.
func Location() *time.Location {
	return vietnam
}

// ToLocal shifts a UTC instant into Vietnam wall-clock time.
func ToLocal(utc time.Time) time.Time {
	return utc.In(vietnam)
}

// ToUTC is the inverse of ToLocal, used before submitting user-edited
// instants back upstream. ToUTC(ToLocal(t)) equals t for any t.
func ToUTC(local time.Time) time.Time {
	return local.UTC()
}

// Format renders an instant through the Vietnam lens with the given
// stdlib layout.
func Format(instant time.Time, layout string) string {
	return instant.In(vietnam).Format(layout)
}

// NowLocal returns the current Vietnam wall-clock time.
func NowLocal() time.Time {
	return time.Now().In(vietnam)
}

// SameLocalDay reports whether two instants fall on the same Vietnam
// calendar date.
func SameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.In(vietnam).Date()
	by, bm, bd := b.In(vietnam).Date()
	return ay == by && am == bm && ad == bd
}

// IsTodayLocal reports whether the instant falls on today's Vietnam
// calendar date.
func IsTodayLocal(instant time.Time) bool {
	return SameLocalDay(instant, time.Now())
}

// LocalDate truncates an instant to midnight of its Vietnam calendar
// date.
func LocalDate(instant time.Time) time.Time {
	y, m, d := instant.In(vietnam).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, vietnam)
}

// ── TimeOfDay ───────────────────────────────────────────────

// TimeOfDay is a zone-naive wall-clock value (HH:mm or HH:mm:ss). It
// deliberately carries no date and no zone: applying a zone shift to a
// recurring weekly template silently moves every session by the UTC
// offset, so the type system keeps these values apart from instants.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// DefaultTimeOfDay is the documented fallback for malformed input:
// 08:00, the center's earliest regular session.
var DefaultTimeOfDay = TimeOfDay{Hour: 8}

// ParseTimeOfDay parses "HH:mm" or "HH:mm:ss". On malformed input it
// returns DefaultTimeOfDay together with ErrMalformedTimeOfDay; it
// never panics and the returned value is always usable.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m, sec int
	switch countColons(s) {
	case 1:
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return DefaultTimeOfDay, fmt.Errorf("%w: %q", ErrMalformedTimeOfDay, s)
		}
	case 2:
		if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
			return DefaultTimeOfDay, fmt.Errorf("%w: %q", ErrMalformedTimeOfDay, s)
		}
	default:
		return DefaultTimeOfDay, fmt.Errorf("%w: %q", ErrMalformedTimeOfDay, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return DefaultTimeOfDay, fmt.Errorf("%w: %q out of range", ErrMalformedTimeOfDay, s)
	}
	return TimeOfDay{Hour: h, Minute: m, Second: sec}, nil
}

// IsTimeOnly reports whether s has the bare HH:mm / HH:mm:ss shape with
// no date or zone component. It exists only at the wire boundary, to
// classify upstream payload fields into TimeOfDay vs instant; past that
// point the two are separate types.
func IsTimeOnly(s string) bool {
	if n := countColons(s); n != 1 && n != 2 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != ':' {
			return false
		}
	}
	_, err := ParseTimeOfDay(s)
	return err == nil
}

// String renders the value as HH:mm:ss, the canonical wire form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Short renders the value as HH:mm.
func (t TimeOfDay) Short() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalJSON emits the canonical HH:mm:ss form.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON accepts HH:mm and HH:mm:ss. Malformed wire values
// decode to DefaultTimeOfDay without failing the whole payload; the
// caller cannot distinguish them here, which is acceptable because the
// fallback is the documented recovery for this field class.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		*t = DefaultTimeOfDay
		return nil
	}
	parsed, _ := ParseTimeOfDay(string(data[1 : len(data)-1]))
	*t = parsed
	return nil
}

// Before reports whether t is earlier than other within one day.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.seconds() < other.seconds()
}

func (t TimeOfDay) seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

func countColons(s string) int {
	n := 0
	for _, r := range s {
		if r == ':' {
			n++
		}
	}
	return n
}
