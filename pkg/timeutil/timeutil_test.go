package timeutil

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestToLocal_WallClock(t *testing.T) {
	// 2024-06-10 01:00 UTC is 08:00 in Vietnam (UTC+7).
	utc := time.Date(2024, 6, 10, 1, 0, 0, 0, time.UTC)
	local := ToLocal(utc)

	if local.Hour() != 8 || local.Minute() != 0 {
		t.Errorf("expected 08:00 local, got %02d:%02d", local.Hour(), local.Minute())
	}
	if local.Day() != 10 {
		t.Errorf("expected day 10, got %d", local.Day())
	}
}

func TestToLocal_CrossesMidnight(t *testing.T) {
	// 18:30 UTC is 01:30 the next day in Vietnam.
	utc := time.Date(2024, 6, 10, 18, 30, 0, 0, time.UTC)
	local := ToLocal(utc)

	if local.Day() != 11 || local.Hour() != 1 || local.Minute() != 30 {
		t.Errorf("expected Jun 11 01:30 local, got %v", local)
	}
}

func TestRoundTrip_Exact(t *testing.T) {
	instants := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 10, 1, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 23, 59, 59, 999999999, time.UTC),
		time.Date(1999, 2, 28, 17, 0, 1, 0, time.UTC),
	}
	for _, in := range instants {
		out := ToUTC(ToLocal(in))
		if !out.Equal(in) {
			t.Errorf("round trip drifted: %v -> %v", in, out)
		}
	}
}

func TestFormat(t *testing.T) {
	utc := time.Date(2024, 6, 10, 1, 0, 0, 0, time.UTC)

	if got := Format(utc, "15:04"); got != "08:00" {
		t.Errorf("time-only format: expected 08:00, got %s", got)
	}
	if got := Format(utc, "2006-01-02"); got != "2024-06-10" {
		t.Errorf("date-only format: expected 2024-06-10, got %s", got)
	}
	if got := Format(utc, "2006-01-02 15:04"); got != "2024-06-10 08:00" {
		t.Errorf("combined format: expected 2024-06-10 08:00, got %s", got)
	}
}

func TestSameLocalDay(t *testing.T) {
	// 16:59 UTC and 17:00 UTC straddle Vietnam midnight.
	before := time.Date(2024, 6, 10, 16, 59, 0, 0, time.UTC)
	after := time.Date(2024, 6, 10, 17, 0, 0, 0, time.UTC)

	if SameLocalDay(before, after) {
		t.Error("16:59Z and 17:00Z should fall on different Vietnam dates")
	}
	if !SameLocalDay(after, time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC)) {
		t.Error("17:00Z Jun 10 and 10:00Z Jun 11 share the Vietnam date Jun 11")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"08:00", TimeOfDay{Hour: 8}, false},
		{"08:00:00", TimeOfDay{Hour: 8}, false},
		{"23:59:59", TimeOfDay{Hour: 23, Minute: 59, Second: 59}, false},
		{"07:30", TimeOfDay{Hour: 7, Minute: 30}, false},
		{"24:00", DefaultTimeOfDay, true},
		{"12:60", DefaultTimeOfDay, true},
		{"banana", DefaultTimeOfDay, true},
		{"", DefaultTimeOfDay, true},
		{"2024-06-10T08:00:00Z", DefaultTimeOfDay, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrMalformedTimeOfDay) {
			t.Errorf("ParseTimeOfDay(%q) error not ErrMalformedTimeOfDay: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsTimeOnly(t *testing.T) {
	valid := []string{"08:00", "08:00:00", "23:59", "00:00:00"}
	for _, s := range valid {
		if !IsTimeOnly(s) {
			t.Errorf("IsTimeOnly(%q) = false, want true", s)
		}
	}
	invalid := []string{"2024-06-10T08:00:00Z", "08:00+07:00", "8am", "", "25:00"}
	for _, s := range invalid {
		if IsTimeOnly(s) {
			t.Errorf("IsTimeOnly(%q) = true, want false", s)
		}
	}
}

// A time-only value carries no zone, so serializing it back out must
// yield the same wall-clock reading it came in with.
func TestTimeOfDay_NoZoneShift(t *testing.T) {
	in := "08:00:00"
	tod, err := ParseTimeOfDay(in)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q) failed: %v", in, err)
	}
	if got := tod.String(); got != in {
		t.Errorf("time-only value shifted: %q -> %q", in, got)
	}
	if got := tod.Short(); got != "08:00" {
		t.Errorf("Short() = %q, want 08:00", got)
	}
}

func TestTimeOfDay_JSON(t *testing.T) {
	var payload struct {
		Start TimeOfDay `json:"start_time"`
	}
	if err := json.Unmarshal([]byte(`{"start_time":"19:30"}`), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.Start != (TimeOfDay{Hour: 19, Minute: 30}) {
		t.Errorf("unexpected value: %v", payload.Start)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `{"start_time":"19:30:00"}` {
		t.Errorf("unexpected JSON: %s", out)
	}

	// Malformed wire values decode to the documented default.
	if err := json.Unmarshal([]byte(`{"start_time":"nonsense"}`), &payload); err != nil {
		t.Fatalf("unmarshal of malformed value should not fail: %v", err)
	}
	if payload.Start != DefaultTimeOfDay {
		t.Errorf("expected default fallback, got %v", payload.Start)
	}
}

func TestLocalDate(t *testing.T) {
	utc := time.Date(2024, 6, 10, 18, 30, 0, 0, time.UTC) // Jun 11 local
	d := LocalDate(utc)
	if d.Year() != 2024 || d.Month() != 6 || d.Day() != 11 {
		t.Errorf("expected 2024-06-11, got %v", d)
	}
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Errorf("expected midnight, got %v", d)
	}
}
