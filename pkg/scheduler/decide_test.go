package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/0xmhha/labseat/pkg/calendar"
)

var cal = calendar.New(time.UTC)

func at(month time.Month, day, hh, mm int) time.Time {
	return time.Date(2024, month, day, hh, mm, 0, 0, time.UTC)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    Clock
		wantErr bool
	}{
		{input: "22:30", want: Clock{22, 30}},
		{input: "06:00", want: Clock{6, 0}},
		{input: " 7:05 ", want: Clock{7, 5}},
		{input: "24:00", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "1230", wantErr: true},
		{input: "ab:cd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidClock) {
					t.Errorf("ParseClock(%q) error = %v, want ErrInvalidClock", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestResetWindowKey(t *testing.T) {
	tests := []struct {
		name   string
		t      time.Time
		want   string
		inside bool
	}{
		{name: "before window", t: at(1, 2, 22, 29), inside: false},
		{name: "window start", t: at(1, 2, 22, 30), want: "2024-01-02", inside: true},
		{name: "before midnight", t: at(1, 2, 23, 59), want: "2024-01-02", inside: true},
		{name: "after midnight", t: at(1, 3, 0, 0), want: "2024-01-02", inside: true},
		{name: "early morning", t: at(1, 3, 5, 30), want: "2024-01-02", inside: true},
		{name: "last minute", t: at(1, 3, 5, 59), want: "2024-01-02", inside: true},
		{name: "window end", t: at(1, 3, 6, 0), inside: false},
		{name: "daytime", t: at(1, 3, 12, 0), inside: false},
		{name: "month boundary", t: at(3, 1, 1, 0), want: "2024-02-29", inside: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DefaultResetWindow.Key(cal, tt.t)
			if ok != tt.inside || got != tt.want {
				t.Errorf("Key(%s) = (%q, %v), want (%q, %v)", tt.t, got, ok, tt.want, tt.inside)
			}
		})
	}
}

func TestResetWindowNonWrapping(t *testing.T) {
	w, err := ParseResetWindow("01:00", "03:00")
	if err != nil {
		t.Fatalf("ParseResetWindow() error = %v", err)
	}

	if key, ok := w.Key(cal, at(1, 3, 2, 0)); !ok || key != "2024-01-03" {
		t.Errorf("Key(02:00) = (%q, %v), want (2024-01-03, true)", key, ok)
	}
	if w.Contains(cal, at(1, 3, 3, 0)) {
		t.Error("Contains(03:00) = true, want false")
	}
}

func TestResetWindowUsesLocalTime(t *testing.T) {
	jst := calendar.New(time.FixedZone("JST", 9*3600))

	// 13:30 UTC is 22:30 JST.
	key, ok := DefaultResetWindow.Key(jst, at(1, 2, 13, 30))
	if !ok || key != "2024-01-02" {
		t.Errorf("Key() = (%q, %v), want (2024-01-02, true)", key, ok)
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name         string
		now          time.Time
		observedWeek calendar.WeekKey
		lastReset    string
		want         Decision
	}{
		{
			name:         "evening reset",
			now:          at(1, 2, 22, 30),
			observedWeek: "2024-01-01",
			lastReset:    "2024-01-01",
			want:         Decision{Week: "2024-01-01", Reset: true, ResetDate: "2024-01-02"},
		},
		{
			name:         "missed window caught up next morning",
			now:          at(1, 3, 5, 30),
			observedWeek: "2024-01-01",
			lastReset:    "2024-01-01",
			want:         Decision{Week: "2024-01-01", Reset: true, ResetDate: "2024-01-02"},
		},
		{
			name:         "already reset",
			now:          at(1, 3, 5, 30),
			observedWeek: "2024-01-01",
			lastReset:    "2024-01-02",
			want:         Decision{Week: "2024-01-01"},
		},
		{
			name:         "outside window",
			now:          at(1, 3, 12, 0),
			observedWeek: "2024-01-01",
			lastReset:    "",
			want:         Decision{Week: "2024-01-01"},
		},
		{
			name:         "week rollover",
			now:          at(1, 8, 9, 0),
			observedWeek: "2024-01-01",
			lastReset:    "2024-01-07",
			want:         Decision{Week: "2024-01-08", Rollover: true},
		},
		{
			name:         "rollover and reset together",
			now:          at(1, 8, 0, 0),
			observedWeek: "2024-01-01",
			lastReset:    "2024-01-06",
			want:         Decision{Week: "2024-01-08", Rollover: true, Reset: true, ResetDate: "2024-01-07"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(cal, DefaultResetWindow, tt.now, tt.observedWeek, tt.lastReset)
			if got != tt.want {
				t.Errorf("Decide() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecideIsIdempotentOnceApplied(t *testing.T) {
	now := at(1, 8, 23, 0)

	first := Decide(cal, DefaultResetWindow, now, "2024-01-01", "2024-01-06")
	if !first.Rollover || !first.Reset {
		t.Fatalf("first decision = %+v, want rollover and reset", first)
	}

	second := Decide(cal, DefaultResetWindow, now, first.Week, first.ResetDate)
	if second.Rollover || second.Reset {
		t.Errorf("second decision = %+v, want no actions", second)
	}
}
