package streak

import (
	"testing"
	"time"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", s, err)
	}
	return d
}

func TestParseCadence(t *testing.T) {
	tests := []struct {
		input   string
		want    Cadence
		wantErr bool
	}{
		{input: "daily", want: Daily},
		{input: "Weekly", want: Weekly},
		{input: "  DAILY ", want: Daily},
		{input: "monthly", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCadence(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCadence(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCadence(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCadence(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPeriodStart(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		cadence Cadence
		want    string
	}{
		{name: "daily keeps date", date: "2024-01-10", cadence: Daily, want: "2024-01-10"},
		{name: "weekly monday", date: "2024-01-08", cadence: Weekly, want: "2024-01-08"},
		{name: "weekly wednesday", date: "2024-01-10", cadence: Weekly, want: "2024-01-08"},
		{name: "weekly sunday belongs to previous monday", date: "2024-01-14", cadence: Weekly, want: "2024-01-08"},
		{name: "weekly across year boundary", date: "2025-01-01", cadence: Weekly, want: "2024-12-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeriodStart(mustDay(t, tt.date), tt.cadence)
			if !got.Equal(mustDay(t, tt.want)) {
				t.Errorf("PeriodStart(%s, %s) = %s, want %s", tt.date, tt.cadence, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestPeriodsApart(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		cadence Cadence
		want    int
	}{
		{name: "daily next day", a: "2024-01-01", b: "2024-01-02", cadence: Daily, want: 1},
		{name: "daily same day", a: "2024-01-01", b: "2024-01-01", cadence: Daily, want: 0},
		{name: "daily gap", a: "2024-01-01", b: "2024-01-04", cadence: Daily, want: 3},
		{name: "daily reversed", a: "2024-01-04", b: "2024-01-01", cadence: Daily, want: -3},
		{name: "daily across month", a: "2024-02-28", b: "2024-03-01", cadence: Daily, want: 2},
		{name: "weekly sunday to monday", a: "2024-01-07", b: "2024-01-08", cadence: Weekly, want: 1},
		{name: "weekly monday to sunday", a: "2024-01-08", b: "2024-01-14", cadence: Weekly, want: 0},
		{name: "weekly two weeks", a: "2024-01-01", b: "2024-01-19", cadence: Weekly, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeriodsApart(mustDay(t, tt.a), mustDay(t, tt.b), tt.cadence)
			if got != tt.want {
				t.Errorf("PeriodsApart(%s, %s, %s) = %d, want %d", tt.a, tt.b, tt.cadence, got, tt.want)
			}
		})
	}
}

func TestIsConsecutiveIgnoresClockAndZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// 2024-03-10 is the US spring-forward day: only 23 wall-clock hours long.
	a := time.Date(2024, 3, 10, 0, 30, 0, 0, ny)
	b := time.Date(2024, 3, 11, 23, 45, 0, 0, ny)
	if !IsConsecutive(a, b, Daily) {
		t.Errorf("expected %v and %v to be consecutive days", a, b)
	}
	// Sunday to Monday crosses into the next ISO week.
	if !IsConsecutive(a, b, Weekly) {
		t.Errorf("expected %v and %v to be consecutive weeks", a, b)
	}
}
