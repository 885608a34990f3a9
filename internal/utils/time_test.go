package utils

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/errors"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "UTC", timezone: "UTC"},
		{name: "America/New_York", timezone: "America/New_York"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && loc == nil {
				t.Error("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestToday(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// 20:00 UTC on Jan 1 is already Jan 2 in Tokyo.
	now := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)

	if got := FormatDate(Today(now, time.UTC)); got != "2024-01-01" {
		t.Errorf("Today(UTC) = %s, want 2024-01-01", got)
	}
	if got := FormatDate(Today(now, tokyo)); got != "2024-01-02" {
		t.Errorf("Today(Tokyo) = %s, want 2024-01-02", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-02-29 ")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if FormatDate(d) != "2024-02-29" || d.Location() != time.UTC {
		t.Errorf("ParseDate() = %v", d)
	}

	for _, bad := range []string{"2023-02-29", "2024/01/01", "yesterday", ""} {
		if _, err := ParseDate(bad); !stderrors.Is(err, errors.ErrInvalidDate) {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestParsePastDate(t *testing.T) {
	today := time.Date(2024, 5, 10, 23, 59, 0, 0, time.UTC)

	if _, err := ParsePastDate("2024-05-10", today); err != nil {
		t.Errorf("today should be accepted: %v", err)
	}
	if _, err := ParsePastDate("2023-05-11", today); err != nil {
		t.Errorf("past date should be accepted: %v", err)
	}
	if _, err := ParsePastDate("2024-05-11", today); !stderrors.Is(err, errors.ErrFutureDate) {
		t.Errorf("future date error = %v, want ErrFutureDate", err)
	}
}

func TestParseMonth(t *testing.T) {
	today := time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)

	y, m, err := ParseMonth("", today)
	if err != nil || y != 2024 || m != time.July {
		t.Errorf("ParseMonth(\"\") = %d %s %v", y, m, err)
	}
	y, m, err = ParseMonth("2023-12", today)
	if err != nil || y != 2023 || m != time.December {
		t.Errorf("ParseMonth(2023-12) = %d %s %v", y, m, err)
	}
	if _, _, err := ParseMonth("2023-13", today); !stderrors.Is(err, errors.ErrInvalidDate) {
		t.Errorf("ParseMonth(2023-13) error = %v", err)
	}
}
