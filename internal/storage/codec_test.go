package storage

import (
	"slices"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/streak"
)

func TestDecodeDates(t *testing.T) {
	got, err := DecodeDates("2024-01-01, 2024-01-03")
	if err != nil {
		t.Fatalf("DecodeDates() error = %v", err)
	}
	want := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	if !slices.EqualFunc(got, want, time.Time.Equal) {
		t.Errorf("DecodeDates() = %v, want %v", got, want)
	}
	if EncodeDates(got) != "2024-01-01,2024-01-03" {
		t.Errorf("EncodeDates() = %q", EncodeDates(got))
	}

	if _, err := DecodeDates("2024-01-01,nope"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestEmptyColumnsDecodeToEmptyLists(t *testing.T) {
	dates, err := DecodeDates("")
	if err != nil || dates == nil || len(dates) != 0 {
		t.Errorf("DecodeDates(\"\") = %v, %v", dates, err)
	}
	ints, err := DecodeInts("  ")
	if err != nil || ints == nil || len(ints) != 0 {
		t.Errorf("DecodeInts(\"\") = %v, %v", ints, err)
	}
	if EncodeInts(nil) != "" || EncodeDates(nil) != "" {
		t.Error("empty lists should encode to empty strings")
	}
}

func TestDecodeInts(t *testing.T) {
	got, err := DecodeInts("3,1,12")
	if err != nil || !slices.Equal(got, []int{3, 1, 12}) {
		t.Errorf("DecodeInts() = %v, %v", got, err)
	}
	if _, err := DecodeInts("3,x"); err == nil {
		t.Error("expected error for malformed length")
	}
}

func TestHabitRowToHabit(t *testing.T) {
	row := HabitRow{
		ID:              "h1",
		UserID:          "u1",
		Name:            "Weekly Planning",
		Frequency:       "weekly",
		CreatedAt:       "2024-01-01T08:00:00Z",
		CompletionDates: "2024-01-01,2024-01-10",
		BrokenHistory:   "",
		Current:         2,
		Longest:         2,
	}
	h, err := row.ToHabit()
	if err != nil {
		t.Fatalf("ToHabit() error = %v", err)
	}
	if h.Frequency != streak.Weekly || h.CompletionsCount() != 2 || h.Streak.Current != 2 {
		t.Errorf("unexpected habit %+v", h)
	}

	row.Frequency = "hourly"
	if _, err := row.ToHabit(); err == nil {
		t.Error("expected error for unknown frequency")
	}
}
