package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
)

func plain() Options {
	s := lipgloss.NewStyle()
	return Options{
		TitleStyle:    s,
		HeaderStyle:   s,
		EmptyStyle:    s,
		MarkedStyle:   s,
		TodayStyle:    s,
		SelectedStyle: s,
		ShowHeader:    true,
	}
}

func TestRenderLayout(t *testing.T) {
	// October 2026 starts on a Thursday.
	month := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	out := Render(month, nil, plain())
	lines := strings.Split(out, "\n")
	if lines[0] != header {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if len(lines) != 6 {
		t.Fatalf("expected header and 5 weeks, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "            ") || !strings.HasSuffix(lines[1], " 1  2  3") {
		t.Fatalf("unexpected first week %q", lines[1])
	}
	if !strings.HasPrefix(lines[5], "25 26 27 28 29 30 31") {
		t.Fatalf("unexpected last week %q", lines[5])
	}
}

func TestRenderZeroMonth(t *testing.T) {
	if got := Render(time.Time{}, nil, plain()); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
}

func TestDays(t *testing.T) {
	month := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.February, 14, 9, 0, 0, 0, time.UTC)
	days := Days(month, map[int]bool{3: true}, 20, now)
	if len(days) != 28 {
		t.Fatalf("expected 28 days, got %d", len(days))
	}
	if !days[2].Marked || !days[13].IsToday || !days[19].IsSelected {
		t.Fatalf("unexpected flags %+v %+v %+v", days[2], days[13], days[19])
	}

	other := Days(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), nil, 0, now)
	for _, d := range other {
		if d.IsToday {
			t.Fatal("today must only be flagged in its own month")
		}
	}
}

func TestShift(t *testing.T) {
	jan31 := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	if got := Shift(jan31, 1); got.Month() != time.February || got.Day() != 1 {
		t.Fatalf("unexpected shift %v", got)
	}
	if got := Shift(jan31, -1); got.Year() != 2025 || got.Month() != time.December {
		t.Fatalf("unexpected shift %v", got)
	}
}
