package timeutil

import (
	"testing"
	"time"
)

func TestParseDeadline(t *testing.T) {
	now := time.Date(2026, 12, 5, 10, 0, 0, 0, time.Local)
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2026-12-24", want: time.Date(2026, 12, 24, 23, 59, 0, 0, time.Local)},
		{in: "2026-12-24 9am", want: time.Date(2026, 12, 24, 9, 0, 0, 0, time.Local)},
		{in: "tomorrow 17:30", want: time.Date(2026, 12, 6, 17, 30, 0, 0, time.Local)},
		{in: "1/3", want: time.Date(2027, 1, 3, 23, 59, 0, 0, time.Local)},
		{in: "12/20", want: time.Date(2026, 12, 20, 23, 59, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDeadline(tt.in, now)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
	if got, err := ParseDeadline("", now); got != nil || err != nil {
		t.Fatalf("expected no deadline, got %v %v", got, err)
	}
	if _, err := ParseDeadline("someday", now); err == nil {
		t.Fatal("expected error")
	}
}
