package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the date format used on the command line and in forms.
const DayLayout = "2006-01-02"

var clockLayouts = []string{"15:04", "3:04pm", "3:04 pm", "3pm", "15"}

// ParseDay parses a YYYY-MM-DD date in loc. "today" and "tomorrow" are
// relative to now.
func ParseDay(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	switch raw {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}
	t, err := time.ParseInLocation(DayLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want %s", raw, DayLayout)
	}
	return t, nil
}

// ParseClock parses a time of day such as "14:30", "2:30pm" or "9am". Only
// hour and minute of the result are meaningful.
func ParseClock(raw string) (time.Time, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return time.Time{}, fmt.Errorf("time required")
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, want HH:MM", raw)
}
