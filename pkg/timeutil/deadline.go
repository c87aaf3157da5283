package timeutil

import "time"

const layoutShort = "1/2"

// ParseDeadline parses "<day> [<time>]" where day is anything ParseDay
// accepts or a short month/day such as "2/28", and time anything ParseClock
// accepts. A day without a time means 23:59 of that day. Empty input is no
// deadline.
func ParseDeadline(raw string, now time.Time) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	day, clock := raw, ""
	if i := lastSpace(raw); i > 0 {
		day, clock = raw[:i], raw[i+1:]
	}
	d, err := ParseDay(day, now, time.Local)
	if err != nil {
		t, serr := time.ParseInLocation(layoutShort, day, time.Local)
		if serr != nil {
			return nil, err
		}
		d = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
		// 1/3 said on 12/5 means next year, not 11 months ago.
		if d.Before(now.Truncate(24 * time.Hour)) {
			d = d.AddDate(1, 0, 0)
		}
	}
	if clock == "" {
		end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 0, 0, d.Location())
		return &end, nil
	}
	c, err := ParseClock(clock)
	if err != nil {
		return nil, err
	}
	at := time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, d.Location())
	return &at, nil
}

func lastSpace(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' {
			return i
		}
	}
	return -1
}
