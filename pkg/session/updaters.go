package session

import (
	"fmt"
	"strings"
	"time"
)

// MergeProfile returns base with every non-empty field of fetched applied.
// Fetched values win; empty fetched values keep the session default.
func MergeProfile(base, fetched Profile) Profile {
	out := base
	pick := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	pick(&out.Name, fetched.Name)
	pick(&out.Role, fetched.Role)
	pick(&out.Email, fetched.Email)
	pick(&out.Phone, fetched.Phone)
	pick(&out.Address, fetched.Address)
	pick(&out.GapID, fetched.GapID)
	pick(&out.EnrolledYear, fetched.EnrolledYear)
	pick(&out.CurrentTrimester, fetched.CurrentTrimester)
	pick(&out.Job, fetched.Job)
	pick(&out.ProfileImage, fetched.ProfileImage)
	if len(fetched.Clubs) > 0 {
		out.Clubs = cloneStrings(fetched.Clubs)
	} else {
		out.Clubs = cloneStrings(base.Clubs)
	}
	return out
}

// AddReminder appends r. A clashing id gets a numeric suffix.
func AddReminder(r Reminder) Updater {
	return func(prev UserSession) UserSession {
		id := r.ID
		for n := 1; ; n++ {
			if _, taken := prev.FindReminder(id); !taken {
				break
			}
			id = fmt.Sprintf("%s-%d", r.ID, n)
		}
		r.ID = id
		prev.Reminders = append(prev.Reminders, r)
		return prev
	}
}

// EditReminder rewrites title, description and datetime of reminder id in
// place. Notified is kept: a reminder fires at most once.
func EditReminder(id, title, description string, at time.Time) Updater {
	return func(prev UserSession) UserSession {
		for i := range prev.Reminders {
			if prev.Reminders[i].ID != id {
				continue
			}
			prev.Reminders[i].Title = title
			prev.Reminders[i].Description = description
			prev.Reminders[i].Datetime = at
		}
		return prev
	}
}

// DeleteReminder removes reminder id.
func DeleteReminder(id string) Updater {
	return func(prev UserSession) UserSession {
		kept := make([]Reminder, 0, len(prev.Reminders))
		for _, r := range prev.Reminders {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		prev.Reminders = kept
		return prev
	}
}

// MarkAllRead sets Read on every notification and changes nothing else.
func MarkAllRead() Updater {
	return func(prev UserSession) UserSession {
		for i := range prev.Notifications {
			prev.Notifications[i].Read = true
		}
		return prev
	}
}
