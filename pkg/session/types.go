// Package session holds the signed-in user's state shared by every screen.
package session

import (
	"sort"
	"strconv"
	"time"
)

// DefaultProfileImage is the placeholder avatar for new sessions.
const DefaultProfileImage = "assets/profile.png"

// Identity is what the authentication gateway returns. It is fixed for the
// lifetime of a session.
type Identity struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Federated bool   `json:"federated,omitempty"`

	AccessToken string `json:"-"`
}

// Profile holds the editable profile fields.
type Profile struct {
	Name             string   `json:"name,omitempty"`
	Role             string   `json:"role,omitempty"`
	Email            string   `json:"email,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	Address          string   `json:"address,omitempty"`
	GapID            string   `json:"gapID,omitempty"`
	EnrolledYear     string   `json:"enrolledYear,omitempty"`
	CurrentTrimester string   `json:"currentTrimester,omitempty"`
	Job              string   `json:"job,omitempty"`
	Clubs            []string `json:"clubs,omitempty"`
	ProfileImage     string   `json:"profileImage,omitempty"`
}

// Reminder is a user scheduled reminder. Notified flips once, when the
// reminder engine emits its notification.
type Reminder struct {
	ID          string    `json:"id"`
	Datetime    time.Time `json:"datetime"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Notified    bool      `json:"notified"`
}

// Notification is derived from a due reminder.
type Notification struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
	Read    bool      `json:"read"`
}

// UserSession is the full session value. Reminders and Notifications are
// never nil once they pass through a Store.
type UserSession struct {
	Identity      Identity       `json:"identity"`
	Profile       Profile        `json:"profile"`
	Reminders     []Reminder     `json:"reminders"`
	Notifications []Notification `json:"notifications"`
}

// Anonymous returns the signed-out session.
func Anonymous() UserSession {
	return UserSession{
		Profile:       Profile{ProfileImage: DefaultProfileImage},
		Reminders:     []Reminder{},
		Notifications: []Notification{},
	}
}

// New seeds a fresh session from a gateway identity.
func New(id Identity) UserSession {
	s := Anonymous()
	s.Identity = id
	s.Profile.Name = id.Name
	s.Profile.Email = id.Email
	return s
}

// Authenticated reports whether a user is signed in.
func (s UserSession) Authenticated() bool {
	return s.Identity.UID != ""
}

// DisplayName prefers the profile name, then the identity.
func (s UserSession) DisplayName() string {
	switch {
	case s.Profile.Name != "":
		return s.Profile.Name
	case s.Identity.Name != "":
		return s.Identity.Name
	default:
		return s.Identity.Email
	}
}

// UnreadCount counts notifications not yet read.
func (s UserSession) UnreadCount() int {
	n := 0
	for _, notif := range s.Notifications {
		if !notif.Read {
			n++
		}
	}
	return n
}

// FindReminder looks up a reminder by id.
func (s UserSession) FindReminder(id string) (Reminder, bool) {
	for _, r := range s.Reminders {
		if r.ID == id {
			return r, true
		}
	}
	return Reminder{}, false
}

// UpcomingReminders returns reminders at or after now, soonest first.
func (s UserSession) UpcomingReminders(now time.Time) []Reminder {
	out := make([]Reminder, 0, len(s.Reminders))
	for _, r := range s.Reminders {
		if !r.Datetime.Before(now) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Datetime.Before(out[j].Datetime)
	})
	return out
}

// PastReminders returns reminders before now, most recent first.
func (s UserSession) PastReminders(now time.Time) []Reminder {
	out := make([]Reminder, 0, len(s.Reminders))
	for _, r := range s.Reminders {
		if r.Datetime.Before(now) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Datetime.After(out[j].Datetime)
	})
	return out
}

// ReminderDays marks the days of month's month that carry a reminder.
func (s UserSession) ReminderDays(month time.Time) map[int]bool {
	days := make(map[int]bool)
	for _, r := range s.Reminders {
		at := r.Datetime.In(month.Location())
		if at.Year() == month.Year() && at.Month() == month.Month() {
			days[at.Day()] = true
		}
	}
	return days
}

// CombineDateTime takes the calendar date of day and the wall clock time of
// clock and returns the combined instant in day's location.
func CombineDateTime(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, day.Location())
}

// NewReminderID derives a reminder id from its creation time.
func NewReminderID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// Clone returns a deep copy so callers can not mutate shared state.
func (s UserSession) Clone() UserSession {
	out := s
	out.Profile.Clubs = cloneStrings(s.Profile.Clubs)
	out.Reminders = make([]Reminder, len(s.Reminders))
	copy(out.Reminders, s.Reminders)
	out.Notifications = make([]Notification, len(s.Notifications))
	copy(out.Notifications, s.Notifications)
	return out
}

func (s UserSession) normalized() UserSession {
	if s.Reminders == nil {
		s.Reminders = []Reminder{}
	}
	if s.Notifications == nil {
		s.Notifications = []Notification{}
	}
	return s
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
