package app

import (
	"strings"

	"tableflip.dev/portal/pkg/forms"
	"tableflip.dev/portal/pkg/session"
)

func reminderTime(form forms.ReminderForm) (session.Reminder, error) {
	if err := forms.Validate(form); err != nil {
		return session.Reminder{}, err
	}
	return session.Reminder{
		Datetime:    session.CombineDateTime(*form.Day, *form.Clock),
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
	}, nil
}

// SaveReminder adds a reminder at the form's date and time of day.
func (p *Portal) SaveReminder(form forms.ReminderForm) (session.Reminder, error) {
	r, err := reminderTime(form)
	if err != nil {
		return session.Reminder{}, err
	}
	if !p.Session.Get().Authenticated() {
		return session.Reminder{}, ErrNotSignedIn
	}
	r.ID = session.NewReminderID(p.now())
	s := p.Session.Update(session.AddReminder(r))
	return s.Reminders[len(s.Reminders)-1], nil
}

// UpdateReminder rewrites reminder id from form.
func (p *Portal) UpdateReminder(id string, form forms.ReminderForm) (session.Reminder, error) {
	r, err := reminderTime(form)
	if err != nil {
		return session.Reminder{}, err
	}
	found := false
	edit := session.EditReminder(id, r.Title, r.Description, r.Datetime)
	s := p.Session.Update(func(prev session.UserSession) session.UserSession {
		if _, found = prev.FindReminder(id); !found {
			return prev
		}
		return edit(prev)
	})
	if !found {
		return session.Reminder{}, ErrReminderNotFound
	}
	got, _ := s.FindReminder(id)
	return got, nil
}

// DeleteReminder removes reminder id.
func (p *Portal) DeleteReminder(id string) error {
	found := false
	del := session.DeleteReminder(id)
	p.Session.Update(func(prev session.UserSession) session.UserSession {
		if _, found = prev.FindReminder(id); !found {
			return prev
		}
		return del(prev)
	})
	if !found {
		return ErrReminderNotFound
	}
	return nil
}

// OpenNotifications returns the notification list, newest first, and marks
// every notification read.
func (p *Portal) OpenNotifications() []session.Notification {
	return p.Session.Update(session.MarkAllRead()).Notifications
}
