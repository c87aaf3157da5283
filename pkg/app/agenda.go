package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/portal/pkg/session"
	"tableflip.dev/portal/pkg/task"
)

// Agenda is what needs attention in a window starting now.
type Agenda struct {
	Since     time.Time
	Until     time.Time
	Reminders []session.Reminder
	Due       []task.Task
	Overdue   []task.Task
	Stats     task.Stats
}

// Empty reports whether the agenda lists nothing.
func (a Agenda) Empty() bool {
	return len(a.Reminders) == 0 && len(a.Due) == 0 && len(a.Overdue) == 0
}

// BuildAgenda collects reminders and open task deadlines falling within
// window of now, plus overdue tasks. tasks may be nil.
func BuildAgenda(s session.UserSession, tasks []task.Task, now time.Time, window time.Duration) Agenda {
	a := Agenda{Since: now, Until: now.Add(window), Stats: task.Summarize(tasks)}
	for _, r := range s.UpcomingReminders(now) {
		if r.Datetime.After(a.Until) {
			break
		}
		a.Reminders = append(a.Reminders, r)
	}
	for _, t := range tasks {
		switch {
		case t.Overdue(now):
			a.Overdue = append(a.Overdue, t)
		case !t.Completed && t.Deadline != nil && !t.Deadline.After(a.Until):
			a.Due = append(a.Due, t)
		}
	}
	byDeadline := func(list []task.Task) {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Deadline.Before(*list[j].Deadline)
		})
	}
	byDeadline(a.Due)
	byDeadline(a.Overdue)
	return a
}

// Agenda builds the agenda of the signed-in user.
func (p *Portal) Agenda(ctx context.Context, window time.Duration) (Agenda, error) {
	var tasks []task.Task
	if p.tasks != nil {
		list, err := p.Tasks(ctx)
		if err != nil {
			return Agenda{}, err
		}
		tasks = list.Tasks()
	}
	return BuildAgenda(p.Session.Get(), tasks, p.now(), window), nil
}
