package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/portal/pkg/router"
	"tableflip.dev/portal/pkg/session"
	"tableflip.dev/portal/pkg/task"
	"tableflip.dev/portal/pkg/tui/calendar"
)

const stampLayout = "Mon Jan 2 15:04"

// View renders the current screen.
func (m *Model) View() string {
	st := stylesFor(m.portal.Theme())
	var body string
	if m.help != nil {
		body = m.help.View()
	} else {
		switch m.screen {
		case router.Splash:
			body = m.viewSplash(st)
		case router.Home:
			body = m.viewHome(st)
		case router.Login:
			if m.useToken {
				body = m.federated.View(st)
			} else {
				body = m.login.View(st)
			}
		case router.SignupMessage:
			body = m.signup.View(st)
		case router.HomeMenu:
			body = m.viewHomeMenu(st)
		case router.Tasks:
			body = m.viewTasks(st)
		case router.Reminders:
			body = m.viewReminders(st)
		case router.Profile:
			body = m.viewProfile(st)
		case router.BookMeeting:
			body = m.meeting.View(st)
		case router.StudentExperience:
			body = m.viewFeedback(st)
		case router.Settings:
			body = m.viewSettings(st)
		default:
			body = m.viewStatic(st, m.screen)
		}
	}

	sections := []string{body}
	if m.flash != "" {
		sections = append(sections, "", st.ok.Render(m.flash))
	}
	if help := helpFor(m); help != "" {
		sections = append(sections, "", st.footer.Render(help))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) textWidth() int {
	if m.width <= 10 {
		return 72
	}
	return m.width - 6
}

func helpFor(m *Model) string {
	if m.help != nil {
		return "↑/↓ scroll • esc close"
	}
	switch m.screen {
	case router.Splash:
		return ""
	case router.Home:
		return "↑/↓ choose • enter select • l login • s sign up • ? help • q quit"
	case router.Login:
		return "tab next field • enter sign in • ctrl+g school account • ctrl+s sign up • esc back"
	case router.SignupMessage, router.BookMeeting, router.StudentExperience:
		return "tab next field • enter submit • esc back"
	case router.HomeMenu:
		if m.reminderOpen {
			return "tab next field • enter save • esc cancel"
		}
		return "↑/↓ menu • enter open • ←/→ month • r reminder • n notifications • o log out • ? help"
	case router.Tasks:
		switch m.taskMode {
		case taskAdding, taskEditing:
			return "tab next field • enter save • esc cancel"
		case taskConfirmDelete:
			return "y delete • any other key cancel"
		}
		return "↑/↓ move • a add • e edit • space toggle • d delete • esc back"
	case router.Reminders:
		if m.reminderOpen {
			return "tab next field • enter save • esc cancel"
		}
		return "↑/↓ move • a add • e edit • d delete • esc back"
	case router.Profile:
		if m.profileEditing {
			return "tab next field • enter save • esc cancel"
		}
		return "e edit • r reload • esc back"
	case router.Settings:
		return "t toggle theme • esc back"
	}
	return "esc back"
}

func (m *Model) viewSplash(st styles) string {
	logo := st.title.Render("Student Portal")
	return lipgloss.JoinVertical(lipgloss.Center, "", logo, st.faint.Render("loading…"))
}

func (m *Model) viewHome(st styles) string {
	lines := []string{st.title.Render("Student Portal"), st.faint.Render("Your classes, tasks and reminders in one place."), ""}
	for i, choice := range homeChoices {
		if i == m.homeCursor {
			lines = append(lines, st.cursor.Render("› "+choice))
		} else {
			lines = append(lines, "  "+choice)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) viewHomeMenu(st styles) string {
	s := m.portal.Session.Get()
	now := m.opts.Now()

	header := st.title.Render("Welcome, " + s.DisplayName())
	if n := s.UnreadCount(); n > 0 {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", st.badge.Render(fmt.Sprintf("%d new", n)))
	}

	cal := calendar.Render(m.month, calendar.Days(m.month, s.ReminderDays(m.month), 0, now), st.cal)

	var menu []string
	for i, screen := range router.InnerScreens() {
		if i == m.menuCursor {
			menu = append(menu, st.cursor.Render("› "+screen.Title()))
		} else {
			menu = append(menu, "  "+screen.Title())
		}
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		st.panel.Render(cal),
		"  ",
		st.panel.Render(lipgloss.JoinVertical(lipgloss.Left, menu...)),
	)

	sections := []string{header, "", top}
	if up := s.UpcomingReminders(now); len(up) > 0 {
		next := up[0]
		sections = append(sections, "", st.faint.Render("Next: ")+next.Title+st.faint.Render(" "+next.Datetime.Local().Format(stampLayout)))
	}
	if m.showNotifications {
		sections = append(sections, "", st.panel.Render(m.viewNotifications(st, s.Notifications)))
	}
	if m.reminderOpen {
		sections = append(sections, "", st.panel.Render(m.reminder.View(st)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) viewNotifications(st styles, list []session.Notification) string {
	lines := []string{st.title.Render("Notifications")}
	if len(list) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, st.faint.Render("none"))...)
	}
	width := m.textWidth() - 4
	for _, n := range list {
		line := n.Time.Local().Format(stampLayout) + "  " + n.Message
		line = truncate.StringWithTail(line, uint(width), "…")
		if n.Read {
			line = st.faint.Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func priorityMark(st styles, p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return st.late.Render("!!!")
	case task.PriorityLow:
		return st.faint.Render("!  ")
	default:
		return "!! "
	}
}

func (m *Model) viewTasks(st styles) string {
	lines := []string{st.title.Render("Tasks")}
	if m.tasks == nil {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, st.faint.Render("loading…"))...)
	}
	all := m.tasks.Tasks()
	stats := m.tasks.Stats()
	lines = append(lines, st.faint.Render(fmt.Sprintf("%d total, %d completed, %d pending", stats.Total, stats.Completed, stats.Pending)), "")
	if len(all) == 0 {
		lines = append(lines, st.faint.Render("No tasks yet. Press a to add one."))
	}
	now := m.opts.Now()
	width := m.textWidth()
	pending, _ := m.tasks.PendingDelete()
	for i, t := range all {
		cursor := "  "
		if i == m.taskCursor {
			cursor = st.cursor.Render("› ")
		}
		box := "[ ]"
		text := t.Text
		if t.Completed {
			box = "[x]"
		}
		text = truncate.StringWithTail(text, uint(max(width-30, 10)), "…")
		if t.Completed {
			text = st.done.Render(text)
		}
		due := ""
		if t.Deadline != nil {
			due = st.faint.Render(" due " + t.Deadline.Local().Format(stampLayout))
			if t.Overdue(now) {
				due = st.late.Render(" overdue " + t.Deadline.Local().Format(stampLayout))
			}
		}
		line := cursor + box + " " + priorityMark(st, t.Priority) + " " + text + due
		if t.ID == pending {
			line += st.err.Render("  delete? y/n")
		}
		lines = append(lines, line)
	}
	if m.taskMode == taskAdding || m.taskMode == taskEditing {
		lines = append(lines, "", st.panel.Render(m.taskView(st)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// taskView shows only the text field while editing.
func (m *Model) taskView(st styles) string {
	if m.taskMode != taskEditing {
		return m.taskForm.View(st)
	}
	f := &form{title: "Edit Task", fields: m.taskForm.fields[:1], errs: m.taskForm.errs}
	return f.View(st)
}

func (m *Model) viewReminders(st styles) string {
	s := m.portal.Session.Get()
	now := m.opts.Now()
	lines := []string{st.title.Render("Reminders")}
	row := 0
	section := func(title string, list []session.Reminder) {
		lines = append(lines, "", st.label.Bold(true).Render(title))
		if len(list) == 0 {
			lines = append(lines, st.faint.Render("  none"))
		}
		for _, r := range list {
			cursor := "  "
			if row == m.reminderCursor {
				cursor = st.cursor.Render("› ")
			}
			line := cursor + r.Datetime.Local().Format(stampLayout) + "  " + r.Title
			if r.Description != "" {
				line += st.faint.Render("  " + r.Description)
			}
			lines = append(lines, truncate.StringWithTail(line, uint(m.textWidth()), "…"))
			row++
		}
	}
	section("Upcoming", s.UpcomingReminders(now))
	section("Past", s.PastReminders(now))
	if m.reminderOpen {
		lines = append(lines, "", st.panel.Render(m.reminder.View(st)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) viewProfile(st styles) string {
	if m.profileEditing {
		return m.profileForm.View(st)
	}
	p := m.portal.Session.Get().Profile
	field := func(label, v string) string {
		if v == "" {
			v = st.faint.Render("-")
		}
		return st.label.Bold(true).Render(fmt.Sprintf("%-18s", label)) + v
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		st.title.Render("Profile"),
		"",
		field("Name", p.Name),
		field("Role", p.Role),
		field("Email", p.Email),
		field("Phone", p.Phone),
		field("Address", p.Address),
		field("GAP ID", p.GapID),
		field("Enrolled year", p.EnrolledYear),
		field("Trimester", p.CurrentTrimester),
		field("Job", p.Job),
		field("Clubs", strings.Join(p.Clubs, ", ")),
	)
}

func (m *Model) viewFeedback(st styles) string {
	if m.summary == "" {
		return m.feedback.View(st)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		st.title.Render("Thank you for your feedback"),
		"",
		wordwrap.String(m.summary, m.textWidth()),
	)
}

func (m *Model) viewSettings(st styles) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		st.title.Render("Settings"),
		"",
		"Theme: "+st.focused.Render(string(m.portal.Theme())),
	)
}

var staticText = map[router.Screen]string{
	router.Classes:   "Your timetable is published by the registrar at the start of each trimester. Check with your program coordinator for room changes.",
	router.Clubs:     "Art Club, Coding Club, Debate Club, Music Club and Sports Club meet every week. Ask at the student office to join.",
	router.Horoscope: "The stars say: finish the task you have been putting off. Your future self will thank you.",
	router.JobOffers: "Internship and part-time offers are posted on the career board. Keep your profile up to date so recruiters can reach you.",
	router.About:     "Student Portal keeps your tasks, reminders and profile in one place.",
}

func (m *Model) viewStatic(st styles, s router.Screen) string {
	text := staticText[s]
	if s == router.Clubs {
		if mine := m.portal.Session.Get().Profile.Clubs; len(mine) > 0 {
			text += "\n\nYour clubs: " + strings.Join(mine, ", ")
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		st.title.Render(s.Title()),
		"",
		wordwrap.String(text, m.textWidth()),
	)
}
