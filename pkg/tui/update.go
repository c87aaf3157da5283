package tui

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/portal/pkg/app"
	"tableflip.dev/portal/pkg/auth"
	"tableflip.dev/portal/pkg/forms"
	"tableflip.dev/portal/pkg/router"
	"tableflip.dev/portal/pkg/task"
	"tableflip.dev/portal/pkg/timeutil"
	"tableflip.dev/portal/pkg/tui/calendar"
)

var homeChoices = []string{"Login", "Sign Up", "Quit"}

func errText(err error) string { return err.Error() }

func (m *Model) handleKey(k tea.KeyMsg) tea.Cmd {
	switch m.screen {
	case router.Splash:
		return nil
	case router.Home:
		return m.keyHome(k)
	case router.Login:
		return m.keyLogin(k)
	case router.SignupMessage:
		return m.keySignup(k)
	case router.HomeMenu:
		return m.keyHomeMenu(k)
	case router.Tasks:
		return m.keyTasks(k)
	case router.Reminders:
		return m.keyReminders(k)
	case router.Profile:
		return m.keyProfile(k)
	case router.BookMeeting:
		return m.keyMeeting(k)
	case router.StudentExperience:
		return m.keyFeedback(k)
	case router.Settings:
		if k.String() == "t" {
			m.portal.ToggleTheme()
			return nil
		}
	}
	if isBack(k) {
		m.portal.GoBack()
	}
	return nil
}

func isBack(k tea.KeyMsg) bool {
	switch k.String() {
	case "esc", "backspace", "h":
		return true
	}
	return false
}

func (m *Model) keyHome(k tea.KeyMsg) tea.Cmd {
	switch k.String() {
	case "up", "k":
		m.homeCursor = (m.homeCursor + len(homeChoices) - 1) % len(homeChoices)
	case "down", "j", "tab":
		m.homeCursor = (m.homeCursor + 1) % len(homeChoices)
	case "l":
		m.portal.ShowLogin()
	case "s":
		m.portal.ShowLogin()
		m.portal.ShowSignupMessage()
	case "q":
		return tea.Quit
	case "enter":
		switch m.homeCursor {
		case 0:
			m.portal.ShowLogin()
		case 1:
			m.portal.ShowLogin()
			m.portal.ShowSignupMessage()
		default:
			return tea.Quit
		}
	}
	return nil
}

func (m *Model) keyLogin(k tea.KeyMsg) tea.Cmd {
	switch k.String() {
	case "esc":
		if m.useToken {
			m.useToken = false
			return m.login.Focus()
		}
		m.portal.GoBack()
		return nil
	case "ctrl+s":
		m.portal.ShowSignupMessage()
		return nil
	case "ctrl+g":
		m.useToken = true
		m.federated.Reset()
		return m.federated.Focus()
	}
	if m.useToken {
		submit, cmd := m.federated.Update(k)
		if !submit {
			return cmd
		}
		token := m.federated.Value("token")
		p, ctx := m.portal, m.ctx
		return func() tea.Msg {
			_, err := p.LoginFederated(ctx, token)
			return loginDoneMsg{err: err}
		}
	}
	submit, cmd := m.login.Update(k)
	if !submit {
		return cmd
	}
	form := forms.LoginForm{Email: m.login.Value("email"), Password: m.login.Value("password")}
	if err := forms.Validate(form); err != nil {
		m.login.SetError(err, auth.Message)
		return nil
	}
	m.login.SetError(nil, nil)
	m.login.status = "Signing in…"
	p, ctx := m.portal, m.ctx
	return func() tea.Msg {
		_, err := p.Login(ctx, form)
		return loginDoneMsg{err: err}
	}
}

func (m *Model) onLoginDone(err error) {
	f := m.login
	if m.useToken {
		f = m.federated
	}
	if errors.Is(err, app.ErrStale) {
		f.SetError(nil, nil)
		return
	}
	if err != nil {
		f.SetError(err, auth.Message)
		return
	}
	f.SetError(nil, nil)
	m.login.Reset()
	m.useToken = false
}

func (m *Model) keySignup(k tea.KeyMsg) tea.Cmd {
	if k.String() == "esc" {
		m.portal.GoBack()
		return nil
	}
	submit, cmd := m.signup.Update(k)
	if !submit {
		return cmd
	}
	form := forms.SignupForm{
		Name:             m.signup.Value("name"),
		Email:            m.signup.Value("email"),
		GapID:            m.signup.Value("gapID"),
		Phone:            m.signup.Value("phone"),
		Address:          m.signup.Value("address"),
		EnrolledYear:     m.signup.Value("enrolledYear"),
		CurrentTrimester: m.signup.Value("currentTrimester"),
		Job:              m.signup.Value("job"),
		Clubs:            m.signup.Value("clubs"),
	}
	if err := forms.Validate(form); err != nil {
		m.signup.SetError(err, errText)
		return nil
	}
	p, ctx := m.portal, m.ctx
	return func() tea.Msg {
		_, err := p.SubmitSignup(ctx, form)
		return signupDoneMsg{err: err}
	}
}

func (m *Model) onSignupDone(err error) {
	if errors.Is(err, app.ErrStale) {
		m.signup.Reset()
		return
	}
	if err != nil {
		m.signup.SetError(err, errText)
		return
	}
	m.signup.Reset()
	m.sync()
	m.flash = app.SignupSentMessage
}

func (m *Model) keyHomeMenu(k tea.KeyMsg) tea.Cmd {
	if m.reminderOpen {
		return m.keyReminderForm(k)
	}
	inner := router.InnerScreens()
	switch k.String() {
	case "up", "k":
		m.menuCursor = (m.menuCursor + len(inner) - 1) % len(inner)
	case "down", "j":
		m.menuCursor = (m.menuCursor + 1) % len(inner)
	case "left", "[":
		m.month = calendar.Shift(m.month, -1)
	case "right", "]":
		m.month = calendar.Shift(m.month, 1)
	case ".":
		m.month = calendar.FirstOf(m.opts.Now())
	case "enter", "l":
		if _, err := m.portal.Open(inner[m.menuCursor]); err != nil {
			m.flash = err.Error()
		}
	case "n":
		m.showNotifications = !m.showNotifications
		if m.showNotifications {
			m.portal.OpenNotifications()
		}
	case "r":
		return m.openReminderForm("")
	case "o":
		m.portal.Logout()
	case "esc":
		if m.showNotifications {
			m.showNotifications = false
		}
	}
	return nil
}

func (m *Model) openReminderForm(id string) tea.Cmd {
	m.reminder.Reset()
	m.reminderEditing = id
	if id != "" {
		r, ok := m.portal.Session.Get().FindReminder(id)
		if !ok {
			return nil
		}
		at := r.Datetime.Local()
		m.reminder.SetValue("title", r.Title)
		m.reminder.SetValue("day", at.Format(timeutil.DayLayout))
		m.reminder.SetValue("time", at.Format("15:04"))
		m.reminder.SetValue("description", r.Description)
	}
	m.reminderOpen = true
	return m.reminder.Focus()
}

// reminderForm parses the date and time fields. Unparsable values are
// reported on their field; blank ones are left for validation.
func (m *Model) reminderForm() (forms.ReminderForm, bool) {
	f := m.reminder
	out := forms.ReminderForm{Title: f.Value("title"), Description: f.Value("description")}
	f.SetError(nil, nil)
	errs := map[string]string{}
	if raw := f.Value("day"); raw != "" {
		day, err := timeutil.ParseDay(raw, m.opts.Now(), time.Local)
		if err != nil {
			errs["day"] = err.Error()
		} else {
			out.Day = &day
		}
	}
	if raw := f.Value("time"); raw != "" {
		clock, err := timeutil.ParseClock(raw)
		if err != nil {
			errs["time"] = err.Error()
		} else {
			out.Clock = &clock
		}
	}
	if len(errs) > 0 {
		f.errs = errs
		return out, false
	}
	return out, true
}

func (m *Model) keyReminderForm(k tea.KeyMsg) tea.Cmd {
	if k.String() == "esc" {
		m.reminderOpen = false
		return nil
	}
	submit, cmd := m.reminder.Update(k)
	if !submit {
		return cmd
	}
	form, ok := m.reminderForm()
	if !ok {
		return nil
	}
	var err error
	if m.reminderEditing != "" {
		_, err = m.portal.UpdateReminder(m.reminderEditing, form)
	} else {
		_, err = m.portal.SaveReminder(form)
	}
	if err != nil {
		m.reminder.SetError(err, errText)
		return nil
	}
	m.reminderOpen = false
	m.flash = "Reminder saved."
	return nil
}

func (m *Model) clampTaskCursor() {
	n := 0
	if m.tasks != nil {
		n = len(m.tasks.Tasks())
	}
	if m.taskCursor >= n {
		m.taskCursor = n - 1
	}
	if m.taskCursor < 0 {
		m.taskCursor = 0
	}
}

func (m *Model) selectedTask() (task.Task, bool) {
	if m.tasks == nil {
		return task.Task{}, false
	}
	all := m.tasks.Tasks()
	if m.taskCursor < 0 || m.taskCursor >= len(all) {
		return task.Task{}, false
	}
	return all[m.taskCursor], true
}

func (m *Model) keyTasks(k tea.KeyMsg) tea.Cmd {
	if m.tasks == nil {
		if isBack(k) {
			m.portal.GoBack()
		}
		return nil
	}
	switch m.taskMode {
	case taskAdding, taskEditing:
		return m.keyTaskForm(k)
	case taskConfirmDelete:
		switch k.String() {
		case "y", "enter":
			if _, err := m.tasks.ConfirmDelete(m.ctx); err != nil {
				m.flash = err.Error()
			}
			m.clampTaskCursor()
		default:
			m.tasks.CancelDelete()
		}
		m.taskMode = taskBrowse
		return nil
	}

	switch k.String() {
	case "up", "k":
		if m.taskCursor > 0 {
			m.taskCursor--
		}
	case "down", "j":
		m.taskCursor++
		m.clampTaskCursor()
	case "a":
		m.taskForm.Reset()
		m.taskMode = taskAdding
		return m.taskForm.Focus()
	case "e":
		t, ok := m.selectedTask()
		if !ok {
			return nil
		}
		m.taskForm.Reset()
		m.taskForm.SetValue("text", t.Text)
		m.taskMode = taskEditing
		return m.taskForm.Focus()
	case " ", "space", "x":
		if t, ok := m.selectedTask(); ok {
			if _, err := m.tasks.Toggle(m.ctx, t.ID); err != nil {
				m.flash = err.Error()
			}
		}
	case "d":
		if t, ok := m.selectedTask(); ok {
			if _, err := m.tasks.RequestDelete(t.ID); err == nil {
				m.taskMode = taskConfirmDelete
			}
		}
	case "esc", "backspace", "h":
		m.portal.GoBack()
	}
	return nil
}

func (m *Model) keyTaskForm(k tea.KeyMsg) tea.Cmd {
	if k.String() == "esc" {
		m.taskMode = taskBrowse
		return nil
	}
	// Editing only changes the text; enter on it submits.
	var submit bool
	var cmd tea.Cmd
	if m.taskMode == taskEditing && k.String() == "enter" {
		submit = true
	} else {
		submit, cmd = m.taskForm.Update(k)
	}
	if !submit {
		return cmd
	}
	text := m.taskForm.Value("text")
	if m.taskMode == taskEditing {
		t, ok := m.selectedTask()
		if !ok {
			m.taskMode = taskBrowse
			return nil
		}
		if _, err := m.tasks.Edit(m.ctx, t.ID, text); err != nil {
			m.taskForm.errs = map[string]string{"text": err.Error()}
			return nil
		}
		m.taskMode = taskBrowse
		return nil
	}

	errs := map[string]string{}
	priority, err := task.ParsePriority(m.taskForm.Value("priority"))
	if err != nil {
		errs["priority"] = err.Error()
	}
	deadline, err := timeutil.ParseDeadline(m.taskForm.Value("deadline"), m.opts.Now())
	if err != nil {
		errs["deadline"] = err.Error()
	}
	if len(errs) > 0 {
		m.taskForm.errs = errs
		return nil
	}
	if _, ok := m.tasks.Add(m.ctx, text, priority, deadline); !ok {
		m.taskForm.errs = map[string]string{"text": task.ErrEmptyText.Error()}
		return nil
	}
	m.taskCursor = 0
	m.taskMode = taskBrowse
	return nil
}

// reminderRows lists upcoming then past reminders, the order they are
// drawn in.
func (m *Model) reminderRows() []string {
	s := m.portal.Session.Get()
	now := m.opts.Now()
	var ids []string
	for _, r := range s.UpcomingReminders(now) {
		ids = append(ids, r.ID)
	}
	for _, r := range s.PastReminders(now) {
		ids = append(ids, r.ID)
	}
	return ids
}

func (m *Model) keyReminders(k tea.KeyMsg) tea.Cmd {
	if m.reminderOpen {
		return m.keyReminderForm(k)
	}
	rows := m.reminderRows()
	switch k.String() {
	case "up", "k":
		if m.reminderCursor > 0 {
			m.reminderCursor--
		}
	case "down", "j":
		if m.reminderCursor < len(rows)-1 {
			m.reminderCursor++
		}
	case "a":
		return m.openReminderForm("")
	case "e", "enter":
		if m.reminderCursor < len(rows) {
			return m.openReminderForm(rows[m.reminderCursor])
		}
	case "d":
		if m.reminderCursor < len(rows) {
			if err := m.portal.DeleteReminder(rows[m.reminderCursor]); err != nil {
				m.flash = err.Error()
			}
			if m.reminderCursor >= len(rows)-1 && m.reminderCursor > 0 {
				m.reminderCursor--
			}
		}
	case "esc", "backspace", "h":
		m.portal.GoBack()
	}
	return nil
}

func (m *Model) keyProfile(k tea.KeyMsg) tea.Cmd {
	if !m.profileEditing {
		switch k.String() {
		case "e":
			p := m.portal.Session.Get().Profile
			f := m.profileForm
			f.Reset()
			f.SetValue("name", p.Name)
			f.SetValue("phone", p.Phone)
			f.SetValue("address", p.Address)
			f.SetValue("enrolledYear", p.EnrolledYear)
			f.SetValue("currentTrimester", p.CurrentTrimester)
			f.SetValue("job", p.Job)
			f.SetValue("clubs", strings.Join(p.Clubs, ", "))
			m.profileEditing = true
			return f.Focus()
		case "r":
			return m.refreshProfile()
		case "esc", "backspace", "h":
			m.portal.GoBack()
		}
		return nil
	}
	if k.String() == "esc" {
		m.profileEditing = false
		return nil
	}
	submit, cmd := m.profileForm.Update(k)
	if !submit {
		return cmd
	}
	f := m.profileForm
	form := forms.ProfileForm{
		Name:             f.Value("name"),
		Phone:            f.Value("phone"),
		Address:          f.Value("address"),
		EnrolledYear:     f.Value("enrolledYear"),
		CurrentTrimester: f.Value("currentTrimester"),
		Job:              f.Value("job"),
		Clubs:            f.Value("clubs"),
	}
	if err := forms.Validate(form); err != nil {
		f.SetError(err, errText)
		return nil
	}
	p, ctx := m.portal, m.ctx
	return func() tea.Msg {
		_, err := p.UpdateProfile(ctx, form)
		return profileSavedMsg{err: err}
	}
}

func (m *Model) onProfileSaved(err error) {
	if errors.Is(err, app.ErrStale) {
		m.profileEditing = false
		return
	}
	if err != nil {
		m.profileForm.SetError(err, errText)
		return
	}
	m.profileEditing = false
	m.flash = "Profile saved."
}

func (m *Model) keyMeeting(k tea.KeyMsg) tea.Cmd {
	if k.String() == "esc" {
		m.portal.GoBack()
		return nil
	}
	submit, cmd := m.meeting.Update(k)
	if !submit {
		return cmd
	}
	msg, err := m.portal.BookMeeting(forms.MeetingForm{
		Name:        m.meeting.Value("name"),
		Professor:   m.meeting.Value("professor"),
		Description: m.meeting.Value("description"),
	})
	if err != nil {
		m.meeting.SetError(err, errText)
		return nil
	}
	m.sync()
	m.flash = msg
	return nil
}

func (m *Model) keyFeedback(k tea.KeyMsg) tea.Cmd {
	if k.String() == "esc" {
		if m.summary != "" {
			m.summary = ""
			m.feedback.Reset()
			return m.feedback.Focus()
		}
		m.portal.GoBack()
		return nil
	}
	if m.summary != "" {
		return nil
	}
	submit, cmd := m.feedback.Update(k)
	if !submit {
		return cmd
	}
	summary, err := m.portal.SubmitFeedback(forms.FeedbackForm{
		Teacher:     m.feedback.Value("teacher"),
		Learnings:   m.feedback.Value("learnings"),
		Suggestions: m.feedback.Value("suggestions"),
	})
	if err != nil {
		m.feedback.SetError(err, errText)
		return nil
	}
	m.summary = summary
	return nil
}
