// Package tui is the terminal front end of the portal. It renders the
// router's current screen and forwards input to pkg/app.
package tui

import (
	"context"
	"io"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/portal/pkg/app"
	"tableflip.dev/portal/pkg/router"
	"tableflip.dev/portal/pkg/session"
	"tableflip.dev/portal/pkg/store"
	"tableflip.dev/portal/pkg/task"
	"tableflip.dev/portal/pkg/tui/calendar"
	"tableflip.dev/portal/pkg/tui/help"
)

// Options wires optional collaborators into the model.
type Options struct {
	// Watch streams slot changes so a task list edited elsewhere reloads.
	Watch func(ctx context.Context) (<-chan store.Event, error)
	// TaskSlot names the slot holding uid's task list.
	TaskSlot func(uid string) string
	Now      func() time.Time
	Logger   *log.Logger
}

type taskMode int

const (
	taskBrowse taskMode = iota
	taskAdding
	taskEditing
	taskConfirmDelete
)

// Model is the root bubbletea model.
type Model struct {
	portal *app.Portal
	opts   Options
	logger *log.Logger
	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int

	screen router.Screen
	visit  uint64
	flash  string

	routerCh    <-chan router.Transition
	sessionCh   <-chan session.UserSession
	unsubscribe func()
	watchCh     <-chan store.Event
	watchCancel context.CancelFunc

	homeCursor int

	login     *form
	federated *form
	useToken  bool
	signup    *form

	menuCursor        int
	month             time.Time
	showNotifications bool
	reminder          *form
	reminderOpen      bool
	reminderEditing   string

	tasks      *task.List
	taskCursor int
	taskMode   taskMode
	taskForm   *form

	reminderCursor int

	profileForm    *form
	profileEditing bool

	meeting  *form
	feedback *form
	summary  string

	help *help.Model
}

type transitionMsg struct {
	transition router.Transition
	ok         bool
}

type sessionMsg struct {
	ok bool
}

type loginDoneMsg struct{ err error }

type signupDoneMsg struct{ err error }

type profileLoadedMsg struct {
	applied bool
	err     error
}

type profileSavedMsg struct{ err error }

type tasksLoadedMsg struct {
	list *task.List
	err  error
}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

// New creates the root model over p.
func New(p *app.Portal, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	ctx, cancel := context.WithCancel(context.Background())
	sessionCh, unsubscribe := p.Session.Subscribe()
	m := &Model{
		portal:      p,
		opts:        opts,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		screen:      p.Screen(),
		visit:       p.Router.Visit(),
		routerCh:    p.Router.Changes(),
		sessionCh:   sessionCh,
		unsubscribe: unsubscribe,
		month:       calendar.FirstOf(opts.Now()),
		login: newForm("Login",
			fieldSpec{key: "email", label: "Email", placeholder: "you@school.edu"},
			fieldSpec{key: "password", label: "Password", secret: true},
		),
		federated: newForm("Sign in with your school account",
			fieldSpec{key: "token", label: "ID token", secret: true},
		),
		signup: newForm("Sign Up",
			fieldSpec{key: "name", label: "Full name"},
			fieldSpec{key: "email", label: "Email", placeholder: "you@school.edu"},
			fieldSpec{key: "gapID", label: "GAP ID"},
			fieldSpec{key: "phone", label: "Phone"},
			fieldSpec{key: "address", label: "Address"},
			fieldSpec{key: "enrolledYear", label: "Enrolled year", placeholder: "2024"},
			fieldSpec{key: "currentTrimester", label: "Current trimester"},
			fieldSpec{key: "job", label: "Job"},
			fieldSpec{key: "clubs", label: "Clubs", placeholder: "Art Club, Coding Club"},
		),
		reminder: newForm("Reminder",
			fieldSpec{key: "title", label: "Title"},
			fieldSpec{key: "day", label: "Date", placeholder: "today, tomorrow or 2006-01-02"},
			fieldSpec{key: "time", label: "Time", placeholder: "14:30"},
			fieldSpec{key: "description", label: "Description"},
		),
		taskForm: newForm("Task",
			fieldSpec{key: "text", label: "Task"},
			fieldSpec{key: "priority", label: "Priority", placeholder: "low, medium or high"},
			fieldSpec{key: "deadline", label: "Deadline", placeholder: "2006-01-02 15:04"},
		),
		profileForm: newForm("Edit Profile",
			fieldSpec{key: "name", label: "Name"},
			fieldSpec{key: "phone", label: "Phone"},
			fieldSpec{key: "address", label: "Address"},
			fieldSpec{key: "enrolledYear", label: "Enrolled year"},
			fieldSpec{key: "currentTrimester", label: "Current trimester"},
			fieldSpec{key: "job", label: "Job"},
			fieldSpec{key: "clubs", label: "Clubs"},
		),
		meeting: newForm("Book Meeting",
			fieldSpec{key: "name", label: "Your name"},
			fieldSpec{key: "professor", label: "Professor"},
			fieldSpec{key: "description", label: "What is it about?"},
		),
		feedback: newForm("Student Experience",
			fieldSpec{key: "teacher", label: "Teacher"},
			fieldSpec{key: "learnings", label: "Major learnings"},
			fieldSpec{key: "suggestions", label: "Suggestions"},
		),
	}
	return m
}

// Run launches the program and blocks until the user quits.
func Run(p *app.Portal, opts Options) error {
	m := New(p, opts)
	defer m.Close()
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

// Close stops background work started by the model.
func (m *Model) Close() {
	m.stopWatch()
	m.unsubscribe()
	m.cancel()
}

// Init starts the splash countdown and the background listeners.
func (m *Model) Init() tea.Cmd {
	m.portal.Start()
	return tea.Batch(m.waitForTransition(), m.waitForSession(), m.startWatch())
}

func (m *Model) waitForTransition() tea.Cmd {
	ch := m.routerCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		t, ok := <-ch
		return transitionMsg{transition: t, ok: ok}
	}
}

func (m *Model) waitForSession() tea.Cmd {
	ch := m.sessionCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		_, ok := <-ch
		return sessionMsg{ok: ok}
	}
}

func (m *Model) startWatch() tea.Cmd {
	if m.opts.Watch == nil {
		return nil
	}
	watch, parent := m.opts.Watch, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	ch := m.watchCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

func (m *Model) handleWatchEvent(ev store.Event) tea.Cmd {
	if m.tasks == nil || m.opts.TaskSlot == nil {
		return nil
	}
	uid := m.portal.Session.Get().Identity.UID
	if !ev.Affects(m.opts.TaskSlot(uid)) {
		return nil
	}
	m.tasks.Reload(m.ctx)
	if _, ok := m.tasks.PendingDelete(); !ok && m.taskMode == taskConfirmDelete {
		m.taskMode = taskBrowse
	}
	m.clampTaskCursor()
	return nil
}

// Update routes messages to the handler of the current screen.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		if m.help != nil {
			m.help.SetSize(m.helpSize())
		}
	case transitionMsg:
		if !v.ok {
			m.routerCh = nil
			break
		}
		cmds = append(cmds, m.waitForTransition())
	case sessionMsg:
		if !v.ok {
			m.sessionCh = nil
			break
		}
		cmds = append(cmds, m.waitForSession())
	case watchStartedMsg:
		if v.err != nil {
			m.logger.Printf("tui: watch: %v", v.err)
			break
		}
		m.watchCh, m.watchCancel = v.ch, v.cancel
		cmds = append(cmds, m.waitForWatch())
	case watchEventMsg:
		cmds = append(cmds, m.handleWatchEvent(v.event), m.waitForWatch())
	case watchStoppedMsg:
		m.stopWatch()
	case loginDoneMsg:
		m.onLoginDone(v.err)
	case signupDoneMsg:
		m.onSignupDone(v.err)
	case profileLoadedMsg:
		if v.err != nil {
			m.logger.Printf("tui: refresh profile: %v", v.err)
		}
	case profileSavedMsg:
		m.onProfileSaved(v.err)
	case tasksLoadedMsg:
		if v.err != nil {
			m.flash = v.err.Error()
			break
		}
		m.tasks = v.list
		m.clampTaskCursor()
	case tea.KeyMsg:
		if v.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.help != nil:
			cmds = append(cmds, m.keyHelp(v))
		case v.String() == "?" && m.helpAllowed():
			m.help = help.New(m.helpSize())
		default:
			cmds = append(cmds, m.handleKey(v))
		}
	default:
		cmds = append(cmds, m.forwardToForm(msg))
	}

	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

// sync catches the model up with the router. Navigation may be published
// on the channel after the model already observed it, so entry work runs
// once per visit.
func (m *Model) sync() tea.Cmd {
	visit := m.portal.Router.Visit()
	if visit == m.visit {
		return nil
	}
	m.visit = visit
	m.screen = m.portal.Screen()
	return m.enter(m.screen)
}

func (m *Model) enter(s router.Screen) tea.Cmd {
	m.flash = ""
	switch s {
	case router.Login:
		m.useToken = false
		m.login.SetValue("password", "")
		m.login.SetError(nil, nil)
		return m.login.Focus()
	case router.SignupMessage:
		m.signup.Reset()
		return m.signup.Focus()
	case router.HomeMenu:
		m.reminderOpen = false
		m.tasks = nil
		return nil
	case router.Tasks:
		m.taskMode = taskBrowse
		return m.loadTasks()
	case router.Reminders:
		m.reminderOpen = false
		m.reminderCursor = 0
		return nil
	case router.Profile:
		m.profileEditing = false
		return m.refreshProfile()
	case router.BookMeeting:
		m.meeting.Reset()
		return m.meeting.Focus()
	case router.StudentExperience:
		m.summary = ""
		m.feedback.Reset()
		return m.feedback.Focus()
	}
	return nil
}

func (m *Model) loadTasks() tea.Cmd {
	p, ctx := m.portal, m.ctx
	return func() tea.Msg {
		list, err := p.Tasks(ctx)
		return tasksLoadedMsg{list: list, err: err}
	}
}

func (m *Model) refreshProfile() tea.Cmd {
	p, ctx := m.portal, m.ctx
	return func() tea.Msg {
		applied, err := p.RefreshProfile(ctx)
		return profileLoadedMsg{applied: applied, err: err}
	}
}

func (m *Model) helpSize() (int, int) {
	height := m.height - 6
	if m.height == 0 {
		height = 24
	}
	return m.textWidth(), height
}

// helpAllowed reports whether "?" opens the help instead of reaching a
// text input or a pending confirmation.
func (m *Model) helpAllowed() bool {
	if m.screen == router.Splash || m.activeForm() != nil {
		return false
	}
	return m.screen != router.Tasks || m.taskMode == taskBrowse
}

func (m *Model) keyHelp(k tea.KeyMsg) tea.Cmd {
	switch k.String() {
	case "esc", "?", "q":
		m.help = nil
		return nil
	}
	return m.help.Update(k)
}

// forwardToForm passes non-key messages such as cursor blinks to the form
// that currently has focus.
func (m *Model) forwardToForm(msg tea.Msg) tea.Cmd {
	f := m.activeForm()
	if f == nil {
		return nil
	}
	_, cmd := f.Update(msg)
	return cmd
}

func (m *Model) activeForm() *form {
	switch m.screen {
	case router.Login:
		if m.useToken {
			return m.federated
		}
		return m.login
	case router.SignupMessage:
		return m.signup
	case router.HomeMenu, router.Reminders:
		if m.reminderOpen {
			return m.reminder
		}
	case router.Tasks:
		if m.taskMode == taskAdding || m.taskMode == taskEditing {
			return m.taskForm
		}
	case router.Profile:
		if m.profileEditing {
			return m.profileForm
		}
	case router.BookMeeting:
		return m.meeting
	case router.StudentExperience:
		return m.feedback
	}
	return nil
}
