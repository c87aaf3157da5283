// Package app wires the router, session, reminder engine and collaborators
// into the operations shared by the terminal UI and the CLI.
package app

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"tableflip.dev/portal/pkg/auth"
	"tableflip.dev/portal/pkg/forms"
	"tableflip.dev/portal/pkg/profile"
	"tableflip.dev/portal/pkg/reminder"
	"tableflip.dev/portal/pkg/router"
	"tableflip.dev/portal/pkg/session"
	"tableflip.dev/portal/pkg/task"
)

var (
	// ErrNotSignedIn is returned for operations that need a session.
	ErrNotSignedIn = errors.New("app: not signed in")
	// ErrReminderNotFound is returned when editing an unknown reminder.
	ErrReminderNotFound = errors.New("app: reminder not found")
	// ErrNoProfiles is returned when no profile repository is configured.
	ErrNoProfiles = errors.New("app: no profile repository configured")
	// ErrNoTasks is returned when no task persistence is configured.
	ErrNoTasks = errors.New("app: no task persistence configured")
	// ErrStale is returned when a remote response arrives after the user
	// left the screen that started the request. The result was not applied.
	ErrStale = errors.New("app: response arrived after leaving the screen")
)

// Theme is the color scheme chosen on the settings screen.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Options configures a Portal.
type Options struct {
	Auth     auth.Gateway
	Profiles profile.Repository
	// Tasks returns the persistence of the task list owned by uid.
	Tasks func(uid string) task.Persistence

	SplashDwell time.Duration
	// Background keeps the reminder engine running for the whole signed-in
	// session instead of only while the home menu is shown.
	Background bool
	Reminders  []reminder.Option

	Logger *log.Logger
	Now    func() time.Time
}

// Portal is the client core: one router, one session and one reminder
// engine per running app.
type Portal struct {
	Router   *router.Router
	Session  *session.Store
	Engine   *reminder.Engine
	Auth     auth.Gateway
	Profiles profile.Repository

	tasks      func(uid string) task.Persistence
	dwell      time.Duration
	background bool
	logger     *log.Logger
	now        func() time.Time

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	unsub  func()
	theme  Theme
}

// New builds a Portal sitting on the splash screen. Call Start to begin the
// splash countdown.
func New(opts Options) *Portal {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sessions := session.NewStore()
	engineOpts := append([]reminder.Option{reminder.WithLogger(logger), reminder.WithClock(now)}, opts.Reminders...)
	p := &Portal{
		Router:     router.New(),
		Session:    sessions,
		Engine:     reminder.New(sessions, engineOpts...),
		Auth:       opts.Auth,
		Profiles:   opts.Profiles,
		tasks:      opts.Tasks,
		dwell:      opts.SplashDwell,
		background: opts.Background,
		logger:     logger,
		now:        now,
		theme:      ThemeLight,
	}
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.unsub = p.Router.Subscribe(p.onTransition)
	return p
}

// Start begins the splash countdown.
func (p *Portal) Start() {
	p.Router.StartSplash(p.dwell)
}

// Close stops the engine and tears down the router.
func (p *Portal) Close() {
	p.unsub()
	p.Engine.Stop()
	p.cancel()
	p.Router.Close()
}

// onTransition runs the reminder engine while the home menu is shown.
func (p *Portal) onTransition(t router.Transition) {
	if p.background {
		return
	}
	switch {
	case t.To == router.HomeMenu && p.Session.Get().Authenticated():
		p.Engine.Start(p.ctx)
	case t.From == router.HomeMenu && t.To != router.HomeMenu:
		p.Engine.Stop()
	}
}

// Screen returns the current screen.
func (p *Portal) Screen() router.Screen {
	return p.Router.Current()
}

// ShowLogin moves from home to the login screen.
func (p *Portal) ShowLogin() router.Transition {
	return p.Router.Navigate(router.Login, router.Home)
}

// ShowSignupMessage moves from login to the sign-up request screen.
func (p *Portal) ShowSignupMessage() router.Transition {
	return p.Router.Navigate(router.SignupMessage, router.Login)
}

// BackToHome returns to the landing screen.
func (p *Portal) BackToHome() router.Transition {
	return p.Router.Navigate(router.Home, "")
}

// Open navigates to screen with its usual back target. Screens behind the
// home menu need a signed-in session.
func (p *Portal) Open(screen router.Screen) (router.Transition, error) {
	screen = router.Resolve(screen)
	if needsSession(screen) && !p.Session.Get().Authenticated() {
		return router.Transition{}, ErrNotSignedIn
	}
	return p.Router.Navigate(screen, router.BackFor(screen)), nil
}

// GoBack follows the current screen's back target.
func (p *Portal) GoBack() router.Transition {
	return p.Router.Back()
}

func needsSession(s router.Screen) bool {
	if s == router.HomeMenu {
		return true
	}
	for _, inner := range router.InnerScreens() {
		if s == inner {
			return true
		}
	}
	return false
}

// Login validates form, signs in and lands on the home menu. Validation
// errors are returned before any I/O; gateway failures leave the session
// and screen unchanged. A sign-in that completes after the user left the
// screen returns ErrStale and is not applied.
func (p *Portal) Login(ctx context.Context, form forms.LoginForm) (session.UserSession, error) {
	if err := forms.Validate(form); err != nil {
		return session.UserSession{}, err
	}
	if p.Auth == nil {
		return session.UserSession{}, errors.New("app: no authentication gateway configured")
	}
	screen, visit := p.Router.Current(), p.Router.Visit()
	id, err := p.Auth.SignInWithPassword(ctx, strings.TrimSpace(form.Email), form.Password)
	if err != nil {
		return session.UserSession{}, err
	}
	return p.completeLogin(ctx, id, screen, visit)
}

// LoginFederated signs in with an identity provider token.
func (p *Portal) LoginFederated(ctx context.Context, idToken string) (session.UserSession, error) {
	if strings.TrimSpace(idToken) == "" {
		return session.UserSession{}, &forms.ValidationError{Fields: []forms.FieldError{{Field: "token", Message: "token is a required field"}}}
	}
	if p.Auth == nil {
		return session.UserSession{}, errors.New("app: no authentication gateway configured")
	}
	screen, visit := p.Router.Current(), p.Router.Visit()
	id, err := p.Auth.SignInFederated(ctx, idToken)
	if err != nil {
		return session.UserSession{}, err
	}
	return p.completeLogin(ctx, id, screen, visit)
}

func (p *Portal) completeLogin(ctx context.Context, id session.Identity, screen router.Screen, visit uint64) (session.UserSession, error) {
	if !p.Router.Active(screen, visit) {
		p.logger.Printf("app: discard sign-in for %s: screen changed", id.UID)
		return session.UserSession{}, ErrStale
	}
	p.Session.Login(id)
	if p.background {
		p.Engine.Start(p.ctx)
	}
	p.Router.Navigate(router.HomeMenu, router.Home)

	if p.Profiles != nil {
		u, err := p.Profiles.GetOrCreate(ctx, id.UID, id.Email, id.Name)
		if err != nil {
			p.logger.Printf("app: load profile for %s: %v", id.UID, err)
		} else if p.Session.Get().Identity.UID == id.UID {
			p.Session.MergeProfile(u.Profile())
		}
	}
	return p.Session.Get(), nil
}

// Logout clears the session and returns to the landing screen.
func (p *Portal) Logout() {
	p.Engine.Stop()
	p.Session.Logout()
	p.Router.Navigate(router.Home, "")
}

// RefreshProfile fetches the profile and merges it into the session. The
// result is dropped when the user has left the screen that asked for it;
// applied reports whether it was merged.
func (p *Portal) RefreshProfile(ctx context.Context) (applied bool, err error) {
	if p.Profiles == nil {
		return false, ErrNoProfiles
	}
	s := p.Session.Get()
	if !s.Authenticated() {
		return false, ErrNotSignedIn
	}
	screen, visit := p.Router.Current(), p.Router.Visit()

	u, err := p.Profiles.Get(ctx, s.Identity.UID, s.Identity.Email)
	if err != nil {
		return false, err
	}
	if !p.Router.Active(screen, visit) || p.Session.Get().Identity.UID != s.Identity.UID {
		return false, nil
	}
	p.Session.MergeProfile(u.Profile())
	return true, nil
}

// UpdateProfile saves the non-empty fields of form and merges the stored
// document into the session. When the user left the screen before the save
// returned, the document is stored but not merged and ErrStale is returned.
func (p *Portal) UpdateProfile(ctx context.Context, form forms.ProfileForm) (session.Profile, error) {
	if err := forms.Validate(form); err != nil {
		return session.Profile{}, err
	}
	if p.Profiles == nil {
		return session.Profile{}, ErrNoProfiles
	}
	s := p.Session.Get()
	if !s.Authenticated() {
		return session.Profile{}, ErrNotSignedIn
	}
	patch := profilePatch(form)
	if patch.Empty() {
		return s.Profile, nil
	}
	screen, visit := p.Router.Current(), p.Router.Visit()
	u, err := p.Profiles.Update(ctx, s.Identity.UID, patch)
	if err != nil {
		return session.Profile{}, err
	}
	if !p.Router.Active(screen, visit) || p.Session.Get().Identity.UID != s.Identity.UID {
		return session.Profile{}, ErrStale
	}
	return p.Session.MergeProfile(u.Profile()).Profile, nil
}

func profilePatch(form forms.ProfileForm) profile.Patch {
	opt := func(v string) *string {
		if v = strings.TrimSpace(v); v == "" {
			return nil
		}
		return &v
	}
	patch := profile.Patch{
		Name:             opt(form.Name),
		Phone:            opt(form.Phone),
		Address:          opt(form.Address),
		EnrolledYear:     opt(form.EnrolledYear),
		CurrentTrimester: opt(form.CurrentTrimester),
		Job:              opt(form.Job),
	}
	if strings.TrimSpace(form.Clubs) != "" {
		patch.Clubs = profile.ParseClubs(form.Clubs)
	}
	return patch
}

// Theme returns the current color scheme.
func (p *Portal) Theme() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.theme
}

// ToggleTheme flips between light and dark.
func (p *Portal) ToggleTheme() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.theme == ThemeDark {
		p.theme = ThemeLight
	} else {
		p.theme = ThemeDark
	}
	return p.theme
}

// Tasks opens the task list of the signed-in user, or the shared list when
// signed out.
func (p *Portal) Tasks(ctx context.Context) (*task.List, error) {
	if p.tasks == nil {
		return nil, ErrNoTasks
	}
	uid := p.Session.Get().Identity.UID
	return task.Open(ctx, p.tasks(uid), task.WithLogger(p.logger), task.WithClock(p.now)), nil
}
