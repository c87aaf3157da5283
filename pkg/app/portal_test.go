package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"tableflip.dev/portal/pkg/auth"
	"tableflip.dev/portal/pkg/forms"
	"tableflip.dev/portal/pkg/profile"
	"tableflip.dev/portal/pkg/reminder"
	"tableflip.dev/portal/pkg/router"
	"tableflip.dev/portal/pkg/session"
	"tableflip.dev/portal/pkg/task"
)

type fakeGateway struct {
	mu    sync.Mutex
	calls int
	users map[string]string
	hook  func()
}

func (f *fakeGateway) SignInWithPassword(_ context.Context, email, password string) (session.Identity, error) {
	if f.hook != nil {
		f.hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	pw, ok := f.users[email]
	if !ok {
		return session.Identity{}, auth.ErrAccountNotFound
	}
	if pw != password {
		return session.Identity{}, auth.ErrInvalidCredentials
	}
	return session.Identity{UID: "uid-" + email, Email: email}, nil
}

func (f *fakeGateway) SignInFederated(_ context.Context, token string) (session.Identity, error) {
	if token != "good" {
		return session.Identity{}, auth.ErrInvalidCredentials
	}
	return session.Identity{UID: "g-1", Email: "fed@school.edu", Name: "Fed", Federated: true}, nil
}

type memRepo struct {
	mu        sync.Mutex
	users     map[string]profile.User
	getHook   func()
	writeHook func()
	getErr    error
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]profile.User)}
}

func (m *memRepo) GetOrCreate(_ context.Context, uid, email, name string) (profile.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[uid]; ok {
		return u, nil
	}
	u := profile.User{DocID: uid, UID: uid, Email: email, Name: name}
	m.users[uid] = u
	return u, nil
}

func (m *memRepo) Get(_ context.Context, uid, email string) (profile.User, error) {
	if m.getHook != nil {
		m.getHook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return profile.User{}, m.getErr
	}
	if u, ok := m.users[uid]; ok {
		return u, nil
	}
	return profile.User{}, profile.ErrNotFound
}

func (m *memRepo) Update(_ context.Context, uid string, patch profile.Patch) (profile.User, error) {
	if m.writeHook != nil {
		m.writeHook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return profile.User{}, profile.ErrNotFound
	}
	patch.Apply(&u)
	m.users[uid] = u
	return u, nil
}

func (m *memRepo) CreateSignupRequest(_ context.Context, req profile.SignupRequest) (profile.User, error) {
	if m.writeHook != nil {
		m.writeHook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := profile.User{DocID: "req-" + req.Email, Email: req.Email, Name: req.Name, GapID: req.GapID, Clubs: req.Clubs}
	m.users[u.DocID] = u
	return u, nil
}

func (m *memRepo) SignupRequests(context.Context) ([]profile.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []profile.User
	for _, u := range m.users {
		if !u.Approved {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memRepo) Approve(_ context.Context, email string) (profile.User, error) {
	return profile.User{}, errors.New("not implemented")
}

type memTasks struct {
	mu    sync.Mutex
	slots map[string][]task.Task
}

func (m *memTasks) For(uid string) task.Persistence {
	return &memSlot{parent: m, key: task.SlotFor(uid, false)}
}

type memSlot struct {
	parent *memTasks
	key    string
}

func (s *memSlot) Load(context.Context) ([]task.Task, error) {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	return append([]task.Task{}, s.parent.slots[s.key]...), nil
}

func (s *memSlot) Save(_ context.Context, tasks []task.Task) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.slots[s.key] = append([]task.Task{}, tasks...)
	return nil
}

var epoch = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newPortal(t *testing.T, opts Options) (*Portal, *fakeGateway, *memRepo) {
	t.Helper()
	gw := &fakeGateway{users: map[string]string{"ada@school.edu": "pw"}}
	repo := newMemRepo()
	if opts.Auth == nil {
		opts.Auth = gw
	}
	if opts.Profiles == nil {
		opts.Profiles = repo
	}
	p := New(opts)
	t.Cleanup(p.Close)
	return p, gw, repo
}

func login(t *testing.T, p *Portal) {
	t.Helper()
	p.ShowLogin()
	if _, err := p.Login(context.Background(), forms.LoginForm{Email: "ada@school.edu", Password: "pw"}); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestSplashToHome(t *testing.T) {
	p, _, _ := newPortal(t, Options{SplashDwell: 20 * time.Millisecond})
	if p.Screen() != router.Splash {
		t.Fatalf("expected splash, got %s", p.Screen())
	}
	p.Start()
	deadline := time.Now().Add(2 * time.Second)
	for p.Screen() != router.Home {
		if time.Now().After(deadline) {
			t.Fatal("splash never left")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLoginValidationBeforeIO(t *testing.T) {
	p, gw, _ := newPortal(t, Options{})
	p.ShowLogin()
	_, err := p.Login(context.Background(), forms.LoginForm{Email: "", Password: ""})
	var verr *forms.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatal("gateway must not be called on invalid input")
	}
	if p.Screen() != router.Login || p.Session.Get().Authenticated() {
		t.Fatal("expected to stay on login, signed out")
	}
}

func TestLoginFailureStaysOnLogin(t *testing.T) {
	p, _, _ := newPortal(t, Options{})
	p.ShowLogin()
	_, err := p.Login(context.Background(), forms.LoginForm{Email: "ada@school.edu", Password: "nope"})
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if p.Screen() != router.Login || p.Session.Get().Authenticated() {
		t.Fatal("expected to stay on login, signed out")
	}
}

func TestLoginSuccess(t *testing.T) {
	p, _, repo := newPortal(t, Options{})
	login(t, p)

	s := p.Session.Get()
	if s.Identity.UID != "uid-ada@school.edu" || p.Screen() != router.HomeMenu {
		t.Fatalf("unexpected state %s %+v", p.Screen(), s.Identity)
	}
	if _, ok := repo.users["uid-ada@school.edu"]; !ok {
		t.Fatal("expected profile document created")
	}
	if !p.Engine.Running() {
		t.Fatal("expected engine running on the home menu")
	}
	if p.Router.BackTarget() != router.Home {
		t.Fatalf("unexpected back target %s", p.Router.BackTarget())
	}
}

func TestLoginDiscardedAfterLeaving(t *testing.T) {
	p, gw, repo := newPortal(t, Options{})
	p.ShowLogin()
	gw.hook = func() { p.GoBack() }

	_, err := p.Login(context.Background(), forms.LoginForm{Email: "ada@school.edu", Password: "pw"})
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if p.Screen() != router.Home || p.Session.Get().Authenticated() {
		t.Fatalf("late sign-in applied: screen %s", p.Screen())
	}
	if p.Engine.Running() || len(repo.users) != 0 {
		t.Fatal("late sign-in must not start the engine or touch profiles")
	}

	gw.hook = nil
	login(t, p)
	if p.Screen() != router.HomeMenu {
		t.Fatalf("expected home menu, got %s", p.Screen())
	}
}

func TestLoginFederated(t *testing.T) {
	p, _, _ := newPortal(t, Options{})
	if _, err := p.LoginFederated(context.Background(), "bad"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	s, err := p.LoginFederated(context.Background(), "good")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !s.Identity.Federated || s.Profile.Name != "Fed" {
		t.Fatalf("unexpected session %+v", s)
	}
}

func TestEngineFollowsHomeMenu(t *testing.T) {
	p, _, _ := newPortal(t, Options{})
	login(t, p)
	if _, err := p.Open(router.Tasks); err != nil {
		t.Fatalf("open: %v", err)
	}
	if p.Engine.Running() {
		t.Fatal("expected engine stopped off the home menu")
	}
	if p.Router.BackTarget() != router.HomeMenu {
		t.Fatal("inner screens go back to the home menu")
	}
	p.GoBack()
	if p.Screen() != router.HomeMenu || !p.Engine.Running() {
		t.Fatal("expected engine restarted on the home menu")
	}
	p.Logout()
	if p.Engine.Running() || p.Screen() != router.Home || p.Session.Get().Authenticated() {
		t.Fatal("expected logout to stop everything")
	}
}

func TestEngineBackground(t *testing.T) {
	p, _, _ := newPortal(t, Options{Background: true})
	login(t, p)
	p.Open(router.Profile)
	if !p.Engine.Running() {
		t.Fatal("background engine should keep running")
	}
	p.Logout()
	if p.Engine.Running() {
		t.Fatal("expected engine stopped after logout")
	}
}

func TestOpenRequiresSession(t *testing.T) {
	p, _, _ := newPortal(t, Options{})
	if _, err := p.Open(router.Reminders); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
	tr, err := p.Open(router.Screen("nowhere"))
	if err != nil || tr.To != router.Home {
		t.Fatalf("unknown screens resolve home: %+v %v", tr, err)
	}
}

func TestReminderLifecycle(t *testing.T) {
	now := epoch
	p, _, _ := newPortal(t, Options{
		Now:       func() time.Time { return now },
		Reminders: []reminder.Option{reminder.WithInterval(time.Hour)},
	})
	login(t, p)

	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	clock := time.Date(0, 1, 1, 8, 59, 0, 0, time.UTC)
	if _, err := p.SaveReminder(forms.ReminderForm{Title: " ", Day: &day, Clock: &clock}); err == nil {
		t.Fatal("expected blank title rejected")
	}
	r, err := p.SaveReminder(forms.ReminderForm{Title: "Submit form", Day: &day, Clock: &clock})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !r.Datetime.Equal(time.Date(2026, 10, 19, 8, 59, 0, 0, time.UTC)) || r.Notified {
		t.Fatalf("unexpected reminder %+v", r)
	}

	fired := p.Engine.Tick()
	if len(fired) != 1 || fired[0].ID != "notif-"+r.ID {
		t.Fatalf("unexpected fired %+v", fired)
	}
	if p.Session.Get().UnreadCount() != 1 {
		t.Fatal("expected one unread notification")
	}
	list := p.OpenNotifications()
	if len(list) != 1 || !list[0].Read || p.Session.Get().UnreadCount() != 0 {
		t.Fatalf("expected notifications read, got %+v", list)
	}

	later := time.Date(0, 1, 1, 17, 0, 0, 0, time.UTC)
	edited, err := p.UpdateReminder(r.ID, forms.ReminderForm{Title: "Renamed", Day: &day, Clock: &later})
	if err != nil || edited.Title != "Renamed" || edited.Datetime.Hour() != 17 {
		t.Fatalf("update: %+v %v", edited, err)
	}
	if _, err := p.UpdateReminder("ghost", forms.ReminderForm{Title: "x", Day: &day, Clock: &later}); !errors.Is(err, ErrReminderNotFound) {
		t.Fatalf("expected ErrReminderNotFound, got %v", err)
	}
	if err := p.DeleteReminder(r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(p.Session.Get().Reminders) != 0 {
		t.Fatal("expected reminder removed")
	}
}

func TestUpdateReminderRacingDelete(t *testing.T) {
	p, _, _ := newPortal(t, Options{Reminders: []reminder.Option{reminder.WithInterval(time.Hour)}})
	login(t, p)
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	clock := time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC)
	form := forms.ReminderForm{Title: "Submit form", Day: &day, Clock: &clock}

	for i := 0; i < 50; i++ {
		r, err := p.SaveReminder(form)
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			p.DeleteReminder(r.ID)
		}()
		go func() {
			defer wg.Done()
			got, err := p.UpdateReminder(r.ID, form)
			if err == nil && got.ID != r.ID {
				t.Errorf("update returned %+v without an error", got)
			}
			if err != nil && !errors.Is(err, ErrReminderNotFound) {
				t.Errorf("unexpected error %v", err)
			}
		}()
		wg.Wait()
	}
	if err := p.DeleteReminder("ghost"); !errors.Is(err, ErrReminderNotFound) {
		t.Fatalf("expected ErrReminderNotFound, got %v", err)
	}
}

func TestSaveReminderNeedsSession(t *testing.T) {
	p, _, _ := newPortal(t, Options{})
	day := epoch
	if _, err := p.SaveReminder(forms.ReminderForm{Title: "x", Day: &day, Clock: &day}); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestRefreshProfileDiscardedAfterLeaving(t *testing.T) {
	p, _, repo := newPortal(t, Options{})
	login(t, p)
	p.Open(router.Profile)
	repo.users["uid-ada@school.edu"] = profile.User{UID: "uid-ada@school.edu", Phone: "555"}

	repo.getHook = func() { p.GoBack() }
	applied, err := p.RefreshProfile(context.Background())
	if err != nil || applied {
		t.Fatalf("expected stale result dropped, got %v %v", applied, err)
	}
	if p.Session.Get().Profile.Phone == "555" {
		t.Fatal("stale profile merged")
	}

	repo.getHook = nil
	applied, err = p.RefreshProfile(context.Background())
	if err != nil || !applied || p.Session.Get().Profile.Phone != "555" {
		t.Fatalf("expected refresh applied: %v %v", applied, err)
	}
}

func TestUpdateProfile(t *testing.T) {
	p, _, _ := newPortal(t, Options{})
	if _, err := p.UpdateProfile(context.Background(), forms.ProfileForm{Phone: "1"}); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
	login(t, p)
	got, err := p.UpdateProfile(context.Background(), forms.ProfileForm{Phone: "555", Clubs: "Art Club, Coding Club"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Phone != "555" || len(got.Clubs) != 2 || got.Email != "ada@school.edu" {
		t.Fatalf("unexpected profile %+v", got)
	}
}

func TestUpdateProfileDiscardedAfterLeaving(t *testing.T) {
	p, _, repo := newPortal(t, Options{})
	login(t, p)
	p.Open(router.Profile)
	repo.writeHook = func() { p.GoBack() }

	if _, err := p.UpdateProfile(context.Background(), forms.ProfileForm{Phone: "555"}); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if p.Session.Get().Profile.Phone == "555" {
		t.Fatal("stale profile save merged into the session")
	}
	if repo.users["uid-ada@school.edu"].Phone != "555" {
		t.Fatal("expected the document to be stored")
	}
}

func TestSubmitSignupDiscardedAfterLeaving(t *testing.T) {
	p, _, repo := newPortal(t, Options{})
	p.ShowLogin()
	p.ShowSignupMessage()
	repo.writeHook = func() { p.BackToHome() }

	u, err := p.SubmitSignup(context.Background(), forms.SignupForm{Name: "Bo", Email: "bo@school.edu", GapID: "G7"})
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if u.Email != "bo@school.edu" || len(repo.users) != 1 {
		t.Fatalf("expected request stored, got %+v", u)
	}
	if p.Screen() != router.Home {
		t.Fatalf("late response moved the screen to %s", p.Screen())
	}
}

func TestSubmitSignupReturnsToLogin(t *testing.T) {
	p, _, repo := newPortal(t, Options{})
	p.ShowLogin()
	p.ShowSignupMessage()
	if _, err := p.SubmitSignup(context.Background(), forms.SignupForm{Name: "Bo", Email: "bo@school.edu"}); err == nil {
		t.Fatal("expected missing GAP ID rejected")
	}
	u, err := p.SubmitSignup(context.Background(), forms.SignupForm{Name: "Bo", Email: "bo@school.edu", GapID: "G7", Clubs: "Chess, "})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.Approved || len(u.Clubs) != 1 || len(repo.users) != 1 {
		t.Fatalf("unexpected request %+v", u)
	}
	if p.Screen() != router.Login {
		t.Fatalf("expected login, got %s", p.Screen())
	}
}

func TestBookMeetingAndFeedback(t *testing.T) {
	p, _, _ := newPortal(t, Options{})
	login(t, p)
	p.Open(router.BookMeeting)
	if _, err := p.BookMeeting(forms.MeetingForm{Name: "Ada"}); err == nil {
		t.Fatal("expected missing fields rejected")
	}
	msg, err := p.BookMeeting(forms.MeetingForm{Name: "Ada", Professor: "Dr. Smith", Description: "thesis"})
	if err != nil || msg != "Your meeting with Dr. Smith has been requested." {
		t.Fatalf("unexpected %q %v", msg, err)
	}
	if p.Screen() != router.HomeMenu {
		t.Fatal("expected back on the home menu")
	}
	summary, err := p.SubmitFeedback(forms.FeedbackForm{Teacher: "Dr. Smith", Learnings: "Go"})
	if err != nil || !strings.Contains(summary, "Teacher: Dr. Smith") {
		t.Fatalf("unexpected %q %v", summary, err)
	}
}

func TestToggleTheme(t *testing.T) {
	p, _, _ := newPortal(t, Options{})
	if p.Theme() != ThemeLight || p.ToggleTheme() != ThemeDark || p.ToggleTheme() != ThemeLight {
		t.Fatal("unexpected theme toggling")
	}
}

func TestTasksPerUser(t *testing.T) {
	mt := &memTasks{slots: make(map[string][]task.Task)}
	p, _, _ := newPortal(t, Options{Tasks: mt.For})
	ctx := context.Background()

	shared, err := p.Tasks(ctx)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	shared.Add(ctx, "shared", "", nil)

	login(t, p)
	mine, _ := p.Tasks(ctx)
	if len(mine.Tasks()) != 0 {
		t.Fatal("expected empty per-user list")
	}
	mine.Add(ctx, "mine", "", nil)
	if len(mt.slots["tasks"]) != 1 || len(mt.slots["tasks.uid-ada@school.edu"]) != 1 {
		t.Fatalf("unexpected slots %+v", mt.slots)
	}
}

func TestTasksUnconfigured(t *testing.T) {
	p, _, _ := newPortal(t, Options{})
	if _, err := p.Tasks(context.Background()); !errors.Is(err, ErrNoTasks) {
		t.Fatalf("expected ErrNoTasks, got %v", err)
	}
}

func TestBuildAgenda(t *testing.T) {
	now := epoch
	s := session.UserSession{Reminders: []session.Reminder{
		{ID: "soon", Datetime: now.Add(time.Hour)},
		{ID: "far", Datetime: now.Add(30 * 24 * time.Hour)},
		{ID: "past", Datetime: now.Add(-time.Hour)},
	}}
	d1 := now.Add(48 * time.Hour)
	d2 := now.Add(-time.Hour)
	d3 := now.Add(40 * 24 * time.Hour)
	tasks := []task.Task{
		{ID: "due", Deadline: &d1},
		{ID: "late", Deadline: &d2},
		{ID: "done", Deadline: &d2, Completed: true},
		{ID: "later", Deadline: &d3},
		{ID: "none"},
	}
	a := BuildAgenda(s, tasks, now, 7*24*time.Hour)
	if len(a.Reminders) != 1 || a.Reminders[0].ID != "soon" {
		t.Fatalf("unexpected reminders %+v", a.Reminders)
	}
	if len(a.Due) != 1 || a.Due[0].ID != "due" || len(a.Overdue) != 1 || a.Overdue[0].ID != "late" {
		t.Fatalf("unexpected tasks due=%+v overdue=%+v", a.Due, a.Overdue)
	}
	if a.Stats.Total != 5 || a.Stats.Completed != 1 || a.Empty() {
		t.Fatalf("unexpected stats %+v", a.Stats)
	}
}
