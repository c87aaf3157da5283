package session

import (
	"sync"
	"testing"
	"time"
)

func TestNewStoreIsAnonymous(t *testing.T) {
	s := NewStore()
	got := s.Get()
	if got.Authenticated() {
		t.Fatal("expected anonymous session")
	}
	if got.Reminders == nil || got.Notifications == nil {
		t.Fatal("expected non-nil reminder and notification collections")
	}
	if got.Profile.ProfileImage != DefaultProfileImage {
		t.Fatalf("expected placeholder image, got %q", got.Profile.ProfileImage)
	}
}

func TestLoginSeedsFreshSession(t *testing.T) {
	s := NewStore()
	s.Update(AddReminder(Reminder{ID: "old", Title: "stale"}))

	got := s.Login(Identity{UID: "u1", Email: "a@school.edu", Name: "Ada"})
	if got.Identity.UID != "u1" || got.Profile.Email != "a@school.edu" || got.Profile.Name != "Ada" {
		t.Fatalf("unexpected session %+v", got)
	}
	if len(s.Get().Reminders) != 0 {
		t.Fatal("expected reminders to be reset on login")
	}
}

func TestUpdateCannotChangeIdentity(t *testing.T) {
	s := NewStore()
	s.Login(Identity{UID: "u1", Email: "a@school.edu"})
	s.Update(func(prev UserSession) UserSession {
		prev.Identity.UID = "intruder"
		prev.Profile.Phone = "555"
		return prev
	})
	got := s.Get()
	if got.Identity.UID != "u1" {
		t.Fatalf("identity changed to %q", got.Identity.UID)
	}
	if got.Profile.Phone != "555" {
		t.Fatal("expected profile change to be kept")
	}
}

func TestUpdateNormalizesNilCollections(t *testing.T) {
	s := NewStore()
	s.Update(func(prev UserSession) UserSession {
		prev.Reminders = nil
		prev.Notifications = nil
		return prev
	})
	got := s.Get()
	if got.Reminders == nil || got.Notifications == nil {
		t.Fatal("collections must never be nil")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	s := NewStore()
	s.Login(Identity{UID: "u1", Email: "a@school.edu"})
	s.Logout()
	if s.Get().Authenticated() {
		t.Fatal("expected anonymous after logout")
	}
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	s := NewStore()
	s.Update(AddReminder(Reminder{ID: "1", Title: "a"}))
	snap := s.Get()
	snap.Reminders[0].Title = "mutated"
	if s.Get().Reminders[0].Title != "a" {
		t.Fatal("snapshot mutation leaked into the store")
	}
}

func TestConcurrentUpdatesAreNotLost(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Update(AddReminder(Reminder{ID: "r", Title: "x"}))
		}(i)
	}
	wg.Wait()
	if got := len(s.Get().Reminders); got != 50 {
		t.Fatalf("expected 50 reminders, got %d", got)
	}
}

func TestMergeProfilePrecedence(t *testing.T) {
	base := Profile{Name: "Local", Email: "l@school.edu", Phone: "1", Clubs: []string{"Art Club"}, ProfileImage: DefaultProfileImage}
	fetched := Profile{Name: "Remote", Phone: "  ", Address: "123 Main St"}

	got := MergeProfile(base, fetched)
	if got.Name != "Remote" {
		t.Fatalf("expected fetched name, got %q", got.Name)
	}
	if got.Phone != "1" {
		t.Fatalf("expected blank fetched phone to keep base, got %q", got.Phone)
	}
	if got.Address != "123 Main St" || got.Email != "l@school.edu" {
		t.Fatalf("unexpected merge %+v", got)
	}
	if len(got.Clubs) != 1 || got.Clubs[0] != "Art Club" {
		t.Fatalf("expected base clubs, got %v", got.Clubs)
	}
	if got.ProfileImage != DefaultProfileImage {
		t.Fatal("expected placeholder image to survive")
	}
}

func TestStoreMergeProfileKeepsReminders(t *testing.T) {
	s := NewStore()
	s.Login(Identity{UID: "u1", Email: "a@school.edu"})
	s.Update(AddReminder(Reminder{ID: "1", Title: "a"}))
	s.MergeProfile(Profile{Role: "Student", Clubs: []string{"Coding Club"}})

	got := s.Get()
	if got.Profile.Role != "Student" || len(got.Reminders) != 1 {
		t.Fatalf("unexpected session %+v", got)
	}
}

func TestAddReminderDeduplicatesIDs(t *testing.T) {
	s := NewStore()
	s.Update(AddReminder(Reminder{ID: "100"}))
	s.Update(AddReminder(Reminder{ID: "100"}))
	got := s.Get().Reminders
	if got[0].ID == got[1].ID {
		t.Fatalf("expected unique ids, got %q twice", got[0].ID)
	}
}

func TestEditAndDeleteReminder(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.Update(AddReminder(Reminder{ID: "1", Title: "a", Notified: true}))
	s.Update(AddReminder(Reminder{ID: "2", Title: "b"}))

	s.Update(EditReminder("1", "renamed", "desc", at))
	r, ok := s.Get().FindReminder("1")
	if !ok || r.Title != "renamed" || r.Description != "desc" || !r.Datetime.Equal(at) || !r.Notified {
		t.Fatalf("unexpected edited reminder %+v", r)
	}

	s.Update(DeleteReminder("1"))
	if _, ok := s.Get().FindReminder("1"); ok {
		t.Fatal("expected reminder 1 deleted")
	}
	if len(s.Get().Reminders) != 1 {
		t.Fatal("expected reminder 2 kept")
	}
}

func TestMarkAllReadOnlyTouchesRead(t *testing.T) {
	s := NewStore()
	when := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.Update(func(prev UserSession) UserSession {
		prev.Notifications = []Notification{
			{ID: "notif-1", Title: "a", Message: "m1", Time: when},
			{ID: "notif-2", Title: "b", Message: "m2", Time: when, Read: true},
		}
		return prev
	})
	before := s.Get().Notifications
	s.Update(MarkAllRead())
	after := s.Get().Notifications

	if s.Get().UnreadCount() != 0 {
		t.Fatal("expected no unread notifications")
	}
	for i := range after {
		b, a := before[i], after[i]
		if a.ID != b.ID || a.Title != b.Title || a.Message != b.Message || !a.Time.Equal(b.Time) || !a.Read {
			t.Fatalf("notification %d changed unexpectedly: %+v -> %+v", i, b, a)
		}
	}
}

func TestUpcomingAndPastReminders(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	s := UserSession{Reminders: []Reminder{
		{ID: "a", Datetime: now.Add(2 * time.Hour)},
		{ID: "b", Datetime: now.Add(-3 * time.Hour)},
		{ID: "c", Datetime: now.Add(time.Hour)},
		{ID: "d", Datetime: now.Add(-time.Hour)},
	}}
	up := s.UpcomingReminders(now)
	if len(up) != 2 || up[0].ID != "c" || up[1].ID != "a" {
		t.Fatalf("unexpected upcoming %v", up)
	}
	past := s.PastReminders(now)
	if len(past) != 2 || past[0].ID != "d" || past[1].ID != "b" {
		t.Fatalf("unexpected past %v", past)
	}
}

func TestCombineDateTime(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	clock := time.Date(1, 1, 1, 14, 30, 0, 0, time.UTC)
	got := CombineDateTime(day, clock)
	want := time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestReminderDays(t *testing.T) {
	month := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	s := UserSession{Reminders: []Reminder{
		{Datetime: time.Date(2026, 10, 3, 8, 0, 0, 0, time.UTC)},
		{Datetime: time.Date(2026, 11, 3, 8, 0, 0, 0, time.UTC)},
	}}
	days := s.ReminderDays(month)
	if !days[3] || len(days) != 1 {
		t.Fatalf("unexpected days %v", days)
	}
}

func TestSubscribeReceivesCommits(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()
	defer cancel()
	s.Login(Identity{UID: "u1"})
	select {
	case got := <-ch:
		if got.Identity.UID != "u1" {
			t.Fatalf("unexpected snapshot %+v", got.Identity)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}
}
