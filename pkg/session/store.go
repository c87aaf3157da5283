package session

import "sync"

// Updater computes the next session from the previous one. It must only
// read its argument; the store applies updaters one at a time.
type Updater func(prev UserSession) UserSession

// Store is the single source of truth for the session. Every mutation goes
// through Set or Update so consumers always observe consistent snapshots.
type Store struct {
	mu      sync.Mutex
	current UserSession

	subs   map[int]chan UserSession
	nextID int
}

// NewStore returns a store holding the anonymous session.
func NewStore() *Store {
	return &Store{
		current: Anonymous(),
		subs:    make(map[int]chan UserSession),
	}
}

// Get returns a snapshot of the current session.
func (s *Store) Get() UserSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Set replaces the session wholesale.
func (s *Store) Set(next UserSession) {
	s.mu.Lock()
	s.current = next.Clone().normalized()
	snap := s.current.Clone()
	s.publishLocked(snap)
	s.mu.Unlock()
}

// Update applies fn to the current session and commits the result. The
// identity can not be changed by an update; use Login or Logout for that.
func (s *Store) Update(fn Updater) UserSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current.Clone()
	next := fn(prev).normalized()
	next.Identity = s.current.Identity
	s.current = next.Clone()
	snap := s.current.Clone()
	s.publishLocked(snap)
	return snap
}

// Login replaces the session with a fresh one for id.
func (s *Store) Login(id Identity) UserSession {
	next := New(id)
	s.Set(next)
	return next
}

// Logout replaces the session with the anonymous one.
func (s *Store) Logout() {
	s.Set(Anonymous())
}

// MergeProfile folds fetched fields into the current profile without
// touching reminders or notifications.
func (s *Store) MergeProfile(fetched Profile) UserSession {
	return s.Update(func(prev UserSession) UserSession {
		prev.Profile = MergeProfile(prev.Profile, fetched)
		return prev
	})
}

// Subscribe returns a channel receiving a snapshot after every commit. Slow
// subscribers miss intermediate snapshots, never the latest state on the
// next commit.
func (s *Store) Subscribe() (<-chan UserSession, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan UserSession, 8)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *Store) publishLocked(snap UserSession) {
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
