// Package reminder turns due reminders into notifications.
package reminder

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"tableflip.dev/portal/pkg/session"
)

const (
	// DefaultInterval is the poll period for due reminders.
	DefaultInterval = time.Minute
	// DefaultMaxNotifications caps the notification list.
	DefaultMaxNotifications = 100
)

// Engine polls the session's reminders and emits one notification per due
// reminder.
type Engine struct {
	sessions *session.Store
	interval time.Duration
	now      func() time.Time
	logger   *log.Logger

	maxCount int
	maxAge   time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterval overrides the poll period.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRetention bounds the notification list by count and age. Zero
// disables a bound.
func WithRetention(maxCount int, maxAge time.Duration) Option {
	return func(e *Engine) {
		e.maxCount = maxCount
		e.maxAge = maxAge
	}
}

// WithLogger sets the logger used for tick summaries.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates a stopped engine over store.
func New(store *session.Store, opts ...Option) *Engine {
	e := &Engine{
		sessions: store,
		interval: DefaultInterval,
		now:      time.Now,
		logger:   log.Default(),
		maxCount: DefaultMaxNotifications,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Interval returns the poll period.
func (e *Engine) Interval() time.Duration {
	return e.interval
}

// Due returns the reminders of s that should fire at now.
func Due(s session.UserSession, now time.Time) []session.Reminder {
	var due []session.Reminder
	for _, r := range s.Reminders {
		if !r.Notified && !r.Datetime.After(now) {
			due = append(due, r)
		}
	}
	return due
}

// NotificationFor builds the notification emitted for r.
func NotificationFor(r session.Reminder, now time.Time) session.Notification {
	return session.Notification{
		ID:      "notif-" + r.ID,
		Title:   r.Title,
		Message: fmt.Sprintf("Your reminder for \"%s\" is due.", r.Title),
		Time:    now,
		Read:    false,
	}
}

// Fire returns an updater that emits notifications for every due reminder
// of the previous session and flags those reminders as notified. Both
// changes land in the same commit. fired receives the new notifications.
func Fire(now time.Time, maxCount int, maxAge time.Duration, fired *[]session.Notification) session.Updater {
	return func(prev session.UserSession) session.UserSession {
		due := Due(prev, now)
		if len(due) == 0 {
			return prev
		}
		ids := make(map[string]bool, len(due))
		fresh := make([]session.Notification, 0, len(due))
		for _, r := range due {
			ids[r.ID] = true
			fresh = append(fresh, NotificationFor(r, now))
		}
		for i := range prev.Reminders {
			if ids[prev.Reminders[i].ID] {
				prev.Reminders[i].Notified = true
			}
		}
		prev.Notifications = prune(append(fresh, prev.Notifications...), now, maxCount, maxAge)
		if fired != nil {
			*fired = fresh
		}
		return prev
	}
}

func prune(list []session.Notification, now time.Time, maxCount int, maxAge time.Duration) []session.Notification {
	if maxAge > 0 {
		kept := list[:0]
		for _, n := range list {
			if now.Sub(n.Time) <= maxAge {
				kept = append(kept, n)
			}
		}
		list = kept
	}
	if maxCount > 0 && len(list) > maxCount {
		list = list[:maxCount]
	}
	return list
}

// Tick evaluates the reminders once and returns what fired.
func (e *Engine) Tick() []session.Notification {
	var fired []session.Notification
	e.sessions.Update(Fire(e.now(), e.maxCount, e.maxAge, &fired))
	if len(fired) > 0 {
		e.logger.Printf("reminder: fired %d notification(s)", len(fired))
	}
	return fired
}

// Start begins polling until ctx is done or Stop is called. The first
// evaluation happens one interval after Start. Starting a running engine is
// a no-op; once ctx is done the engine reports stopped and can be started
// again.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done

	ticker := time.NewTicker(e.interval)
	go func() {
		defer func() {
			ticker.Stop()
			cancel()
			e.mu.Lock()
			if e.done == done {
				e.cancel, e.done = nil, nil
			}
			e.mu.Unlock()
			close(done)
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.Tick()
			}
		}
	}()
}

// Stop cancels polling and waits for the loop to exit.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.cancel, e.done = nil, nil
	e.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the poll loop is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancel != nil
}
