package router

import (
	"sync"
	"time"
)

// DefaultSplashDwell is how long the splash screen stays up.
const DefaultSplashDwell = 2400 * time.Millisecond

// Transition describes one navigation hop.
type Transition struct {
	From  Screen
	To    Screen
	Back  Screen
	Visit uint64
}

// Router keeps exactly one current screen. There is no history stack: each
// navigation call carries the screen that "back" should return to.
type Router struct {
	mu sync.Mutex

	current Screen
	back    Screen
	visit   uint64
	closed  bool

	splash *time.Timer

	listeners map[int]func(Transition)
	nextID    int

	changes chan Transition
}

// New creates a router sitting on the splash screen.
func New() *Router {
	return &Router{
		current:   Splash,
		listeners: make(map[int]func(Transition)),
		changes:   make(chan Transition, 64),
	}
}

// Current returns the active screen.
func (r *Router) Current() Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// BackTarget returns the screen Back would navigate to.
func (r *Router) BackTarget() Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.back
}

// Visit returns the counter of the active screen entry.
func (r *Router) Visit() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visit
}

// Active reports whether screen is still the one entered at visit. Async
// work started on a screen checks this before applying its result.
func (r *Router) Active(screen Screen, visit uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.closed && r.current == screen && r.visit == visit
}

// Navigate replaces the current screen with to. Unknown targets land on Home.
func (r *Router) Navigate(to, back Screen) Transition {
	r.mu.Lock()
	t := r.moveLocked(Resolve(to), back)
	listeners := r.listenersLocked()
	r.mu.Unlock()

	r.notify(t, listeners)
	return t
}

// Back follows the back target recorded when the current screen was entered.
func (r *Router) Back() Transition {
	r.mu.Lock()
	to := r.back
	if to == "" {
		to = Home
	}
	t := r.moveLocked(Resolve(to), BackFor(to))
	listeners := r.listenersLocked()
	r.mu.Unlock()

	r.notify(t, listeners)
	return t
}

// StartSplash schedules the automatic splash to home transition. It is a
// no-op unless the router is on the splash screen.
func (r *Router) StartSplash(dwell time.Duration) {
	if dwell <= 0 {
		dwell = DefaultSplashDwell
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.current != Splash || r.splash != nil {
		return
	}
	r.splash = time.AfterFunc(dwell, r.leaveSplash)
}

func (r *Router) leaveSplash() {
	r.mu.Lock()
	r.splash = nil
	if r.closed || r.current != Splash {
		r.mu.Unlock()
		return
	}
	t := r.moveLocked(Home, "")
	listeners := r.listenersLocked()
	r.mu.Unlock()

	r.notify(t, listeners)
}

// Close tears the router down. A pending splash transition is cancelled and
// later navigation is no longer published to observers.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	if r.splash != nil {
		r.splash.Stop()
		r.splash = nil
	}
	close(r.changes)
}

// Subscribe registers fn to run after every transition. The returned func
// removes it.
func (r *Router) Subscribe(fn func(Transition)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// Changes streams transitions until Close. Events are dropped when the
// consumer falls behind; Current always has the latest screen.
func (r *Router) Changes() <-chan Transition {
	return r.changes
}

func (r *Router) moveLocked(to, back Screen) Transition {
	r.visit++
	t := Transition{From: r.current, To: to, Back: back, Visit: r.visit}
	r.current = to
	r.back = back
	if r.splash != nil && to != Splash {
		r.splash.Stop()
		r.splash = nil
	}
	if !r.closed {
		select {
		case r.changes <- t:
		default:
		}
	}
	return t
}

func (r *Router) listenersLocked() []func(Transition) {
	if r.closed {
		return nil
	}
	out := make([]func(Transition), 0, len(r.listeners))
	for _, fn := range r.listeners {
		out = append(out, fn)
	}
	return out
}

func (r *Router) notify(t Transition, listeners []func(Transition)) {
	for _, fn := range listeners {
		fn(t)
	}
}
