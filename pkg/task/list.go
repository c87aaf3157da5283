package task

import (
	"context"
	"errors"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no task carries the requested id.
	ErrNotFound = errors.New("task: not found")
	// ErrEmptyText is returned when an edit would blank a task.
	ErrEmptyText = errors.New("task: text required")
	// ErrNoPendingDelete is returned by ConfirmDelete without a request.
	ErrNoPendingDelete = errors.New("task: no deletion pending")
)

// List is the in-memory task collection mirrored to Persistence. Every
// mutation saves the whole collection; save failures are logged and the
// in-memory state is kept.
type List struct {
	mu      sync.Mutex
	p       Persistence
	tasks   []Task
	pending string

	now    func() time.Time
	logger *log.Logger
}

// Option configures a List.
type Option func(*List)

// WithClock overrides the time source used for ids and creation times.
func WithClock(now func() time.Time) Option {
	return func(l *List) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets the logger for soft persistence failures.
func WithLogger(logger *log.Logger) Option {
	return func(l *List) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Open loads the collection. A failed load is logged and yields an empty
// list.
func Open(ctx context.Context, p Persistence, opts ...Option) *List {
	l := &List{
		p:      p,
		tasks:  []Task{},
		now:    time.Now,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.load(ctx)
	return l
}

func (l *List) load(ctx context.Context) {
	tasks, err := l.p.Load(ctx)
	if err != nil {
		l.logger.Printf("task: load: %v", err)
		tasks = []Task{}
	}
	l.tasks = tasks
}

// Reload re-reads the collection from persistence. A pending deletion
// survives only while its task is still in the collection.
func (l *List) Reload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.load(ctx)
	if l.pending != "" && l.indexLocked(l.pending) < 0 {
		l.pending = ""
	}
}

// Tasks returns a copy of the collection in display order.
func (l *List) Tasks() []Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Get returns task id.
func (l *List) Get(id string) (Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return Task{}, false
	}
	return l.tasks[i], true
}

// Stats counts the current collection.
func (l *List) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Summarize(l.tasks)
}

// Add prepends a task. Text is trimmed; blank text adds nothing and returns
// false.
func (l *List) Add(ctx context.Context, text string, priority Priority, deadline *time.Time) (Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}
	if priority == "" {
		priority = DefaultPriority
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	t := Task{
		ID:        l.newIDLocked(now),
		Text:      text,
		Priority:  priority,
		CreatedAt: now,
	}
	if deadline != nil {
		d := *deadline
		t.Deadline = &d
	}
	l.tasks = append([]Task{t}, l.tasks...)
	l.saveLocked(ctx)
	return t, true
}

// Toggle flips the completion of task id and moves completed tasks after
// open ones, keeping relative order within each group.
func (l *List) Toggle(ctx context.Context, id string) (Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	l.tasks[i].Completed = !l.tasks[i].Completed
	t := l.tasks[i]
	sort.SliceStable(l.tasks, func(a, b int) bool {
		return !l.tasks[a].Completed && l.tasks[b].Completed
	})
	l.saveLocked(ctx)
	return t, nil
}

// Edit replaces the text of task id.
func (l *List) Edit(ctx context.Context, id, text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	l.tasks[i].Text = text
	l.saveLocked(ctx)
	return l.tasks[i], nil
}

// RequestDelete marks task id for deletion. Nothing is removed until
// ConfirmDelete.
func (l *List) RequestDelete(id string) (Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	l.pending = id
	return l.tasks[i], nil
}

// PendingDelete returns the id awaiting confirmation, if any.
func (l *List) PendingDelete() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending, l.pending != ""
}

// ConfirmDelete removes the task marked by RequestDelete.
func (l *List) ConfirmDelete(ctx context.Context) (Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending == "" {
		return Task{}, ErrNoPendingDelete
	}
	id := l.pending
	l.pending = ""
	i := l.indexLocked(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	t := l.tasks[i]
	l.tasks = append(l.tasks[:i:i], l.tasks[i+1:]...)
	l.saveLocked(ctx)
	return t, nil
}

// CancelDelete drops a pending deletion.
func (l *List) CancelDelete() {
	l.mu.Lock()
	l.pending = ""
	l.mu.Unlock()
}

func (l *List) indexLocked(id string) int {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *List) newIDLocked(now time.Time) string {
	base := strconv.FormatInt(now.UnixMilli(), 10)
	id := base
	for n := 1; l.indexLocked(id) >= 0; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

func (l *List) saveLocked(ctx context.Context) {
	if err := l.p.Save(ctx, l.tasks); err != nil {
		l.logger.Printf("task: save: %v", err)
	}
}
