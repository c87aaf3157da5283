package task

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"tableflip.dev/portal/pkg/store"
)

type memPersistence struct {
	mu      sync.Mutex
	tasks   []Task
	saves   int
	loadErr error
	saveErr error
}

func (m *memPersistence) Load(ctx context.Context) ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]Task, len(m.tasks))
	copy(out, m.tasks)
	return out, nil
}

func (m *memPersistence) Save(ctx context.Context, tasks []Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tasks = make([]Task, len(tasks))
	copy(m.tasks, tasks)
	return nil
}

func quiet() Option {
	return WithLogger(log.New(io.Discard, "", 0))
}

func ticking(start time.Time) Option {
	var mu sync.Mutex
	now := start
	return WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Millisecond)
		return now
	})
}

var epoch = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

func texts(tasks []Task) string {
	parts := make([]string, 0, len(tasks))
	for _, t := range tasks {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, ",")
}

func TestAddPrependsAndTrims(t *testing.T) {
	p := &memPersistence{}
	l := Open(context.Background(), p, ticking(epoch), quiet())

	l.Add(context.Background(), "first", "", nil)
	got, ok := l.Add(context.Background(), "  second  ", PriorityHigh, nil)
	if !ok {
		t.Fatal("expected add to succeed")
	}
	if got.Text != "second" || got.Priority != PriorityHigh || got.Completed {
		t.Fatalf("unexpected task %+v", got)
	}
	if texts(l.Tasks()) != "second,first" {
		t.Fatalf("unexpected order %s", texts(l.Tasks()))
	}
	if l.Tasks()[1].Priority != DefaultPriority {
		t.Fatal("expected default priority")
	}
	if p.saves != 2 || len(p.tasks) != 2 {
		t.Fatalf("expected two saves of two tasks, got %d saves %d tasks", p.saves, len(p.tasks))
	}
}

func TestAddBlankIsNoop(t *testing.T) {
	p := &memPersistence{}
	l := Open(context.Background(), p, quiet())
	for _, text := range []string{"", "   ", "\t\n"} {
		if _, ok := l.Add(context.Background(), text, "", nil); ok {
			t.Fatalf("expected %q to be rejected", text)
		}
	}
	if len(l.Tasks()) != 0 || p.saves != 0 {
		t.Fatal("blank add must not change or save the collection")
	}
}

func TestAddUniqueIDs(t *testing.T) {
	l := Open(context.Background(), &memPersistence{}, WithClock(func() time.Time { return epoch }), quiet())
	a, _ := l.Add(context.Background(), "a", "", nil)
	b, _ := l.Add(context.Background(), "b", "", nil)
	if a.ID == b.ID {
		t.Fatalf("duplicate id %q", a.ID)
	}
}

func TestToggleSortsCompletedLast(t *testing.T) {
	tasks := []Task{
		{ID: "a", Text: "a"},
		{ID: "b", Text: "b", Completed: true},
		{ID: "c", Text: "c"},
		{ID: "d", Text: "d"},
	}
	tests := []struct {
		name   string
		toggle string
		want   string
	}{
		{name: "complete first", toggle: "a", want: "c,d,a,b"},
		{name: "reopen completed", toggle: "b", want: "a,b,c,d"},
		{name: "complete last open", toggle: "d", want: "a,c,b,d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &memPersistence{tasks: append([]Task(nil), tasks...)}
			l := Open(context.Background(), p, quiet())
			if _, err := l.Toggle(context.Background(), tt.toggle); err != nil {
				t.Fatalf("toggle: %v", err)
			}
			if got := texts(l.Tasks()); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
			seenDone := false
			for _, task := range l.Tasks() {
				if task.Completed {
					seenDone = true
				} else if seenDone {
					t.Fatal("open task after a completed one")
				}
			}
		})
	}
}

func TestToggleUnknown(t *testing.T) {
	l := Open(context.Background(), &memPersistence{}, quiet())
	if _, err := l.Toggle(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatsAddUp(t *testing.T) {
	l := Open(context.Background(), &memPersistence{}, ticking(epoch), quiet())
	ctx := context.Background()
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		l.Add(ctx, text, "", nil)
	}
	for _, task := range l.Tasks()[:2] {
		l.Toggle(ctx, task.ID)
	}
	s := l.Stats()
	if s.Total != 5 || s.Completed != 2 || s.Pending != 3 {
		t.Fatalf("unexpected stats %+v", s)
	}
	if s.Completed+s.Pending != s.Total || s.Total != len(l.Tasks()) {
		t.Fatal("stats do not add up")
	}
}

func TestEdit(t *testing.T) {
	p := &memPersistence{tasks: []Task{{ID: "1", Text: "old", Priority: PriorityLow}}}
	l := Open(context.Background(), p, quiet())

	got, err := l.Edit(context.Background(), "1", "  new  ")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got.Text != "new" || got.Priority != PriorityLow {
		t.Fatalf("unexpected task %+v", got)
	}
	if _, err := l.Edit(context.Background(), "1", "  "); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if _, err := l.Edit(context.Background(), "2", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if p.tasks[0].Text != "new" {
		t.Fatal("expected edit saved")
	}
}

func TestTwoStepDelete(t *testing.T) {
	p := &memPersistence{tasks: []Task{{ID: "1", Text: "a"}, {ID: "2", Text: "b"}}}
	l := Open(context.Background(), p, quiet())
	ctx := context.Background()

	if _, err := l.ConfirmDelete(ctx); !errors.Is(err, ErrNoPendingDelete) {
		t.Fatalf("expected ErrNoPendingDelete, got %v", err)
	}
	if _, err := l.RequestDelete("1"); err != nil {
		t.Fatalf("request: %v", err)
	}
	if len(l.Tasks()) != 2 {
		t.Fatal("request alone must not delete")
	}
	l.CancelDelete()
	if _, ok := l.PendingDelete(); ok {
		t.Fatal("expected no pending deletion after cancel")
	}

	l.RequestDelete("1")
	removed, err := l.ConfirmDelete(ctx)
	if err != nil || removed.ID != "1" {
		t.Fatalf("confirm: %+v %v", removed, err)
	}
	if texts(l.Tasks()) != "b" || len(p.tasks) != 1 {
		t.Fatalf("unexpected tasks %s", texts(l.Tasks()))
	}
}

func TestReloadKeepsPendingDelete(t *testing.T) {
	p := &memPersistence{tasks: []Task{{ID: "1", Text: "a"}, {ID: "2", Text: "b"}}}
	l := Open(context.Background(), p, quiet())
	ctx := context.Background()

	l.RequestDelete("1")
	l.Reload(ctx)
	if id, ok := l.PendingDelete(); !ok || id != "1" {
		t.Fatalf("expected pending 1 to survive reload, got %q", id)
	}
	if _, err := l.ConfirmDelete(ctx); err != nil {
		t.Fatalf("confirm after reload: %v", err)
	}

	l.RequestDelete("2")
	p.mu.Lock()
	p.tasks = []Task{{ID: "3", Text: "c"}}
	p.mu.Unlock()
	l.Reload(ctx)
	if _, ok := l.PendingDelete(); ok {
		t.Fatal("expected pending deletion dropped once its task is gone")
	}
}

func TestLoadFailureIsSoft(t *testing.T) {
	p := &memPersistence{loadErr: errors.New("disk gone")}
	l := Open(context.Background(), p, quiet())
	if len(l.Tasks()) != 0 {
		t.Fatal("expected empty list after failed load")
	}
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	var buf strings.Builder
	p := &memPersistence{saveErr: errors.New("disk full")}
	l := Open(context.Background(), p, WithLogger(log.New(&buf, "", 0)))
	if _, ok := l.Add(context.Background(), "keep me", "", nil); !ok {
		t.Fatal("expected add to succeed despite save failure")
	}
	if len(l.Tasks()) != 1 {
		t.Fatal("expected in-memory task kept")
	}
	if !strings.Contains(buf.String(), "task: save: disk full") {
		t.Fatalf("expected save failure logged, got %q", buf.String())
	}
}

func TestOverdue(t *testing.T) {
	past := epoch.Add(-time.Hour)
	future := epoch.Add(time.Hour)
	tests := []struct {
		name string
		task Task
		want bool
	}{
		{name: "no deadline", task: Task{}, want: false},
		{name: "past open", task: Task{Deadline: &past}, want: true},
		{name: "past done", task: Task{Deadline: &past, Completed: true}, want: false},
		{name: "future", task: Task{Deadline: &future}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.Overdue(epoch); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	if p, err := ParsePriority(""); err != nil || p != PriorityMedium {
		t.Fatalf("got %q %v", p, err)
	}
	if p, err := ParsePriority("HIGH"); err != nil || p != PriorityHigh {
		t.Fatalf("got %q %v", p, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSlotPersistenceRoundTrip(t *testing.T) {
	slots, err := store.Load(store.Dir(t.TempDir()))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	p := NewSlotPersistence(slots, SlotFor("u1", false))
	ctx := context.Background()

	deadline := epoch.Add(24 * time.Hour)
	l := Open(ctx, p, ticking(epoch), quiet())
	l.Add(ctx, "with deadline", PriorityHigh, &deadline)
	l.Add(ctx, "plain", "", nil)

	reopened := Open(ctx, p, quiet())
	got := reopened.Tasks()
	if texts(got) != "plain,with deadline" {
		t.Fatalf("unexpected reload %s", texts(got))
	}
	if got[0].Deadline != nil || got[1].Deadline == nil || !got[1].Deadline.Equal(deadline) {
		t.Fatalf("deadline not preserved: %+v", got)
	}

	raw, err := slots.Read("tasks.u1")
	if err != nil {
		t.Fatalf("read slot: %v", err)
	}
	var fields []map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("slot is not a JSON array: %v", err)
	}
	for _, k := range []string{"id", "text", "completed", "priority", "createdAt", "deadline"} {
		if _, ok := fields[0][k]; !ok {
			t.Fatalf("missing field %q in %v", k, fields[0])
		}
	}
	if fields[0]["deadline"] != nil {
		t.Fatal("expected null deadline")
	}
}

func TestSlotPersistenceMissingAndCorrupt(t *testing.T) {
	slots, err := store.Load(store.Dir(t.TempDir()))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	p := NewSlotPersistence(slots, SharedSlot)
	tasks, err := p.Load(context.Background())
	if err != nil || len(tasks) != 0 {
		t.Fatalf("expected empty collection, got %v %v", tasks, err)
	}

	slots.Write(SharedSlot, []byte("not json"))
	l := Open(context.Background(), p, quiet())
	if len(l.Tasks()) != 0 {
		t.Fatal("expected corrupt slot to load as empty")
	}
}

func TestSlotFor(t *testing.T) {
	if SlotFor("u1", false) != "tasks.u1" || SlotFor("u1", true) != "tasks" || SlotFor("", false) != "tasks" {
		t.Fatal("unexpected slot names")
	}
}
