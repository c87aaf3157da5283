// Package tasks provides the runners behind the tasks command group.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"tableflip.dev/portal/pkg/printers"
	"tableflip.dev/portal/pkg/task"
)

// Base is shared by the task runners.
type Base struct {
	Persistence task.Persistence
	ShowID      bool
	JSON        bool
	Out         io.Writer
	Logger      *log.Logger
	Now         func() time.Time
}

func (b *Base) open(ctx context.Context) (*task.List, error) {
	if b.Persistence == nil {
		return nil, errors.New("tasks: no persistence")
	}
	opts := []task.Option{task.WithLogger(b.Logger)}
	if b.Now != nil {
		opts = append(opts, task.WithClock(b.Now))
	}
	return task.Open(ctx, b.Persistence, opts...), nil
}

func (b *Base) printer() printers.PrettyPrint {
	return printers.PrettyPrint{ShowID: b.ShowID, Out: b.Out, Now: b.Now}
}

func (b *Base) show(l *task.List) error {
	pp := b.printer()
	if b.JSON {
		return pp.JSON(l.Tasks())
	}
	pp.NewLine()
	pp.TitleWithCount("Tasks", len(l.Tasks()), "task")
	pp.Tasks(l.Tasks()...)
	pp.Stats(l.Stats())
	return nil
}

// List prints the task list.
type List struct {
	Base
	Pending bool
}

func (n *List) Do(ctx context.Context) error {
	l, err := n.open(ctx)
	if err != nil {
		return err
	}
	if !n.Pending {
		return n.show(l)
	}
	open := make([]task.Task, 0)
	for _, t := range l.Tasks() {
		if !t.Completed {
			open = append(open, t)
		}
	}
	pp := n.printer()
	if n.JSON {
		return pp.JSON(open)
	}
	pp.NewLine()
	pp.TitleWithCount("Pending", len(open), "task")
	pp.Tasks(open...)
	return nil
}

// Add appends a task to the list.
type Add struct {
	Base
	Text     string
	Priority task.Priority
	Deadline *time.Time
}

func (n *Add) Do(ctx context.Context) error {
	l, err := n.open(ctx)
	if err != nil {
		return err
	}
	if _, ok := l.Add(ctx, n.Text, n.Priority, n.Deadline); !ok {
		return task.ErrEmptyText
	}
	return n.show(l)
}

// Done toggles the completion of a task.
type Done struct {
	Base
	ID string
}

func (n *Done) Do(ctx context.Context) error {
	l, err := n.open(ctx)
	if err != nil {
		return err
	}
	if _, err := l.Toggle(ctx, n.ID); err != nil {
		return fmt.Errorf("tasks: done %s: %w", n.ID, err)
	}
	return n.show(l)
}

// Edit replaces the text of a task.
type Edit struct {
	Base
	ID   string
	Text string
}

func (n *Edit) Do(ctx context.Context) error {
	l, err := n.open(ctx)
	if err != nil {
		return err
	}
	if _, err := l.Edit(ctx, n.ID, n.Text); err != nil {
		return fmt.Errorf("tasks: edit %s: %w", n.ID, err)
	}
	return n.show(l)
}

// Remove deletes a task after Confirm accepts it.
type Remove struct {
	Base
	ID      string
	Confirm func(t task.Task) (bool, error)
}

func (n *Remove) Do(ctx context.Context) error {
	l, err := n.open(ctx)
	if err != nil {
		return err
	}
	t, err := l.RequestDelete(n.ID)
	if err != nil {
		return fmt.Errorf("tasks: rm %s: %w", n.ID, err)
	}
	if n.Confirm != nil {
		ok, err := n.Confirm(t)
		if err != nil || !ok {
			l.CancelDelete()
			return err
		}
	}
	if _, err := l.ConfirmDelete(ctx); err != nil {
		return fmt.Errorf("tasks: rm %s: %w", n.ID, err)
	}
	return n.show(l)
}
