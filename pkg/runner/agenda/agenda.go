// Package agenda provides the runner that prints upcoming task deadlines.
package agenda

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"tableflip.dev/portal/pkg/app"
	"tableflip.dev/portal/pkg/printers"
	"tableflip.dev/portal/pkg/session"
	"tableflip.dev/portal/pkg/task"
)

// DefaultWindow is the agenda length when none is given.
const DefaultWindow = 7 * 24 * time.Hour

// Agenda prints the overdue tasks and deadlines falling within Window.
// Reminders live in the signed-in session only, so the command line agenda
// lists tasks.
type Agenda struct {
	Persistence task.Persistence
	Window      time.Duration
	ShowID      bool
	JSON        bool
	Out         io.Writer
	Logger      *log.Logger
	Now         func() time.Time
}

func (n *Agenda) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("agenda: no persistence")
	}
	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}
	window := n.Window
	if window <= 0 {
		window = DefaultWindow
	}
	l := task.Open(ctx, n.Persistence, task.WithLogger(n.Logger))
	a := app.BuildAgenda(session.Anonymous(), l.Tasks(), now, window)

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out, Now: func() time.Time { return now }}
	if n.JSON {
		return pp.JSON(a)
	}
	pp.NewLine()
	pp.Agenda(a)
	return nil
}
