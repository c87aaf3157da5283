// Package ui provides the runner for the terminal user interface.
package ui

import (
	"context"
	"errors"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/portal/pkg/app"
	"tableflip.dev/portal/pkg/tui"
)

type UI struct {
	Runtime *app.Runtime
	// LogFile receives log output while the alternate screen is active.
	// Empty discards it.
	LogFile string
}

func (d *UI) Do(ctx context.Context) error {
	if d.Runtime == nil {
		return errors.New("ui: no runtime")
	}

	logger := log.New(io.Discard, "", 0)
	if d.LogFile != "" {
		f, err := tea.LogToFile(d.LogFile, "portal")
		if err != nil {
			return err
		}
		defer f.Close()
		logger = log.Default()
	} else {
		log.SetOutput(io.Discard)
	}

	p := d.Runtime.Portal(logger)
	defer p.Close()

	rt := d.Runtime
	return tui.Run(p, tui.Options{
		Watch:    rt.Slots.Watch,
		TaskSlot: rt.TaskSlot,
		Logger:   logger,
	})
}
