// Package screens provides the runner that lists router screens.
package screens

import (
	"context"
	"io"

	"tableflip.dev/portal/pkg/printers"
	"tableflip.dev/portal/pkg/router"
)

type screen struct {
	Name  router.Screen `json:"name"`
	Title string        `json:"title"`
	Back  router.Screen `json:"back,omitempty"`
}

// Screens prints every screen the router accepts.
type Screens struct {
	JSON bool
	Out  io.Writer
}

func (n *Screens) Do(_ context.Context) error {
	pp := printers.PrettyPrint{Out: n.Out}
	all := router.AllScreens()
	if n.JSON {
		list := make([]screen, 0, len(all))
		for _, s := range all {
			list = append(list, screen{Name: s, Title: s.Title(), Back: router.BackFor(s)})
		}
		return pp.JSON(list)
	}
	pp.Screens(all...)
	return nil
}
