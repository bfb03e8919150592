// Package mkdir creates folders from the command line.
package mkdir

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/finder/pkg/finder"
	"tableflip.dev/finder/pkg/folder"
)

// Mkdir creates Name under Parent at At.
type Mkdir struct {
	Controller *finder.Controller
	Parent     string
	Name       string
	At         folder.Position
	Out        io.Writer

	// Created is set once Do succeeds.
	Created *folder.Node
}

func (m *Mkdir) Do(ctx context.Context) error {
	if m.Controller == nil {
		return errors.New("mkdir: no controller configured")
	}
	if m.Parent != "" {
		if err := m.Controller.Navigate(ctx, m.Parent); err != nil {
			return err
		}
	}
	if _, err := m.Controller.StartCreate(m.At); err != nil {
		return err
	}
	n, err := m.Controller.CommitCreate(ctx, m.Name)
	if err != nil {
		m.Controller.CancelCreate()
		return err
	}
	m.Created = n

	out := m.Out
	if out == nil {
		out = color.Output
	}
	y := color.New(color.FgHiYellow, color.Faint)
	_, _ = fmt.Fprintf(out, "created %s %s\n", n.DisplayName(), y.Sprint(n.ID))
	return nil
}
