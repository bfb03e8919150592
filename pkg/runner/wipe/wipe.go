// Package wipe deletes every folder and favorite.
package wipe

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/finder/pkg/finder"
)

// ErrNotConfirmed is returned when the wipe was not confirmed.
var ErrNotConfirmed = errors.New("wipe: not confirmed, pass --yes to delete everything")

// Wipe deletes everything once Confirmed is set or Confirm agrees.
type Wipe struct {
	Controller *finder.Controller
	Confirmed  bool
	// Confirm asks the user. A nil Confirm means nobody can be asked.
	Confirm func(label string) (bool, error)
	Out     io.Writer
}

func (w *Wipe) Do(ctx context.Context) error {
	if w.Controller == nil {
		return errors.New("wipe: no controller configured")
	}
	if !w.Confirmed {
		if w.Confirm == nil {
			return ErrNotConfirmed
		}
		ok, err := w.Confirm("Delete every folder and favorite")
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotConfirmed
		}
	}
	if err := w.Controller.WipeAll(ctx); err != nil {
		return err
	}
	out := w.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintln(out, color.New(color.FgRed).Sprint("wiped"), "all folders and favorites")
	return nil
}
