// Package view dumps the view model of a folder as json or yaml.
package view

import (
	"context"
	"errors"
	"io"
	"os"

	"tableflip.dev/finder/pkg/finder"
	"tableflip.dev/finder/pkg/printers"
)

type View struct {
	Controller *finder.Controller
	FolderID   string
	Output     string
	Out        io.Writer
}

func (v *View) Do(ctx context.Context) error {
	if v.Controller == nil {
		return errors.New("view: no controller configured")
	}
	if v.FolderID != "" {
		if err := v.Controller.Navigate(ctx, v.FolderID); err != nil {
			return err
		}
	}
	model, err := v.Controller.View(ctx)
	if err != nil {
		return err
	}
	out := v.Out
	if out == nil {
		out = os.Stdout
	}
	return printers.Encode(out, v.Output, model)
}
