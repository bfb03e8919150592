// Package rename renames folders from the command line.
package rename

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/finder/pkg/finder"
)

type Rename struct {
	Controller *finder.Controller
	ID         string
	Name       string
	Out        io.Writer
}

func (r *Rename) Do(ctx context.Context) error {
	if r.Controller == nil {
		return errors.New("rename: no controller configured")
	}
	old := r.Controller.Folders().Name(ctx, r.ID)
	if err := r.Controller.StartRename(ctx, r.ID); err != nil {
		return err
	}
	n, err := r.Controller.CommitRename(ctx, r.ID, r.Name)
	if err != nil {
		r.Controller.CancelRename()
		return err
	}
	out := r.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintf(out, "renamed %s to %s\n", old, n.DisplayName())
	return nil
}
