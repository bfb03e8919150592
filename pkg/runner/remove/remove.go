// Package remove deletes folders.
package remove

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/finder/pkg/finder"
	"tableflip.dev/finder/pkg/folders"
)

type Remove struct {
	Controller *finder.Controller
	ID         string
	Out        io.Writer

	Removed []string
}

func (r *Remove) Do(ctx context.Context) error {
	if r.Controller == nil {
		return errors.New("remove: no controller configured")
	}
	name := r.Controller.Folders().Name(ctx, r.ID)
	removed, err := r.Controller.DeleteFolder(ctx, r.ID)
	r.Removed = removed
	if errors.Is(err, folders.ErrNotEmpty) {
		return fmt.Errorf("%w (use --recursive to delete its contents)", err)
	}
	if err != nil {
		return err
	}

	out := r.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintf(out, "deleted %s", name)
	if n := len(removed) - 1; n > 0 {
		_, _ = color.New(color.Faint).Fprintf(out, " and %d nested folder(s)", n)
	}
	_, _ = fmt.Fprintln(out, "")
	return nil
}
