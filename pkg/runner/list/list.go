// Package list prints the contents of a folder.
package list

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/finder/pkg/finder"
	"tableflip.dev/finder/pkg/printers"
)

// List shows the children of FolderID, or the root, and the favorites.
type List struct {
	Controller *finder.Controller
	FolderID   string
	ShowID     bool
	Out        io.Writer
}

func (l *List) Do(ctx context.Context) error {
	if l.Controller == nil {
		return errors.New("list: no controller configured")
	}
	if l.FolderID != "" {
		if err := l.Controller.Navigate(ctx, l.FolderID); err != nil {
			return err
		}
	}
	v, err := l.Controller.View(ctx)
	if err != nil {
		return err
	}
	pp := &printers.PrettyPrint{ShowID: l.ShowID, Out: l.Out}
	pp.View(v)
	return nil
}
