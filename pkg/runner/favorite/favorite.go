// Package favorite manages the favorites sidebar from the command line.
package favorite

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/finder/pkg/finder"
	"tableflip.dev/finder/pkg/printers"
)

// Action selects what Favorite does.
type Action string

const (
	Add    Action = "add"
	Remove Action = "rm"
	List   Action = "ls"
	// Drop adds the folder described by a serialized folder record, as a
	// drag onto the sidebar would.
	Drop Action = "drop"
)

type Favorite struct {
	Controller *finder.Controller
	Action     Action
	ID         string
	Payload    []byte
	ShowID     bool
	Out        io.Writer
}

func (f *Favorite) out() io.Writer {
	if f.Out == nil {
		return color.Output
	}
	return f.Out
}

func (f *Favorite) Do(ctx context.Context) error {
	if f.Controller == nil {
		return errors.New("favorite: no controller configured")
	}

	var (
		changed bool
		err     error
		verb    string
	)
	switch f.Action {
	case Add:
		changed, err = f.Controller.AddFavorite(ctx, f.ID)
		verb = "added"
	case Drop:
		changed, err = f.Controller.AddFavoritePayload(ctx, f.Payload)
		verb = "added"
	case Remove:
		changed, err = f.Controller.RemoveFavorite(ctx, f.ID)
		verb = "removed"
	case List, "":
		return f.list(ctx)
	default:
		return fmt.Errorf("favorite: unknown action %q", f.Action)
	}
	if err != nil {
		return err
	}

	faint := color.New(color.Faint)
	if !changed {
		_, _ = faint.Fprintln(f.out(), "favorites unchanged")
		return nil
	}
	_, _ = fmt.Fprintf(f.out(), "%s favorite\n", verb)
	return nil
}

func (f *Favorite) list(ctx context.Context) error {
	v, err := f.Controller.View(ctx)
	if err != nil {
		return err
	}
	pp := &printers.PrettyPrint{ShowID: f.ShowID, Out: f.Out}
	pp.TitleWithCount("Favorites", len(v.Favorites), "favorite")
	pp.Favorites(v.Favorites...)
	return nil
}
