// Package move repositions folders on their parent's canvas.
package move

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/finder/pkg/finder"
	"tableflip.dev/finder/pkg/folder"
	"tableflip.dev/finder/pkg/printers"
)

// Move places ID at To, or drags it by By when To is nil.
type Move struct {
	Controller *finder.Controller
	ID         string
	To         *folder.Position
	By         *folder.Position
	Out        io.Writer

	Result *finder.DropResult
}

func (m *Move) Do(ctx context.Context) error {
	if m.Controller == nil {
		return errors.New("move: no controller configured")
	}
	var err error
	switch {
	case m.To != nil:
		m.Result, err = m.Controller.MoveOrDrop(ctx, m.ID, *m.To)
	case m.By != nil:
		if err = m.Controller.BeginDrag(ctx, m.ID); err != nil {
			return err
		}
		m.Result, err = m.Controller.EndDrag(ctx, m.ID, *m.By)
		if err != nil {
			m.Controller.CancelDrag()
		}
	default:
		return errors.New("move: one of --to or --by is required")
	}
	if err != nil {
		return err
	}

	pp := &printers.PrettyPrint{Out: m.Out}
	pp.Drop(m.Controller.Folders().Name(ctx, m.ID), m.Result)
	return nil
}
