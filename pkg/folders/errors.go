package folders

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the folder does not exist.
	ErrNotFound = errors.New("folder not found")

	// ErrInvalidParent indicates a create under a folder that does not exist.
	ErrInvalidParent = errors.New("parent folder does not exist")

	// ErrNotEmpty indicates a delete of a folder that still has children
	// while the block policy is active.
	ErrNotEmpty = errors.New("folder not empty")

	// ErrRoot indicates an attempt to modify the root folder.
	ErrRoot = errors.New("root folder cannot be modified")
)

// Error wraps a failure with the operation and folder it concerned.
type Error struct {
	Op  string // create, rename, move, delete, ...
	ID  string
	Err error
}

func (e *Error) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("folders: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("folders: %s %s: %v", e.Op, e.ID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op, id string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) && fe.Op == op && fe.ID == id {
		return err
	}
	return &Error{Op: op, ID: id, Err: err}
}
