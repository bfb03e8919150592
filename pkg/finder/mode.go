package finder

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the interaction state of a Controller.
type Mode int

const (
	Browsing Mode = iota
	CreatingFolder
	RenamingFolder
	Dragging
)

var modeNames = map[Mode]string{
	Browsing:       "browsing",
	CreatingFolder: "creating",
	RenamingFolder: "renaming",
	Dragging:       "dragging",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// MarshalText renders the mode by name in json and yaml output.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a mode name.
func (m *Mode) UnmarshalText(text []byte) error {
	want := strings.ToLower(string(text))
	for mode, name := range modeNames {
		if name == want {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("finder: unknown mode %q", text)
}

var (
	// ErrBusy is returned when another operation on the same folder is still
	// in flight.
	ErrBusy = errors.New("finder: folder busy")

	// ErrWipeInProgress is returned while WipeAll is running.
	ErrWipeInProgress = errors.New("finder: wipe in progress")

	// ErrModeBusy is returned when an edit or drag is started while another
	// one is active.
	ErrModeBusy = errors.New("finder: another edit is active")

	// ErrNotEditing is returned when committing an edit that is not active.
	ErrNotEditing = errors.New("finder: not editing")
)
