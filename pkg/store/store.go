// Package store is the storage collaborator behind the folder store. It knows
// how to get, put, delete and list folder records and how to wipe them, and
// nothing about navigation or favorites semantics.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/finder/pkg/folder"
	"tableflip.dev/finder/pkg/logging"
)

var logger = logging.For("store")

var (
	// ErrNotExist is returned when a key is absent.
	ErrNotExist = errors.New("store: not found")

	// ErrStorageUnavailable wraps every I/O failure of an engine.
	ErrStorageUnavailable = errors.New("store: storage unavailable")

	errInvalidRecord = errors.New("store: invalid folder record")
)

// Engine names accepted by Load.
const (
	EngineDiskv  = "diskv"
	EngineSQLite = "sqlite"
	EngineMemory = "memory"
)

// Backend defines the persistence contract for folder records.
type Backend interface {
	Get(ctx context.Context, id string) (*folder.Node, error)
	Put(ctx context.Context, n *folder.Node) error
	Delete(ctx context.Context, id string) error
	ListChildren(ctx context.Context, parentID string) ([]*folder.Node, error)
	ClearAll(ctx context.Context) error

	LoadFavorites(ctx context.Context) ([]folder.Favorite, error)
	SaveFavorites(ctx context.Context, favs []folder.Favorite) error

	Close() error
}

// Watcher is implemented by engines that can report external changes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Config selects and locates an engine.
type Config interface {
	BasePath() string
	Engine() string
}

// Load opens the engine described by cfg.
func Load(cfg Config) (Backend, error) {
	if cfg == nil {
		return nil, errors.New("store: no config")
	}
	engine := strings.ToLower(strings.TrimSpace(cfg.Engine()))
	logger.WithField("engine", engine).WithField("path", cfg.BasePath()).Debug("opening store")

	switch engine {
	case "", EngineDiskv:
		if cfg.BasePath() == "" {
			return nil, errors.New("store: base path unknown")
		}
		return NewDiskv(cfg.BasePath()), nil
	case EngineSQLite:
		return OpenSQLite(cfg.BasePath())
	case EngineMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("store: unknown engine %q", engine)
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("store: %s: %w: %w", op, ErrStorageUnavailable, err)
}

func normalizeParent(id string) string {
	if folder.IsRoot(id) {
		return folder.RootID
	}
	return id
}

// validID rejects identifiers that cannot be used as a storage key.
func validID(id string) bool {
	if id == "" || folder.IsRoot(id) {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}
