// Package favorites keeps the ordered list of bookmarked folders.
package favorites

import (
	"context"
	"sync"

	"tableflip.dev/finder/pkg/folder"
	"tableflip.dev/finder/pkg/logging"
)

var logger = logging.For("favorites")

// Store persists the favorites list. Every store.Backend satisfies it.
type Store interface {
	LoadFavorites(ctx context.Context) ([]folder.Favorite, error)
	SaveFavorites(ctx context.Context, favs []folder.Favorite) error
}

// Registry is an insertion-ordered set of favorites keyed by folder id.
// Changes are written to the Store before they become visible; a failed
// write leaves the registry as it was.
type Registry struct {
	mu    sync.Mutex
	store Store
	items []folder.Favorite
}

// New returns an empty registry. A nil store keeps favorites in memory only.
func New(s Store) *Registry {
	return &Registry{store: s}
}

// Load returns a registry primed with the persisted favorites. Duplicate
// and blank ids in stored data are dropped.
func Load(ctx context.Context, s Store) (*Registry, error) {
	r := New(s)
	if s == nil {
		return r, nil
	}
	favs, err := s.LoadFavorites(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(favs))
	for _, f := range favs {
		if f.ID == "" || seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		r.items = append(r.items, f)
	}
	return r, nil
}

// commit persists next and installs it. Callers hold r.mu.
func (r *Registry) commit(ctx context.Context, next []folder.Favorite) error {
	if r.store != nil {
		if err := r.store.SaveFavorites(ctx, next); err != nil {
			logger.WithError(err).Warn("saving favorites")
			return err
		}
	}
	r.items = next
	return nil
}

func (r *Registry) indexOf(id string) int {
	for i, f := range r.items {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) clone() []folder.Favorite {
	out := make([]folder.Favorite, len(r.items))
	copy(out, r.items)
	return out
}

// Add appends fav unless its id is already present. It reports whether the
// list changed.
func (r *Registry) Add(ctx context.Context, fav folder.Favorite) (bool, error) {
	if fav.ID == "" {
		return false, ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(fav.ID) >= 0 {
		return false, nil
	}
	if err := r.commit(ctx, append(r.clone(), fav)); err != nil {
		return false, err
	}
	return true, nil
}

// Remove drops id. Removing an unknown id is a no-op.
func (r *Registry) Remove(ctx context.Context, id string) (bool, error) {
	n, err := r.RemoveAll(ctx, id)
	return n > 0, err
}

// RemoveAll drops every listed id in a single write and returns how many were
// present.
func (r *Registry) RemoveAll(ctx context.Context, ids ...string) (int, error) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]folder.Favorite, 0, len(r.items))
	for _, f := range r.items {
		if !drop[f.ID] {
			next = append(next, f)
		}
	}
	removed := len(r.items) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := r.commit(ctx, next); err != nil {
		return 0, err
	}
	return removed, nil
}

// Rename refreshes the name snapshot of id.
func (r *Registry) Rename(ctx context.Context, id, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 || r.items[i].Name == name {
		return false, nil
	}
	next := r.clone()
	next[i].Name = name
	if err := r.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Clear empties the list.
func (r *Registry) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commit(ctx, []folder.Favorite{})
}

// Reload replaces the in-memory list with the stored one.
func (r *Registry) Reload(ctx context.Context) error {
	fresh, err := Load(ctx, r.store)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.items = fresh.items
	r.mu.Unlock()
	return nil
}

// List returns a copy of the favorites in insertion order.
func (r *Registry) List() []folder.Favorite {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clone()
}

// Contains reports whether id is a favorite.
func (r *Registry) Contains(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.indexOf(id) >= 0
}

// Len is the number of favorites.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Reset forgets every favorite without writing to the store. Use it after
// the store itself has been wiped.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
}
