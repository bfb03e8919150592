// Package storetest provides store backends for tests.
package storetest

import (
	"context"
	"fmt"
	"sync"

	"tableflip.dev/finder/pkg/folder"
	"tableflip.dev/finder/pkg/store"
)

// Operation names accepted by Flaky.Fail.
const (
	OpGet           = "get"
	OpPut           = "put"
	OpDelete        = "delete"
	OpList          = "list"
	OpClear         = "clear"
	OpLoadFavorites = "load-favorites"
	OpSaveFavorites = "save-favorites"
)

// Flaky wraps a backend and fails chosen operations with an error wrapping
// store.ErrStorageUnavailable.
type Flaky struct {
	store.Backend

	mu    sync.Mutex
	fail  map[string]bool
	calls map[string]int
}

// NewFlaky wraps b, or a fresh memory engine when b is nil.
func NewFlaky(b store.Backend) *Flaky {
	if b == nil {
		b = store.NewMemory()
	}
	return &Flaky{Backend: b, fail: map[string]bool{}, calls: map[string]int{}}
}

// Fail makes the named operations fail until Heal is called.
func (f *Flaky) Fail(ops ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, op := range ops {
		f.fail[op] = true
	}
}

// Heal clears every injected failure.
func (f *Flaky) Heal() {
	f.mu.Lock()
	f.fail = map[string]bool{}
	f.mu.Unlock()
}

// Calls returns how often op reached the wrapper.
func (f *Flaky) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *Flaky) check(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if f.fail[op] {
		return fmt.Errorf("storetest: %s: %w", op, store.ErrStorageUnavailable)
	}
	return nil
}

func (f *Flaky) Get(ctx context.Context, id string) (*folder.Node, error) {
	if err := f.check(OpGet); err != nil {
		return nil, err
	}
	return f.Backend.Get(ctx, id)
}

func (f *Flaky) Put(ctx context.Context, n *folder.Node) error {
	if err := f.check(OpPut); err != nil {
		return err
	}
	return f.Backend.Put(ctx, n)
}

func (f *Flaky) Delete(ctx context.Context, id string) error {
	if err := f.check(OpDelete); err != nil {
		return err
	}
	return f.Backend.Delete(ctx, id)
}

func (f *Flaky) ListChildren(ctx context.Context, parentID string) ([]*folder.Node, error) {
	if err := f.check(OpList); err != nil {
		return nil, err
	}
	return f.Backend.ListChildren(ctx, parentID)
}

func (f *Flaky) ClearAll(ctx context.Context) error {
	if err := f.check(OpClear); err != nil {
		return err
	}
	return f.Backend.ClearAll(ctx)
}

func (f *Flaky) LoadFavorites(ctx context.Context) ([]folder.Favorite, error) {
	if err := f.check(OpLoadFavorites); err != nil {
		return nil, err
	}
	return f.Backend.LoadFavorites(ctx)
}

func (f *Flaky) SaveFavorites(ctx context.Context, favs []folder.Favorite) error {
	if err := f.check(OpSaveFavorites); err != nil {
		return err
	}
	return f.Backend.SaveFavorites(ctx, favs)
}
