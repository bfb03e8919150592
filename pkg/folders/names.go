package folders

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"tableflip.dev/finder/pkg/folder"
)

// resolver memoizes display names. Concurrent lookups of one id share a
// single backend read. Every invalidation bumps epoch, and a lookup only
// caches its result if no invalidation happened while it was reading.
type resolver struct {
	get func(context.Context, string) (*folder.Node, error)

	mu    sync.RWMutex
	cache map[string]string
	epoch uint64
	group singleflight.Group
}

func newResolver(get func(context.Context, string) (*folder.Node, error)) *resolver {
	return &resolver{
		get:   get,
		cache: make(map[string]string),
	}
}

func (r *resolver) Name(ctx context.Context, id string) string {
	switch {
	case folder.IsRoot(id):
		return folder.RootLabel
	case folder.IsTemp(id):
		return folder.Placeholder
	}

	r.mu.RLock()
	name, ok := r.cache[id]
	epoch := r.epoch
	r.mu.RUnlock()
	if ok {
		return name
	}

	v, err, _ := r.group.Do(id, func() (interface{}, error) {
		n, err := r.get(ctx, id)
		if err != nil {
			return nil, err
		}
		name := n.DisplayName()
		r.mu.Lock()
		if r.epoch == epoch {
			r.cache[id] = name
		}
		r.mu.Unlock()
		return name, nil
	})
	if err != nil {
		logger.WithError(err).WithField("id", id).Debug("name lookup failed")
		return folder.Placeholder
	}
	return v.(string)
}

// Invalidate forgets the cached name of id.
func (r *resolver) Invalidate(id string) {
	r.mu.Lock()
	delete(r.cache, id)
	r.epoch++
	r.mu.Unlock()
	r.group.Forget(id)
}

// Reset forgets every cached name.
func (r *resolver) Reset() {
	r.mu.Lock()
	r.cache = make(map[string]string)
	r.epoch++
	r.mu.Unlock()
}
