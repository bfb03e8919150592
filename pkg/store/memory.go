package store

import (
	"context"
	"sync"

	"tableflip.dev/finder/pkg/folder"
)

// Memory is a process-local engine. Nothing survives Close.
type Memory struct {
	mu        sync.RWMutex
	nodes     map[string]*folder.Node
	favorites []folder.Favorite
}

var _ Backend = (*Memory)(nil)

// NewMemory returns an empty in-memory engine.
func NewMemory() *Memory {
	return &Memory{nodes: make(map[string]*folder.Node)}
}

func (m *Memory) Get(_ context.Context, id string) (*folder.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	if !ok {
		return nil, ErrNotExist
	}
	return n.Clone(), nil
}

func (m *Memory) Put(_ context.Context, n *folder.Node) error {
	if n == nil || !validID(n.ID) {
		return errInvalidRecord
	}
	c := n.Clone()
	c.ParentID = normalizeParent(c.ParentID)
	m.mu.Lock()
	m.nodes[c.ID] = c
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[id]; !ok {
		return ErrNotExist
	}
	delete(m.nodes, id)
	return nil
}

func (m *Memory) ListChildren(_ context.Context, parentID string) ([]*folder.Node, error) {
	parentID = normalizeParent(parentID)
	m.mu.RLock()
	out := make([]*folder.Node, 0)
	for _, n := range m.nodes {
		if n.ParentID == parentID {
			out = append(out, n.Clone())
		}
	}
	m.mu.RUnlock()
	folder.Sort(out)
	return out, nil
}

func (m *Memory) ClearAll(_ context.Context) error {
	m.mu.Lock()
	m.nodes = make(map[string]*folder.Node)
	m.favorites = nil
	m.mu.Unlock()
	return nil
}

func (m *Memory) LoadFavorites(_ context.Context) ([]folder.Favorite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]folder.Favorite, len(m.favorites))
	copy(out, m.favorites)
	return out, nil
}

func (m *Memory) SaveFavorites(_ context.Context, favs []folder.Favorite) error {
	cp := make([]folder.Favorite, len(favs))
	copy(cp, favs)
	m.mu.Lock()
	m.favorites = cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	return nil
}
