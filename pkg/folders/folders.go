// Package folders manages folder records on top of a storage backend. It
// validates parents, applies the delete policy, keeps child ordering stable
// and resolves display names without ever failing.
package folders

import (
	"context"
	"errors"
	"sync"
	"time"

	"tableflip.dev/finder/pkg/folder"
	"tableflip.dev/finder/pkg/logging"
	"tableflip.dev/finder/pkg/store"
)

var logger = logging.For("folders")

// DeletePolicy decides what happens when a folder with children is deleted.
type DeletePolicy int

const (
	// DeleteBlock refuses to delete folders that have children.
	DeleteBlock DeletePolicy = iota
	// DeleteCascade removes the folder and its whole subtree.
	DeleteCascade
)

func (p DeletePolicy) String() string {
	if p == DeleteCascade {
		return "cascade"
	}
	return "block"
}

// maxDepth bounds ancestor walks in case a record points back into its own
// subtree.
const maxDepth = 1024

// Store is the folder entity manager.
type Store struct {
	backend store.Backend
	policy  DeletePolicy
	clock   func() time.Time
	names   *resolver

	mu   sync.Mutex
	last time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithDeletePolicy selects the delete policy. The default is DeleteBlock.
func WithDeletePolicy(p DeletePolicy) Option {
	return func(s *Store) { s.policy = p }
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// New returns a Store over backend.
func New(backend store.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.names = newResolver(s.lookup)
	return s
}

// Backend exposes the underlying storage collaborator.
func (s *Store) Backend() store.Backend {
	return s.backend
}

// Policy is the active delete policy.
func (s *Store) Policy() DeletePolicy {
	return s.policy
}

// now hands out strictly increasing timestamps so that creation order is
// also listing order.
func (s *Store) now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.clock().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func (s *Store) lookup(ctx context.Context, id string) (*folder.Node, error) {
	n, err := s.backend.Get(ctx, id)
	if errors.Is(err, store.ErrNotExist) {
		return nil, ErrNotFound
	}
	return n, err
}

// Get returns the folder with id. The root always exists.
func (s *Store) Get(ctx context.Context, id string) (*folder.Node, error) {
	if folder.IsRoot(id) {
		return folder.Root(), nil
	}
	if folder.IsTemp(id) {
		return nil, wrap("get", id, ErrNotFound)
	}
	n, err := s.lookup(ctx, id)
	if err != nil {
		return nil, wrap("get", id, err)
	}
	return n, nil
}

// Exists reports whether id names the root or a stored folder.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ListChildren returns the direct children of id, oldest first.
func (s *Store) ListChildren(ctx context.Context, id string) ([]*folder.Node, error) {
	if !folder.IsRoot(id) {
		if _, err := s.Get(ctx, id); err != nil {
			return nil, wrap("list", id, errors.Unwrap(err))
		}
	}
	children, err := s.backend.ListChildren(ctx, parentKey(id))
	if err != nil {
		return nil, wrap("list", id, err)
	}
	folder.Sort(children)
	return children, nil
}

// Create stores a new folder under parentID. The name is kept verbatim.
func (s *Store) Create(ctx context.Context, parentID, name string, pos folder.Position) (*folder.Node, error) {
	parentID = parentKey(parentID)
	if !folder.IsRoot(parentID) {
		ok, err := s.Exists(ctx, parentID)
		if err != nil {
			return nil, wrap("create", parentID, errors.Unwrap(err))
		}
		if !ok {
			return nil, wrap("create", parentID, ErrInvalidParent)
		}
	}

	n := folder.New(parentID, name, pos, s.now())
	if err := s.backend.Put(ctx, n); err != nil {
		return nil, wrap("create", n.ID, err)
	}
	s.names.Invalidate(n.ID)
	logger.WithField("id", n.ID).WithField("parent", parentID).Debug("created folder")
	return n.Clone(), nil
}

// Rename stores a new name for id. Empty names are accepted.
func (s *Store) Rename(ctx context.Context, id, name string) (*folder.Node, error) {
	return s.update(ctx, "rename", id, func(n *folder.Node) { n.Name = name })
}

// Move stores a new canvas position for id.
func (s *Store) Move(ctx context.Context, id string, pos folder.Position) error {
	_, err := s.update(ctx, "move", id, func(n *folder.Node) { n.Position = pos })
	return err
}

func (s *Store) update(ctx context.Context, op, id string, mutate func(*folder.Node)) (*folder.Node, error) {
	if folder.IsRoot(id) {
		return nil, wrap(op, folder.RootID, ErrRoot)
	}
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, wrap(op, id, errors.Unwrap(err))
	}
	mutate(n)
	if err := s.backend.Put(ctx, n); err != nil {
		return nil, wrap(op, id, err)
	}
	s.names.Invalidate(id)
	return n.Clone(), nil
}

// Delete removes id according to the delete policy.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.DeleteTree(ctx, id)
	return err
}

// DeleteTree removes id according to the delete policy and returns every id
// that was removed, descendants first. On a partial failure the ids removed so
// far are returned along with the error.
func (s *Store) DeleteTree(ctx context.Context, id string) ([]string, error) {
	if folder.IsRoot(id) {
		return nil, wrap("delete", folder.RootID, ErrRoot)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, wrap("delete", id, errors.Unwrap(err))
	}

	order, err := s.subtree(ctx, id)
	if err != nil {
		return nil, wrap("delete", id, err)
	}
	if len(order) > 1 && s.policy == DeleteBlock {
		return nil, wrap("delete", id, ErrNotEmpty)
	}

	removed := make([]string, 0, len(order))
	for _, victim := range order {
		if err := s.backend.Delete(ctx, victim); err != nil && !errors.Is(err, store.ErrNotExist) {
			return removed, wrap("delete", victim, err)
		}
		s.names.Invalidate(victim)
		removed = append(removed, victim)
	}
	logger.WithField("id", id).WithField("count", len(removed)).Debug("deleted folder")
	return removed, nil
}

// subtree lists id and its descendants, children before their parents.
func (s *Store) subtree(ctx context.Context, id string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	var walk func(string, int) error
	walk = func(cur string, depth int) error {
		if seen[cur] || depth > maxDepth {
			return nil
		}
		seen[cur] = true
		children, err := s.backend.ListChildren(ctx, cur)
		if err != nil {
			return err
		}
		for _, c := range children {
			if err := walk(c.ID, depth+1); err != nil {
				return err
			}
		}
		out = append(out, cur)
		return nil
	}
	if err := walk(id, 0); err != nil {
		return nil, err
	}
	return out, nil
}

// Path returns the ancestor chain from the root down to id. A missing link
// ends the chain early.
func (s *Store) Path(ctx context.Context, id string) ([]*folder.Node, error) {
	if folder.IsRoot(id) {
		return []*folder.Node{folder.Root()}, nil
	}
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, wrap("path", id, errors.Unwrap(err))
	}

	chain := []*folder.Node{n}
	seen := map[string]bool{n.ID: true}
	for cur := n; !folder.IsRoot(cur.ParentID) && len(chain) < maxDepth; {
		if seen[cur.ParentID] {
			break
		}
		parent, err := s.lookup(ctx, cur.ParentID)
		if errors.Is(err, ErrNotFound) {
			break
		}
		if err != nil {
			return nil, wrap("path", cur.ParentID, err)
		}
		seen[parent.ID] = true
		chain = append(chain, parent)
		cur = parent
	}

	out := make([]*folder.Node, 0, len(chain)+1)
	out = append(out, folder.Root())
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i])
	}
	return out, nil
}

// Name resolves the display name of id. It never fails: the root resolves to
// its label, pending and unknown ids to the placeholder.
func (s *Store) Name(ctx context.Context, id string) string {
	return s.names.Name(ctx, id)
}

// Invalidate drops any cached name for id, for example after another process
// changed the record.
func (s *Store) Invalidate(id string) {
	s.names.Invalidate(id)
}

// ResetNames drops every cached name.
func (s *Store) ResetNames() {
	s.names.Reset()
}

// Wipe deletes every folder and favorite. The store is left holding only the
// root.
func (s *Store) Wipe(ctx context.Context) error {
	if err := s.backend.ClearAll(ctx); err != nil {
		return wrap("wipe", "", err)
	}
	s.names.Reset()
	logger.Info("wiped all folders")
	return nil
}

func parentKey(id string) string {
	if folder.IsRoot(id) {
		return folder.RootID
	}
	return id
}
