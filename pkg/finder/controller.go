// Package finder coordinates navigation, editing, dragging and favorites on
// top of the folder store. Renderers read a View and call back into the
// Controller for every user action.
package finder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"tableflip.dev/finder/pkg/favorites"
	"tableflip.dev/finder/pkg/folder"
	"tableflip.dev/finder/pkg/folders"
	"tableflip.dev/finder/pkg/geometry"
	"tableflip.dev/finder/pkg/history"
	"tableflip.dev/finder/pkg/logging"
	"tableflip.dev/finder/pkg/store"
)

var logger = logging.For("finder")

// DefaultDragTimeout is how long a drag may stay open before a new edit may
// discard it.
const DefaultDragTimeout = 30 * time.Second

// Options tunes a Controller. Zero values select the defaults.
type Options struct {
	DeletePolicy folders.DeletePolicy
	HistoryLimit int
	NodeSize     geometry.Size
	Canvas       geometry.Size
	DragTimeout  time.Duration
	Clock        func() time.Time
}

func (o Options) withDefaults() Options {
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = history.DefaultLimit
	}
	if o.NodeSize.Width <= 0 || o.NodeSize.Height <= 0 {
		o.NodeSize = geometry.DefaultNodeSize
	}
	if o.DragTimeout <= 0 {
		o.DragTimeout = DefaultDragTimeout
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

type dragState struct {
	id      string
	origin  folder.Position
	started time.Time
}

// Controller owns the transient interaction state. It is safe for concurrent
// use; its mutex is never held across storage calls.
type Controller struct {
	folders   *folders.Store
	favorites *favorites.Registry
	opts      Options

	mu       sync.Mutex
	idle     *sync.Cond
	hist     *history.History
	mode     Mode
	editing  string
	pending  *folder.Pending
	drag     *dragState
	inflight map[string]bool
	parents  map[string]int
	active   int
	wiping   bool
}

// New builds a Controller over an existing folder store and registry.
func New(fs *folders.Store, favs *favorites.Registry, opts Options) *Controller {
	opts = opts.withDefaults()
	if favs == nil {
		favs = favorites.New(nil)
	}
	c := &Controller{
		folders:   fs,
		favorites: favs,
		opts:      opts,
		hist:      history.New(opts.HistoryLimit),
		inflight:  make(map[string]bool),
		parents:   make(map[string]int),
	}
	c.idle = sync.NewCond(&c.mu)
	return c
}

// Open builds a Controller whose folders and favorites live in backend.
func Open(ctx context.Context, backend store.Backend, opts Options) (*Controller, error) {
	if backend == nil {
		return nil, errors.New("finder: no storage configured")
	}
	opts = opts.withDefaults()
	favs, err := favorites.Load(ctx, backend)
	if err != nil {
		return nil, err
	}
	fs := folders.New(backend,
		folders.WithDeletePolicy(opts.DeletePolicy),
		folders.WithClock(opts.Clock))
	return New(fs, favs, opts), nil
}

// Folders exposes the folder store.
func (c *Controller) Folders() *folders.Store {
	return c.folders
}

// Favorites exposes the favorites registry.
func (c *Controller) Favorites() *favorites.Registry {
	return c.favorites
}

// Current is the id of the folder being viewed.
func (c *Controller) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hist.Current()
}

// Mode is the current interaction mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// History returns a copy of the navigation stacks.
func (c *Controller) History() history.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hist.Snapshot()
}

// acquire registers an in-flight operation on ids. The returned func must be
// called once the operation finished.
func (c *Controller) acquire(ids ...string) (func(), error) {
	return c.guard("", ids...)
}

// acquireUnder is acquire for an operation that adds a folder below parent.
// Any number of those may share a parent, but none overlaps an operation
// holding the parent itself.
func (c *Controller) acquireUnder(parent string, ids ...string) (func(), error) {
	if folder.IsRoot(parent) {
		parent = ""
	}
	return c.guard(parent, ids...)
}

func (c *Controller) guard(parent string, ids ...string) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wiping {
		return nil, ErrWipeInProgress
	}
	if parent != "" && c.inflight[parent] {
		return nil, ErrBusy
	}
	for _, id := range ids {
		if c.inflight[id] || c.parents[id] > 0 {
			return nil, ErrBusy
		}
	}
	for _, id := range ids {
		c.inflight[id] = true
	}
	if parent != "" {
		c.parents[parent]++
	}
	c.active++

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			for _, id := range ids {
				delete(c.inflight, id)
			}
			if parent != "" {
				if c.parents[parent]--; c.parents[parent] <= 0 {
					delete(c.parents, parent)
				}
			}
			c.active--
			if c.active == 0 {
				c.idle.Broadcast()
			}
			c.mu.Unlock()
		})
	}, nil
}

// enterModeLocked switches from Browsing into m. A drag older than the drag
// timeout is discarded first.
func (c *Controller) enterModeLocked(m Mode) error {
	if c.wiping {
		return ErrWipeInProgress
	}
	if c.mode == Dragging && c.drag != nil && c.opts.Clock().Sub(c.drag.started) > c.opts.DragTimeout {
		logger.WithField("id", c.drag.id).Debug("discarding stale drag")
		c.drag = nil
		c.mode = Browsing
	}
	if c.mode != Browsing {
		return ErrModeBusy
	}
	c.mode = m
	return nil
}

// resetEditsLocked drops any unfinished create, rename or drag.
func (c *Controller) resetEditsLocked() {
	c.mode = Browsing
	c.editing = ""
	c.pending = nil
	c.drag = nil
}

func (c *Controller) clamp(p folder.Position) folder.Position {
	return geometry.ClampToCanvas(p, c.opts.Canvas)
}

// Navigate opens folder id. A missing folder leaves history untouched and is
// dropped from favorites if it was one.
func (c *Controller) Navigate(ctx context.Context, id string) error {
	release, err := c.acquire()
	if err != nil {
		return err
	}
	defer release()

	if _, err := c.folders.Get(ctx, id); err != nil {
		if errors.Is(err, folders.ErrNotFound) {
			c.dropFavorites(ctx, id)
		}
		return err
	}

	c.mu.Lock()
	c.resetEditsLocked()
	c.hist.GoTo(id)
	c.mu.Unlock()
	return nil
}

// NavigateUp opens the parent of the current folder. It does nothing at the
// root and falls back to the root when the current folder vanished.
func (c *Controller) NavigateUp(ctx context.Context) error {
	release, err := c.acquire()
	if err != nil {
		return err
	}
	defer release()

	cur := c.Current()
	if folder.IsRoot(cur) {
		return nil
	}
	n, err := c.folders.Get(ctx, cur)
	if errors.Is(err, folders.ErrNotFound) {
		c.mu.Lock()
		c.resetEditsLocked()
		c.hist.Remove(cur)
		c.hist.Replace(folder.RootID)
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		return err
	}

	parent := n.ParentID
	if ok, err := c.folders.Exists(ctx, parent); err != nil {
		return err
	} else if !ok {
		parent = folder.RootID
	}

	c.mu.Lock()
	c.resetEditsLocked()
	c.hist.GoTo(parent)
	c.mu.Unlock()
	return nil
}

// GoBack steps back in history, skipping entries whose folder no longer
// exists. It reports whether the current folder changed.
func (c *Controller) GoBack(ctx context.Context) (bool, error) {
	return c.step(ctx, false)
}

// GoForward steps forward in history, skipping dangling entries.
func (c *Controller) GoForward(ctx context.Context) (bool, error) {
	return c.step(ctx, true)
}

func (c *Controller) step(ctx context.Context, forward bool) (bool, error) {
	release, err := c.acquire()
	if err != nil {
		return false, err
	}
	defer release()

	c.mu.Lock()
	before := c.hist.Snapshot()
	var moved bool
	if forward {
		_, moved = c.hist.GoForward()
	} else {
		_, moved = c.hist.GoBack()
	}
	if moved {
		c.resetEditsLocked()
	}
	c.mu.Unlock()
	if !moved {
		return false, nil
	}

	if err := c.settle(ctx, forward); err != nil {
		c.mu.Lock()
		c.hist.Restore(before)
		c.mu.Unlock()
		return false, err
	}
	return c.Current() != before.Current, nil
}

// settle makes sure the current folder exists, evicting dangling history
// entries and continuing in the given direction.
func (c *Controller) settle(ctx context.Context, forward bool) error {
	for i := 0; i <= 2*c.opts.HistoryLimit+2; i++ {
		cur := c.Current()
		if folder.IsRoot(cur) {
			return nil
		}
		ok, err := c.folders.Exists(ctx, cur)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		logger.WithField("id", cur).Debug("dropping dangling history entry")
		c.mu.Lock()
		c.evictLocked(cur, forward)
		c.mu.Unlock()
		c.dropFavorites(ctx, cur)
	}
	c.mu.Lock()
	c.hist.Replace(folder.RootID)
	c.mu.Unlock()
	return nil
}

// evictLocked removes id from history. If id was current, history moves on in
// the preferred direction, then the other one, then to the root.
func (c *Controller) evictLocked(id string, forward bool) {
	if !c.hist.Remove(id) {
		return
	}
	primary, fallback := c.hist.GoBack, c.hist.GoForward
	if forward {
		primary, fallback = fallback, primary
	}
	if _, ok := primary(); ok {
		c.hist.Remove(id)
		return
	}
	if _, ok := fallback(); ok {
		c.hist.Remove(id)
		return
	}
	c.hist.Replace(folder.RootID)
}

// dropFavorites removes stale favorites. Failures are logged only.
func (c *Controller) dropFavorites(ctx context.Context, ids ...string) {
	if _, err := c.favorites.RemoveAll(ctx, ids...); err != nil {
		logger.WithError(err).Warn("dropping stale favorites")
	}
}

// StartCreate begins a new folder at pos on the current canvas. Nothing is
// stored until CommitCreate.
func (c *Controller) StartCreate(pos folder.Position) (*folder.Pending, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enterModeLocked(CreatingFolder); err != nil {
		return nil, err
	}
	c.pending = folder.NewPending(c.clamp(pos), c.opts.Clock())
	p := *c.pending
	return &p, nil
}

// CommitCreate stores the pending folder under name, or the default name when
// name is blank. Only the first of several commits stores anything; later
// ones report ErrNotEditing.
func (c *Controller) CommitCreate(ctx context.Context, name string) (*folder.Node, error) {
	c.mu.Lock()
	if c.mode != CreatingFolder || c.pending == nil {
		c.mu.Unlock()
		return nil, ErrNotEditing
	}
	p := *c.pending
	parent := c.hist.Current()
	c.mu.Unlock()

	release, err := c.acquireUnder(parent, p.TempID)
	if err != nil {
		return nil, err
	}
	defer release()

	if strings.TrimSpace(name) == "" {
		name = folder.DefaultName
	}
	n, err := c.folders.Create(ctx, parent, name, c.clamp(p.Position))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.pending != nil && c.pending.TempID == p.TempID {
		c.pending = nil
		c.mode = Browsing
	}
	c.mu.Unlock()
	return n, nil
}

// CancelCreate abandons the pending folder.
func (c *Controller) CancelCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == CreatingFolder {
		c.mode = Browsing
		c.pending = nil
	}
}

// StartRename puts id into rename mode. Starting again on the same folder is
// a no-op.
func (c *Controller) StartRename(ctx context.Context, id string) error {
	if folder.IsRoot(id) {
		return &folders.Error{Op: "rename", ID: folder.RootID, Err: folders.ErrRoot}
	}
	if _, err := c.folders.Get(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == RenamingFolder && c.editing == id {
		return nil
	}
	if err := c.enterModeLocked(RenamingFolder); err != nil {
		return err
	}
	c.editing = id
	return nil
}

// CommitRename stores name for the folder in rename mode. Only the first of
// several commits stores anything; later ones report ErrNotEditing. A name
// equal to the stored one is not written again.
func (c *Controller) CommitRename(ctx context.Context, id, name string) (*folder.Node, error) {
	c.mu.Lock()
	if c.mode != RenamingFolder || c.editing != id {
		c.mu.Unlock()
		return nil, ErrNotEditing
	}
	c.mu.Unlock()

	release, err := c.acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()

	n, err := c.rename(ctx, id, name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.mode == RenamingFolder && c.editing == id {
		c.mode = Browsing
		c.editing = ""
	}
	c.mu.Unlock()
	return n, nil
}

// CancelRename leaves rename mode without storing anything.
func (c *Controller) CancelRename() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == RenamingFolder {
		c.mode = Browsing
		c.editing = ""
	}
}

func (c *Controller) rename(ctx context.Context, id, name string) (*folder.Node, error) {
	n, err := c.folders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Name == name {
		return n, nil
	}
	if n, err = c.folders.Rename(ctx, id, name); err != nil {
		return nil, err
	}
	if _, err := c.favorites.Rename(ctx, id, n.DisplayName()); err != nil {
		logger.WithError(err).WithField("id", id).Warn("refreshing favorite name")
	}
	return n, nil
}

// CreateFolder stores a new folder under parentID in one step, without
// entering CreatingFolder mode. A blank name selects the default name.
func (c *Controller) CreateFolder(ctx context.Context, parentID, name string, pos folder.Position) (*folder.Node, error) {
	release, err := c.acquireUnder(parentID)
	if err != nil {
		return nil, err
	}
	defer release()

	if strings.TrimSpace(name) == "" {
		name = folder.DefaultName
	}
	return c.folders.Create(ctx, parentID, name, c.clamp(pos))
}

// RenameFolder renames id in one step, without entering RenamingFolder mode.
func (c *Controller) RenameFolder(ctx context.Context, id, name string) (*folder.Node, error) {
	if folder.IsRoot(id) {
		return nil, &folders.Error{Op: "rename", ID: folder.RootID, Err: folders.ErrRoot}
	}
	release, err := c.acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()
	return c.rename(ctx, id, name)
}

// DeleteFolder deletes id under the store's delete policy and evicts every
// removed folder from favorites and history. If the current folder was
// removed, the deleted folder's parent becomes current.
func (c *Controller) DeleteFolder(ctx context.Context, id string) ([]string, error) {
	if folder.IsRoot(id) {
		return nil, &folders.Error{Op: "delete", ID: folder.RootID, Err: folders.ErrRoot}
	}
	release, err := c.acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()

	n, err := c.folders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	releaseBelow, err := c.acquireBelow(ctx, id)
	if err != nil {
		return nil, err
	}
	defer releaseBelow()

	removed, err := c.folders.DeleteTree(ctx, id)
	if len(removed) > 0 {
		c.evictDeleted(ctx, n.ParentID, removed)
	}
	return removed, err
}

// acquireBelow guards every folder under id, which the caller already holds.
// A folder is guarded before its children are listed, so none can be added
// unguarded while the walk runs.
func (c *Controller) acquireBelow(ctx context.Context, id string) (func(), error) {
	var releases []func()
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	queue := []string{id}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		children, err := c.folders.ListChildren(ctx, next)
		if err != nil {
			releaseAll()
			return nil, err
		}
		for _, child := range children {
			release, err := c.acquire(child.ID)
			if err != nil {
				releaseAll()
				return nil, err
			}
			releases = append(releases, release)
			queue = append(queue, child.ID)
		}
	}
	return releaseAll, nil
}

func (c *Controller) evictDeleted(ctx context.Context, parent string, removed []string) {
	gone := make(map[string]bool, len(removed))
	for _, id := range removed {
		gone[id] = true
	}

	c.mu.Lock()
	currentGone := false
	for _, id := range removed {
		if c.hist.Remove(id) {
			currentGone = true
		}
	}
	if currentGone {
		c.hist.Replace(parent)
		c.resetEditsLocked()
	}
	if c.editing != "" && gone[c.editing] {
		c.editing = ""
		c.mode = Browsing
	}
	if c.drag != nil && gone[c.drag.id] {
		c.drag = nil
		c.mode = Browsing
	}
	c.mu.Unlock()

	c.dropFavorites(ctx, removed...)
}

// DropResult describes where a moved folder ended up.
type DropResult struct {
	ID       string          `json:"id"`
	Position folder.Position `json:"position"`
	// Target is the sibling the folder was dropped onto, if any. Dropping
	// only repositions; nothing is moved into the target.
	Target *folder.Node `json:"target,omitempty"`
}

// MoveOrDrop places id at pos, clamped to the canvas, and reports the sibling
// under it.
func (c *Controller) MoveOrDrop(ctx context.Context, id string, pos folder.Position) (*DropResult, error) {
	release, err := c.acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()
	return c.move(ctx, id, pos)
}

func (c *Controller) move(ctx context.Context, id string, pos folder.Position) (*DropResult, error) {
	n, err := c.folders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder.IsRoot(n.ID) {
		return nil, &folders.Error{Op: "move", ID: folder.RootID, Err: folders.ErrRoot}
	}
	pos = c.clamp(pos)

	siblings, err := c.folders.ListChildren(ctx, n.ParentID)
	if err != nil {
		return nil, err
	}
	target := geometry.FindDropTarget(pos, geometry.Without(siblings, id), c.opts.NodeSize)

	if err := c.folders.Move(ctx, id, pos); err != nil {
		return nil, err
	}
	res := &DropResult{ID: id, Position: pos}
	if target != nil {
		res.Target = target.Clone()
	}
	return res, nil
}

// BeginDrag starts dragging id.
func (c *Controller) BeginDrag(ctx context.Context, id string) error {
	if folder.IsRoot(id) {
		return &folders.Error{Op: "drag", ID: folder.RootID, Err: folders.ErrRoot}
	}
	n, err := c.folders.Get(ctx, id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enterModeLocked(Dragging); err != nil {
		return err
	}
	c.drag = &dragState{id: id, origin: n.Position, started: c.opts.Clock()}
	return nil
}

// EndDrag drops id at its drag origin plus offset. Without a matching
// BeginDrag it does nothing and returns a nil result.
func (c *Controller) EndDrag(ctx context.Context, id string, offset folder.Position) (*DropResult, error) {
	c.mu.Lock()
	if c.mode != Dragging || c.drag == nil || c.drag.id != id {
		c.mu.Unlock()
		return nil, nil
	}
	d := c.drag
	c.mu.Unlock()

	release, err := c.acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()

	res, err := c.move(ctx, id, geometry.ApplyDrag(d.origin, offset))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.drag == d {
		c.drag = nil
		c.mode = Browsing
	}
	c.mu.Unlock()
	return res, nil
}

// CancelDrag abandons the drag in progress.
func (c *Controller) CancelDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == Dragging {
		c.mode = Browsing
		c.drag = nil
	}
}

// AddFavorite bookmarks id under its current display name.
func (c *Controller) AddFavorite(ctx context.Context, id string) (bool, error) {
	release, err := c.acquire()
	if err != nil {
		return false, err
	}
	defer release()

	if folder.IsRoot(id) {
		return false, &folders.Error{Op: "favorite", ID: folder.RootID, Err: folders.ErrRoot}
	}
	n, err := c.folders.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return c.favorites.Add(ctx, n.Favorite())
}

// AddFavoritePayload bookmarks the folder described by a drag payload.
func (c *Controller) AddFavoritePayload(ctx context.Context, payload []byte) (bool, error) {
	fav, err := favorites.DecodePayload(payload)
	if err != nil {
		return false, err
	}
	return c.AddFavorite(ctx, fav.ID)
}

// RemoveFavorite drops id from favorites.
func (c *Controller) RemoveFavorite(ctx context.Context, id string) (bool, error) {
	release, err := c.acquire()
	if err != nil {
		return false, err
	}
	defer release()
	return c.favorites.Remove(ctx, id)
}

// WipeAll waits for in-flight operations, then deletes every folder and
// favorite and returns to the root. New operations fail with
// ErrWipeInProgress until it is done.
func (c *Controller) WipeAll(ctx context.Context) error {
	c.mu.Lock()
	if c.wiping {
		c.mu.Unlock()
		return ErrWipeInProgress
	}
	c.wiping = true
	for c.active > 0 {
		c.idle.Wait()
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.wiping = false
		c.mu.Unlock()
	}()

	if err := c.folders.Wipe(ctx); err != nil {
		return err
	}
	c.favorites.Reset()

	c.mu.Lock()
	c.hist.Reset()
	c.resetEditsLocked()
	c.mu.Unlock()
	logger.Info("wiped all folders and favorites")
	return nil
}

// Refresh reacts to a storage change made outside this controller.
func (c *Controller) Refresh(ctx context.Context, ev store.Event) error {
	switch ev.Type {
	case store.EventFolderChanged:
		c.folders.Invalidate(ev.FolderID)
		return nil
	case store.EventFavoritesChanged:
		return c.favorites.Reload(ctx)
	default:
		c.folders.ResetNames()
		return c.favorites.Reload(ctx)
	}
}
