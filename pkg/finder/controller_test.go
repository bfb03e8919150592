package finder

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/finder/pkg/folder"
	"tableflip.dev/finder/pkg/folders"
	"tableflip.dev/finder/pkg/store"
	"tableflip.dev/finder/pkg/store/storetest"
)

func newController(t *testing.T, b store.Backend, opts Options) *Controller {
	t.Helper()
	c, err := Open(context.Background(), b, opts)
	require.NoError(t, err)
	return c
}

func mkdir(t *testing.T, c *Controller, parent, name string, pos folder.Position) *folder.Node {
	t.Helper()
	n, err := c.Folders().Create(context.Background(), parent, name, pos)
	require.NoError(t, err)
	return n
}

func TestNavigationScenario(t *testing.T) {
	ctx := context.Background()
	c := newController(t, store.NewMemory(), Options{})
	a := mkdir(t, c, folder.RootID, "A", folder.Position{})
	b := mkdir(t, c, a.ID, "B", folder.Position{})

	require.NoError(t, c.Navigate(ctx, a.ID))
	require.NoError(t, c.Navigate(ctx, b.ID))

	_, err := c.GoBack(ctx)
	require.NoError(t, err)
	_, err = c.GoBack(ctx)
	require.NoError(t, err)
	assert.Equal(t, folder.RootID, c.Current())

	moved, err := c.GoForward(ctx)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, a.ID, c.Current())

	v, err := c.View(ctx)
	require.NoError(t, err)
	assert.True(t, v.CanGoForward)
	assert.True(t, v.CanGoBack)
	assert.Equal(t, "A", v.CurrentFolderName)
	require.Len(t, v.Breadcrumb, 2)
	assert.Equal(t, folder.RootLabel, v.Breadcrumb[0].Name)
}

func TestNavigateMissingLeavesHistory(t *testing.T) {
	ctx := context.Background()
	c := newController(t, store.NewMemory(), Options{})
	before := c.History()

	err := c.Navigate(ctx, "ghost")
	assert.ErrorIs(t, err, folders.ErrNotFound)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, before, c.History())
}

func TestNavigateToMissingFavoriteDropsIt(t *testing.T) {
	ctx := context.Background()
	b := store.NewMemory()
	c := newController(t, b, Options{})
	a := mkdir(t, c, folder.RootID, "A", folder.Position{})
	_, err := c.AddFavorite(ctx, a.ID)
	require.NoError(t, err)

	// Removed behind the controller's back.
	require.NoError(t, b.Delete(ctx, a.ID))

	assert.Error(t, c.Navigate(ctx, a.ID))
	assert.False(t, c.Favorites().Contains(a.ID))
}

func TestNavigateUp(t *testing.T) {
	ctx := context.Background()
	b := store.NewMemory()
	c := newController(t, b, Options{})
	a := mkdir(t, c, folder.RootID, "A", folder.Position{})
	sub := mkdir(t, c, a.ID, "Sub", folder.Position{})

	require.NoError(t, c.NavigateUp(ctx), "no-op at root")
	assert.Equal(t, folder.RootID, c.Current())

	require.NoError(t, c.Navigate(ctx, sub.ID))
	require.NoError(t, c.NavigateUp(ctx))
	assert.Equal(t, a.ID, c.Current())

	require.NoError(t, b.Delete(ctx, a.ID))
	require.NoError(t, c.NavigateUp(ctx))
	assert.Equal(t, folder.RootID, c.Current())
}

func TestGoBackSkipsDanglingEntries(t *testing.T) {
	ctx := context.Background()
	b := store.NewMemory()
	c := newController(t, b, Options{})
	a := mkdir(t, c, folder.RootID, "A", folder.Position{})
	x := mkdir(t, c, folder.RootID, "X", folder.Position{})

	require.NoError(t, c.Navigate(ctx, a.ID))
	require.NoError(t, c.Navigate(ctx, x.ID))
	require.NoError(t, b.Delete(ctx, a.ID))

	moved, err := c.GoBack(ctx)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, folder.RootID, c.Current())
	assert.NotContains(t, c.History().Back, a.ID)
	assert.NotContains(t, c.History().Forward, a.ID)
}

func TestCreateFlow(t *testing.T) {
	ctx := context.Background()
	c := newController(t, store.NewMemory(), Options{})

	p, err := c.StartCreate(folder.Position{X: -20, Y: 40})
	require.NoError(t, err)
	assert.True(t, folder.IsTemp(p.TempID))
	assert.Equal(t, folder.Position{X: 0, Y: 40}, p.Position)
	assert.Equal(t, CreatingFolder, c.Mode())

	v, err := c.View(ctx)
	require.NoError(t, err)
	require.NotNil(t, v.PendingNewFolder)
	assert.Empty(t, v.Children, "nothing stored yet")

	_, err = c.StartCreate(folder.Position{})
	assert.ErrorIs(t, err, ErrModeBusy)

	n, err := c.CommitCreate(ctx, "   ")
	require.NoError(t, err)
	assert.Equal(t, folder.DefaultName, n.Name)
	assert.Equal(t, Browsing, c.Mode())

	_, err = c.CommitCreate(ctx, "again")
	assert.ErrorIs(t, err, ErrNotEditing)

	children, err := c.Folders().ListChildren(ctx, folder.RootID)
	require.NoError(t, err)
	assert.Len(t, children, 1)

	_, err = c.StartCreate(folder.Position{})
	require.NoError(t, err)
	c.CancelCreate()
	assert.Equal(t, Browsing, c.Mode())
}

func TestRenameFlow(t *testing.T) {
	ctx := context.Background()
	b := storetest.NewFlaky(nil)
	c := newController(t, b, Options{})
	a := mkdir(t, c, folder.RootID, "A", folder.Position{})
	_, err := c.AddFavorite(ctx, a.ID)
	require.NoError(t, err)

	require.NoError(t, c.StartRename(ctx, a.ID))
	require.NoError(t, c.StartRename(ctx, a.ID), "restart is a no-op")

	puts := b.Calls(storetest.OpPut)
	n, err := c.CommitRename(ctx, a.ID, "Alpha")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", n.Name)

	// Blur after Enter.
	_, err = c.CommitRename(ctx, a.ID, "Alpha")
	assert.ErrorIs(t, err, ErrNotEditing)
	assert.Equal(t, puts+1, b.Calls(storetest.OpPut))

	assert.Equal(t, []folder.Favorite{{ID: a.ID, Name: "Alpha"}}, c.Favorites().List())

	require.NoError(t, c.StartRename(ctx, a.ID))
	_, err = c.CommitRename(ctx, a.ID, "Alpha")
	require.NoError(t, err)
	assert.Equal(t, puts+1, b.Calls(storetest.OpPut), "unchanged name is not written")

	require.NoError(t, c.StartRename(ctx, a.ID))
	c.CancelRename()
	assert.Equal(t, Browsing, c.Mode())

	assert.ErrorIs(t, c.StartRename(ctx, folder.RootID), folders.ErrRoot)
}

func TestDeleteEvictsReferences(t *testing.T) {
	ctx := context.Background()
	c := newController(t, store.NewMemory(), Options{DeletePolicy: folders.DeleteCascade})
	a := mkdir(t, c, folder.RootID, "A", folder.Position{})
	sub := mkdir(t, c, a.ID, "Sub", folder.Position{})
	_, err := c.AddFavorite(ctx, a.ID)
	require.NoError(t, err)
	_, err = c.AddFavorite(ctx, sub.ID)
	require.NoError(t, err)

	require.NoError(t, c.Navigate(ctx, a.ID))
	require.NoError(t, c.Navigate(ctx, sub.ID))
	require.NoError(t, c.StartRename(ctx, sub.ID))

	removed, err := c.DeleteFolder(ctx, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, sub.ID}, removed)

	assert.Equal(t, folder.RootID, c.Current(), "parent of the deleted folder")
	assert.Empty(t, c.Favorites().List())
	assert.Equal(t, Browsing, c.Mode())
	snap := c.History()
	assert.NotContains(t, snap.Back, a.ID)
	assert.NotContains(t, snap.Back, sub.ID)
}

func TestDeleteBlockedLeavesTree(t *testing.T) {
	ctx := context.Background()
	c := newController(t, store.NewMemory(), Options{})
	a := mkdir(t, c, folder.RootID, "A", folder.Position{})
	mkdir(t, c, a.ID, "one", folder.Position{})
	mkdir(t, c, a.ID, "two", folder.Position{})

	_, err := c.DeleteFolder(ctx, a.ID)
	assert.ErrorIs(t, err, folders.ErrNotEmpty)

	children, err := c.Folders().ListChildren(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, children, 2)
}

func TestDragScenario(t *testing.T) {
	ctx := context.Background()
	c := newController(t, store.NewMemory(), Options{})
	a := mkdir(t, c, folder.RootID, "A", folder.Position{X: 50, Y: 50})
	b := mkdir(t, c, folder.RootID, "B", folder.Position{X: 200, Y: 200})

	res, err := c.EndDrag(ctx, a.ID, folder.Position{X: 1, Y: 1})
	require.NoError(t, err)
	assert.Nil(t, res, "no drag started")

	require.NoError(t, c.BeginDrag(ctx, a.ID))
	assert.Equal(t, Dragging, c.Mode())

	res, err = c.EndDrag(ctx, a.ID, folder.Position{X: 155, Y: 155})
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotNil(t, res.Target)
	assert.Equal(t, b.ID, res.Target.ID)
	assert.Equal(t, folder.Position{X: 205, Y: 205}, res.Position)
	assert.Equal(t, Browsing, c.Mode())

	moved, err := c.Folders().Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, folder.Position{X: 205, Y: 205}, moved.Position)
	assert.Equal(t, folder.RootID, moved.ParentID, "dropping never reparents")
}

func TestMoveOrDropClamps(t *testing.T) {
	ctx := context.Background()
	c := newController(t, store.NewMemory(), Options{})
	a := mkdir(t, c, folder.RootID, "A", folder.Position{})

	res, err := c.MoveOrDrop(ctx, a.ID, folder.Position{X: -5, Y: 12})
	require.NoError(t, err)
	assert.Nil(t, res.Target)
	assert.Equal(t, folder.Position{X: 0, Y: 12}, res.Position)
}

func TestStaleDragExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := newController(t, store.NewMemory(), Options{DragTimeout: time.Second, Clock: clock})
	a := mkdir(t, c, folder.RootID, "A", folder.Position{})

	require.NoError(t, c.BeginDrag(ctx, a.ID))
	_, err := c.StartCreate(folder.Position{})
	assert.ErrorIs(t, err, ErrModeBusy)

	now = now.Add(2 * time.Second)
	_, err = c.StartCreate(folder.Position{})
	require.NoError(t, err)
	assert.Equal(t, CreatingFolder, c.Mode())

	res, err := c.EndDrag(ctx, a.ID, folder.Position{X: 10})
	require.NoError(t, err)
	assert.Nil(t, res, "expired drag is gone")
}

func TestWipeAll(t *testing.T) {
	ctx := context.Background()
	c := newController(t, store.NewMemory(), Options{})
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, mkdir(t, c, folder.RootID, "f", folder.Position{}).ID)
	}
	for _, id := range ids[:2] {
		_, err := c.AddFavorite(ctx, id)
		require.NoError(t, err)
	}
	require.NoError(t, c.Navigate(ctx, ids[3]))

	require.NoError(t, c.WipeAll(ctx))

	v, err := c.View(ctx)
	require.NoError(t, err)
	assert.Empty(t, v.Children)
	assert.Empty(t, v.Favorites)
	assert.Equal(t, folder.RootID, v.CurrentFolderID)
	assert.False(t, v.CanGoBack)
	assert.Equal(t, Browsing, v.Mode)
}

func TestStorageFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	b := storetest.NewFlaky(nil)
	c := newController(t, b, Options{})
	a := mkdir(t, c, folder.RootID, "A", folder.Position{})

	b.Fail(storetest.OpGet)
	before := c.History()
	assert.ErrorIs(t, c.Navigate(ctx, a.ID), store.ErrStorageUnavailable)
	assert.Equal(t, before, c.History())
	b.Heal()

	require.NoError(t, c.Navigate(ctx, a.ID))
	require.NoError(t, c.NavigateUp(ctx))
	b.Fail(storetest.OpGet)
	before = c.History()
	_, err := c.GoBack(ctx)
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
	assert.Equal(t, before, c.History())
	b.Heal()

	_, err = c.StartCreate(folder.Position{})
	require.NoError(t, err)
	b.Fail(storetest.OpPut)
	_, err = c.CommitCreate(ctx, "x")
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
	assert.Equal(t, CreatingFolder, c.Mode(), "still editing, user may retry")
	b.Heal()

	b.Fail(storetest.OpSaveFavorites)
	_, err = c.AddFavorite(ctx, a.ID)
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
	assert.False(t, c.Favorites().Contains(a.ID))
	b.Heal()

	b.Fail(storetest.OpClear)
	require.NoError(t, c.Navigate(ctx, a.ID))
	before = c.History()
	assert.ErrorIs(t, c.WipeAll(ctx), store.ErrStorageUnavailable)
	assert.Equal(t, before, c.History())
}

func TestAddFavoritePayload(t *testing.T) {
	ctx := context.Background()
	c := newController(t, store.NewMemory(), Options{})
	a := mkdir(t, c, folder.RootID, "A", folder.Position{})

	_, err := c.AddFavoritePayload(ctx, []byte(`{"id":`))
	assert.Error(t, err)

	_, err = c.AddFavoritePayload(ctx, []byte(`{"id":"ghost"}`))
	assert.ErrorIs(t, err, folders.ErrNotFound)

	added, err := c.AddFavoritePayload(ctx, []byte(`{"id":"`+a.ID+`","name":"stale"}`))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []folder.Favorite{{ID: a.ID, Name: "A"}}, c.Favorites().List())

	added, err = c.AddFavorite(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, added)

	removed, err := c.RemoveFavorite(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestViewDropsStaleFavorites(t *testing.T) {
	ctx := context.Background()
	b := store.NewMemory()
	c := newController(t, b, Options{})
	a := mkdir(t, c, folder.RootID, "A", folder.Position{})
	_, err := c.AddFavorite(ctx, a.ID)
	require.NoError(t, err)

	require.NoError(t, b.Delete(ctx, a.ID))

	v, err := c.View(ctx)
	require.NoError(t, err)
	assert.Empty(t, v.Favorites)
	assert.False(t, c.Favorites().Contains(a.ID))
}

// gatedBackend blocks Put until the gate is opened.
type gatedBackend struct {
	store.Backend
	entered chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func (g *gatedBackend) Put(ctx context.Context, n *folder.Node) error {
	g.once.Do(func() { close(g.entered) })
	<-g.gate
	return g.Backend.Put(ctx, n)
}

func TestPerIDGuardAndWipeBarrier(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seed := newController(t, mem, Options{})
	a := mkdir(t, seed, folder.RootID, "A", folder.Position{})
	other := mkdir(t, seed, folder.RootID, "B", folder.Position{})

	g := &gatedBackend{Backend: mem, entered: make(chan struct{}), gate: make(chan struct{})}
	c := newController(t, g, Options{})

	moveDone := make(chan error, 1)
	go func() {
		_, err := c.MoveOrDrop(ctx, a.ID, folder.Position{X: 10, Y: 10})
		moveDone <- err
	}()
	<-g.entered

	_, err := c.MoveOrDrop(ctx, a.ID, folder.Position{X: 20, Y: 20})
	assert.ErrorIs(t, err, ErrBusy)

	_, err = c.DeleteFolder(ctx, a.ID)
	assert.ErrorIs(t, err, ErrBusy)

	wipeDone := make(chan error, 1)
	go func() { wipeDone <- c.WipeAll(ctx) }()

	require.Eventually(t, func() bool {
		return c.Navigate(ctx, other.ID) == ErrWipeInProgress
	}, time.Second, 5*time.Millisecond)

	select {
	case <-wipeDone:
		t.Fatal("wipe finished while a move was in flight")
	default:
	}

	close(g.gate)
	require.NoError(t, <-moveDone)
	require.NoError(t, <-wipeDone)

	children, err := c.Folders().ListChildren(ctx, folder.RootID)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestOneShotEditsLeaveModeAlone(t *testing.T) {
	ctx := context.Background()
	c := newController(t, store.NewMemory(), Options{})
	a := mkdir(t, c, folder.RootID, "A", folder.Position{})

	require.NoError(t, c.BeginDrag(ctx, a.ID))

	n, err := c.CreateFolder(ctx, a.ID, "  ", folder.Position{X: -5, Y: 3})
	require.NoError(t, err)
	assert.Equal(t, folder.DefaultName, n.Name)
	assert.Equal(t, a.ID, n.ParentID)
	assert.Equal(t, folder.Position{X: 0, Y: 3}, n.Position)

	n, err = c.RenameFolder(ctx, n.ID, "inner")
	require.NoError(t, err)
	assert.Equal(t, "inner", n.Name)
	assert.Equal(t, Dragging, c.Mode())

	_, err = c.CreateFolder(ctx, "ghost", "x", folder.Position{})
	assert.ErrorIs(t, err, folders.ErrInvalidParent)
	_, err = c.RenameFolder(ctx, folder.RootID, "x")
	assert.ErrorIs(t, err, folders.ErrRoot)
}

// pausingBackend blocks the first Get of id until the gate is opened.
type pausingBackend struct {
	store.Backend
	id      string
	entered chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func (p *pausingBackend) Get(ctx context.Context, id string) (*folder.Node, error) {
	if id == p.id {
		paused := false
		p.once.Do(func() {
			close(p.entered)
			paused = true
		})
		if paused {
			<-p.gate
		}
	}
	return p.Backend.Get(ctx, id)
}

func TestCreateHoldsParentAgainstDelete(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	parent := mkdir(t, newController(t, mem, Options{}), folder.RootID, "P", folder.Position{})

	b := &pausingBackend{Backend: mem, id: parent.ID, entered: make(chan struct{}), gate: make(chan struct{})}
	c := newController(t, b, Options{DeletePolicy: folders.DeleteCascade})

	created := make(chan error, 1)
	go func() {
		_, err := c.CreateFolder(ctx, parent.ID, "child", folder.Position{})
		created <- err
	}()
	<-b.entered

	_, err := c.DeleteFolder(ctx, parent.ID)
	assert.ErrorIs(t, err, ErrBusy)

	// Creates under the same parent do not conflict with each other.
	sibling, err := c.CreateFolder(ctx, parent.ID, "sibling", folder.Position{})
	require.NoError(t, err)
	assert.Equal(t, parent.ID, sibling.ParentID)

	close(b.gate)
	require.NoError(t, <-created)

	removed, err := c.DeleteFolder(ctx, parent.ID)
	require.NoError(t, err)
	assert.Len(t, removed, 3)

	orphans, err := mem.ListChildren(ctx, parent.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestCascadeDeleteWaitsForDescendants(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seed := newController(t, mem, Options{})
	a := mkdir(t, seed, folder.RootID, "A", folder.Position{})
	kid := mkdir(t, seed, a.ID, "kid", folder.Position{})

	g := &gatedBackend{Backend: mem, entered: make(chan struct{}), gate: make(chan struct{})}
	c := newController(t, g, Options{DeletePolicy: folders.DeleteCascade})

	renamed := make(chan error, 1)
	go func() {
		_, err := c.RenameFolder(ctx, kid.ID, "renamed")
		renamed <- err
	}()
	<-g.entered

	_, err := c.DeleteFolder(ctx, a.ID)
	assert.ErrorIs(t, err, ErrBusy)
	_, err = mem.Get(ctx, a.ID)
	require.NoError(t, err, "a refused delete leaves the tree alone")

	close(g.gate)
	require.NoError(t, <-renamed)

	removed, err := c.DeleteFolder(ctx, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, kid.ID}, removed)
	_, err = mem.Get(ctx, kid.ID)
	assert.ErrorIs(t, err, store.ErrNotExist)
}

func TestDragOverflowStaysStorable(t *testing.T) {
	ctx := context.Background()
	c := newController(t, store.NewDiskv(t.TempDir()), Options{})
	a := mkdir(t, c, folder.RootID, "A", folder.Position{})

	_, err := c.MoveOrDrop(ctx, a.ID, folder.Position{X: math.MaxFloat64, Y: 7})
	require.NoError(t, err)

	require.NoError(t, c.BeginDrag(ctx, a.ID))
	res, err := c.EndDrag(ctx, a.ID, folder.Position{X: math.MaxFloat64})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, folder.Position{X: 0, Y: 7}, res.Position)

	n, err := c.Folders().Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, folder.Position{X: 0, Y: 7}, n.Position)
}
