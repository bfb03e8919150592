package folders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/finder/pkg/folder"
	"tableflip.dev/finder/pkg/store"
	"tableflip.dev/finder/pkg/store/storetest"
)

func fixedClock() func() time.Time {
	t := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestCreateKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory(), WithClock(fixedClock()))

	var ids []string
	for _, name := range []string{"c", "a", "b"} {
		n, err := s.Create(ctx, folder.RootID, name, folder.Position{})
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}

	children, err := s.ListChildren(ctx, folder.RootID)
	require.NoError(t, err)
	require.Len(t, children, 3)
	for i, c := range children {
		assert.Equal(t, ids[i], c.ID)
	}
}

func TestCreateRejectsMissingParent(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory())

	_, err := s.Create(ctx, "nope", "x", folder.Position{})
	assert.ErrorIs(t, err, ErrInvalidParent)

	_, err = s.Create(ctx, "temp-123", "x", folder.Position{})
	assert.ErrorIs(t, err, ErrInvalidParent)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "create", fe.Op)
}

func TestCreateAcceptsEmptyName(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory())

	n, err := s.Create(ctx, "", "", folder.Position{X: 3})
	require.NoError(t, err)
	assert.Equal(t, "", n.Name)
	assert.Equal(t, folder.RootID, n.ParentID)
	assert.Equal(t, folder.DefaultName, s.Name(ctx, n.ID))
}

func TestRenameAndMove(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory())
	n, err := s.Create(ctx, folder.RootID, "Docs", folder.Position{})
	require.NoError(t, err)
	assert.Equal(t, "Docs", s.Name(ctx, n.ID))

	renamed, err := s.Rename(ctx, n.ID, "Papers")
	require.NoError(t, err)
	assert.Equal(t, "Papers", renamed.Name)
	assert.Equal(t, "Papers", s.Name(ctx, n.ID), "cache invalidated on rename")

	require.NoError(t, s.Move(ctx, n.ID, folder.Position{X: 10, Y: 20}))
	got, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, folder.Position{X: 10, Y: 20}, got.Position)

	_, err = s.Rename(ctx, "ghost", "x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Move(ctx, "ghost", folder.Position{}), ErrNotFound)
	assert.ErrorIs(t, s.Move(ctx, folder.RootID, folder.Position{}), ErrRoot)
}

func TestListChildrenOfMissingFolder(t *testing.T) {
	s := New(store.NewMemory())
	_, err := s.ListChildren(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePolicies(t *testing.T) {
	ctx := context.Background()

	build := func(t *testing.T, policy DeletePolicy) (*Store, *folder.Node) {
		s := New(store.NewMemory(), WithDeletePolicy(policy))
		parent, err := s.Create(ctx, folder.RootID, "parent", folder.Position{})
		require.NoError(t, err)
		for _, name := range []string{"one", "two"} {
			_, err := s.Create(ctx, parent.ID, name, folder.Position{})
			require.NoError(t, err)
		}
		return s, parent
	}

	t.Run("block", func(t *testing.T) {
		s, parent := build(t, DeleteBlock)
		err := s.Delete(ctx, parent.ID)
		assert.ErrorIs(t, err, ErrNotEmpty)

		children, err := s.ListChildren(ctx, parent.ID)
		require.NoError(t, err)
		assert.Len(t, children, 2, "tree unchanged")
	})

	t.Run("cascade", func(t *testing.T) {
		s, parent := build(t, DeleteCascade)
		removed, err := s.DeleteTree(ctx, parent.ID)
		require.NoError(t, err)
		require.Len(t, removed, 3)
		assert.Equal(t, parent.ID, removed[2], "parent removed last")

		ok, err := s.Exists(ctx, parent.ID)
		require.NoError(t, err)
		assert.False(t, ok)
		roots, err := s.ListChildren(ctx, folder.RootID)
		require.NoError(t, err)
		assert.Empty(t, roots)
	})

	t.Run("missing", func(t *testing.T) {
		s, _ := build(t, DeleteCascade)
		assert.ErrorIs(t, s.Delete(ctx, "ghost"), ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, folder.RootID), ErrRoot)
	})
}

func TestNameNeverFails(t *testing.T) {
	ctx := context.Background()
	b := storetest.NewFlaky(nil)
	s := New(b)

	assert.Equal(t, folder.RootLabel, s.Name(ctx, folder.RootID))
	assert.Equal(t, folder.RootLabel, s.Name(ctx, ""))
	assert.Equal(t, folder.Placeholder, s.Name(ctx, "temp-1700000000000"))
	assert.Equal(t, folder.Placeholder, s.Name(ctx, "ghost"))

	b.Fail(storetest.OpGet)
	assert.Equal(t, folder.Placeholder, s.Name(ctx, "anything"))
}

func TestNameIsMemoized(t *testing.T) {
	ctx := context.Background()
	b := storetest.NewFlaky(nil)
	s := New(b)
	n, err := s.Create(ctx, folder.RootID, "Music", folder.Position{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "Music", s.Name(ctx, n.ID))
		}()
	}
	wg.Wait()

	before := b.Calls(storetest.OpGet)
	assert.Equal(t, "Music", s.Name(ctx, n.ID))
	assert.Equal(t, before, b.Calls(storetest.OpGet), "served from cache")
}

func TestPath(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory())
	a, err := s.Create(ctx, folder.RootID, "A", folder.Position{})
	require.NoError(t, err)
	b, err := s.Create(ctx, a.ID, "B", folder.Position{})
	require.NoError(t, err)

	path, err := s.Path(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, folder.RootID, path[0].ID)
	assert.Equal(t, a.ID, path[1].ID)
	assert.Equal(t, b.ID, path[2].ID)

	path, err = s.Path(ctx, folder.RootID)
	require.NoError(t, err)
	assert.Len(t, path, 1)
}

func TestWipe(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory())
	n, err := s.Create(ctx, folder.RootID, "A", folder.Position{})
	require.NoError(t, err)
	assert.Equal(t, "A", s.Name(ctx, n.ID))

	require.NoError(t, s.Wipe(ctx))

	roots, err := s.ListChildren(ctx, folder.RootID)
	require.NoError(t, err)
	assert.Empty(t, roots)
	assert.Equal(t, folder.Placeholder, s.Name(ctx, n.ID))
}

func TestStorageFailuresSurface(t *testing.T) {
	ctx := context.Background()
	b := storetest.NewFlaky(nil)
	s := New(b)

	b.Fail(storetest.OpPut)
	_, err := s.Create(ctx, folder.RootID, "A", folder.Position{})
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
	b.Heal()

	b.Fail(storetest.OpClear)
	assert.ErrorIs(t, s.Wipe(ctx), store.ErrStorageUnavailable)
}
