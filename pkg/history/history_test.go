package history

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/finder/pkg/folder"
)

func TestNavigationScenario(t *testing.T) {
	h := New(0)
	h.GoTo("A")
	h.GoTo("B")

	_, ok := h.GoBack()
	require.True(t, ok)
	_, ok = h.GoBack()
	require.True(t, ok)
	assert.Equal(t, folder.RootID, h.Current())

	got, ok := h.GoForward()
	require.True(t, ok)
	assert.Equal(t, "A", got)
	assert.Equal(t, "A", h.Current())
	assert.True(t, h.CanGoForward())
}

func TestGoBackOnEmptyIsNoop(t *testing.T) {
	h := New(0)
	cur, ok := h.GoBack()
	assert.False(t, ok)
	assert.Equal(t, folder.RootID, cur)
	_, ok = h.GoForward()
	assert.False(t, ok)
}

func TestGoToCurrentKeepsForward(t *testing.T) {
	h := New(0)
	h.GoTo("A")
	h.GoBack()
	h.GoTo(folder.RootID)
	assert.True(t, h.CanGoForward())
	h.GoTo("B")
	assert.False(t, h.CanGoForward())
}

func TestLimit(t *testing.T) {
	h := New(3)
	for i := 0; i < 10; i++ {
		h.GoTo(fmt.Sprint(i))
	}
	snap := h.Snapshot()
	assert.Equal(t, []string{"6", "7", "8"}, snap.Back)
	assert.Equal(t, "9", snap.Current)
}

// canGoForward holds exactly when a GoBack happened since the last GoTo, and
// GoBack followed by GoForward returns to the same folder.
func TestRandomWalkProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	h := New(0)
	backedSinceGoTo := false

	for i := 0; i < 2000; i++ {
		switch r.Intn(3) {
		case 0:
			id := fmt.Sprint(r.Intn(5))
			before := h.Current()
			h.GoTo(id)
			if id != before {
				backedSinceGoTo = false
			}
		case 1:
			before := h.Current()
			if _, ok := h.GoBack(); ok {
				backedSinceGoTo = true
				_, ok := h.GoForward()
				require.True(t, ok)
				require.Equal(t, before, h.Current())
				h.GoBack()
			}
		case 2:
			h.GoForward()
		}
		if !backedSinceGoTo {
			require.False(t, h.CanGoForward(), "step %d", i)
		}
		if h.CanGoForward() {
			require.True(t, backedSinceGoTo, "step %d", i)
		}
	}
}

func TestRemove(t *testing.T) {
	h := New(0)
	h.GoTo("A")
	h.GoTo("B")
	h.GoTo("A")
	h.GoTo("C")
	h.GoBack()

	assert.False(t, h.Remove("B"))
	snap := h.Snapshot()
	assert.Equal(t, []string{folder.RootID}, snap.Back, "A,A collapsed and the entry equal to current dropped")
	assert.Equal(t, []string{"C"}, snap.Forward)

	assert.True(t, h.Remove("A"))
	h.Replace(folder.RootID)
	snap = h.Snapshot()
	assert.Empty(t, snap.Back)
	assert.Equal(t, folder.RootID, snap.Current)
	assert.Equal(t, []string{"C"}, snap.Forward)
}

func TestReset(t *testing.T) {
	h := New(0)
	h.GoTo("A")
	h.GoBack()
	h.Reset()
	assert.Equal(t, folder.RootID, h.Current())
	assert.False(t, h.CanGoBack())
	assert.False(t, h.CanGoForward())
}

func TestRestore(t *testing.T) {
	h := New(0)
	h.GoTo("A")
	snap := h.Snapshot()
	h.GoTo("B")
	h.GoBack()

	h.Restore(snap)
	assert.Equal(t, snap, h.Snapshot())
}
