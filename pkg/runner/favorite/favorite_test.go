package favorite

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/finder/pkg/favorites"
	"tableflip.dev/finder/pkg/finder"
	"tableflip.dev/finder/pkg/folder"
	"tableflip.dev/finder/pkg/store"
)

func TestFavoriteActions(t *testing.T) {
	color.NoColor = true
	ctx := context.Background()
	c, err := finder.Open(ctx, store.NewMemory(), finder.Options{})
	require.NoError(t, err)
	a, err := c.Folders().Create(ctx, folder.RootID, "Alpha", folder.Position{})
	require.NoError(t, err)
	b, err := c.Folders().Create(ctx, folder.RootID, "Beta", folder.Position{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, (&Favorite{Controller: c, Action: Add, ID: a.ID, Out: &buf}).Do(ctx))
	assert.Contains(t, buf.String(), "added favorite")

	buf.Reset()
	require.NoError(t, (&Favorite{Controller: c, Action: Add, ID: a.ID, Out: &buf}).Do(ctx))
	assert.Contains(t, buf.String(), "unchanged")

	payload, err := favorites.EncodePayload(b)
	require.NoError(t, err)
	require.NoError(t, (&Favorite{Controller: c, Action: Drop, Payload: payload, Out: &buf}).Do(ctx))

	err = (&Favorite{Controller: c, Action: Drop, Payload: []byte("nope"), Out: &buf}).Do(ctx)
	assert.ErrorIs(t, err, favorites.ErrInvalidPayload)

	buf.Reset()
	require.NoError(t, (&Favorite{Controller: c, Action: List, Out: &buf}).Do(ctx))
	assert.Contains(t, buf.String(), "Favorites - 2 favorites")
	assert.Contains(t, buf.String(), "Alpha")
	assert.Contains(t, buf.String(), "Beta")

	require.NoError(t, (&Favorite{Controller: c, Action: Remove, ID: a.ID, Out: &buf}).Do(ctx))
	assert.False(t, c.Favorites().Contains(a.ID))

	assert.Error(t, (&Favorite{Controller: c, Action: "pin", Out: &buf}).Do(ctx))
}
