package rename

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/finder/pkg/finder"
	"tableflip.dev/finder/pkg/folder"
	"tableflip.dev/finder/pkg/store"
)

func TestRename(t *testing.T) {
	ctx := context.Background()
	c, err := finder.Open(ctx, store.NewMemory(), finder.Options{})
	require.NoError(t, err)
	n, err := c.Folders().Create(ctx, folder.RootID, "old", folder.Position{})
	require.NoError(t, err)

	var buf bytes.Buffer
	r := &Rename{Controller: c, ID: n.ID, Name: "new", Out: &buf}
	require.NoError(t, r.Do(ctx))
	assert.Equal(t, "renamed old to new\n", buf.String())
	assert.Equal(t, "new", c.Folders().Name(ctx, n.ID))
	assert.Equal(t, finder.Browsing, c.Mode())
}
