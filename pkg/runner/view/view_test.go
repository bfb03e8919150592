package view

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/finder/pkg/finder"
	"tableflip.dev/finder/pkg/folder"
	"tableflip.dev/finder/pkg/store"
)

func TestViewJSON(t *testing.T) {
	ctx := context.Background()
	c, err := finder.Open(ctx, store.NewMemory(), finder.Options{})
	require.NoError(t, err)
	a, err := c.Folders().Create(ctx, folder.RootID, "A", folder.Position{X: 1, Y: 2})
	require.NoError(t, err)

	var buf bytes.Buffer
	v := &View{Controller: c, Output: "json", Out: &buf}
	require.NoError(t, v.Do(ctx))

	var got finder.View
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, folder.RootID, got.CurrentFolderID)
	require.Len(t, got.Children, 1)
	assert.Equal(t, a.ID, got.Children[0].ID)
	assert.Equal(t, finder.Browsing, got.Mode)
}

func TestViewYAML(t *testing.T) {
	ctx := context.Background()
	c, err := finder.Open(ctx, store.NewMemory(), finder.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	v := &View{Controller: c, Output: "yaml", Out: &buf}
	require.NoError(t, v.Do(ctx))
	assert.Contains(t, buf.String(), "currentFolderName: Home")
}
