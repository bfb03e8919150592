package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/finder/pkg/folders"
	"tableflip.dev/finder/pkg/geometry"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	c, err := FromViper(v)
	require.NoError(t, err)

	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".finder.db"), c.Path)
	assert.Equal(t, "diskv", c.Backend)
	assert.False(t, c.DeleteCascade)
	assert.Equal(t, 100, c.HistorySize)
	assert.Equal(t, 30*time.Second, c.DragTimeout)
	assert.Equal(t, "warn", c.LogLevel)

	opts := c.Options()
	assert.Equal(t, folders.DeleteBlock, opts.DeletePolicy)
	assert.Equal(t, geometry.DefaultNodeSize, opts.NodeSize)
	assert.Equal(t, geometry.Size{}, opts.Canvas)
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte("backend: sqlite\npath: " + filepath.Join(dir, "f.sqlite") + "\ndelete_cascade: true\ndrag_timeout: 5s\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".finder.yaml"), data, 0o644))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigName(".finder")
	v.AddConfigPath(dir)

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.Engine())
	assert.Equal(t, filepath.Join(dir, "f.sqlite"), c.BasePath())
	assert.Equal(t, 5*time.Second, c.DragTimeout)
	assert.Equal(t, folders.DeleteCascade, c.Options().DeletePolicy)
	assert.NotEmpty(t, c.File)
}

func TestValidate(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyBackend, "bolt")
	_, err := FromViper(v)
	assert.Error(t, err)

	v.Set(KeyBackend, "memory")
	v.Set(KeyPath, "")
	_, err = FromViper(v)
	assert.NoError(t, err)

	v.Set(KeyHistorySize, -1)
	_, err = FromViper(v)
	assert.Error(t, err)
}
