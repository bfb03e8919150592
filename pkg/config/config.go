// Package config loads finder settings from .finder.yaml, FINDER_* environment
// variables and flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/finder/pkg/finder"
	"tableflip.dev/finder/pkg/folders"
	"tableflip.dev/finder/pkg/geometry"
	"tableflip.dev/finder/pkg/store"
)

// Keys understood in the config file and as FINDER_<KEY> env vars.
const (
	KeyPath          = "path"
	KeyBackend       = "backend"
	KeyDeleteCascade = "delete_cascade"
	KeyHistorySize   = "history_size"
	KeyNodeSize      = "node_size"
	KeyCanvasWidth   = "canvas_width"
	KeyCanvasHeight  = "canvas_height"
	KeyDragTimeout   = "drag_timeout"
	KeyLogLevel      = "log_level"
)

// Config is the resolved configuration.
type Config struct {
	Path          string        `json:"path" yaml:"path"`
	Backend       string        `json:"backend" yaml:"backend"`
	DeleteCascade bool          `json:"deleteCascade" yaml:"deleteCascade"`
	HistorySize   int           `json:"historySize" yaml:"historySize"`
	NodeSize      float64       `json:"nodeSize" yaml:"nodeSize"`
	CanvasWidth   float64       `json:"canvasWidth" yaml:"canvasWidth"`
	CanvasHeight  float64       `json:"canvasHeight" yaml:"canvasHeight"`
	DragTimeout   time.Duration `json:"dragTimeout" yaml:"dragTimeout"`
	LogLevel      string        `json:"logLevel" yaml:"logLevel"`

	// File is the config file that was read, if any.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

var _ store.Config = (*Config)(nil)

// SetDefaults registers the default for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPath, "~/.finder.db")
	v.SetDefault(KeyBackend, store.EngineDiskv)
	v.SetDefault(KeyDeleteCascade, false)
	v.SetDefault(KeyHistorySize, 100)
	v.SetDefault(KeyNodeSize, geometry.DefaultNodeSize.Width)
	v.SetDefault(KeyCanvasWidth, 0)
	v.SetDefault(KeyCanvasHeight, 0)
	v.SetDefault(KeyDragTimeout, finder.DefaultDragTimeout)
	v.SetDefault(KeyLogLevel, "warn")
}

// New returns a viper instance set up the way Load reads it.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName(".finder") // .yaml is implicit
	v.SetEnvPrefix("FINDER")
	v.AutomaticEnv()

	if override := os.Getenv("FINDER_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	return v
}

// Load reads the config file, if one exists, and resolves v.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = New()
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper resolves the keys already present in v.
func FromViper(v *viper.Viper) (*Config, error) {
	path, err := homedir.Expand(v.GetString(KeyPath))
	if err != nil {
		return nil, fmt.Errorf("config: expanding path: %w", err)
	}
	c := &Config{
		Path:          path,
		Backend:       strings.ToLower(strings.TrimSpace(v.GetString(KeyBackend))),
		DeleteCascade: v.GetBool(KeyDeleteCascade),
		HistorySize:   v.GetInt(KeyHistorySize),
		NodeSize:      v.GetFloat64(KeyNodeSize),
		CanvasWidth:   v.GetFloat64(KeyCanvasWidth),
		CanvasHeight:  v.GetFloat64(KeyCanvasHeight),
		DragTimeout:   v.GetDuration(KeyDragTimeout),
		LogLevel:      v.GetString(KeyLogLevel),
		File:          v.ConfigFileUsed(),
	}
	return c, c.Validate()
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	switch c.Backend {
	case store.EngineDiskv, store.EngineSQLite, store.EngineMemory:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.Backend != store.EngineMemory && c.Path == "" {
		return fmt.Errorf("config: %s backend needs a path", c.Backend)
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("config: history_size must not be negative")
	}
	if c.NodeSize < 0 || c.CanvasWidth < 0 || c.CanvasHeight < 0 {
		return fmt.Errorf("config: sizes must not be negative")
	}
	return nil
}

func (c *Config) BasePath() string {
	return c.Path
}

func (c *Config) Engine() string {
	return c.Backend
}

// Options converts c into controller options.
func (c *Config) Options() finder.Options {
	policy := folders.DeleteBlock
	if c.DeleteCascade {
		policy = folders.DeleteCascade
	}
	return finder.Options{
		DeletePolicy: policy,
		HistoryLimit: c.HistorySize,
		NodeSize:     geometry.Size{Width: c.NodeSize, Height: c.NodeSize},
		Canvas:       geometry.Size{Width: c.CanvasWidth, Height: c.CanvasHeight},
		DragTimeout:  c.DragTimeout,
	}
}
