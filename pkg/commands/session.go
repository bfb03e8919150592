package commands

import (
	"context"

	"tableflip.dev/finder/pkg/config"
	"tableflip.dev/finder/pkg/finder"
	"tableflip.dev/finder/pkg/logging"
	"tableflip.dev/finder/pkg/store"
)

// session is one opened store and the controller over it.
type session struct {
	cfg     *config.Config
	backend store.Backend
	ctl     *finder.Controller
}

// loadConfig resolves the config file, FINDER_* env vars and the global flags.
func loadConfig() (*config.Config, error) {
	v := config.New()
	if so.Backend != "" {
		v.Set(config.KeyBackend, so.Backend)
	}
	if so.Path != "" {
		v.Set(config.KeyPath, so.Path)
	}
	if so.Ephemeral {
		v.Set(config.KeyBackend, store.EngineMemory)
	}
	if so.LogLevel != "" {
		v.Set(config.KeyLogLevel, so.LogLevel)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSession opens the configured store. tune, when set, may adjust the
// resolved config before anything is opened.
func openSession(ctx context.Context, tune func(*config.Config)) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if tune != nil {
		tune(cfg)
	}
	b, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	ctl, err := finder.Open(ctx, b, cfg.Options())
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return &session{cfg: cfg, backend: b, ctl: ctl}, nil
}

func (s *session) Close() error {
	return s.backend.Close()
}
