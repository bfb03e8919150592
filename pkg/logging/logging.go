// Package logging hands out component loggers that share one logrus root.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	root *logrus.Logger
	once sync.Once
)

// Logger returns the shared root logger. It writes to stderr at warn level
// until configured otherwise.
func Logger() *logrus.Logger {
	once.Do(func() {
		root = logrus.New()
		root.SetOutput(os.Stderr)
		root.SetLevel(logrus.WarnLevel)
		if lvl, err := logrus.ParseLevel(os.Getenv("FINDER_LOG_LEVEL")); err == nil {
			root.SetLevel(lvl)
		}
	})
	return root
}

// For returns a logger tagged with the given component.
func For(component string) *logrus.Entry {
	return Logger().WithField("component", component)
}

// SetLevel parses and applies a level name such as "debug" or "warn".
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return err
	}
	Logger().SetLevel(lvl)
	return nil
}

// SetOutput redirects all component loggers.
func SetOutput(w io.Writer) {
	Logger().SetOutput(w)
}
