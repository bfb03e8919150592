package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	require.NoError(t, SetLevel("debug"))
	defer func() {
		SetOutput(os.Stderr)
		_ = SetLevel("warn")
	}()

	For("store").Debug("hello")
	assert.Contains(t, buf.String(), "component=store")
	assert.Contains(t, buf.String(), "hello")
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	assert.Error(t, SetLevel("chatty"))
	assert.NotEqual(t, logrus.Level(99), Logger().GetLevel())
}
