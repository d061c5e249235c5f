package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew_InfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	logger.Debug("hidden")
	logger.WithField("line", 2).Warn("Skipping invalid JSON")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, `msg="Skipping invalid JSON"`)
	assert.Contains(t, out, "line=2")
	assert.NotContains(t, out, "time=")
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.Debug("shape detected")
	assert.Contains(t, buf.String(), "shape detected")
}
