package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew_QuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)
	logger.Debug("skipped line", zap.Int("line", 3))
	logger.Error("boom")
	assert.Empty(t, buf.String())
}

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)
	logger.Debug("skipped line", zap.Int("line", 3))
	_ = logger.Sync()

	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "streamfmt")
	assert.Contains(t, out, "skipped line")
	assert.Contains(t, out, `"line": 3`)
}

func TestNew_NilWriter(t *testing.T) {
	assert.NotPanics(t, func() {
		New(nil, true).Info("dropped")
	})
}
