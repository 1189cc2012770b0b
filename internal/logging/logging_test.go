package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "docqa.log")

	logger, err := New("debug", path)
	require.NoError(t, err)
	logger.Debug("document loaded")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"document loaded"`)
	assert.Contains(t, string(data), `"level":"debug"`)
}

func TestNew_Level(t *testing.T) {
	logger, err := New("warn", filepath.Join(t.TempDir(), "x.log"))
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("loud", "")

	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	assert.False(t, Nop().Core().Enabled(zapcore.ErrorLevel))
}
