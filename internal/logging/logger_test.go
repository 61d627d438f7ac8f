package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_JSONOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.json")
	logger, err := New(Config{Level: "warn", OutputPaths: []string{out}})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("skipped actor declaration", zap.Int("line", 4))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "skipped actor declaration", entry["message"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, float64(4), entry["line"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_Levels(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)

	logger := NewOrNop(Config{Level: "loud"})
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel), "fallback logger is a no-op")

	logger = NewOrNop(Config{})
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
