package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("json format carries the service attribute", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{
			Level:       "info",
			Format:      LogFormatJSON,
			Output:      &buf,
			ServiceName: "tempo",
		})

		logger.Info("hello", slog.String("key", "value"))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "tempo", entry["service"])
		assert.Equal(t, "value", entry["key"])
	})

	t.Run("level filters lower records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: "warn", Format: LogFormatText, Output: &buf})

		logger.Info("dropped")
		assert.Empty(t, buf.String())

		logger.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("unknown level defaults to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: "verbose", Format: LogFormatText, Output: &buf})

		logger.Debug("dropped")
		assert.Empty(t, buf.String())

		logger.Info("kept")
		assert.Contains(t, buf.String(), "kept")
	})
}
