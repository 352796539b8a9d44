package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turns.log")
	l := NewIsolatedLogger(path)

	l.Debug("Turn", "dropped below info", nil)
	l.Info("Turn", "turn recorded", map[string]interface{}{"session_id": "s1"})
	l.Error("Turn", "archive failed", map[string]interface{}{"error": "boom"})
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "INFO", first["level"])
	assert.Equal(t, "turn recorded", first["message"])
	assert.Equal(t, "Turn", first["module"])
	assert.Equal(t, "s1", first["details"].(map[string]interface{})["session_id"])

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "boom", second["error_ref"])
}

func TestNopLogger(t *testing.T) {
	var l ILogger = NewNopLogger()
	assert.NotPanics(t, func() {
		l.Info("x", "y", nil)
		_ = l.Sync()
	})
}
