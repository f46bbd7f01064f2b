package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New("development", "loud", "")
	assert.Error(t, err)
}

func TestNewWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	log, err := New("production", "info", dir)
	require.NoError(t, err)

	log.Info("note captured")
	log.Debug("dropped below level")

	data, err := os.ReadFile(filepath.Join(dir, DailyFilename(time.Now())))
	require.NoError(t, err)
	assert.Contains(t, string(data), "note captured")
	assert.NotContains(t, string(data), "dropped below level")
}

func TestDailyFilename(t *testing.T) {
	day := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "second-brain_2024-03-09.log", DailyFilename(day))
}
