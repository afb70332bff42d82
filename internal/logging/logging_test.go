package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileReceivesAllEnabledLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maskarada.log")

	log, cleanup, err := New("info", path)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("transfer completed")
	log.Error("ledger out of balance")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "transfer completed")
	assert.Contains(t, string(data), "ledger out of balance")
	assert.NotContains(t, string(data), "hidden")
}

func TestInvalidLevel(t *testing.T) {
	_, _, err := New("chatty", "")
	assert.Error(t, err)
}
