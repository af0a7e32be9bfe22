package vexecd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerKeepsStderr(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "vexecd.log")

	r, w, err := os.Pipe()
	require.NoError(t, err)
	origStderr := os.Stderr
	os.Stderr = w
	defer func() {
		os.Stderr = origStderr
		log.SetOutput(origStderr)
	}()

	setupLogger(&Config{Execd: ExecdConfig{LogPath: logPath, LogLevel: "info"}})
	log.Error("agent log check")
	require.NoError(t, w.Close())

	piped, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Contains(t, string(piped), "agent log check")

	fileContent, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(fileContent), "agent log check")
}
