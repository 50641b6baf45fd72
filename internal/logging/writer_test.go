package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatingWriterWritesThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")

	w, err := NewRotatingWriter(path, 1, 3)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	n, err := w.Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	require.NoError(t, w.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestRotatingWriterRotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.log")

	// 1MB limit; write two chunks that together exceed it.
	w, err := NewRotatingWriter(path, 1, 3)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	chunk := strings.Repeat("x", 700*1024)
	_, err = w.Write([]byte(chunk))
	require.NoError(t, err)
	_, err = w.Write([]byte(chunk))
	require.NoError(t, err)

	// The first chunk is now in server.log.1, the second in server.log.
	rotated, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Len(t, rotated, 700*1024)

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, current, 700*1024)
}

func TestRotatingWriterPrunesOldFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.log")

	w, err := NewRotatingWriter(path, 1, 2)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	chunk := strings.Repeat("x", 1024*1024)
	for i := 0; i < 5; i++ {
		_, err = w.Write([]byte(chunk))
		require.NoError(t, err)
	}

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(matches), 2)
}

func TestSetupStderrOnly(t *testing.T) {
	logger, cleanup, err := Setup(Config{Level: "debug"})
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, logger)
	assert.True(t, logger.Enabled(nil, parseLevel("debug")))
}

func TestSetupFileLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")

	logger, cleanup, err := Setup(Config{
		Level:     "info",
		FilePath:  path,
		MaxSizeMB: 1,
		MaxFiles:  2,
	})
	require.NoError(t, err)

	logger.Info("engine_ready", "documents", 3)
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"engine_ready"`)
	assert.Contains(t, string(data), `"documents":3`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, parseLevel("debug").String(), "DEBUG")
	assert.Equal(t, parseLevel("WARN").String(), "WARN")
	assert.Equal(t, parseLevel("warning").String(), "WARN")
	assert.Equal(t, parseLevel("bogus").String(), "INFO")
}
