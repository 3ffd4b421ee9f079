package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvMissingFileIsNotAnError(t *testing.T) {
	err := LoadEnv(filepath.Join(t.TempDir(), "does-not-exist.env"))
	assert.NoError(t, err)
}

func TestLoadEnvSetsProcessEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CLUON_SHAREDMEMORY_POSIX=1\nCLUON_HOST=localhost\n"), 0o600))
	t.Setenv("CLUON_SHAREDMEMORY_POSIX", "")
	t.Setenv("CLUON_HOST", "")

	require.NoError(t, LoadEnv(path))

	d := FromEnv()
	assert.True(t, d.SharedMemoryPOSIX)
	assert.Equal(t, "localhost", d.Host)
}

func TestLoadYAMLParsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "sharedMemoryPOSIX: true\nhost: 127.0.0.1\nport: 8080\nmetricsAddr: \":9090\"\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	d, err := LoadYAML(path)
	require.NoError(t, err)
	assert.True(t, d.SharedMemoryPOSIX)
	assert.Equal(t, "127.0.0.1", d.Host)
	assert.Equal(t, 8080, d.Port)
	assert.Equal(t, ":9090", d.MetricsAddr)
}

func TestLoadYAMLMissingFileIsAnError(t *testing.T) {
	_, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFromEnvDefaultsToZeroValues(t *testing.T) {
	t.Setenv("CLUON_SHAREDMEMORY_POSIX", "")
	t.Setenv("CLUON_HOST", "")
	t.Setenv("CLUON_PORT", "")
	t.Setenv("CLUON_METRICS_ADDR", "")

	d := FromEnv()
	assert.False(t, d.SharedMemoryPOSIX)
	assert.Equal(t, "", d.Host)
	assert.Equal(t, 0, d.Port)
}
