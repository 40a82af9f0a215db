package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "EVERYTHING", conf.Verbosity)
	assert.Equal(t, "mem", conf.StorageType)
	assert.Equal(t, ":8001", conf.Addr)
	assert.Equal(t, uint64(0), conf.RandSeed)
	assert.False(t, conf.Quiet)
}

func TestLoadReadsQuietOverride(t *testing.T) {
	os.Setenv("RULESYS_QUIET", "true")
	defer os.Unsetenv("RULESYS_QUIET")

	conf, err := Load()
	require.NoError(t, err)
	assert.True(t, conf.Quiet)
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	os.Setenv("RULESYS_STORAGE", "bolt")
	os.Setenv("RULESYS_ADDR", ":9090")
	defer os.Unsetenv("RULESYS_STORAGE")
	defer os.Unsetenv("RULESYS_ADDR")

	conf, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "bolt", conf.StorageType)
	assert.Equal(t, ":9090", conf.Addr)
}
