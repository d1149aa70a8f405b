package env

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "GeoGen.mat", s.MatFile)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MICROGEN_LOG_LEVEL", "debug")
	t.Setenv("MICROGEN_MAT_FILE", "/tmp/pad.mat")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "/tmp/pad.mat", s.MatFile)
}

type badSettings struct {
	Retries int `env:"MICROGEN_TEST_RETRIES"`
}

func TestParseError(t *testing.T) {
	t.Setenv("MICROGEN_TEST_RETRIES", "lots")

	err := Parse(&badSettings{})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "parse env:"), err.Error())
}
