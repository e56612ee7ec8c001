package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 30*time.Second, cfg.StatementTimeout)
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(strings.NewReader("statement_timeout: 5s\njoin_hash_threshold: 1000\n"))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.StatementTimeout)
	assert.Equal(t, 1000, cfg.JoinHashThreshold)
}

func TestLoadEmptyReturnsDefault(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadInvalidYAMLErrors(t *testing.T) {
	_, err := Load(strings.NewReader("not: [valid"))
	require.Error(t, err)
}
