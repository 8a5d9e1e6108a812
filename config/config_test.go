package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DASHSCOPE_API_KEY", "NPD_BASE_URL", "NPD_MODEL", "NPD_MAX_RETRIES", "NPD_TIMEOUT"} {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ModelMax, cfg.Model)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 60, cfg.TimeoutSeconds)
	assert.Equal(t, []string{"json", "text"}, cfg.Formats)
	assert.Empty(t, cfg.APIKey)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DASHSCOPE_API_KEY", "sk-secret")
	t.Setenv("NPD_MODEL", ModelTurbo)
	t.Setenv("NPD_MAX_RETRIES", "5")
	t.Setenv("NPD_TIMEOUT", "120")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sk-secret", cfg.APIKey)
	assert.Equal(t, ModelTurbo, cfg.Model)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 120, cfg.TimeoutSeconds)
}

func TestYAMLOverlay(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(
		"api_key: file-key\nmodel: qwen-plus\nmax_retries: 1\nformats:\n  - sarif\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, ModelPlus, cfg.Model)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, []string{"sarif"}, cfg.Formats)
	// untouched fields keep their defaults
	assert.Equal(t, 60, cfg.TimeoutSeconds)
}

func TestEnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DASHSCOPE_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: file-key\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) { c.APIKey = "k" }},
		{name: "zero retries disables retrying", mutate: func(c *Config) { c.APIKey = "k"; c.MaxRetries = 0 }},
		{name: "missing key", mutate: func(c *Config) {}, wantErr: "DASHSCOPE_API_KEY"},
		{name: "empty base url", mutate: func(c *Config) { c.APIKey = "k"; c.BaseURL = "" }, wantErr: "base URL"},
		{name: "negative retries", mutate: func(c *Config) { c.APIKey = "k"; c.MaxRetries = -1 }, wantErr: "max_retries"},
		{name: "zero timeout", mutate: func(c *Config) { c.APIKey = "k"; c.TimeoutSeconds = 0 }, wantErr: "timeout_seconds"},
		{name: "bad format", mutate: func(c *Config) { c.APIKey = "k"; c.Formats = []string{"pdf"} }, wantErr: "format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateMissingKeySentinel(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAPIKey)
}
