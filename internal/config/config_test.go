package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/casemap-backend-go/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, config.DefaultDBPath, cfg.Database.Path)
	assert.Equal(t, config.DefaultBaseURL, cfg.Source.BaseURL)
	assert.Equal(t, config.DefaultFilePattern, cfg.Source.FilePattern)
	assert.Zero(t, cfg.Source.Timeout)
	assert.True(t, cfg.Pipeline.StrictSchema)
	assert.Equal(t, 10, cfg.Pipeline.TopN)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Empty(t, cfg.Auth.JWTSecret, "no built-in signing key")
	require.ErrorIs(t, cfg.Auth.Validate(), config.ErrMissingSecret)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestLoadFromFile(t *testing.T) {
	content := `
server:
  port: ":9000"
source:
  dir: "/data/jhu"
  timeout: 30s
pipeline:
  strict_schema: false
  top_n: 5
refresh:
  schedule: "15 * * * *"
`
	path := filepath.Join(t.TempDir(), "casemap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.Equal(t, "/data/jhu", cfg.Source.Dir)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.False(t, cfg.Pipeline.StrictSchema)
	assert.Equal(t, 5, cfg.Pipeline.TopN)
	assert.Equal(t, "15 * * * *", cfg.Refresh.Schedule)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("CASEMAP_PIPELINE_TOP_N", "3")
	t.Setenv("CASEMAP_AUTH_JWT_SECRET", "s3cret")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Pipeline.TopN)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *config.Config {
		return &config.Config{
			Server:    config.ServerConfig{Port: ":8080"},
			Source:    config.SourceConfig{BaseURL: "http://example", FilePattern: "%s.csv"},
			Pipeline:  config.PipelineConfig{TopN: 10},
			RateLimit: config.RateLimitConfig{Requests: 1, Window: time.Second},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"port", func(c *config.Config) { c.Server.Port = "" }, config.ErrInvalidPort},
		{"source", func(c *config.Config) { c.Source.BaseURL = "" }, config.ErrMissingSource},
		{"pattern", func(c *config.Config) { c.Source.FilePattern = "static.csv" }, config.ErrInvalidPattern},
		{"top_n", func(c *config.Config) { c.Pipeline.TopN = 0 }, config.ErrInvalidTopN},
		{"rate", func(c *config.Config) { c.RateLimit.Window = 0 }, config.ErrInvalidRateLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestAuthValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		secret string
		want   error
	}{
		{"empty", "", config.ErrMissingSecret},
		{"short", "your-secret-key", config.ErrWeakSecret},
		{"ok", strings.Repeat("k", config.MinSecretLength), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := config.AuthConfig{JWTSecret: tt.secret}.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}
