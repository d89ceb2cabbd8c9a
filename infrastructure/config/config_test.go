package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainconfig "contrastboard/domain/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 4.5, cfg.Domain.ContrastThreshold)
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
address = ":9000"
log_level = "debug"
shutdown_timeout = "3s"
cors_origins = ["http://localhost:3000"]

[boards]
max_boards = 4
query_cache_ttl = "30s"

[contrast]
threshold = 7.0

[layout]
viewport_width = 1600.0

[import]
seed = 99
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_ADDRESS", ":9100")
	t.Setenv("ID_STRATEGY", "uuid")
	t.Setenv("IMPORT_RATE_LIMIT", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.ServerAddress, "environment overrides the file")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 4, cfg.MaxBoards)
	assert.Equal(t, 30*time.Second, cfg.QueryCacheTTL)
	assert.Equal(t, 7.0, cfg.Domain.ContrastThreshold)
	assert.Equal(t, 1600.0, cfg.Domain.ViewportWidth)
	assert.Equal(t, 800.0, cfg.Domain.ViewportHeight, "absent keys keep defaults")
	assert.Equal(t, int64(99), cfg.Domain.KMeansSeed)
	assert.Equal(t, domainconfig.IDStrategyUUID, cfg.Domain.IDStrategy)
	assert.Zero(t, cfg.ImportRateLimit, "zero disables the import limiter")
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Run("threshold out of range", func(t *testing.T) {
		t.Setenv("CONTRAST_THRESHOLD", "22")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "contrast threshold")
	})

	t.Run("unknown id strategy", func(t *testing.T) {
		t.Setenv("ID_STRATEGY", "random")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "id strategy")
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("IMPORT_RATE_LIMIT", "-1")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "IMPORT_RATE_LIMIT")
	})

	t.Run("bad cache ttl", func(t *testing.T) {
		t.Setenv("QUERY_CACHE_TTL", "soon")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "QUERY_CACHE_TTL")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("zero viewport", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Domain.ViewportHeight = 0
		assert.Error(t, cfg.Validate())
	})
}
