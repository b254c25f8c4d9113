package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, MongoStore, cfg.Store)
	assert.Equal(t, "http://127.0.0.1:9000/socialite", cfg.PublicURL())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvAndFlags(t *testing.T) {
	t.Setenv("SOCIALITE_STORE", "memory")
	t.Setenv("SOCIALITE_TOKEN_TTL", "2h")
	t.Setenv("SOCIALITE_RATE_LIMIT", "5")
	t.Setenv("SOCIALITE_HTTP_ADDR", ":7000")

	cfg, err := Load([]string{"-addr", ":8080"})
	require.NoError(t, err)
	assert.Equal(t, MemoryStore, cfg.Store)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5, cfg.RateLimit)
	assert.Equal(t, ":8080", cfg.HTTPAddr, "flags should win over env")
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("SOCIALITE_STORE", "postgres")
	_, err := Load(nil)
	assert.Error(t, err)

	t.Setenv("SOCIALITE_STORE", "memory")
	t.Setenv("SOCIALITE_TOKEN_TTL", "soon")
	_, err = Load(nil)
	assert.Error(t, err)
}

func TestValidate_RateLimit(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	cfg.RateLimit, cfg.RateBurst = 0, 0
	assert.NoError(t, cfg.Validate(), "zero disables rate limiting")

	cfg.RateLimit = -1
	assert.Error(t, cfg.Validate())

	cfg.RateLimit, cfg.RateBurst = 5, 0
	assert.Error(t, cfg.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SOCIALITE_MONGO_DB=fromfile\n"), 0600))
	t.Setenv("SOCIALITE_MONGO_DB", "")
	require.NoError(t, os.Unsetenv("SOCIALITE_MONGO_DB"))

	require.NoError(t, loadDotEnv(path))
	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, "fromfile", cfg.MongoDatabase)
	require.NoError(t, os.Unsetenv("SOCIALITE_MONGO_DB"))
}
