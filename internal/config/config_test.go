package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, defaultMongoCollection, cfg.Database.MongoCollection)
	assert.Equal(t, 30, cfg.AI.RequestTimeoutSeconds)
	assert.Equal(t, 15, cfg.Extract.FetchTimeoutSeconds)
	assert.Nil(t, cfg.AI.ActiveProvider())
	assert.False(t, cfg.Redis.Enabled())
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
port: 8080
env: production
redis_url: localhost:6379/1
database:
  driver: MySQL
  host: db.internal
  name: brain
ai:
  provider_id: claude
  providers:
    - id: gem
      type: Gemini
      api_key: " k1 "
      enabled: true
    - id: claude
      type: Anthropic
      api_key: k2
      enabled: true
rate_limit:
  enable: false
  per_minute: 5
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Contains(t, cfg.Database.DSNValue(), "tcp(db.internal:3306)/brain?")
	assert.False(t, cfg.RateLimit.Enable)
	assert.Equal(t, 5, cfg.RateLimit.PerMinute)

	active := cfg.AI.ActiveProvider()
	require.NotNil(t, active)
	assert.Equal(t, "claude", active.ID)
	assert.Equal(t, "k1", cfg.AI.Providers[0].APIKey)
}

func TestParseRejectsUnknownFieldsAndBadValues(t *testing.T) {
	_, err := Parse([]byte("nope: 1\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("port: 70000\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("database:\n  driver: sqlite\n"))
	assert.Error(t, err)
}

func TestActiveProviderSkipsDisabledAndKeyless(t *testing.T) {
	cfg := AIConfig{Providers: []AIProvider{
		{ID: "a", APIKey: "x", Enabled: false},
		{ID: "b", Enabled: true},
		{ID: "c", APIKey: "y", Enabled: true},
	}, ProviderID: "a"}

	active := cfg.ActiveProvider()
	require.NotNil(t, active)
	assert.Equal(t, "c", active.ID)
}

func TestApplyEnvGeminiKey(t *testing.T) {
	cfg := defaultAppConfig()
	env := map[string]string{
		"GEMINI_API_KEY":  "secret",
		"PORT":            "4000",
		"DATABASE_DRIVER": "memory",
	}
	applyEnv(&cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	normalizeAppConfig(&cfg)
	require.NoError(t, validate(&cfg))

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	active := cfg.AI.ActiveProvider()
	require.NotNil(t, active)
	assert.Equal(t, "gemini", NormalizeProviderType(active.Type))
	assert.Equal(t, "secret", active.APIKey)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9090\ndatabase:\n  driver: memory\n"), 0o644))
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_DRIVER", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
}
