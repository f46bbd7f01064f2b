package config

import (
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// loadDotEnv populates the process environment from .env files when present.
// Variables already set in the environment win.
func loadDotEnv() {
	for _, path := range []string{".env.local", ".env"} {
		_ = godotenv.Load(path)
	}
}

type lookupFunc func(key string) (string, bool)

// applyEnv overlays well-known environment variables on top of the file config.
// GEMINI_API_KEY alone is enough to switch the AI gateway on.
func applyEnv(cfg *AppConfig, lookup lookupFunc) {
	get := func(key string) string {
		v, ok := lookup(key)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}

	if v := get("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := get("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := get("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := get("MONGODB_URI"); v != "" {
		cfg.Database.MongoURI = v
	}
	if v := get("MYSQL_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := get("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}

	apiKey := get("AI_API_KEY")
	if apiKey == "" {
		apiKey = get("GEMINI_API_KEY")
	}
	providerType := get("AI_PROVIDER")
	model := get("AI_MODEL")
	endpoint := get("AI_ENDPOINT")
	if apiKey == "" && providerType == "" && model == "" && endpoint == "" {
		return
	}

	if providerType == "" {
		providerType = defaultAIProviderType
	}
	id := "env"
	provider := AIProvider{
		ID:           id,
		Name:         "environment",
		Type:         providerType,
		APIKey:       apiKey,
		Endpoint:     endpoint,
		DefaultModel: model,
		Enabled:      true,
	}
	for i, p := range cfg.AI.Providers {
		if p.ID == id {
			cfg.AI.Providers[i] = provider
			cfg.AI.ProviderID = id
			return
		}
	}
	cfg.AI.Providers = append(cfg.AI.Providers, provider)
	cfg.AI.ProviderID = id
}
