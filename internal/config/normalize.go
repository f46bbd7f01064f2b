package config

import "strings"

func normalizeAppConfig(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)
	cfg.Database = normalizeDatabaseConfig(cfg.Database)
	cfg.Redis.URL = normalizeRedisRawURL(cfg.Redis.URL)
	cfg.AI = normalizeAIConfig(cfg.AI)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Extract.MaxBodyBytes <= 0 {
		cfg.Extract.MaxBodyBytes = defaultFetchMaxBytes
	}
}

func normalizeDatabaseConfig(cfg DatabaseRuntimeConfig) DatabaseRuntimeConfig {
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch cfg.Driver {
	case "", "mongodb":
		cfg.Driver = DriverMongo
	case "mariadb":
		cfg.Driver = DriverMySQL
	}
	cfg.MongoURI = strings.TrimSpace(cfg.MongoURI)
	if cfg.MongoURI == "" {
		cfg.MongoURI = defaultMongoURI
	}
	if strings.TrimSpace(cfg.MongoDatabase) == "" {
		cfg.MongoDatabase = defaultMongoDatabase
	}
	if strings.TrimSpace(cfg.MongoCollection) == "" {
		cfg.MongoCollection = defaultMongoCollection
	}

	cfg.DSN = strings.TrimSpace(cfg.DSN)
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.User = strings.TrimSpace(cfg.User)
	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.Host == "" {
		cfg.Host = defaultDBHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultDBPort
	}
	if cfg.User == "" {
		cfg.User = defaultDBUser
	}
	if cfg.Name == "" {
		cfg.Name = defaultDBName
	}
	if strings.TrimSpace(cfg.Charset) == "" {
		cfg.Charset = defaultDBCharset
	}
	if strings.TrimSpace(cfg.Loc) == "" {
		cfg.Loc = defaultDBLoc
	}
	return cfg
}

func normalizeAIConfig(cfg AIConfig) AIConfig {
	providers := make([]AIProvider, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		p.ID = strings.TrimSpace(p.ID)
		p.Type = strings.TrimSpace(p.Type)
		if p.Type == "" {
			p.Type = defaultAIProviderType
		}
		if p.ID == "" {
			p.ID = NormalizeProviderType(p.Type)
		}
		p.APIKey = strings.TrimSpace(p.APIKey)
		p.Endpoint = strings.TrimSpace(p.Endpoint)
		p.DefaultModel = strings.TrimSpace(p.DefaultModel)
		providers = append(providers, p)
	}
	cfg.Providers = providers
	cfg.ProviderID = strings.TrimSpace(cfg.ProviderID)
	if cfg.RequestTimeoutSeconds == 0 {
		cfg.RequestTimeoutSeconds = defaultAIRequestTimeout
	}
	return cfg
}

// NormalizeProviderType folds "OpenAI_Compatible", "openai compatible" and
// friends into one lowercase dashed form.
func NormalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}

// ActiveProvider returns the provider the AI gateway should talk to, or nil
// when none is usable. A provider is usable when it is enabled and carries an
// API key; the configured provider_id wins over declaration order.
func (c AIConfig) ActiveProvider() *AIProvider {
	usable := func(p AIProvider) bool { return p.Enabled && p.APIKey != "" }

	if c.ProviderID != "" {
		for _, p := range c.Providers {
			if p.ID == c.ProviderID && usable(p) {
				selected := p
				return &selected
			}
		}
	}
	for _, p := range c.Providers {
		if usable(p) {
			selected := p
			return &selected
		}
	}
	return nil
}

func normalizeRedisRawURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "redis://") || strings.HasPrefix(trimmed, "rediss://") {
		return trimmed
	}
	return "redis://" + trimmed
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	if trimmed == "" {
		return defaultEnv
	}
	return trimmed
}

func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
