package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML config at configPath, overlays environment variables and
// returns the normalized result. A missing file at the default path is not an
// error: defaults plus environment are enough to boot.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	loadDotEnv()

	cfg := defaultAppConfig()
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		raw, err := decodeRaw(content)
		if err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
		applyRawAppConfig(&cfg, raw)
	case errors.Is(err, fs.ErrNotExist) && path == DefaultConfigPath:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnv(&cfg, os.LookupEnv)
	normalizeAppConfig(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &cfg, nil
}

// Parse builds a config from YAML bytes without touching the file system or
// the process environment.
func Parse(content []byte) (*AppConfig, error) {
	cfg := defaultAppConfig()
	if len(bytes.TrimSpace(content)) > 0 {
		raw, err := decodeRaw(content)
		if err != nil {
			return nil, err
		}
		applyRawAppConfig(&cfg, raw)
	}
	normalizeAppConfig(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeRaw(content []byte) (rawAppConfig, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	raw := rawAppConfig{}
	// an empty document decodes to io.EOF and means "no overrides"
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return raw, err
	}
	return raw, nil
}

func validate(cfg *AppConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	switch cfg.Database.Driver {
	case DriverMongo, DriverMySQL, DriverMemory:
	default:
		return fmt.Errorf("invalid database.driver %q, expected mongo|mysql|memory", cfg.Database.Driver)
	}
	if cfg.Database.Driver == DriverMySQL && (cfg.Database.Port < 1 || cfg.Database.Port > 65535) {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", cfg.Database.Port)
	}
	if cfg.RateLimit.PerMinute < 1 {
		return fmt.Errorf("invalid rate_limit.per_minute %d, expected >= 1", cfg.RateLimit.PerMinute)
	}
	if cfg.AI.RequestTimeoutSeconds < 1 {
		return fmt.Errorf("invalid ai.request_timeout_seconds %d, expected >= 1", cfg.AI.RequestTimeoutSeconds)
	}
	if cfg.Extract.FetchTimeoutSeconds < 1 {
		return fmt.Errorf("invalid extract.fetch_timeout_seconds %d, expected >= 1", cfg.Extract.FetchTimeoutSeconds)
	}
	return nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Driver:          defaultDriver,
			MongoURI:        defaultMongoURI,
			MongoDatabase:   defaultMongoDatabase,
			MongoCollection: defaultMongoCollection,
			Host:            defaultDBHost,
			Port:            defaultDBPort,
			User:            defaultDBUser,
			Password:        defaultDBPassword,
			Name:            defaultDBName,
			Charset:         defaultDBCharset,
			ParseTime:       true,
			Loc:             defaultDBLoc,
		},
		AI: AIConfig{
			RequestTimeoutSeconds: defaultAIRequestTimeout,
		},
		Extract: ExtractConfig{
			FetchTimeoutSeconds: defaultFetchTimeout,
			MaxBodyBytes:        defaultFetchMaxBytes,
		},
		RateLimit: RateLimitConfig{
			Enable:    true,
			PerMinute: defaultRateLimitPerMinute,
		},
		Log: LogConfig{
			Level: defaultLogLevel,
		},
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.NodeEnv); v != "" {
		cfg.Env = v
	}
	if raw.AllowedOrigins != nil {
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	}

	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw)

	if v := strings.TrimSpace(raw.Redis.URL); v != "" {
		cfg.Redis.URL = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.Redis.URL = v
	}

	if raw.AI.Providers != nil {
		cfg.AI.Providers = append([]AIProvider(nil), raw.AI.Providers...)
	}
	if v := strings.TrimSpace(raw.AI.ProviderID); v != "" {
		cfg.AI.ProviderID = v
	}
	if raw.AI.RequestTimeoutSeconds != 0 {
		cfg.AI.RequestTimeoutSeconds = raw.AI.RequestTimeoutSeconds
	}

	if raw.Extract.FetchTimeoutSeconds != 0 {
		cfg.Extract.FetchTimeoutSeconds = raw.Extract.FetchTimeoutSeconds
	}
	if raw.Extract.MaxBodyBytes > 0 {
		cfg.Extract.MaxBodyBytes = raw.Extract.MaxBodyBytes
	}
	if v := strings.TrimSpace(raw.Extract.UserAgent); v != "" {
		cfg.Extract.UserAgent = v
	}

	if raw.RateLimit.Enable != nil {
		cfg.RateLimit.Enable = *raw.RateLimit.Enable
	}
	if raw.RateLimit.PerMinute != 0 {
		cfg.RateLimit.PerMinute = raw.RateLimit.PerMinute
	}

	if v := strings.TrimSpace(raw.Log.Level); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(raw.Log.Dir); v != "" {
		cfg.Log.Dir = v
	}
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawAppConfig) DatabaseRuntimeConfig {
	cfg := current
	db := raw.Database

	if v := strings.TrimSpace(db.Driver); v != "" {
		cfg.Driver = v
	}
	if v := strings.TrimSpace(db.URI); v != "" {
		cfg.MongoURI = v
	}
	if v := strings.TrimSpace(raw.MongoURI); v != "" {
		cfg.MongoURI = v
	}
	if v := strings.TrimSpace(db.Database); v != "" {
		cfg.MongoDatabase = v
	}
	if v := strings.TrimSpace(db.Collection); v != "" {
		cfg.MongoCollection = v
	}
	if v := strings.TrimSpace(db.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(db.Host); v != "" {
		cfg.Host = v
	}
	if db.Port != 0 {
		cfg.Port = db.Port
	}
	if v := strings.TrimSpace(db.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(db.Username); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(db.Password); v != "" {
		cfg.Password = v
	}
	if v := strings.TrimSpace(db.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(db.Charset); v != "" {
		cfg.Charset = v
	}
	if db.ParseTime != nil {
		cfg.ParseTime = *db.ParseTime
	}
	if v := strings.TrimSpace(db.Loc); v != "" {
		cfg.Loc = v
	}
	if db.Params != nil {
		cfg.Params = copyStringMap(db.Params)
	}
	return cfg
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// Addr returns the listen address.
func (c *AppConfig) Addr() string { return fmt.Sprintf(":%d", c.Port) }
