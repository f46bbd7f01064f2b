package config

import "time"

// AppConfig holds runtime startup configuration loaded from YAML and the environment.
type AppConfig struct {
	Port           int
	Env            string
	AllowedOrigins []string
	Database       DatabaseRuntimeConfig
	Redis          RedisRuntimeConfig
	AI             AIConfig
	Extract        ExtractConfig
	RateLimit      RateLimitConfig
	Log            LogConfig
}

type DatabaseRuntimeConfig struct {
	Driver          string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// MySQL
	DSN       string
	Host      string
	Port      int
	User      string
	Password  string
	Name      string
	Charset   string
	ParseTime bool
	Loc       string
	Params    map[string]string
}

type RedisRuntimeConfig struct {
	URL string
}

// Enabled reports whether a redis url was configured.
func (c RedisRuntimeConfig) Enabled() bool { return c.URL != "" }

type AIConfig struct {
	Providers             []AIProvider
	ProviderID            string
	RequestTimeoutSeconds int
}

// RequestTimeout bounds every outbound AI call.
func (c AIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // Gemini | OpenAI | OpenAI-Compatible | Anthropic | OpenRouter
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

type ExtractConfig struct {
	FetchTimeoutSeconds int
	MaxBodyBytes        int64
	UserAgent           string
}

// FetchTimeout bounds the page download.
func (c ExtractConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

type RateLimitConfig struct {
	Enable    bool
	PerMinute int
}

type LogConfig struct {
	Level string
	Dir   string
}

type rawAppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"`
	NodeEnv        string             `yaml:"node_env"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	Database       rawDatabaseConfig  `yaml:"database"`
	MongoURI       string             `yaml:"mongodb_uri"`
	Redis          rawRedisConfig     `yaml:"redis"`
	RedisURL       string             `yaml:"redis_url"`
	AI             rawAIConfig        `yaml:"ai"`
	Extract        rawExtractConfig   `yaml:"extract"`
	RateLimit      rawRateLimitConfig `yaml:"rate_limit"`
	Log            rawLogConfig       `yaml:"log"`
}

type rawDatabaseConfig struct {
	Driver     string            `yaml:"driver"`
	URI        string            `yaml:"uri"`
	Database   string            `yaml:"database"`
	Collection string            `yaml:"collection"`
	DSN        string            `yaml:"dsn"`
	Host       string            `yaml:"host"`
	Port       int               `yaml:"port"`
	User       string            `yaml:"user"`
	Username   string            `yaml:"username"`
	Password   string            `yaml:"password"`
	Name       string            `yaml:"name"`
	Charset    string            `yaml:"charset"`
	ParseTime  *bool             `yaml:"parse_time"`
	Loc        string            `yaml:"loc"`
	Params     map[string]string `yaml:"params"`
}

type rawRedisConfig struct {
	URL string `yaml:"url"`
}

type rawAIConfig struct {
	Providers             []AIProvider `yaml:"providers"`
	ProviderID            string       `yaml:"provider_id"`
	RequestTimeoutSeconds int          `yaml:"request_timeout_seconds"`
}

type rawExtractConfig struct {
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`
	MaxBodyBytes        int64  `yaml:"max_body_bytes"`
	UserAgent           string `yaml:"user_agent"`
}

type rawRateLimitConfig struct {
	Enable    *bool `yaml:"enable"`
	PerMinute int   `yaml:"per_minute"`
}

type rawLogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}
