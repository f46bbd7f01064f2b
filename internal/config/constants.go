package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 3000
	defaultEnv        = "development"

	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"

	defaultDriver          = DriverMongo
	defaultMongoURI        = "mongodb://127.0.0.1:27017"
	defaultMongoDatabase   = "second_brain"
	defaultMongoCollection = "ideas"
	defaultDBHost          = "127.0.0.1"
	defaultDBPort          = 3306
	defaultDBUser          = "root"
	defaultDBPassword      = "password"
	defaultDBName          = "second_brain"
	defaultDBCharset       = "utf8mb4"
	defaultDBLoc           = "Local"

	defaultAIProviderType   = "gemini"
	defaultAIRequestTimeout = 30
	defaultFetchTimeout     = 15
	defaultFetchMaxBytes    = 5 << 20

	defaultRateLimitPerMinute = 30
	defaultLogLevel           = "info"
)
