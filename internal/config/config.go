package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Supported persistence drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

const (
	defaultConfigFile = "config.yaml"
	defaultEnvFile    = ".env"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Mongo    MongoConfig    `koanf:"mongo"`
	Logger   LoggerConfig   `koanf:"log"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Seed     SeedConfig     `koanf:"seed"`
	S3       S3Config       `koanf:"s3"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	URL             string        `koanf:"url"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Database        string        `koanf:"name"`
	MaxConnections  int           `koanf:"max_connections"`
	MinConnections  int           `koanf:"min_connections"`
	MaxConnLifetime int           `koanf:"max_conn_lifetime"` // seconds
	QueryTimeout    time.Duration `koanf:"query_timeout"`
	CreateSchema    bool          `koanf:"create_schema"`
}

// MongoConfig holds MongoDB configuration, used when the driver is "mongo".
type MongoConfig struct {
	URL        string `koanf:"url"`
	Database   string `koanf:"database"`
	Collection string `koanf:"collection"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "json" or "console"
}

// CatalogConfig holds settings for the catalogue API itself.
type CatalogConfig struct {
	// PublicBaseURL prefixes the product links returned by bulk matching.
	// Empty means http://localhost:<server port>.
	PublicBaseURL string `koanf:"public_base_url"`
}

// SeedConfig controls the catalogue import run at startup.
type SeedConfig struct {
	Enabled        bool   `koanf:"enabled"`
	Files          string `koanf:"files"` // comma separated
	SkipIfNotEmpty bool   `koanf:"skip_if_not_empty"`
}

// S3Config holds AWS S3 configuration for seed files.
type S3Config struct {
	Enabled bool   `koanf:"enabled"`
	Bucket  string `koanf:"bucket"`
	Region  string `koanf:"region"`
	Prefix  string `koanf:"prefix"` // Path prefix within bucket (e.g., "catalog/")
}

// envKeys maps the supported environment variables to configuration paths.
var envKeys = map[string]string{
	"SERVER_HOST":             "server.host",
	"SERVER_PORT":             "server.port",
	"SERVER_READ_TIMEOUT":     "server.read_timeout",
	"SERVER_WRITE_TIMEOUT":    "server.write_timeout",
	"SERVER_IDLE_TIMEOUT":     "server.idle_timeout",
	"SERVER_SHUTDOWN_TIMEOUT": "server.shutdown_timeout",
	"DB_DRIVER":               "database.driver",
	"DB_URL":                  "database.url",
	"DB_HOST":                 "database.host",
	"DB_PORT":                 "database.port",
	"DB_USER":                 "database.user",
	"DB_PASSWORD":             "database.password",
	"DB_NAME":                 "database.name",
	"DB_MAX_CONNECTIONS":      "database.max_connections",
	"DB_MIN_CONNECTIONS":      "database.min_connections",
	"DB_MAX_CONN_LIFETIME":    "database.max_conn_lifetime",
	"DB_QUERY_TIMEOUT":        "database.query_timeout",
	"DB_CREATE_SCHEMA":        "database.create_schema",
	"MONGO_URL":               "mongo.url",
	"MONGO_DATABASE":          "mongo.database",
	"MONGO_COLLECTION":        "mongo.collection",
	"LOG_LEVEL":               "log.level",
	"LOG_FORMAT":              "log.format",
	"PUBLIC_BASE_URL":         "catalog.public_base_url",
	"SEED_ENABLED":            "seed.enabled",
	"SEED_FILES":              "seed.files",
	"SEED_SKIP_IF_NOT_EMPTY":  "seed.skip_if_not_empty",
	"S3_ENABLED":              "s3.enabled",
	"S3_BUCKET":               "s3.bucket",
	"S3_REGION":               "s3.region",
	"S3_PREFIX":               "s3.prefix",
}

func defaults() map[string]any {
	return map[string]any{
		"server.host":                "0.0.0.0",
		"server.port":                5000,
		"server.read_timeout":        "15s",
		"server.write_timeout":       "15s",
		"server.idle_timeout":        "60s",
		"server.shutdown_timeout":    "30s",
		"database.driver":            DriverPostgres,
		"database.host":              "localhost",
		"database.port":              5432,
		"database.user":              "postgres",
		"database.name":              "catalog",
		"database.max_connections":   25,
		"database.min_connections":   5,
		"database.max_conn_lifetime": 300,
		"database.query_timeout":     "5s",
		"database.create_schema":     true,
		"mongo.database":             "catalog",
		"mongo.collection":           "products",
		"log.level":                  "info",
		"log.format":                 "json",
		"seed.skip_if_not_empty":     true,
		"s3.region":                  "us-east-1",
		"s3.prefix":                  "catalog/",
	}
}

// Load loads configuration from config.yaml, .env and environment variables,
// in increasing order of priority, on top of built-in defaults.
func Load() (*Config, error) {
	return LoadFrom(defaultConfigFile, defaultEnvFile)
}

// LoadFrom is Load with explicit config and env file paths. Missing files are ignored.
func LoadFrom(configFile, envFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
		}
	}

	if envFile != "" {
		envFileMap, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
		dotenv := make(map[string]any, len(envFileMap))
		for key, value := range envFileMap {
			if path, v := envValue(key, value); path != "" {
				dotenv[path] = v
			}
		}
		if err := k.Load(confmap.Provider(dotenv, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envValue translates an environment variable into a configuration path.
// Unknown and empty-valued variables are skipped.
func envValue(name, value string) (string, any) {
	path, ok := envKeys[name]
	if !ok || value == "" {
		return "", nil
	}
	return path, value
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %v", c.Server.ShutdownTimeout)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if err := c.Database.validatePostgres(); err != nil {
			return err
		}
	case DriverMongo:
		if c.Mongo.URL == "" {
			return fmt.Errorf("mongo URL is required when the mongo driver is selected")
		}
		if c.Mongo.Database == "" || c.Mongo.Collection == "" {
			return fmt.Errorf("mongo database and collection are required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("invalid database driver: %s (must be postgres, mongo, or memory)", c.Database.Driver)
	}

	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("invalid database query timeout: %v", c.Database.QueryTimeout)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Catalog.PublicBaseURL != "" {
		u, err := url.Parse(c.Catalog.PublicBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid public base URL: %s", c.Catalog.PublicBaseURL)
		}
	}

	if c.Seed.Enabled && len(c.Seed.FileList()) == 0 {
		return fmt.Errorf("seed files are required when seeding is enabled")
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	return nil
}

func (c *DatabaseConfig) validatePostgres() error {
	if c.URL != "" {
		if !strings.HasPrefix(c.URL, "postgres://") && !strings.HasPrefix(c.URL, "postgresql://") {
			return fmt.Errorf("database URL must start with postgres:// or postgresql://")
		}
	} else {
		if c.Host == "" {
			return fmt.Errorf("database host is required")
		}

		if c.Port < 1 || c.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Port)
		}

		if c.User == "" {
			return fmt.Errorf("database user is required")
		}

		if c.Database == "" {
			return fmt.Errorf("database name is required")
		}
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PublicBaseURL returns the base URL used to build product links.
func (c *Config) PublicBaseURL() string {
	if c.Catalog.PublicBaseURL != "" {
		return strings.TrimRight(c.Catalog.PublicBaseURL, "/")
	}
	return fmt.Sprintf("http://localhost:%d", c.Server.Port)
}

// FileList returns the configured seed files with blanks removed.
func (c *SeedConfig) FileList() []string {
	var files []string
	for _, f := range strings.Split(c.Files, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return files
}
