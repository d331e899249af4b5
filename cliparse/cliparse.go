package cliparse

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Supported DATABASE_TYPE values
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
	DatabaseMySQL    = "mysql"
)

type Config struct {
	Port         int    `yaml:"port"          env:"PORT"          env-default:"3318"`
	DatabaseURL  string `yaml:"database_url"  env:"DATABASE_URL"`
	DatabaseType string `yaml:"database_type" env:"DATABASE_TYPE" env-default:"sqlite"`

	// Secret used to derive origin tokens from client addresses
	OriginSalt string `yaml:"origin_salt" env:"ORIGIN_SALT"`
	TrustProxy bool   `yaml:"trust_proxy" env:"TRUST_PROXY" env-default:"true"`

	LogLevel         string        `yaml:"log_level"          env:"LOG_LEVEL"          env-default:"info"`
	CORSOrigin       string        `yaml:"cors_origin"        env:"CORS_ORIGIN"        env-default:"*"`
	SubscriberBuffer int           `yaml:"subscriber_buffer"  env:"SUBSCRIBER_BUFFER"  env-default:"32"`
	PollCacheSize    int           `yaml:"poll_cache_size"    env:"POLL_CACHE_SIZE"    env-default:"1024"`
	NotifyRelay      bool          `yaml:"notify_relay"       env:"NOTIFY_RELAY"       env-default:"false"`
	DBConnectTimeout time.Duration `yaml:"db_connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"30s"`
}

// RegisterFlags adds the command-line overrides to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a YAML config file")
	fs.IntP("port", "p", 0, "Server port")
	fs.StringP("database-url", "d", "", "Database URL")
	fs.StringP("database-type", "t", "", "Database type (sqlite, postgres or mysql)")
	// Secrets (prefer env variables, but allow CLI for dev)
	fs.String("origin-salt", "", "Origin token salt (prefer env)")
	fs.String("log-level", "", "Log level (debug, info, warn, error)")
	fs.Bool("notify-relay", false, "Relay vote events between instances through Postgres")
}

// Load reads .env, then the environment (or the --config file), then
// applies any flags explicitly set on fs.
func Load(fs *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("cliparse: failed to load .env: %w", err)
	}

	var cfg Config
	path, _ := fs.GetString("config")
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("cliparse: failed to read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("cliparse: failed to read env: %w", err)
	}

	// CLI overrides env
	if fs.Changed("port") {
		cfg.Port, _ = fs.GetInt("port")
	}
	if fs.Changed("database-url") {
		cfg.DatabaseURL, _ = fs.GetString("database-url")
	}
	if fs.Changed("database-type") {
		cfg.DatabaseType, _ = fs.GetString("database-type")
	}
	if fs.Changed("origin-salt") {
		cfg.OriginSalt, _ = fs.GetString("origin-salt")
	}
	if fs.Changed("log-level") {
		cfg.LogLevel, _ = fs.GetString("log-level")
	}
	if fs.Changed("notify-relay") {
		cfg.NotifyRelay, _ = fs.GetBool("notify-relay")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required settings and value ranges
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	switch c.DatabaseType {
	case DatabaseSQLite, DatabasePostgres, DatabaseMySQL:
	default:
		return fmt.Errorf("unsupported database type %q", c.DatabaseType)
	}
	// Secrets - MUST be provided
	if c.OriginSalt == "" {
		return errors.New("ORIGIN_SALT required")
	}
	if c.SubscriberBuffer < 1 {
		return errors.New("SUBSCRIBER_BUFFER must be at least 1")
	}
	if c.PollCacheSize < 1 {
		return errors.New("POLL_CACHE_SIZE must be at least 1")
	}
	if c.NotifyRelay && c.DatabaseType != DatabasePostgres {
		return errors.New("NOTIFY_RELAY requires DATABASE_TYPE=postgres")
	}
	return nil
}
