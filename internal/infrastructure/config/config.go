// Package config loads the agent settings from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Remote backends.
const (
	BackendMongo    = "mongo"
	BackendSupabase = "supabase"
)

// Local store drivers.
const (
	LocalRedis  = "redis"
	LocalMemory = "memory"
)

type Config struct {
	Port          string        `env:"PORT,           default=8080"`
	Env           string        `env:"ENV,            default=development"`
	LogLevel      string        `env:"LOG_LEVEL,      default=info"`
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL,      default=24h"`
	RemoteBackend string        `env:"REMOTE_BACKEND, default=mongo"`
	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT, default=10s"`
	AuthTimeout   time.Duration `env:"AUTH_TIMEOUT,   default=10s"`

	Mongo    MongoConfig
	Supabase SupabaseConfig
	Local    LocalConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=lottopool"`
}

type SupabaseConfig struct {
	URL     string `env:"SUPABASE_URL"`
	AnonKey string `env:"SUPABASE_ANON_KEY"`
}

type LocalConfig struct {
	Driver    string `env:"LOCAL_DRIVER,    default=memory"`
	Namespace string `env:"LOCAL_NAMESPACE, default=lottopool_master"`
	RedisAddr string `env:"REDIS_ADDR,      default=localhost:6379"`
	RedisDB   int    `env:"REDIS_DB,        default=0"`
}

// Pretty reports whether logs should be human readable.
func (c *Config) Pretty() bool {
	return c.Env == "development"
}

// LoadDotEnv reads a .env file into the environment if one exists. Variables
// already set win over the file.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.RemoteBackend {
	case BackendMongo:
	case BackendSupabase:
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY are required for the supabase backend")
		}
	default:
		return fmt.Errorf("unknown REMOTE_BACKEND %q", c.RemoteBackend)
	}
	switch c.Local.Driver {
	case LocalRedis, LocalMemory:
	default:
		return fmt.Errorf("unknown LOCAL_DRIVER %q", c.Local.Driver)
	}
	return nil
}
