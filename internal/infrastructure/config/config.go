package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SessionTTL is the idle lifetime of a session; resolving a session
	// renews it (sliding expiry).
	SessionTTL time.Duration `env:"SESSION_TTL, default=30m"`

	// ImportDedupTTL is how long a file checksum blocks re-import.
	ImportDedupTTL time.Duration `env:"IMPORT_DEDUP_TTL, default=1h"`

	// AuditWorkers sizes the async audit dispatcher pool.
	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`

	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type PostgresConfig struct {
	DSN         string        `env:"DATABASE_URL, default=postgres://localhost:5432/labrecords?sslmode=disable"`
	MaxOpen     int           `env:"DB_MAX_OPEN,  default=25"`
	MaxIdle     int           `env:"DB_MAX_IDLE,  default=25"`
	MaxLifetime time.Duration `env:"DB_MAX_LIFETIME, default=5m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=labrecords"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
