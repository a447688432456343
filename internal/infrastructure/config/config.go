package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is loaded once at startup and passed explicitly to constructors.
// JWT_SECRET and MONGO_URI are required: the process refuses to start
// without them.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret       string        `env:"JWT_SECRET, required"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=168h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=720h"`

	Mongo MongoConfig
	Redis RedisConfig
	Admin AdminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, required"`
	Database string `env:"MONGO_DB,  default=escola_conecta_saber"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// AdminConfig seeds the initial admin account when no admin exists.
// Leaving Email empty disables seeding.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Name     string `env:"ADMIN_NAME,     default=Administrador"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
