// Package config loads service settings from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,        default=5000"`
	Env       string        `env:"ENV,         default=development"`
	SecretKey string        `env:"SECRET_KEY,  required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,   default=2400h"`
	LogLevel  string        `env:"LOG_LEVEL,   default=info"`
	LogPretty bool          `env:"LOG_PRETTY,  default=false"`

	BcryptCost  int      `env:"BCRYPT_COST,  default=10"`
	CORSOrigins []string `env:"CORS_ORIGINS, default=http://localhost:3000"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Login    LoginConfig
	Activity ActivityConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=linkvault"`
}

// RedisConfig points at the login throttle store.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// LoginConfig controls failed-login throttling. With Throttle off the
// service starts without Redis.
type LoginConfig struct {
	Throttle    bool          `env:"LOGIN_THROTTLE,     default=true"`
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=10"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

type ActivityConfig struct {
	Workers int `env:"ACTIVITY_WORKERS, default=4"`
}

// IsDevelopment reports whether the service runs locally.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads configuration from the process environment. Outside production
// a .env file in the working directory is loaded first if present.
func Load(ctx context.Context) (*Config, error) {
	if os.Getenv("ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: read .env: %w", err)
		}
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l. Tests pass an envconfig.MapLookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Activity.Workers <= 0 {
		return errors.New("ACTIVITY_WORKERS must be positive")
	}
	return nil
}
