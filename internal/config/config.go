// Package config loads quizbank's configuration from the environment.
//
// Variables carry the QUIZBANK_ prefix and use dots for nesting, so
// QUIZBANK_DATABASE.HOST lands in Config.Database.Host. A `.env` file in the
// working directory is loaded first when present.
//
// Responsibilities:
//   - Read QUIZBANK_* variables through koanf's env provider.
//   - Unmarshal them into the typed Config tree below.
//   - Validate required blocks with go-playground/validator; a missing
//     value fails LoadConfig.
//   - Fill defaults for the optional blocks (quiz, observability) and for
//     the connection acquire timeout.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Loads `.env` into the process environment before LoadConfig runs.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const envPrefix = "QUIZBANK_"

// Update strategies for QuestionService.UpdateQuestion.
//
// UpdateStrategyAtomic rewrites the question and its dependents in a single
// transaction. UpdateStrategyTwoPhase commits the scalar change and the
// removal of old dependents first, then attaches the new dependents in a
// second transaction.
const (
	UpdateStrategyAtomic   = "atomic"
	UpdateStrategyTwoPhase = "two_phase"
)

// Config is the root configuration object.
//
// The `koanf:"..."` tags name the key each field is read from, relative to
// its parent block. The `validate:"required"` tags are enforced by
// validator/v10 during LoadConfig.
//
// Observability and Quiz are pointers because they are optional; defaults
// are injected when absent. Redis is optional too: without an address the
// background audit jobs and the Redis health probe are off.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Quiz          *QuizConfig          `koanf:"quiz"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary describes the runtime environment. Env is "local", "development"
// or "production"; "local" enables SQL statement logging and unredacted
// error messages in HTTP responses.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server.
//
// ReadTimeout, WriteTimeout and IdleTimeout are in seconds and are copied
// onto the net/http server. CORSAllowedOrigins feeds echo's CORS middleware.
// RateLimitPerSecond is the per-IP request rate; zero selects the router's
// default.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
	RateLimitPerSecond float64  `koanf:"rate_limit_per_second"`
}

// DatabaseConfig holds PostgreSQL connection parameters and pool tuning.
//
// The connection fields are rendered into a postgres:// URL by
// database.DSN; the password is URL-escaped there. MaxOpenConns and
// MaxIdleConns become pgxpool's MaxConns and MinConns. ConnMaxLifetime and
// ConnMaxIdleTime are in seconds.
//
// AcquireTimeout bounds how long an operation waits for a pooled
// connection before failing with PoolTimeout. It is a duration string such
// as "2s"; DefaultAcquireTimeout applies when it is unset.
type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int           `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int           `koanf:"conn_max_idle_time" validate:"required"`
	AcquireTimeout  time.Duration `koanf:"acquire_timeout"`
}

// RedisConfig holds the Redis connection details. Address is "host:port".
//
// An empty address disables Redis: no client is created, the asynq job
// service does not start and question lifecycle events are not recorded.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// Enabled reports whether an address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// QuizConfig tunes the question service.
//
// UpdateStrategy is "atomic" (the default) or "two_phase". DefaultPageLimit
// is the page size used when a listing request does not give a limit.
type QuizConfig struct {
	UpdateStrategy   string `koanf:"update_strategy" validate:"omitempty,oneof=atomic two_phase"`
	DefaultPageLimit int    `koanf:"default_page_limit" validate:"gte=0"`
}

// DefaultQuizConfig is applied when the quiz block is missing.
func DefaultQuizConfig() *QuizConfig {
	return &QuizConfig{
		UpdateStrategy:   UpdateStrategyAtomic,
		DefaultPageLimit: 10,
	}
}

// DefaultAcquireTimeout applies when database.acquire_timeout is unset.
const DefaultAcquireTimeout = 5 * time.Second

// LoadConfig reads the environment into a validated Config with defaults
// applied.
//
// Behavior summary:
//   - Loads env vars with prefix QUIZBANK_, lowercased, prefix removed.
//   - Unmarshals the "."-nested keys into Config.
//   - Validates struct tags, then injects defaults and overrides the
//     observability service name and environment from Primary.
//   - Runs ObservabilityConfig.Validate.
//
// Every failure is returned; nothing here exits the process.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load initial env variables")
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal main config")
	}

	if err := mainConfig.finalize(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// finalize validates tags, fills defaults and runs the custom checks.
func (c *Config) finalize() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "config validation failed")
	}

	if c.Quiz == nil {
		c.Quiz = DefaultQuizConfig()
	}
	if c.Quiz.UpdateStrategy == "" {
		c.Quiz.UpdateStrategy = UpdateStrategyAtomic
	}
	if c.Quiz.DefaultPageLimit == 0 {
		c.Quiz.DefaultPageLimit = DefaultQuizConfig().DefaultPageLimit
	}

	if c.Database.AcquireTimeout <= 0 {
		c.Database.AcquireTimeout = DefaultAcquireTimeout
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	c.Observability.ServiceName = "quizbank"
	c.Observability.Environment = c.Primary.Env

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

// IsLocal reports whether internal error detail may be sent to clients.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == "local"
}
