package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"QUIZBANK_PRIMARY.ENV":                 "local",
		"QUIZBANK_SERVER.PORT":                 "8080",
		"QUIZBANK_SERVER.READ_TIMEOUT":         "30",
		"QUIZBANK_SERVER.WRITE_TIMEOUT":        "30",
		"QUIZBANK_SERVER.IDLE_TIMEOUT":         "60",
		"QUIZBANK_SERVER.CORS_ALLOWED_ORIGINS": "http://localhost:3000",
		"QUIZBANK_DATABASE.HOST":               "localhost",
		"QUIZBANK_DATABASE.PORT":               "5432",
		"QUIZBANK_DATABASE.USER":               "quizbank",
		"QUIZBANK_DATABASE.PASSWORD":           "secret",
		"QUIZBANK_DATABASE.NAME":               "quizbank",
		"QUIZBANK_DATABASE.SSL_MODE":           "disable",
		"QUIZBANK_DATABASE.MAX_OPEN_CONNS":     "10",
		"QUIZBANK_DATABASE.MAX_IDLE_CONNS":     "2",
		"QUIZBANK_DATABASE.CONN_MAX_LIFETIME":  "300",
		"QUIZBANK_DATABASE.CONN_MAX_IDLE_TIME": "60",
	} {
		t.Setenv(k, v)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, DefaultAcquireTimeout, cfg.Database.AcquireTimeout)

	require.NotNil(t, cfg.Quiz)
	assert.Equal(t, UpdateStrategyAtomic, cfg.Quiz.UpdateStrategy)
	assert.Equal(t, 10, cfg.Quiz.DefaultPageLimit)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "quizbank", cfg.Observability.ServiceName)
	assert.Equal(t, "local", cfg.Observability.Environment)

	assert.False(t, cfg.Redis.Enabled())
	assert.True(t, cfg.IsLocal())
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("QUIZBANK_DATABASE.ACQUIRE_TIMEOUT", "2s")
	t.Setenv("QUIZBANK_QUIZ.UPDATE_STRATEGY", "two_phase")
	t.Setenv("QUIZBANK_QUIZ.DEFAULT_PAGE_LIMIT", "25")
	t.Setenv("QUIZBANK_REDIS.ADDRESS", "localhost:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Database.AcquireTimeout)
	assert.Equal(t, UpdateStrategyTwoPhase, cfg.Quiz.UpdateStrategy)
	assert.Equal(t, 25, cfg.Quiz.DefaultPageLimit)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoadConfig_RejectsUnknownStrategy(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("QUIZBANK_QUIZ.UPDATE_STRATEGY", "eventual")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_MissingDatabase(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("QUIZBANK_DATABASE.HOST", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestObservabilityConfig_Validate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.Logging.SlowQueryThreshold = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())

	cfg.Environment = "development"
	assert.Equal(t, "debug", cfg.GetLogLevel())
}

func TestHealthChecksConfig_Has(t *testing.T) {
	h := HealthChecksConfig{Checks: []string{"database"}}
	assert.True(t, h.Has("database"))
	assert.False(t, h.Has("redis"))
}
