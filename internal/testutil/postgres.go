// Package testutil provides a migrated PostgreSQL database for integration
// tests.
//
// Integration tests run only with QUIZBANK_INTEGRATION=1. They use
// QUIZBANK_TEST_DSN when set and otherwise start a throwaway postgres:16
// container through dockertest. Tests truncate the tables, so packages
// sharing one QUIZBANK_TEST_DSN must run with -p 1.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/deppfellow/quizbank/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	integrationEnv = "QUIZBANK_INTEGRATION"
	dsnEnv         = "QUIZBANK_TEST_DSN"
)

var (
	sharedOnce sync.Once
	sharedDSN  string
	sharedErr  error
)

// SkipUnlessIntegration skips t unless integration tests are enabled.
func SkipUnlessIntegration(t testing.TB) {
	t.Helper()
	if os.Getenv(integrationEnv) != "1" {
		t.Skipf("set %s=1 to run integration tests", integrationEnv)
	}
}

// Logger writes through t.Log at warn level and above.
func Logger(t testing.TB) *zerolog.Logger {
	l := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	return &l
}

// DSN returns the address of a migrated database shared by the package's
// tests. The container, when one is started, is purged by the Docker
// expiry set on it.
func DSN(t testing.TB) string {
	t.Helper()
	SkipUnlessIntegration(t)

	sharedOnce.Do(func() {
		sharedDSN, sharedErr = provision(Logger(t))
	})
	require.NoError(t, sharedErr)
	return sharedDSN
}

func provision(logger *zerolog.Logger) (string, error) {
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		var err error
		dsn, err = startContainer()
		if err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := database.MigrateDSN(ctx, logger, dsn); err != nil {
		return "", fmt.Errorf("migrating test database: %w", err)
	}
	return dsn, nil
}

func startContainer() (string, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return "", fmt.Errorf("connecting to docker: %w", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=quizbank",
			"POSTGRES_PASSWORD=quizbank",
			"POSTGRES_DB=quizbank",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return "", fmt.Errorf("starting postgres container: %w", err)
	}
	_ = resource.Expire(600)

	dsn := fmt.Sprintf("postgres://quizbank:quizbank@%s/quizbank?sslmode=disable", resource.GetHostPort("5432/tcp"))

	err = pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		p, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return err
		}
		defer p.Close()
		return p.Ping(ctx)
	})
	if err != nil {
		_ = pool.Purge(resource)
		return "", fmt.Errorf("waiting for postgres: %w", err)
	}
	return dsn, nil
}

// Database opens a pool on the shared database and truncates every quiz
// table first. opts adjust the pool, e.g. to shrink MaxConns.
func Database(t testing.TB, acquireTimeout time.Duration, opts ...func(*pgxpool.Config)) *database.Database {
	t.Helper()

	dsn := DSN(t)
	db, err := database.Connect(context.Background(), dsn, acquireTimeout, Logger(t), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Pool.Exec(context.Background(),
		"TRUNCATE explanations, answers, choices, questions, users RESTART IDENTITY")
	require.NoError(t, err)

	return db
}

// CreateUser inserts a user row and returns its id.
func CreateUser(t testing.TB, db *database.Database, name string) int64 {
	t.Helper()

	var id int64
	err := db.Pool.QueryRow(context.Background(),
		"INSERT INTO users (name) VALUES ($1) RETURNING id", name).Scan(&id)
	require.NoError(t, err)
	return id
}
