// Package database owns the PostgreSQL connection pool and the unit-of-work
// primitives the repositories run on.
//
// Every operation borrows one pooled connection through Database.Run or
// Database.InTx and gives it back on every exit path. Waiting for a free
// connection is bounded by database.acquire_timeout; running out of it yields
// a PoolTimeout DataError.
package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/deppfellow/quizbank/internal/config"
	"github.com/deppfellow/quizbank/internal/errs"
	loggerConfig "github.com/deppfellow/quizbank/internal/logger"
	"github.com/deppfellow/quizbank/internal/sqlerr"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

// Querier is the statement surface shared by *pgxpool.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Executor runs work on a borrowed connection.
//
// Run hands fn a Querier for the duration of the call. InTx does the same
// inside a transaction that commits when fn returns nil and rolls back
// otherwise; the Executor passed to fn routes every Run through that
// transaction, and its own InTx nests with a savepoint.
type Executor interface {
	Run(ctx context.Context, fn func(Querier) error) error
	InTx(ctx context.Context, fn func(Executor) error) error
}

// Database wraps the pgx pool.
type Database struct {
	Pool           *pgxpool.Pool
	log            *zerolog.Logger
	acquireTimeout time.Duration
}

var _ Executor = (*Database)(nil)

// DatabasePingTimeout bounds the startup ping.
const DatabasePingTimeout = 10 * time.Second

// DSN renders the postgres URL for cfg. The password is URL-escaped.
func DSN(cfg config.DatabaseConfig) string {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		cfg.User,
		url.QueryEscape(cfg.Password),
		hostPort,
		cfg.Name,
		cfg.SSLMode,
	)
}

// New creates the instrumented application pool.
//
// New Relic tracing is attached when the agent runs. In the local
// environment SQL statements are also logged through pgx-zerolog. Queries
// slower than the configured threshold are always logged at warn level.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(DSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	if cfg.Database.MaxOpenConns > 0 {
		pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		pgxPoolConfig.MinConns = int32(min(cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns))
	}
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	var tracers []pgx.QueryTracer

	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		})
	}

	if threshold := cfg.Observability.Logging.SlowQueryThreshold; threshold > 0 {
		tracers = append(tracers, &slowQueryTracer{threshold: threshold, log: logger})
	}

	switch len(tracers) {
	case 0:
	case 1:
		pgxPoolConfig.ConnConfig.Tracer = tracers[0]
	default:
		pgxPoolConfig.ConnConfig.Tracer = &multiTracer{tracers: tracers}
	}

	return open(context.Background(), pgxPoolConfig, cfg.Database.AcquireTimeout, logger)
}

// Connect opens an uninstrumented pool from a DSN. configure may adjust the
// pool config before the pool is created.
func Connect(ctx context.Context, dsn string, acquireTimeout time.Duration, logger *zerolog.Logger, configure ...func(*pgxpool.Config)) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}
	for _, fn := range configure {
		fn(pgxPoolConfig)
	}
	return open(ctx, pgxPoolConfig, acquireTimeout, logger)
}

func open(ctx context.Context, pgxPoolConfig *pgxpool.Config, acquireTimeout time.Duration, logger *zerolog.Logger) (*Database, error) {
	pool, err := pgxpool.NewWithConfig(ctx, pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if acquireTimeout <= 0 {
		acquireTimeout = config.DefaultAcquireTimeout
	}

	database := &Database{
		Pool:           pool,
		log:            logger,
		acquireTimeout: acquireTimeout,
	}

	pingCtx, cancel := context.WithTimeout(ctx, DatabasePingTimeout)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Msg("connected to the database")

	return database, nil
}

// acquire borrows a connection, waiting at most acquireTimeout. The deadline
// only applies to the wait; statements run under the caller's ctx.
func (db *Database) acquire(ctx context.Context, op string) (*pgxpool.Conn, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, db.acquireTimeout)
	defer cancel()

	conn, err := db.Pool.Acquire(acquireCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, errs.NewPoolTimeout(op, err)
		}
		return nil, sqlerr.HandleError("", op, 0, err)
	}
	return conn, nil
}

// Run borrows a connection for fn and releases it afterwards.
func (db *Database) Run(ctx context.Context, fn func(Querier) error) error {
	conn, err := db.acquire(ctx, "acquire")
	if err != nil {
		return err
	}
	defer conn.Release()

	return fn(conn)
}

// InTx borrows a connection, opens a transaction and passes fn an Executor
// bound to it.
func (db *Database) InTx(ctx context.Context, fn func(Executor) error) error {
	conn, err := db.acquire(ctx, "begin")
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return sqlerr.HandleError("", "begin", 0, err)
	}

	return runTx(ctx, tx, db.log, fn)
}

// Ping checks connectivity through a pooled connection.
func (db *Database) Ping(ctx context.Context) error {
	return db.Run(ctx, func(q Querier) error {
		var one int
		return q.QueryRow(ctx, "SELECT 1").Scan(&one)
	})
}

// Close closes the pool. Borrowed connections are waited for.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
	return nil
}

// txExecutor is the Executor handed to InTx callbacks.
type txExecutor struct {
	tx  pgx.Tx
	log *zerolog.Logger
}

func (t *txExecutor) Run(_ context.Context, fn func(Querier) error) error {
	return fn(t.tx)
}

// InTx nests through a savepoint.
func (t *txExecutor) InTx(ctx context.Context, fn func(Executor) error) error {
	nested, err := t.tx.Begin(ctx)
	if err != nil {
		return sqlerr.HandleError("", "savepoint", 0, err)
	}
	return runTx(ctx, nested, t.log, fn)
}

// runTx commits after fn succeeds and rolls back on error or panic. The
// rollback runs on a context detached from cancellation so a cancelled
// request still releases its locks.
func runTx(ctx context.Context, tx pgx.Tx, log *zerolog.Logger, fn func(Executor) error) (err error) {
	rollback := func() {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Error().Err(rbErr).Msg("transaction rollback failed")
		}
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err = fn(&txExecutor{tx: tx, log: log}); err != nil {
		rollback()
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		rollback()
		return sqlerr.HandleError("", "commit", 0, err)
	}

	return nil
}
