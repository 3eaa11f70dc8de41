package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"zoo/config"
)

// uniqueViolation is the Postgres SQLSTATE for unique index violations.
const uniqueViolation = "23505"

var postgresDialect = dialect{
	name:        config.DriverPostgres,
	placeholder: Dollar,
	nameOrder:   columnName + ` COLLATE "C"`,
}

// DB is the Postgres record store backed by a pgx connection pool.
type DB struct {
	Pool   *pgxpool.Pool
	logger *zap.Logger
}

func Connect(ctx context.Context, cfg config.Database, logger *zap.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("Database connection established",
		zap.String("driver", config.DriverPostgres),
		zap.String("host", poolConfig.ConnConfig.Host),
		zap.String("database", poolConfig.ConnConfig.Database),
	)
	return &DB{Pool: pool, logger: logger}, nil
}

// Acquire checks a connection out of the pool for the duration of one operation.
func (db *DB) Acquire(ctx context.Context) (*Conn, error) {
	pc, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return newConn(&pgExecutor{conn: pc}, postgresDialect, db.logger), nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

func (db *DB) Close() {
	db.Pool.Close()
	db.logger.Info("Database connection closed", zap.String("driver", config.DriverPostgres))
}

type pgExecutor struct {
	conn *pgxpool.Conn
}

func (e *pgExecutor) query(ctx context.Context, sql string, args ...interface{}) (rowsScanner, func(), error) {
	rows, err := e.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, nil, err
	}
	return rows, rows.Close, nil
}

func (e *pgExecutor) queryRow(ctx context.Context, sql string, args ...interface{}) rowScanner {
	return e.conn.QueryRow(ctx, sql, args...)
}

func (e *pgExecutor) exec(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	tag, err := e.conn.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (e *pgExecutor) translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (e *pgExecutor) release() {
	e.conn.Release()
}
