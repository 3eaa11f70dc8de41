package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"zoo/config"
)

//go:embed schema.sql
var schemaSQL string

var sqliteDialect = dialect{
	name:        config.DriverSQLite,
	placeholder: Question,
	nameOrder:   columnName,
}

// SQLite is the file-backed record store. The schema is applied on open.
type SQLite struct {
	DB     *sql.DB
	path   string
	logger *zap.Logger
}

func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLite, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("driver", config.DriverSQLite),
		zap.String("path", path),
	)
	return &SQLite{DB: db, path: path, logger: logger}, nil
}

// Acquire pins one connection of the pool for the duration of one operation.
func (s *SQLite) Acquire(ctx context.Context) (*Conn, error) {
	sc, err := s.DB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return newConn(&sqlExecutor{conn: sc, logger: s.logger}, sqliteDialect, s.logger), nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLite) Close() {
	if err := s.DB.Close(); err != nil {
		s.logger.Warn("Failed to close database", zap.Error(err))
		return
	}
	s.logger.Info("Database connection closed", zap.String("driver", config.DriverSQLite))
}

type sqlExecutor struct {
	conn   *sql.Conn
	logger *zap.Logger
}

func (e *sqlExecutor) query(ctx context.Context, query string, args ...interface{}) (rowsScanner, func(), error) {
	rows, err := e.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	return rows, func() { _ = rows.Close() }, nil
}

func (e *sqlExecutor) queryRow(ctx context.Context, query string, args ...interface{}) rowScanner {
	return e.conn.QueryRowContext(ctx, query, args...)
}

func (e *sqlExecutor) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	result, err := e.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (e *sqlExecutor) translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")) {
			return ErrDuplicate
		}
	}
	return err
}

func (e *sqlExecutor) release() {
	if err := e.conn.Close(); err != nil {
		e.logger.Warn("Failed to release connection", zap.Error(err))
	}
}
