// Package sqlite provides a SQLite-backed session blob store.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/arloliu/emotrace/accounting"
	"github.com/arloliu/emotrace/blob"
	"github.com/arloliu/emotrace/internal/options"
	"github.com/arloliu/emotrace/store"
)

//go:embed schema.sql
var schema string

// Store persists session blobs in a SQLite database.
type Store struct {
	sqlDB  *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

// Option configures a Store.
type Option = options.Option[*Store]

// WithLogger sets the logger used for lifecycle events. Nothing is logged by
// default.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	})
}

// WithClock overrides the clock used for the created_at column.
func WithClock(now func() time.Time) Option {
	return options.NoError(func(s *Store) {
		if now != nil {
			s.now = now
		}
	})
}

// Open opens the database at path and applies the schema.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	s := &Store{
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	s.sqlDB = sqlDB

	s.logger.Info("session store opened", slog.String("path", cleanPath))

	return s, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	s.logger.Info("session store closed")

	return s.sqlDB.Close()
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, b blob.SessionBlob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := store.ValidateBlob(b); err != nil {
		return err
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO sessions (
		   id,
		   base_time_ms,
		   compression,
		   original_size,
		   stored_size,
		   method,
		   data,
		   created_at_ms
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID.String(),
		b.BaseTime.UTC().UnixMilli(),
		int(b.Compression),
		b.Stats.OriginalSize,
		len(b.Data),
		b.Stats.Method,
		b.Data,
		s.now().UTC().UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}

		return fmt.Errorf("put session %s: %w", b.ID, err)
	}

	s.logger.Debug("session stored",
		slog.String("id", b.ID.String()),
		slog.Int("size", len(b.Data)),
		slog.String("method", b.Stats.Method),
	)

	return nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = ?`, id.String()).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}

		return nil, fmt.Errorf("get session %s: %w", id, err)
	}

	return data, nil
}

// Delete implements store.Store.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}

	s.logger.Debug("session deleted", slog.String("id", id.String()))

	return nil
}

// List implements store.Store.
func (s *Store) List(ctx context.Context) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id FROM sessions ORDER BY base_time_ms, id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse session id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return ids, nil
}

// Totals implements store.Store.
func (s *Store) Totals(ctx context.Context) (accounting.Stats, error) {
	if err := ctx.Err(); err != nil {
		return accounting.Stats{}, err
	}

	var original, stored int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(original_size), 0), COALESCE(SUM(stored_size), 0) FROM sessions`,
	).Scan(&original, &stored)
	if err != nil {
		return accounting.Stats{}, fmt.Errorf("sum session sizes: %w", err)
	}

	return accounting.ComputeStats(original, stored, "store"), nil
}

// Stats returns the accounting recorded for one session.
func (s *Store) Stats(ctx context.Context, id uuid.UUID) (accounting.Stats, error) {
	if err := ctx.Err(); err != nil {
		return accounting.Stats{}, err
	}

	var (
		original, stored int64
		method           string
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT original_size, stored_size, method FROM sessions WHERE id = ?`, id.String(),
	).Scan(&original, &stored, &method)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return accounting.Stats{}, store.ErrNotFound
		}

		return accounting.Stats{}, fmt.Errorf("get session stats %s: %w", id, err)
	}

	return accounting.ComputeStats(original, stored, method), nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}

	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
