package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQL is a KV on any database/sql driver. Placeholder style differs
// between sqlite and postgres, so the statements are chosen per dialect.
type SQL struct {
	db       *sql.DB
	getStmt  string
	setStmt  string
	delStmt  string
	ownsConn bool
}

// OpenSQLite opens (or creates) a sqlite-backed store at path.
func OpenSQLite(path string) (*SQL, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	s, err := NewSQL(db, DialectSQLite)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.ownsConn = true
	return s, nil
}

// OpenPostgres connects a postgres-backed store with the given DSN.
func OpenPostgres(dsn string) (*SQL, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	s, err := NewSQL(db, DialectPostgres)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.ownsConn = true
	return s, nil
}

// Dialect selects placeholder/upsert syntax.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// NewSQL wraps an existing connection. The caller keeps ownership of db
// unless the store was created through OpenSQLite/OpenPostgres.
func NewSQL(db *sql.DB, dialect Dialect) (*SQL, error) {
	s := &SQL{db: db}
	switch dialect {
	case DialectSQLite:
		s.getStmt = `SELECT value FROM kv WHERE key = ?`
		s.setStmt = `INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
		s.delStmt = `DELETE FROM kv WHERE key = ?`
	case DialectPostgres:
		s.getStmt = `SELECT value FROM kv WHERE key = $1`
		s.setStmt = `INSERT INTO kv (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
		s.delStmt = `DELETE FROM kv WHERE key = $1`
	default:
		return nil, fmt.Errorf("unknown sql dialect %q", dialect)
	}
	if err := s.migrateSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQL) migrateSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	_, err := s.db.ExecContext(context.Background(), query)
	if err != nil {
		return fmt.Errorf("kv schema: %w", err)
	}
	return nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.getStmt, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.setStmt, key, value); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.delStmt, key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

func (s *SQL) Close() error {
	if s.ownsConn {
		return s.db.Close()
	}
	return nil
}
