package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Dialect selects the upsert statement understood by the database.
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

// SQLStore keeps blobs in a two-column kv_store table.  It works with the
// MySQL and SQLite handles opened by the database package.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore wraps db.  Call Migrate once before use.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// Migrate creates the kv_store table when it does not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	var q string
	switch s.dialect {
	case DialectMySQL:
		q = `CREATE TABLE IF NOT EXISTS kv_store (
		       k VARCHAR(191) NOT NULL PRIMARY KEY,
		       v LONGTEXT NOT NULL,
		       updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		     ) CHARACTER SET utf8mb4`
	case DialectSQLite:
		q = `CREATE TABLE IF NOT EXISTS kv_store (
		       k TEXT NOT NULL PRIMARY KEY,
		       v TEXT NOT NULL,
		       updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		     )`
	default:
		return fmt.Errorf("unsupported sql dialect %q", s.dialect)
	}
	_, err := s.db.ExecContext(ctx, q)
	return err
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `SELECT v FROM kv_store WHERE k = ?`
	var v string
	err := s.db.QueryRowContext(ctx, q, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	var q string
	switch s.dialect {
	case DialectMySQL:
		q = `INSERT INTO kv_store (k, v) VALUES (?, ?)
		     ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = CURRENT_TIMESTAMP`
	case DialectSQLite:
		q = `INSERT INTO kv_store (k, v) VALUES (?, ?)
		     ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = CURRENT_TIMESTAMP`
	default:
		return fmt.Errorf("unsupported sql dialect %q", s.dialect)
	}
	_, err := s.db.ExecContext(ctx, q, key, value)
	return err
}
