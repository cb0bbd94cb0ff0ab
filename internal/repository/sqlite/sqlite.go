// Package sqlite implements the durable record store for accounts and users
// on top of SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/msomdec/bank-ledger/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle and provides access to the repositories bound
// to it. Use New to construct, then Migrate before serving requests.
type DB struct {
	SqlDB *sql.DB

	accounts *AccountRepository
	users    *UserRepository
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and restricts the pool to a single connection, which
// serializes writes the way SQLite expects.
func New(dbPath string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := sqlDB.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := sqlDB.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{SqlDB: sqlDB}
	db.accounts = &AccountRepository{db: sqlDB}
	db.users = &UserRepository{db: sqlDB}
	return db, nil
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

// Close releases the underlying database handle.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

// Accounts returns the account repository bound to this database.
func (db *DB) Accounts() *AccountRepository { return db.accounts }

// Users returns the user repository bound to this database.
func (db *DB) Users() *UserRepository { return db.users }

// isUniqueConstraintError reports whether err is a SQLite unique or primary
// key constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return contains(msg, "UNIQUE constraint failed") || contains(msg, "unique constraint")
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
