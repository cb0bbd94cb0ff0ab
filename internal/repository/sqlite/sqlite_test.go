package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/msomdec/bank-ledger/internal/domain"
	"github.com/msomdec/bank-ledger/internal/repository/sqlite"
)

// Verify that *sqlite.DB implements domain.Database at compile time.
var _ domain.Database = (*sqlite.DB)(nil)

var (
	_ domain.AccountRepository = (*sqlite.AccountRepository)(nil)
	_ domain.UserRepository    = (*sqlite.UserRepository)(nil)
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()

	// Verify the file was created.
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file was not created")
	}

	if err := db.SqlDB.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Verify both tables exist by inserting rows.
	_, err := db.SqlDB.ExecContext(ctx,
		`INSERT INTO accounts (acc_no, holder_name, acc_type, balance, created_at, updated_at)
		 VALUES (1, 'Alice', 'S', 100, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	if err != nil {
		t.Fatalf("insert into accounts: %v", err)
	}

	_, err = db.SqlDB.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at)
		 VALUES ('alice', 'hash123', CURRENT_TIMESTAMP)`)
	if err != nil {
		t.Fatalf("insert into users: %v", err)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Second run should be a no-op.
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate (idempotent): %v", err)
	}

	var count int
	err := db.SqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	if err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 migration records, got %d", count)
	}
}

func TestAccountTypeCheckConstraint(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// The storage layer itself rejects types outside {S, C}.
	_, err := db.SqlDB.ExecContext(ctx,
		`INSERT INTO accounts (acc_no, holder_name, acc_type, balance, created_at, updated_at)
		 VALUES (1, 'Alice', 'X', 100, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	if err == nil {
		t.Fatal("expected CHECK constraint violation for acc_type 'X'")
	}
}

func TestNegativeBalanceCheckConstraint(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.SqlDB.ExecContext(ctx,
		`INSERT INTO accounts (acc_no, holder_name, acc_type, balance, created_at, updated_at)
		 VALUES (1, 'Alice', 'S', -5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	if err == nil {
		t.Fatal("expected CHECK constraint violation for negative balance")
	}
}
