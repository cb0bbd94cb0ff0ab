package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/bank-ledger/internal/domain"
)

// AccountRepository implements domain.AccountRepository using SQLite.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new SQLite-backed AccountRepository.
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db.SqlDB}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (acc_no, holder_name, acc_type, balance, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		account.Number, account.HolderName, string(account.Type), account.Balance, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateAccount
		}
		return fmt.Errorf("insert account: %w", err)
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	return nil
}

func (r *AccountRepository) GetByNumber(ctx context.Context, number int64) (*domain.Account, error) {
	account := &domain.Account{}
	var accType string
	err := r.db.QueryRowContext(ctx,
		`SELECT acc_no, holder_name, acc_type, balance, created_at, updated_at
		 FROM accounts WHERE acc_no = ?`, number,
	).Scan(&account.Number, &account.HolderName, &accType, &account.Balance,
		&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query account by number: %w", err)
	}
	account.Type = domain.AccountType(accType)
	return account, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT acc_no, holder_name, acc_type, balance, created_at, updated_at
		 FROM accounts ORDER BY acc_no`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		var accType string
		if err := rows.Scan(&account.Number, &account.HolderName, &accType,
			&account.Balance, &account.CreatedAt, &account.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		account.Type = domain.AccountType(accType)
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Credit adds amount to the account's balance in a single statement.
func (r *AccountRepository) Credit(ctx context.Context, number, amount int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + ?, updated_at = ? WHERE acc_no = ?`,
		amount, time.Now().UTC(), number,
	)
	if err != nil {
		return fmt.Errorf("credit account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Debit subtracts amount from the account's balance. The sufficient-funds
// check is part of the UPDATE's WHERE clause, so the check and the write
// commit together; concurrent debits cannot both pass against a stale
// balance. The table's CHECK (balance >= 0) constraint backstops this.
func (r *AccountRepository) Debit(ctx context.Context, number, amount int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET balance = balance - ?, updated_at = ?
		 WHERE acc_no = ? AND balance >= ?`,
		amount, time.Now().UTC(), number, amount,
	)
	if err != nil {
		return fmt.Errorf("debit account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Zero rows: either the account is missing or the balance was short.
	var exists int
	err = r.db.QueryRowContext(ctx,
		`SELECT 1 FROM accounts WHERE acc_no = ?`, number,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check account exists: %w", err)
	}
	return domain.ErrInsufficientFunds
}

// UpdateFields overwrites holder name, type, and balance. Updating a missing
// account affects zero rows and is deliberately not an error; callers that
// need existence guarantees must look the account up first.
func (r *AccountRepository) UpdateFields(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET holder_name = ?, acc_type = ?, balance = ?, updated_at = ?
		 WHERE acc_no = ?`,
		account.HolderName, string(account.Type), account.Balance, time.Now().UTC(), account.Number,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

// Delete removes the account. Deleting a missing account is a no-op.
func (r *AccountRepository) Delete(ctx context.Context, number int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE acc_no = ?`, number,
	); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// Stats computes the aggregate summary in one query. An empty store yields
// all zeros.
func (r *AccountRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(balance), 0),
		        COALESCE(SUM(CASE WHEN acc_type = 'S' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN acc_type = 'C' THEN 1 ELSE 0 END), 0)
		 FROM accounts`,
	).Scan(&stats.TotalAccounts, &stats.TotalBalance, &stats.SavingsCount, &stats.CurrentCount)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	return stats, nil
}
