// Package service holds the business-rule layer between the HTTP surface
// and the record store.
package service

import (
	"context"
	"fmt"

	"github.com/msomdec/bank-ledger/internal/domain"
)

// LedgerService enforces account business rules on top of the record store:
// creation validation, balance adjustment, modification, deletion, lookup,
// and aggregate statistics.
type LedgerService struct {
	accounts domain.AccountRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accounts domain.AccountRepository) *LedgerService {
	return &LedgerService{accounts: accounts}
}

// CreateAccount validates and persists a new account. The account number is
// caller-supplied; creating a number that already exists fails with
// ErrDuplicateAccount.
func (s *LedgerService) CreateAccount(ctx context.Context, number int64, holderName string, accountType domain.AccountType, initialBalance int64) (*domain.Account, error) {
	if number <= 0 {
		return nil, fmt.Errorf("%w: account number must be positive", domain.ErrInvalidInput)
	}
	if holderName == "" {
		return nil, fmt.Errorf("%w: holder name is required", domain.ErrInvalidInput)
	}
	if accountType != domain.TypeSavings && accountType != domain.TypeCurrent {
		return nil, fmt.Errorf("%w: account type must be S or C", domain.ErrInvalidInput)
	}
	if initialBalance < 0 {
		return nil, fmt.Errorf("%w: initial balance must not be negative", domain.ErrInvalidInput)
	}

	account := &domain.Account{
		Number:     number,
		HolderName: holderName,
		Type:       accountType,
		Balance:    initialBalance,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// AdjustBalance credits or debits an account by amount. A debit that exceeds
// the current balance fails with ErrInsufficientFunds and leaves the balance
// untouched; the check and the write are a single atomic store operation.
func (s *LedgerService) AdjustBalance(ctx context.Context, number, amount int64, direction domain.Direction) error {
	if amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", domain.ErrInvalidInput)
	}

	if direction == domain.Debit {
		return s.accounts.Debit(ctx, number, amount)
	}
	return s.accounts.Credit(ctx, number, amount)
}

// ModifyAccount unconditionally overwrites the mutable fields of an account.
// Modifying a number that does not exist is a silent no-op, not an error;
// callers that care should look the account up first.
func (s *LedgerService) ModifyAccount(ctx context.Context, number int64, holderName string, accountType domain.AccountType, balance int64) error {
	if holderName == "" {
		return fmt.Errorf("%w: holder name is required", domain.ErrInvalidInput)
	}
	if accountType != domain.TypeSavings && accountType != domain.TypeCurrent {
		return fmt.Errorf("%w: account type must be S or C", domain.ErrInvalidInput)
	}
	if balance < 0 {
		return fmt.Errorf("%w: balance must not be negative", domain.ErrInvalidInput)
	}

	account := &domain.Account{
		Number:     number,
		HolderName: holderName,
		Type:       accountType,
		Balance:    balance,
	}
	if err := s.accounts.UpdateFields(ctx, account); err != nil {
		return fmt.Errorf("modify account: %w", err)
	}
	return nil
}

// DeleteAccount removes an account permanently. Deleting a number that does
// not exist succeeds.
func (s *LedgerService) DeleteAccount(ctx context.Context, number int64) error {
	return s.accounts.Delete(ctx, number)
}

// GetAccount returns the account or ErrNotFound.
func (s *LedgerService) GetAccount(ctx context.Context, number int64) (*domain.Account, error) {
	return s.accounts.GetByNumber(ctx, number)
}

// ListAccounts returns all accounts.
func (s *LedgerService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}

// Stats returns the aggregate account summary.
func (s *LedgerService) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.accounts.Stats(ctx)
}
