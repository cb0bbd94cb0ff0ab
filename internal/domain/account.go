package domain

import (
	"context"
	"time"
)

// AccountType is the single-character account classification code stored
// alongside each account.
type AccountType string

const (
	TypeSavings AccountType = "S"
	TypeCurrent AccountType = "C"
)

// ParseAccountType maps a one-letter code to an AccountType.
// Callers that work with full words ("Savings", "Current") are expected to
// map them to codes before calling into the core.
func ParseAccountType(code string) (AccountType, error) {
	switch AccountType(code) {
	case TypeSavings:
		return TypeSavings, nil
	case TypeCurrent:
		return TypeCurrent, nil
	}
	return "", ErrInvalidInput
}

// Direction selects whether a balance adjustment adds or removes funds.
type Direction int

const (
	Credit Direction = iota
	Debit
)

func (d Direction) String() string {
	if d == Debit {
		return "debit"
	}
	return "credit"
}

// Account is a single bank account. Number is caller-supplied and immutable
// once created. Balance is held in the smallest currency unit and is never
// negative after a committed operation.
type Account struct {
	Number     int64
	HolderName string
	Type       AccountType
	Balance    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Stats is the aggregate summary across all accounts. All fields are
// zero-filled on an empty store.
type Stats struct {
	TotalAccounts int64
	TotalBalance  int64
	SavingsCount  int64
	CurrentCount  int64
}

// AccountRepository defines persistence operations for accounts.
//
// Credit and Debit apply the balance change as a single atomic conditional
// update; the sufficient-funds check on Debit happens inside the statement,
// so concurrent debits can never observe a stale balance.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByNumber(ctx context.Context, number int64) (*Account, error)
	List(ctx context.Context) ([]Account, error)
	Credit(ctx context.Context, number, amount int64) error
	Debit(ctx context.Context, number, amount int64) error
	// UpdateFields overwrites holder name, type, and balance. Updating a
	// missing account affects zero rows and is not an error.
	UpdateFields(ctx context.Context, account *Account) error
	// Delete removes the account. Deleting a missing account is a no-op.
	Delete(ctx context.Context, number int64) error
	Stats(ctx context.Context) (*Stats, error)
}
