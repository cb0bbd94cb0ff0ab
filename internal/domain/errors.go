package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateAccount  = errors.New("account number already exists")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
)
