package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInsufficientFunds is returned when a conditional debit matches no
	// document, i.e. the user's balance is below the requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
