package model

import "errors"

// Domain errors shared across the ledger, store and import layers. Callers
// match them with errors.Is; layer boundaries wrap them with context.
var (
	// ErrInvalidAmount rejects non-positive deposit/withdrawal amounts.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInsufficientFunds rejects a withdrawal exceeding a plain account's balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientFundsAndCredit rejects a withdrawal exceeding balance plus credit line.
	ErrInsufficientFundsAndCredit = errors.New("insufficient funds and credit")

	// ErrDuplicateAccount signals an account number that already exists.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrAccountNotFound signals an absent account number on an operation
	// that requires one. Plain lookups report absence without an error.
	ErrAccountNotFound = errors.New("account not found")

	// ErrNotCreditAccount rejects credit-line changes on a plain account.
	ErrNotCreditAccount = errors.New("account has no credit line")

	// ErrNoFieldsToUpdate rejects an update request that names no fields.
	ErrNoFieldsToUpdate = errors.New("no fields to update")

	// ErrValidation covers malformed account data: empty required names,
	// negative balance or credit limit, unknown account type.
	ErrValidation = errors.New("invalid account data")
)
