package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType discriminates plain accounts from credit accounts.
type AccountType string

const (
	TypeNormal AccountType = "normal"
	TypeCredit AccountType = "credit"
)

// Valid reports whether t is a recognized account type.
func (t AccountType) Valid() bool {
	return t == TypeNormal || t == TypeCredit
}

// DefaultCreditLimit is granted when a credit account is opened without an
// explicit limit.
var DefaultCreditLimit = decimal.NewFromInt(500)

// Account is a customer bank account. Plain and credit accounts share one
// struct; Type tags the variant and CreditLimit is zero for plain accounts.
// The only behavioral divergence is the withdrawal rule.
type Account struct {
	Number      int
	LastName    string
	MiddleName  string
	FirstName   string
	Balance     decimal.Decimal
	Opened      time.Time // zero when the opening date is unknown
	Place       string
	Type        AccountType
	CreditLimit decimal.Decimal
}

// NewAccount creates a plain account.
func NewAccount(number int, last, middle, first string, balance decimal.Decimal, opened time.Time, place string) *Account {
	return &Account{
		Number:     number,
		LastName:   last,
		MiddleName: middle,
		FirstName:  first,
		Balance:    balance,
		Opened:     opened,
		Place:      place,
		Type:       TypeNormal,
	}
}

// NewCreditAccount creates a credit account. A zero limit gets
// DefaultCreditLimit.
func NewCreditAccount(number int, last, middle, first string, balance decimal.Decimal, opened time.Time, place string, limit decimal.Decimal) *Account {
	if limit.IsZero() {
		limit = DefaultCreditLimit
	}
	a := NewAccount(number, last, middle, first, balance, opened, place)
	a.Type = TypeCredit
	a.CreditLimit = limit
	return a
}

// FullName returns "last middle first", the display order used throughout.
func (a *Account) FullName() string {
	return fmt.Sprintf("%s %s %s", a.LastName, a.MiddleName, a.FirstName)
}

// CreditLine returns the credit limit and whether the account has one.
func (a *Account) CreditLine() (decimal.Decimal, bool) {
	if a.Type != TypeCredit {
		return decimal.Decimal{}, false
	}
	return a.CreditLimit, true
}

// Deposit adds amount to the balance and returns the new balance.
func (a *Account) Deposit(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Decimal{}, fmt.Errorf("deposit of %s: %w", amount, ErrInvalidAmount)
	}
	a.Balance = a.Balance.Add(amount)
	return a.Balance, nil
}

// Withdraw removes amount from the account and returns the new balance.
//
// A plain account pays from its balance only. A credit account pays from its
// balance first and draws the shortfall from the credit line: the balance
// drops to zero and the limit shrinks by the shortfall. A withdrawal equal to
// balance plus limit succeeds and exhausts the line; anything above fails
// with both fields untouched.
func (a *Account) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Decimal{}, fmt.Errorf("withdrawal of %s: %w", amount, ErrInvalidAmount)
	}

	if amount.LessThanOrEqual(a.Balance) {
		a.Balance = a.Balance.Sub(amount)
		return a.Balance, nil
	}

	if a.Type != TypeCredit {
		return decimal.Decimal{}, fmt.Errorf("withdrawal of %s exceeds balance %s: %w",
			amount, a.Balance.StringFixed(2), ErrInsufficientFunds)
	}

	if amount.GreaterThan(a.Balance.Add(a.CreditLimit)) {
		return decimal.Decimal{}, fmt.Errorf("withdrawal of %s exceeds balance %s plus credit %s: %w",
			amount, a.Balance.StringFixed(2), a.CreditLimit.StringFixed(2), ErrInsufficientFundsAndCredit)
	}

	shortfall := amount.Sub(a.Balance)
	a.Balance = decimal.Zero
	a.CreditLimit = a.CreditLimit.Sub(shortfall)
	return a.Balance, nil
}

// Validate checks the invariants every stored or ledgered account must hold:
// positive number, non-empty names, non-negative balance and credit limit,
// recognized type. Entity mutators assume these already hold.
func Validate(a *Account) error {
	if a.Number <= 0 {
		return fmt.Errorf("account number must be positive: %w", ErrValidation)
	}
	if a.LastName == "" || a.MiddleName == "" || a.FirstName == "" {
		return fmt.Errorf("names must not be empty: %w", ErrValidation)
	}
	if a.Balance.Sign() < 0 {
		return fmt.Errorf("balance must not be negative: %w", ErrValidation)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("unknown account type %q: %w", a.Type, ErrValidation)
	}
	if a.CreditLimit.Sign() < 0 {
		return fmt.Errorf("credit limit must not be negative: %w", ErrValidation)
	}
	return nil
}

// String renders the account for logs and CLI output.
func (a *Account) String() string {
	s := fmt.Sprintf("Account No: %d, %s, Balance: %s", a.Number, a.FullName(), a.Balance.StringFixed(2))
	if !a.Opened.IsZero() {
		s += ", Opened: " + a.Opened.Format("2006-01-02")
	}
	if a.Place != "" {
		s += ", Place: " + a.Place
	}
	if a.Type == TypeCredit {
		s += ", Credit limit: " + a.CreditLimit.StringFixed(2)
	}
	return s
}
