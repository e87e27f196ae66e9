// Package ledger holds the in-memory working set of accounts and keeps it
// synchronized with a durable store. Mutations change memory first, then
// write through; when the write fails the in-memory change is undone, so no
// partial state survives a failed call.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bankbook-dev/bankbook/internal/model"
	"github.com/bankbook-dev/bankbook/internal/store"
)

// Store is the durable backend the Ledger writes through to. *store.Store
// satisfies it; tests substitute a fake.
type Store interface {
	Insert(ctx context.Context, a *model.Account) error
	Update(ctx context.Context, number int, fields store.UpdateFields) error
	Delete(ctx context.Context, number int) error
	GetAll(ctx context.Context) ([]*model.Account, error)
	GetFiltered(ctx context.Context, f store.Filter) ([]*model.Account, error)
}

// Ledger is an ordered collection of accounts keyed by account number. It
// owns the in-memory lifetime of its accounts. A nil store means local mode:
// all operations work purely in memory.
type Ledger struct {
	store    Store
	log      zerolog.Logger
	accounts []*model.Account
	byNumber map[int]*model.Account
}

// New creates a Ledger. st may be nil for local (unbound) mode.
func New(st Store, log zerolog.Logger) *Ledger {
	return &Ledger{
		store:    st,
		log:      log,
		byNumber: make(map[int]*model.Account),
	}
}

// Load replaces the in-memory set with a fresh snapshot from the store.
// When the read fails the previous snapshot is kept and the error returned.
// Unbound ledgers load nothing.
func (l *Ledger) Load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}

	records, err := l.store.GetAll(ctx)
	if err != nil {
		l.log.Error().Err(err).Msg("loading accounts from store failed, keeping previous snapshot")
		return fmt.Errorf("loading accounts: %w", err)
	}

	accounts := make([]*model.Account, 0, len(records))
	byNumber := make(map[int]*model.Account, len(records))
	for _, r := range records {
		a := r
		// A credit row whose stored limit is zero gets the default line,
		// same as a credit account opened without an explicit limit.
		if r.Type == model.TypeCredit && r.CreditLimit.IsZero() {
			a = model.NewCreditAccount(r.Number, r.LastName, r.MiddleName, r.FirstName, r.Balance, r.Opened, r.Place, decimal.Zero)
		}
		accounts = append(accounts, a)
		byNumber[a.Number] = a
	}

	l.accounts = accounts
	l.byNumber = byNumber
	l.log.Debug().Int("count", len(accounts)).Msg("accounts loaded")
	return nil
}

// Get returns the account with the given number, or nil when absent.
// Absence is a normal outcome here, not an error.
func (l *Ledger) Get(number int) *model.Account {
	return l.byNumber[number]
}

// List returns the accounts in insertion/load order.
func (l *Ledger) List() []*model.Account {
	out := make([]*model.Account, len(l.accounts))
	copy(out, l.accounts)
	return out
}

// Len returns the number of accounts held.
func (l *Ledger) Len() int {
	return len(l.accounts)
}

// Filtered returns accounts matching f. A bound ledger pushes the predicates
// down to the store so they run in SQL; an unbound ledger matches against the
// in-memory set with the same semantics (inclusive bounds, substring place
// match, dateless accounts excluded under date bounds).
func (l *Ledger) Filtered(ctx context.Context, f store.Filter) ([]*model.Account, error) {
	if l.store != nil {
		accounts, err := l.store.GetFiltered(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("filtering accounts: %w", err)
		}
		return accounts, nil
	}

	var out []*model.Account
	for _, a := range l.accounts {
		if matchesFilter(a, f) {
			out = append(out, a)
		}
	}
	return out, nil
}

func matchesFilter(a *model.Account, f store.Filter) bool {
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	if f.BalanceMin != nil && a.Balance.LessThan(*f.BalanceMin) {
		return false
	}
	if f.BalanceMax != nil && a.Balance.GreaterThan(*f.BalanceMax) {
		return false
	}
	if !f.OpenedFrom.IsZero() && (a.Opened.IsZero() || a.Opened.Before(f.OpenedFrom)) {
		return false
	}
	if !f.OpenedTo.IsZero() && (a.Opened.IsZero() || a.Opened.After(f.OpenedTo)) {
		return false
	}
	if f.Place != "" && !strings.Contains(a.Place, f.Place) {
		return false
	}
	return true
}

// AddParams holds the fields for opening an account.
type AddParams struct {
	Number      int
	LastName    string
	MiddleName  string
	FirstName   string
	Type        model.AccountType
	Balance     decimal.Decimal
	Opened      time.Time
	Place       string
	CreditLimit decimal.Decimal // only meaningful for credit accounts
}

// Add opens an account. It fails fast on an in-memory duplicate before any
// store write; the store re-checks uniqueness as the ultimate authority. If
// the write-through fails, the freshly appended account is removed again.
func (l *Ledger) Add(ctx context.Context, p AddParams) (*model.Account, error) {
	if l.Get(p.Number) != nil {
		return nil, fmt.Errorf("account %d: %w", p.Number, model.ErrDuplicateAccount)
	}

	var a *model.Account
	if p.Type == model.TypeCredit {
		a = model.NewCreditAccount(p.Number, p.LastName, p.MiddleName, p.FirstName, p.Balance, p.Opened, p.Place, p.CreditLimit)
	} else {
		a = model.NewAccount(p.Number, p.LastName, p.MiddleName, p.FirstName, p.Balance, p.Opened, p.Place)
	}
	if err := model.Validate(a); err != nil {
		return nil, err
	}

	l.accounts = append(l.accounts, a)
	l.byNumber[a.Number] = a

	if l.store != nil {
		if err := l.store.Insert(ctx, a); err != nil {
			l.removeAt(len(l.accounts) - 1)
			l.log.Warn().Err(err).Int("account", a.Number).Msg("store insert failed, account rolled back")
			return nil, fmt.Errorf("persisting account %d: %w", a.Number, err)
		}
	}
	return a, nil
}

// Remove deletes an account by number. When the store delete fails the
// account is reinstated at its previous position.
func (l *Ledger) Remove(ctx context.Context, number int) error {
	idx := l.indexOf(number)
	if idx < 0 {
		return fmt.Errorf("account %d: %w", number, model.ErrAccountNotFound)
	}
	a := l.accounts[idx]
	l.removeAt(idx)

	if l.store != nil {
		if err := l.store.Delete(ctx, number); err != nil {
			l.insertAt(idx, a)
			l.log.Warn().Err(err).Int("account", number).Msg("store delete failed, account reinstated")
			return fmt.Errorf("deleting account %d: %w", number, err)
		}
	}
	return nil
}

// Deposit adds amount to an account and pushes the new balance to the store.
// A store failure rolls the balance back.
func (l *Ledger) Deposit(ctx context.Context, number int, amount decimal.Decimal) (decimal.Decimal, error) {
	a := l.Get(number)
	if a == nil {
		return decimal.Decimal{}, fmt.Errorf("account %d: %w", number, model.ErrAccountNotFound)
	}

	before := a.Balance
	balance, err := a.Deposit(amount)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if err := l.syncBalance(ctx, a); err != nil {
		a.Balance = before
		return decimal.Decimal{}, err
	}
	return balance, nil
}

// Withdraw removes amount from an account, applying the credit-line rule for
// credit accounts, and pushes the result to the store. A store failure rolls
// both balance and credit limit back.
func (l *Ledger) Withdraw(ctx context.Context, number int, amount decimal.Decimal) (decimal.Decimal, error) {
	a := l.Get(number)
	if a == nil {
		return decimal.Decimal{}, fmt.Errorf("account %d: %w", number, model.ErrAccountNotFound)
	}

	beforeBalance := a.Balance
	beforeLimit := a.CreditLimit
	balance, err := a.Withdraw(amount)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if err := l.syncBalance(ctx, a); err != nil {
		a.Balance = beforeBalance
		a.CreditLimit = beforeLimit
		return decimal.Decimal{}, err
	}
	return balance, nil
}

// ModifyParams names the descriptive fields ModifyFields may change. Nil
// pointers leave a field alone; a pointer to the zero time clears the
// opening date.
type ModifyParams struct {
	LastName   *string
	MiddleName *string
	FirstName  *string
	Opened     *time.Time
	Place      *string
}

// ModifyFields updates an account's descriptive fields and syncs all of its
// current values to the store. A store failure restores the previous values.
func (l *Ledger) ModifyFields(ctx context.Context, number int, p ModifyParams) (*model.Account, error) {
	a := l.Get(number)
	if a == nil {
		return nil, fmt.Errorf("account %d: %w", number, model.ErrAccountNotFound)
	}

	before := *a
	if p.LastName != nil {
		a.LastName = *p.LastName
	}
	if p.MiddleName != nil {
		a.MiddleName = *p.MiddleName
	}
	if p.FirstName != nil {
		a.FirstName = *p.FirstName
	}
	if p.Opened != nil {
		a.Opened = *p.Opened
	}
	if p.Place != nil {
		a.Place = *p.Place
	}
	if err := model.Validate(a); err != nil {
		*a = before
		return nil, err
	}

	if l.store != nil {
		fields := store.UpdateFields{
			LastName:   &a.LastName,
			MiddleName: &a.MiddleName,
			FirstName:  &a.FirstName,
			Opened:     &a.Opened,
			Place:      &a.Place,
		}
		if err := l.store.Update(ctx, number, fields); err != nil {
			*a = before
			l.log.Warn().Err(err).Int("account", number).Msg("store update failed, fields rolled back")
			return nil, fmt.Errorf("updating account %d: %w", number, err)
		}
	}
	return a, nil
}

// ModifyCredit changes the credit limit of a credit account and syncs it.
func (l *Ledger) ModifyCredit(ctx context.Context, number int, limit decimal.Decimal) (*model.Account, error) {
	a := l.Get(number)
	if a == nil {
		return nil, fmt.Errorf("account %d: %w", number, model.ErrAccountNotFound)
	}
	if _, ok := a.CreditLine(); !ok {
		return nil, fmt.Errorf("account %d: %w", number, model.ErrNotCreditAccount)
	}
	if limit.Sign() < 0 {
		return nil, fmt.Errorf("credit limit must not be negative: %w", model.ErrValidation)
	}

	before := a.CreditLimit
	a.CreditLimit = limit

	if l.store != nil {
		if err := l.store.Update(ctx, number, store.UpdateFields{CreditLimit: &limit}); err != nil {
			a.CreditLimit = before
			l.log.Warn().Err(err).Int("account", number).Msg("store update failed, credit limit rolled back")
			return nil, fmt.Errorf("updating account %d: %w", number, err)
		}
	}
	return a, nil
}

func (l *Ledger) syncBalance(ctx context.Context, a *model.Account) error {
	if l.store == nil {
		return nil
	}
	fields := store.UpdateFields{Balance: &a.Balance}
	if a.Type == model.TypeCredit {
		fields.CreditLimit = &a.CreditLimit
	}
	if err := l.store.Update(ctx, a.Number, fields); err != nil {
		l.log.Warn().Err(err).Int("account", a.Number).Msg("store balance sync failed, rolling back")
		return fmt.Errorf("syncing account %d: %w", a.Number, err)
	}
	return nil
}

func (l *Ledger) indexOf(number int) int {
	for i, a := range l.accounts {
		if a.Number == number {
			return i
		}
	}
	return -1
}

func (l *Ledger) removeAt(idx int) {
	delete(l.byNumber, l.accounts[idx].Number)
	l.accounts = append(l.accounts[:idx], l.accounts[idx+1:]...)
}

func (l *Ledger) insertAt(idx int, a *model.Account) {
	l.accounts = append(l.accounts, nil)
	copy(l.accounts[idx+1:], l.accounts[idx:])
	l.accounts[idx] = a
	l.byNumber[a.Number] = a
}
