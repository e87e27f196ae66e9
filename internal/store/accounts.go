package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankbook-dev/bankbook/internal/model"
)

const isoDate = "2006-01-02"

const selectColumns = `account_no, last_name, middle_name, first_name, balance, opened_date, place, account_type, credit_limit`

// Insert writes a new account row. Validation runs before any SQL: empty
// names, a negative balance, a negative credit limit or an unknown type are
// rejected, and an existing account number fails with ErrDuplicateAccount.
func (s *Store) Insert(ctx context.Context, a *model.Account) error {
	if err := model.Validate(a); err != nil {
		return err
	}

	exists, err := s.Exists(ctx, a.Number)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("account %d: %w", a.Number, model.ErrDuplicateAccount)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return driverErr("insert", err)
	}
	defer tx.Rollback()

	query := s.db.Rebind(`
		INSERT INTO accounts (` + selectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = tx.ExecContext(ctx, query,
		a.Number, a.LastName, a.MiddleName, a.FirstName,
		a.Balance, nullDate(a.Opened), a.Place, string(a.Type), a.CreditLimit)
	if err != nil {
		return driverErr("insert", err)
	}

	if err := tx.Commit(); err != nil {
		return driverErr("insert", err)
	}
	return nil
}

// UpdateFields names the columns an Update touches. Nil pointers are left
// alone; a pointer to the zero time clears the opening date.
type UpdateFields struct {
	LastName    *string
	MiddleName  *string
	FirstName   *string
	Balance     *decimal.Decimal
	Opened      *time.Time
	Place       *string
	CreditLimit *decimal.Decimal
}

// Update applies the supplied fields to an existing account row. It fails
// with ErrAccountNotFound for an unknown number, ErrNoFieldsToUpdate when
// nothing was supplied, and ErrValidation on a negative balance or credit
// limit.
func (s *Store) Update(ctx context.Context, number int, fields UpdateFields) error {
	exists, err := s.Exists(ctx, number)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("account %d: %w", number, model.ErrAccountNotFound)
	}

	var sets []string
	var args []interface{}

	if fields.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *fields.LastName)
	}
	if fields.MiddleName != nil {
		sets = append(sets, "middle_name = ?")
		args = append(args, *fields.MiddleName)
	}
	if fields.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *fields.FirstName)
	}
	if fields.Balance != nil {
		if fields.Balance.Sign() < 0 {
			return fmt.Errorf("balance must not be negative: %w", model.ErrValidation)
		}
		sets = append(sets, "balance = ?")
		args = append(args, *fields.Balance)
	}
	if fields.Opened != nil {
		sets = append(sets, "opened_date = ?")
		args = append(args, nullDate(*fields.Opened))
	}
	if fields.Place != nil {
		sets = append(sets, "place = ?")
		args = append(args, *fields.Place)
	}
	if fields.CreditLimit != nil {
		if fields.CreditLimit.Sign() < 0 {
			return fmt.Errorf("credit limit must not be negative: %w", model.ErrValidation)
		}
		sets = append(sets, "credit_limit = ?")
		args = append(args, *fields.CreditLimit)
	}

	if len(sets) == 0 {
		return fmt.Errorf("account %d: %w", number, model.ErrNoFieldsToUpdate)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return driverErr("update", err)
	}
	defer tx.Rollback()

	query := s.db.Rebind("UPDATE accounts SET " + strings.Join(sets, ", ") + " WHERE account_no = ?")
	args = append(args, number)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return driverErr("update", err)
	}

	if err := tx.Commit(); err != nil {
		return driverErr("update", err)
	}
	return nil
}

// Delete removes an account row, failing with ErrAccountNotFound when absent.
func (s *Store) Delete(ctx context.Context, number int) error {
	exists, err := s.Exists(ctx, number)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("account %d: %w", number, model.ErrAccountNotFound)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return driverErr("delete", err)
	}
	defer tx.Rollback()

	query := s.db.Rebind("DELETE FROM accounts WHERE account_no = ?")
	if _, err := tx.ExecContext(ctx, query, number); err != nil {
		return driverErr("delete", err)
	}

	if err := tx.Commit(); err != nil {
		return driverErr("delete", err)
	}
	return nil
}

// GetAll returns every account ordered by account number.
func (s *Store) GetAll(ctx context.Context) ([]*model.Account, error) {
	query := "SELECT " + selectColumns + " FROM accounts ORDER BY account_no"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, driverErr("get all", err)
	}
	defer rows.Close()

	accounts, err := scanAccounts(rows)
	if err != nil {
		return nil, driverErr("get all", err)
	}
	return accounts, nil
}

// GetOne returns a single account, or ErrAccountNotFound.
func (s *Store) GetOne(ctx context.Context, number int) (*model.Account, error) {
	query := s.db.Rebind("SELECT " + selectColumns + " FROM accounts WHERE account_no = ?")
	row := s.db.QueryRowContext(ctx, query, number)

	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", number, model.ErrAccountNotFound)
	}
	if err != nil {
		return nil, driverErr("get one", err)
	}
	return a, nil
}

// Filter restricts a GetFiltered query. Zero values leave a predicate off;
// all supplied predicates are conjoined with AND. Place is matched as a
// substring via LIKE.
type Filter struct {
	Type       model.AccountType
	BalanceMin *decimal.Decimal
	BalanceMax *decimal.Decimal
	OpenedFrom time.Time
	OpenedTo   time.Time
	Place      string
}

// GetFiltered returns accounts matching the filter, ordered by account
// number.
func (s *Store) GetFiltered(ctx context.Context, f Filter) ([]*model.Account, error) {
	var conds []string
	var args []interface{}

	if f.Type != "" {
		conds = append(conds, "account_type = ?")
		args = append(args, string(f.Type))
	}
	if f.BalanceMin != nil {
		conds = append(conds, "balance >= ?")
		args = append(args, *f.BalanceMin)
	}
	if f.BalanceMax != nil {
		conds = append(conds, "balance <= ?")
		args = append(args, *f.BalanceMax)
	}
	if !f.OpenedFrom.IsZero() {
		conds = append(conds, "opened_date >= ?")
		args = append(args, f.OpenedFrom.Format(isoDate))
	}
	if !f.OpenedTo.IsZero() {
		conds = append(conds, "opened_date <= ?")
		args = append(args, f.OpenedTo.Format(isoDate))
	}
	if f.Place != "" {
		conds = append(conds, "place LIKE ?")
		args = append(args, "%"+f.Place+"%")
	}

	query := "SELECT " + selectColumns + " FROM accounts"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY account_no"

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, driverErr("get filtered", err)
	}
	defer rows.Close()

	accounts, err := scanAccounts(rows)
	if err != nil {
		return nil, driverErr("get filtered", err)
	}
	return accounts, nil
}

// Exists reports whether an account number is present.
func (s *Store) Exists(ctx context.Context, number int) (bool, error) {
	query := s.db.Rebind("SELECT COUNT(*) FROM accounts WHERE account_no = ?")
	var count int
	if err := s.db.QueryRowContext(ctx, query, number).Scan(&count); err != nil {
		return false, driverErr("exists", err)
	}
	return count > 0, nil
}

func nullDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(isoDate), Valid: true}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var a model.Account
	var opened sql.NullString
	var accountType string

	err := row.Scan(&a.Number, &a.LastName, &a.MiddleName, &a.FirstName,
		&a.Balance, &opened, &a.Place, &accountType, &a.CreditLimit)
	if err != nil {
		return nil, err
	}

	a.Type = model.AccountType(accountType)
	if opened.Valid && opened.String != "" {
		t, err := time.Parse(isoDate, opened.String)
		if err != nil {
			return nil, fmt.Errorf("parsing opened_date %q: %w", opened.String, err)
		}
		a.Opened = t
	}
	return &a, nil
}

func scanAccounts(rows *sql.Rows) ([]*model.Account, error) {
	var accounts []*model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
