package datafile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankbook-dev/bankbook/internal/ledger"
	"github.com/bankbook-dev/bankbook/internal/model"
)

// Result reports the outcome of an import run. Duplicates are account
// numbers that already existed; Errors carry one message per rejected row,
// keyed by the file row number (header is row 1).
type Result struct {
	RunID      string
	Imported   int
	Duplicates []int
	Errors     []string
}

// ImportCSV reads accounts from r and adds them to the ledger. The returned
// error covers file-level failures only; row-level problems land in the
// Result.
func ImportCSV(ctx context.Context, r io.Reader, l *ledger.Ledger) (Result, error) {
	records, err := ReadCSV(r)
	if err != nil {
		return Result{RunID: uuid.NewString()}, err
	}
	return importRecords(ctx, records, l)
}

func importRecords(ctx context.Context, records [][]string, l *ledger.Ledger) (Result, error) {
	res := Result{RunID: uuid.NewString()}

	if len(records) == 0 {
		return res, fmt.Errorf("file is empty")
	}

	idx, err := headerIndex(records[0])
	if err != nil {
		return res, err
	}

	for i, rec := range records[1:] {
		rowNo := i + 2 // 1-based, after the header row
		p, err := parseRow(rec, idx)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", rowNo, err))
			continue
		}

		if _, err := l.Add(ctx, p); err != nil {
			if errors.Is(err, model.ErrDuplicateAccount) {
				res.Duplicates = append(res.Duplicates, p.Number)
				continue
			}
			res.Errors = append(res.Errors, fmt.Sprintf("row %d, account %d: %v", rowNo, p.Number, err))
			continue
		}
		res.Imported++
	}
	return res, nil
}

func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func cell(rec []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseRow(rec []string, idx map[string]int) (ledger.AddParams, error) {
	var p ledger.AddParams

	number, err := strconv.Atoi(cell(rec, idx, "account_no"))
	if err != nil {
		return p, fmt.Errorf("invalid account number %q", cell(rec, idx, "account_no"))
	}
	if number <= 0 {
		return p, fmt.Errorf("account number must be positive")
	}
	p.Number = number

	p.LastName = cell(rec, idx, "last_name")
	p.MiddleName = cell(rec, idx, "middle_name")
	p.FirstName = cell(rec, idx, "first_name")
	if p.LastName == "" {
		return p, fmt.Errorf("empty last name")
	}
	if p.MiddleName == "" {
		return p, fmt.Errorf("empty middle name")
	}
	if p.FirstName == "" {
		return p, fmt.Errorf("empty first name")
	}

	balance, err := decimal.NewFromString(cell(rec, idx, "balance"))
	if err != nil {
		return p, fmt.Errorf("invalid balance %q", cell(rec, idx, "balance"))
	}
	if balance.Sign() < 0 {
		return p, fmt.Errorf("balance must not be negative")
	}
	p.Balance = balance

	if d := cell(rec, idx, "date"); d != "" {
		t, err := time.Parse(isoDate, d)
		if err != nil {
			return p, fmt.Errorf("invalid date %q", d)
		}
		p.Opened = t
	}

	p.Place = cell(rec, idx, "location")

	// Unknown types and malformed or negative credit limits fall back to
	// their defaults rather than rejecting the row.
	p.Type = model.AccountType(strings.ToLower(cell(rec, idx, "account_type")))
	if !p.Type.Valid() {
		p.Type = model.TypeNormal
	}
	if p.Type == model.TypeCredit {
		if limit, err := decimal.NewFromString(cell(rec, idx, "credit_limit")); err == nil && limit.Sign() > 0 {
			p.CreditLimit = limit
		}
	}

	return p, nil
}
