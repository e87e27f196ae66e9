// Package datafile imports and exports accounts as CSV and XLSX files.
// Import validates row by row: bad rows are reported with their 1-based
// file row number (header included) and skipped, duplicates are reported
// separately, and good rows are added through the ledger so bound and local
// modes behave the same.
package datafile

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bankbook-dev/bankbook/internal/model"
)

var columns = []string{
	"account_no", "last_name", "middle_name", "first_name", "balance",
	"date", "location", "account_type", "credit_limit",
}

var requiredColumns = columns[:5]

const isoDate = "2006-01-02"

// ExportCSV writes all accounts with the full nine-column header. Balances
// and credit limits use two decimals; an absent date is an empty string.
func ExportCSV(w io.Writer, accounts []*model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, a := range accounts {
		if err := cw.Write(marshalAccount(a)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func marshalAccount(a *model.Account) []string {
	date := ""
	if !a.Opened.IsZero() {
		date = a.Opened.Format(isoDate)
	}
	return []string{
		fmt.Sprintf("%d", a.Number),
		a.LastName,
		a.MiddleName,
		a.FirstName,
		a.Balance.StringFixed(2),
		date,
		a.Place,
		string(a.Type),
		a.CreditLimit.StringFixed(2),
	}
}

// ReadCSV parses a CSV file into raw records, header first.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return records, nil
}
