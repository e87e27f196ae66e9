package datafile

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bankbook-dev/bankbook/internal/ledger"
	"github.com/bankbook-dev/bankbook/internal/model"
)

const sheetName = "Accounts"

// xlsxRow builds one typed sheet row: numeric columns stay numbers so the
// resulting workbook sorts and sums correctly.
func xlsxRow(a *model.Account) []interface{} {
	date := ""
	if !a.Opened.IsZero() {
		date = a.Opened.Format(isoDate)
	}
	return []interface{}{
		a.Number,
		a.LastName,
		a.MiddleName,
		a.FirstName,
		a.Balance.InexactFloat64(),
		date,
		a.Place,
		string(a.Type),
		a.CreditLimit.InexactFloat64(),
	}
}

// ExportXLSX writes all accounts to an XLSX workbook with a single Accounts
// sheet, sizing each column to its widest cell. Money columns carry a
// two-decimal number format.
func ExportXLSX(path string, accounts []*model.Account) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	widths := make([]int, len(columns))
	writeRow := func(rowNo int, values []interface{}) error {
		for col, v := range values {
			cellRef, err := excelize.CoordinatesToCellName(col+1, rowNo)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cellRef, v); err != nil {
				return err
			}
			if n := len(fmt.Sprint(v)); n > widths[col] {
				widths[col] = n
			}
		}
		return nil
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := writeRow(1, header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, a := range accounts {
		if err := writeRow(i+2, xlsxRow(a)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if len(accounts) > 0 {
		// NumFmt 2 is the builtin "0.00" format.
		money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
		if err != nil {
			return fmt.Errorf("creating money style: %w", err)
		}
		lastRow := len(accounts) + 1
		for _, col := range []string{"E", "I"} { // balance, credit_limit
			top := fmt.Sprintf("%s2", col)
			bottom := fmt.Sprintf("%s%d", col, lastRow)
			if err := f.SetCellStyle(sheetName, top, bottom, money); err != nil {
				return fmt.Errorf("styling column %s: %w", col, err)
			}
		}
	}

	for col, w := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("sizing column %d: %w", col+1, err)
		}
		width := w + 2
		if width > 50 {
			width = 50
		}
		if err := f.SetColWidth(sheetName, name, name, float64(width)); err != nil {
			return fmt.Errorf("sizing column %s: %w", name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// ImportXLSX reads accounts from the Accounts sheet of an XLSX workbook and
// adds them to the ledger, with the same row-level reporting as ImportCSV.
func ImportXLSX(ctx context.Context, path string, l *ledger.Ledger) (Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return Result{}, fmt.Errorf("reading sheet %s: %w", sheetName, err)
	}
	return importRecords(ctx, rows, l)
}
