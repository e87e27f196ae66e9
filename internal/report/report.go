// Package report projects accounts into flat rows for filtering, statistics
// and export. Rows carry float64 balances; exact arithmetic stays in the
// ledger, this is a read-only reporting view.
package report

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bankbook-dev/bankbook/internal/model"
)

// Row is the tabular projection of one account.
type Row struct {
	AccountNo   int
	LastName    string
	MiddleName  string
	FirstName   string
	FullName    string
	Balance     float64
	Date        time.Time // zero when the account has no opening date
	Location    string
	AccountType model.AccountType
	CreditLimit float64

	// TypeMeanBalance is the mean balance across all rows sharing this
	// row's account type. Set by FilterByType, zero elsewhere.
	TypeMeanBalance float64
}

// Project flattens accounts into rows, preserving order.
func Project(accounts []*model.Account) []Row {
	rows := make([]Row, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, Row{
			AccountNo:   a.Number,
			LastName:    a.LastName,
			MiddleName:  a.MiddleName,
			FirstName:   a.FirstName,
			FullName:    a.FullName(),
			Balance:     a.Balance.InexactFloat64(),
			Date:        a.Opened,
			Location:    a.Place,
			AccountType: a.Type,
			CreditLimit: a.CreditLimit.InexactFloat64(),
		})
	}
	return rows
}

// FilterBalanceRange keeps rows with min <= balance <= max, both ends
// inclusive, sorted by balance descending.
func FilterBalanceRange(rows []Row, min, max float64) []Row {
	var out []Row
	for _, r := range rows {
		if r.Balance >= min && r.Balance <= max {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Balance > out[j].Balance })
	return out
}

// FilterByType keeps rows of the given type; an empty type keeps everything.
// Each returned row carries the mean balance of its account type, computed
// over the full input set. Rows come back sorted by type then balance
// descending.
func FilterByType(rows []Row, typ model.AccountType) []Row {
	sums := make(map[model.AccountType]float64)
	counts := make(map[model.AccountType]int)
	for _, r := range rows {
		sums[r.AccountType] += r.Balance
		counts[r.AccountType]++
	}

	var out []Row
	for _, r := range rows {
		if typ == "" || r.AccountType == typ {
			r.TypeMeanBalance = sums[r.AccountType] / float64(counts[r.AccountType])
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AccountType != out[j].AccountType {
			return out[i].AccountType < out[j].AccountType
		}
		return out[i].Balance > out[j].Balance
	})
	return out
}

// FilterDateLocation keeps rows matching an opening-date range and/or a
// location substring (case-insensitive). Rows without a date are dropped
// whenever a date bound is supplied. Results sort by date descending, dateless
// rows last.
func FilterDateLocation(rows []Row, from, to time.Time, location string) []Row {
	location = strings.ToLower(strings.TrimSpace(location))

	var out []Row
	for _, r := range rows {
		if !from.IsZero() || !to.IsZero() {
			if r.Date.IsZero() {
				continue
			}
			if !from.IsZero() && r.Date.Before(from) {
				continue
			}
			if !to.IsZero() && r.Date.After(to) {
				continue
			}
		}
		if location != "" && !strings.Contains(strings.ToLower(r.Location), location) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.IsZero() {
			return false
		}
		if out[j].Date.IsZero() {
			return true
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Stats summarizes a set of rows.
type Stats struct {
	Count          int
	BalanceTotal   float64
	BalanceMean    float64
	BalanceMedian  float64
	BalanceStdDev  float64
	BalanceMin     float64
	BalanceMax     float64
	NormalAccounts int
	CreditAccounts int
	CreditTotal    float64 // sum of credit limits over credit accounts
	CreditMean     float64
}

// Summarize computes descriptive statistics over the rows.
func Summarize(rows []Row) Stats {
	var s Stats
	s.Count = len(rows)
	if s.Count == 0 {
		return s
	}

	balances := make([]float64, 0, len(rows))
	s.BalanceMin = math.Inf(1)
	s.BalanceMax = math.Inf(-1)
	for _, r := range rows {
		balances = append(balances, r.Balance)
		s.BalanceTotal += r.Balance
		s.BalanceMin = math.Min(s.BalanceMin, r.Balance)
		s.BalanceMax = math.Max(s.BalanceMax, r.Balance)
		switch r.AccountType {
		case model.TypeCredit:
			s.CreditAccounts++
			s.CreditTotal += r.CreditLimit
		default:
			s.NormalAccounts++
		}
	}
	s.BalanceMean = s.BalanceTotal / float64(s.Count)

	sort.Float64s(balances)
	mid := len(balances) / 2
	if len(balances)%2 == 1 {
		s.BalanceMedian = balances[mid]
	} else {
		s.BalanceMedian = (balances[mid-1] + balances[mid]) / 2
	}

	// Sample standard deviation, matching the usual spreadsheet convention.
	if s.Count > 1 {
		var sq float64
		for _, b := range balances {
			d := b - s.BalanceMean
			sq += d * d
		}
		s.BalanceStdDev = math.Sqrt(sq / float64(s.Count-1))
	}

	if s.CreditAccounts > 0 {
		s.CreditMean = s.CreditTotal / float64(s.CreditAccounts)
	}
	return s
}
