package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/model"
	"github.com/bankbook-dev/bankbook/internal/report"
	"github.com/bankbook-dev/bankbook/internal/store"
)

func newFilterCommand(env *appEnv) *cobra.Command {
	var (
		accountType string
		minBalance  float64
		maxBalance  float64
		from, to    string
		location    string
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter accounts by balance range, type, date or location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fromTime, toTime time.Time
			var err error
			if from != "" {
				if fromTime, err = time.Parse(isoDate, from); err != nil {
					return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", from)
				}
			}
			if to != "" {
				if toTime, err = time.Parse(isoDate, to); err != nil {
					return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", to)
				}
			}

			l, closer, err := env.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			// Predicates run in the store (SQL when bound); the report
			// layer handles ordering and the per-type annotation.
			f := store.Filter{
				Type:       model.AccountType(accountType),
				OpenedFrom: fromTime,
				OpenedTo:   toTime,
				Place:      location,
			}
			if cmd.Flags().Changed("min-balance") {
				min := decimal.NewFromFloat(minBalance)
				f.BalanceMin = &min
			}
			if cmd.Flags().Changed("max-balance") {
				max := decimal.NewFromFloat(maxBalance)
				f.BalanceMax = &max
			}
			accounts, err := l.Filtered(cmd.Context(), f)
			if err != nil {
				return err
			}

			rows := report.Project(accounts)
			if f.BalanceMin != nil || f.BalanceMax != nil {
				rows = report.FilterBalanceRange(rows, minBalance, maxBalance)
			}
			if accountType != "" {
				rows = report.FilterByType(rows, model.AccountType(accountType))
			}
			if from != "" || to != "" || location != "" {
				rows = report.FilterDateLocation(rows, fromTime, toTime, location)
			}

			printRows(cmd, rows)
			if accountType != "" && len(rows) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Mean balance (%s): %.2f\n", accountType, rows[0].TypeMeanBalance)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accountType, "type", "", "account type: normal or credit")
	cmd.Flags().Float64Var(&minBalance, "min-balance", 0, "minimum balance (inclusive)")
	cmd.Flags().Float64Var(&maxBalance, "max-balance", 1e15, "maximum balance (inclusive)")
	cmd.Flags().StringVar(&from, "from", "", "earliest opening date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "latest opening date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&location, "location", "", "opening place substring")

	return cmd
}

func printRows(cmd *cobra.Command, rows []report.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching accounts")
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tNAME\tBALANCE\tDATE\tLOCATION\tTYPE\tCREDIT LIMIT")
	for _, r := range rows {
		date := ""
		if !r.Date.IsZero() {
			date = r.Date.Format(isoDate)
		}
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\t%s\t%.2f\n",
			r.AccountNo, r.FullName, r.Balance, date, r.Location, r.AccountType, r.CreditLimit)
	}
	_ = w.Flush()
}

func newStatsCommand(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show summary statistics over all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closer, err := env.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			s := report.Summarize(report.Project(l.List()))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Accounts:        %d (%d normal, %d credit)\n", s.Count, s.NormalAccounts, s.CreditAccounts)
			if s.Count == 0 {
				return nil
			}
			fmt.Fprintf(out, "Balance total:   %.2f\n", s.BalanceTotal)
			fmt.Fprintf(out, "Balance mean:    %.2f\n", s.BalanceMean)
			fmt.Fprintf(out, "Balance median:  %.2f\n", s.BalanceMedian)
			fmt.Fprintf(out, "Balance stddev:  %.2f\n", s.BalanceStdDev)
			fmt.Fprintf(out, "Balance min/max: %.2f / %.2f\n", s.BalanceMin, s.BalanceMax)
			if s.CreditAccounts > 0 {
				fmt.Fprintf(out, "Credit total:    %.2f\n", s.CreditTotal)
				fmt.Fprintf(out, "Credit mean:     %.2f\n", s.CreditMean)
			}
			return nil
		},
	}
}
