package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/ledger"
	"github.com/bankbook-dev/bankbook/internal/model"
)

const isoDate = "2006-01-02"

func parseAccountNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid account number %q", arg)
	}
	return n, nil
}

func newAddCommand(env *appEnv) *cobra.Command {
	var (
		last, middle, first string
		accountType         string
		balance             string
		opened              string
		place               string
		creditLimit         string
	)

	cmd := &cobra.Command{
		Use:   "add <account-number>",
		Short: "Open a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseAccountNumber(args[0])
			if err != nil {
				return err
			}

			p := ledger.AddParams{
				Number:     number,
				LastName:   last,
				MiddleName: middle,
				FirstName:  first,
				Type:       model.AccountType(accountType),
				Place:      place,
			}
			if p.Balance, err = decimal.NewFromString(balance); err != nil {
				return fmt.Errorf("invalid balance %q", balance)
			}
			if creditLimit != "" {
				if p.CreditLimit, err = decimal.NewFromString(creditLimit); err != nil {
					return fmt.Errorf("invalid credit limit %q", creditLimit)
				}
			}
			if opened != "" {
				if p.Opened, err = time.Parse(isoDate, opened); err != nil {
					return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", opened)
				}
			}

			l, closer, err := env.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			a, err := l.Add(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a)
			return nil
		},
	}

	cmd.Flags().StringVar(&last, "last", "", "last name (required)")
	cmd.Flags().StringVar(&middle, "middle", "", "middle name (required)")
	cmd.Flags().StringVar(&first, "first", "", "first name (required)")
	_ = cmd.MarkFlagRequired("last")
	_ = cmd.MarkFlagRequired("middle")
	_ = cmd.MarkFlagRequired("first")
	cmd.Flags().StringVar(&accountType, "type", "normal", "account type: normal or credit")
	cmd.Flags().StringVar(&balance, "balance", "1000", "opening balance")
	cmd.Flags().StringVar(&opened, "date", "", "opening date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&place, "place", "", "opening place")
	cmd.Flags().StringVar(&creditLimit, "credit-limit", "", "credit limit (credit accounts only)")

	return cmd
}

func newRemoveCommand(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <account-number>",
		Short: "Close and delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseAccountNumber(args[0])
			if err != nil {
				return err
			}

			l, closer, err := env.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			if err := l.Remove(cmd.Context(), number); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %d removed\n", number)
			return nil
		},
	}
}

func newModifyCommand(env *appEnv) *cobra.Command {
	var (
		last, middle, first string
		opened              string
		place               string
	)

	cmd := &cobra.Command{
		Use:   "modify <account-number>",
		Short: "Change an account's descriptive fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseAccountNumber(args[0])
			if err != nil {
				return err
			}

			var p ledger.ModifyParams
			if cmd.Flags().Changed("last") {
				p.LastName = &last
			}
			if cmd.Flags().Changed("middle") {
				p.MiddleName = &middle
			}
			if cmd.Flags().Changed("first") {
				p.FirstName = &first
			}
			if cmd.Flags().Changed("place") {
				p.Place = &place
			}
			if cmd.Flags().Changed("date") {
				t := time.Time{} // --date "" clears the opening date
				if opened != "" {
					if t, err = time.Parse(isoDate, opened); err != nil {
						return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", opened)
					}
				}
				p.Opened = &t
			}

			l, closer, err := env.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			a, err := l.ModifyFields(cmd.Context(), number, p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a)
			return nil
		},
	}

	cmd.Flags().StringVar(&last, "last", "", "new last name")
	cmd.Flags().StringVar(&middle, "middle", "", "new middle name")
	cmd.Flags().StringVar(&first, "first", "", "new first name")
	cmd.Flags().StringVar(&opened, "date", "", "new opening date (YYYY-MM-DD, empty clears)")
	cmd.Flags().StringVar(&place, "place", "", "new opening place")

	return cmd
}

func newCreditCommand(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "credit <account-number> <limit>",
		Short: "Set the credit limit of a credit account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseAccountNumber(args[0])
			if err != nil {
				return err
			}
			limit, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid credit limit %q", args[1])
			}

			l, closer, err := env.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			a, err := l.ModifyCredit(cmd.Context(), number, limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a)
			return nil
		},
	}
}
