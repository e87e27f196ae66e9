package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newDepositCommand(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <account-number> <amount>",
		Short: "Deposit into an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseAccountNumber(args[0])
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			l, closer, err := env.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			balance, err := l.Deposit(cmd.Context(), number, amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "New balance: %s\n", balance.StringFixed(2))
			return nil
		},
	}
}

func newWithdrawCommand(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <account-number> <amount>",
		Short: "Withdraw from an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseAccountNumber(args[0])
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			l, closer, err := env.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			balance, err := l.Withdraw(cmd.Context(), number, amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "New balance: %s\n", balance.StringFixed(2))
			return nil
		},
	}
}
