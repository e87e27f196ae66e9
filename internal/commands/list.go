package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closer, err := env.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			accounts := l.List()
			if len(accounts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No accounts")
				return nil
			}
			for _, a := range accounts {
				fmt.Fprintln(cmd.OutOrStdout(), a)
			}
			return nil
		},
	}
}

func newGetCommand(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "get <account-number>",
		Short: "Show one account",
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

			a := l.Get(number)
			if a == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Account %d not found\n", number)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), a)
			return nil
		},
	}
}
