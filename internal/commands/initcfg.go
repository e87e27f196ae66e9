package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/config"
)

func newInitConfigCommand(env *appEnv) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(env.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", env.configPath)
			}
			if err := config.Save(env.configPath, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", env.configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
