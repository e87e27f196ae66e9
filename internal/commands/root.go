// Package commands wires the bankbook CLI. Every subcommand opens the
// ledger the same way: bound to the configured store when bankbook.yaml
// exists, otherwise in local (in-memory) mode.
package commands

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/buildinfo"
	"github.com/bankbook-dev/bankbook/internal/config"
	"github.com/bankbook-dev/bankbook/internal/ledger"
	"github.com/bankbook-dev/bankbook/internal/logging"
	"github.com/bankbook-dev/bankbook/internal/store"
)

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	env := &appEnv{}

	rootCmd := &cobra.Command{
		Use:     "bankbook",
		Short:   "Bank account management over an SQL store",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&env.configPath, "config", "bankbook.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&env.verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitConfigCommand(env),
		newAddCommand(env),
		newRemoveCommand(env),
		newModifyCommand(env),
		newCreditCommand(env),
		newDepositCommand(env),
		newWithdrawCommand(env),
		newListCommand(env),
		newGetCommand(env),
		newFilterCommand(env),
		newStatsCommand(env),
		newImportCommand(env),
		newExportCommand(env),
	)

	return rootCmd
}

type appEnv struct {
	configPath string
	verbose    bool
}

func (e *appEnv) logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if e.verbose {
		level = zerolog.DebugLevel
	}
	return logging.New(level)
}

// openLedger builds the ledger for one CLI invocation. A missing config file
// means local mode; a present but broken config or an unreachable store is an
// error. The returned closer releases the store pool.
func (e *appEnv) openLedger(ctx context.Context) (*ledger.Ledger, func(), error) {
	log := e.logger()

	if _, err := os.Stat(e.configPath); errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("config", e.configPath).Msg("no config file, running in local mode")
		return ledger.New(nil, log), func() {}, nil
	}

	cfg, err := config.Load(e.configPath)
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closer := func() { _ = st.Close() }

	if err := st.Init(ctx); err != nil {
		closer()
		return nil, nil, err
	}

	l := ledger.New(st, log)
	if err := l.Load(ctx); err != nil {
		closer()
		return nil, nil, err
	}
	return l, closer, nil
}
