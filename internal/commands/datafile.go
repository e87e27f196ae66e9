package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/datafile"
)

func newImportCommand(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Import accounts from a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			l, closer, err := env.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			var res datafile.Result
			switch strings.ToLower(filepath.Ext(path)) {
			case ".csv":
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("opening %s: %w", path, err)
				}
				defer f.Close()
				res, err = datafile.ImportCSV(cmd.Context(), f, l)
				if err != nil {
					return err
				}
			case ".xlsx":
				res, err = datafile.ImportXLSX(cmd.Context(), path, l)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported file type %q (want .csv or .xlsx)", filepath.Ext(path))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Import %s: %d imported, %d duplicates, %d errors\n",
				res.RunID, res.Imported, len(res.Duplicates), len(res.Errors))
			for _, n := range res.Duplicates {
				fmt.Fprintf(out, "  duplicate: account %d\n", n)
			}
			for _, e := range res.Errors {
				fmt.Fprintf(out, "  error: %s\n", e)
			}
			return nil
		},
	}
}

func newExportCommand(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.csv|file.xlsx>",
		Short: "Export all accounts to a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			l, closer, err := env.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			switch strings.ToLower(filepath.Ext(path)) {
			case ".csv":
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				defer f.Close()
				if err := datafile.ExportCSV(f, l.List()); err != nil {
					return err
				}
			case ".xlsx":
				if err := datafile.ExportXLSX(path, l.List()); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported file type %q (want .csv or .xlsx)", filepath.Ext(path))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d accounts to %s\n", l.Len(), path)
			return nil
		},
	}
}
