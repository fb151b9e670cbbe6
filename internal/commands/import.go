package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/carson-networks/finances-tracker/internal/app"
	"github.com/carson-networks/finances-tracker/internal/config"
	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/logging"
)

func newImportCommand() *cobra.Command {
	var bank string

	cmd := &cobra.Command{
		Use:   "import <statement-file>",
		Short: "Import a statement into the configured ledger",
		Long:  "Imports a statement using the same environment configuration as the server (STORAGE_DRIVER, POSTGRES_*).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], bank)
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "statement format")
	_ = cmd.MarkFlagRequired("bank")

	return cmd
}

func runImport(cmd *cobra.Command, path, bank string) error {
	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return err
	}
	logger := logging.SetupLogging()
	logger.SetOutput(cmd.ErrOrStderr())
	if err := logging.SetLevel(logger, env.LogLevel); err != nil {
		return err
	}

	application, err := app.New(env, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	result, err := application.Service.Transaction.ImportStatement(cmd.Context(), f, bank)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}

func printResult(out io.Writer, r *ledger.ImportResult) {
	fmt.Fprintf(out, "imported: %d (insignificant %d, transfers %d)\n", r.Imported, r.Insignificant, r.Transfers)
	fmt.Fprintf(out, "paired: %d\nduplicates: %d\nrejected: %d\n", r.Paired, r.Duplicates, r.Rejected)
	for _, name := range r.AccountsCreated {
		fmt.Fprintf(out, "created account: %s\n", name)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
}
