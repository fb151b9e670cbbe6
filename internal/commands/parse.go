package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/carson-networks/finances-tracker/internal/ledger"
	"github.com/carson-networks/finances-tracker/internal/parser"
)

func newParseCommand() *cobra.Command {
	var bank string

	cmd := &cobra.Command{
		Use:   "parse <statement-file>",
		Short: "Parse a statement and print the rows without importing them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := parseFile(args[0], bank)
			if err != nil {
				return err
			}
			return printRows(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "statement format: "+strings.Join(parser.DefaultRegistry().Formats(), ", "))
	_ = cmd.MarkFlagRequired("bank")

	return cmd
}

func parseFile(path, bank string) ([]ledger.RawTransaction, error) {
	p := parser.DefaultRegistry().Get(bank)
	if p == nil {
		return nil, fmt.Errorf("unknown bank format %q", bank)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	rows, err := parser.Collect(p.Parse(f))
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	return rows, nil
}

func printRows(out io.Writer, rows []ledger.RawTransaction) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tAMOUNT\tACCOUNT\tDESCRIPTION")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			r.Date.Format("2006-01-02"),
			r.Amount.StringFixed(ledger.AmountPlaces),
			r.AccountLabel,
			r.Description,
		)
	}
	fmt.Fprintf(w, "%d rows\n", len(rows))
	return w.Flush()
}
