package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/bookkeeper/internal/cli"
	"github.com/Veraticus/bookkeeper/internal/common"
	"github.com/Veraticus/bookkeeper/internal/config"
	"github.com/Veraticus/bookkeeper/internal/engine"
	"github.com/Veraticus/bookkeeper/internal/sheets"
	"github.com/spf13/cobra"
)

const (
	formatTable  = "table"
	formatCSV    = "csv"
	formatSheets = "sheets"
)

func pnlCmd() *cobra.Command {
	var (
		from, to     string
		startingCash string
		format       string
		output       string
		title        string
	)

	cmd := &cobra.Command{
		Use:     "pnl",
		Aliases: []string{"report"},
		Short:   "Build the profit and loss statement",
		Long: `Build the monthly profit and loss statement with a cash roll-forward from every
imported file. Limit it to a date range with --from and --to (inclusive).

Formats:
  table   aligned table in the terminal (default)
  csv     Type,Category,<YYYY-MM>...,Total with two decimal places
  sheets  write to Google Sheets (see 'bookkeeper sheets auth')`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			fromDate, err := parseDateFlag(from, "from")
			if err != nil {
				return err
			}
			toDate, err := parseDateFlag(to, "to")
			if err != nil {
				return err
			}
			if !fromDate.IsZero() && !toDate.IsZero() && toDate.Before(fromDate) {
				return common.NewUserError("--to must not be before --from", nil)
			}
			opening, err := parseMoneyFlag(startingCash, "starting-cash")
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stmt, err := engine.New(store, nil, engine.DefaultConfig()).ProfitAndLoss(ctx, fromDate, toDate, opening)
			if err != nil {
				return err
			}

			switch format {
			case formatTable:
				fmt.Fprintln(out, cli.FormatTitle("Profit and Loss"))
				return cli.RenderStatement(out, stmt)
			case formatCSV:
				w := out
				if output != "" {
					f, err := os.Create(output) // #nosec G304
					if err != nil {
						return fmt.Errorf("failed to create %s: %w", output, err)
					}
					defer func() { _ = f.Close() }()
					w = f
				}
				return writeStatementCSV(w, stmt.WriteCSV, output, cmd.ErrOrStderr())
			case formatSheets:
				cfg, err := config.LoadSheetsConfig()
				if err != nil {
					return common.NewUserError("Google Sheets is not configured; run 'bookkeeper sheets auth' or set sheets.service_account_path", err)
				}
				writer, err := sheets.NewWriter(ctx, *cfg, slog.Default())
				if err != nil {
					return err
				}
				url, err := writer.Write(ctx, stmt, title)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess("Statement written to "+url))
				return nil
			default:
				return common.NewUserError(fmt.Sprintf("unknown format %q; use table, csv or sheets", format), nil)
			}
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&startingCash, "starting-cash", "", "cash balance at the start of the first month")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, csv or sheets")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write CSV to this file instead of stdout")
	cmd.Flags().StringVar(&title, "title", "Profit and Loss", "statement title in Google Sheets")

	return cmd
}

func writeStatementCSV(w io.Writer, write func(io.Writer) error, path string, status io.Writer) error {
	if err := write(w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	if path != "" {
		fmt.Fprintln(status, cli.FormatSuccess("Statement saved to "+path))
	}
	return nil
}
