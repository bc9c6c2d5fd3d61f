package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/bookkeeper/internal/amount"
	"github.com/Veraticus/bookkeeper/internal/cli"
	"github.com/Veraticus/bookkeeper/internal/engine"
	"github.com/Veraticus/bookkeeper/internal/service"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txns"},
		Short:   "Search and edit transactions",
	}

	cmd.AddCommand(searchTransactionsCmd())
	cmd.AddCommand(setCategoryCmd())

	return cmd
}

func searchTransactionsCmd() *cobra.Command {
	var (
		fileID string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search transactions across files",
		Long: `Search transactions by description, category, amount or date. The query matches
anywhere in the text, ignoring case. Without a query every transaction is listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			filter := service.TransactionFilter{Limit: limit}
			if len(args) == 1 {
				filter.Query = args[0]
			}
			if fileID != "" {
				id, err := parseID(fileID, "--file")
				if err != nil {
					return err
				}
				filter.FileID = id
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txns, err := store.SearchTransactions(ctx, filter)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No matching transactions."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			header := []string{"File", "ID", "Date", "Amount", "Category", "Description"}
			for i, h := range header {
				header[i] = cli.TableHeaderStyle.Render(h)
			}
			fmt.Fprintln(w, strings.Join(header, "\t")+"\t")
			for _, t := range txns {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t\n",
					t.FileID, t.ID, t.Date, amount.Format(t.Amount), t.Category, t.Description)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("%d transactions", len(txns))))
			return nil
		},
	}

	cmd.Flags().StringVar(&fileID, "file", "", "only search this file ID")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results (0 for all)")

	return cmd
}

func setCategoryCmd() *cobra.Command {
	var remember bool

	cmd := &cobra.Command{
		Use:   "set-category <file-id> <transaction-id> <category>",
		Short: "Assign a category to one transaction",
		Long: `Assign a category from the chart of accounts to one transaction. With --remember
the transaction's description is saved as a rule, so matching transactions get the same
category in future runs. An empty category clears it.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fileID, err := parseID(args[0], "file id")
			if err != nil {
				return err
			}
			txnID, err := parseID(args[1], "transaction id")
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			name, err := engine.New(store, nil, engine.DefaultConfig()).SetCategory(ctx, fileID, txnID, args[2], remember)
			if err != nil {
				return err
			}

			msg := fmt.Sprintf("Transaction %d set to %q", txnID, name)
			if remember {
				msg += " and remembered"
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
			return nil
		},
	}

	cmd.Flags().BoolVar(&remember, "remember", false, "save a rule for this description")
	return cmd
}
