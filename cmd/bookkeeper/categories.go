package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Veraticus/bookkeeper/internal/cli"
	"github.com/Veraticus/bookkeeper/internal/importer"
	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/Veraticus/bookkeeper/internal/registry"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the chart of accounts",
		Long: `List and add categories. Every category belongs to one statement section:
Income, COGS, Expense, Other Income or Balance Sheet.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(initCategoriesCmd())
	cmd.AddCommand(importCategoriesCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the chart of accounts by section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			reg, err := store.LoadRegistry(ctx)
			if err != nil {
				return err
			}
			if reg.Len() == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No categories yet. Use 'bookkeeper categories init' for a starter chart."))
				return nil
			}

			bySection := make(map[model.CategoryType][]string)
			for _, entry := range reg.Entries() {
				bySection[entry.Type] = append(bySection[entry.Type], entry.Name)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\n", cli.TableHeaderStyle.Render("Type"), cli.TableHeaderStyle.Render("Category"))
			for _, typ := range model.CategoryTypes {
				for _, name := range bySection[typ] {
					fmt.Fprintf(w, "%s\t%s\n", typ, name)
				}
			}
			return w.Flush()
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Long: `Add a category to the chart of accounts. The name is normalized: apostrophes are
dropped and words are title-cased.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			typ, err := model.ParseCategoryType(typeName)
			if err != nil {
				return err
			}
			name := registry.NormalizeName(args[0])
			if name == "" {
				return registry.ErrEmptyName
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			added, err := store.AddCategory(ctx, name, typ)
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(fmt.Sprintf("Category %q already exists", name)))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %q (%s)", name, typ)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", string(model.CategoryTypeExpense),
		"section: Income, COGS, Expense, Other Income or Balance Sheet")
	return cmd
}

func initCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Add the starter chart of accounts",
		Long:  `Add the starter chart of accounts. Categories that already exist are left alone.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			added, err := store.SaveChartOfAccounts(ctx, registry.DefaultChart())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %d starter categories", added)))
			return nil
		},
	}
}

func importCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import categories from a CSV",
		Long: `Import categories from a CSV with a Category column and an optional Type column.
A missing type means Expense. Categories that already exist are left alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(args[0]) // #nosec G304
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			categories, err := importer.ParseChart(f)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			added, err := store.SaveChartOfAccounts(ctx, categories)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Imported %d of %d categories", added, len(categories))))
			return nil
		},
	}
}
