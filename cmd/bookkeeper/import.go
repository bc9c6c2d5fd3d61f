package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/bookkeeper/internal/cli"
	"github.com/Veraticus/bookkeeper/internal/common"
	"github.com/Veraticus/bookkeeper/internal/engine"
	"github.com/Veraticus/bookkeeper/internal/importer"
	"github.com/spf13/cobra"
)

type importFlags struct {
	name       string
	force      bool
	categorize bool
	mapping    importer.ColumnMapping
}

func importCmd() *cobra.Command {
	flags := &importFlags{}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank export",
		Long: `Import a CSV, OFX or QFX export as a new file. The format is chosen from the
extension; use the csv or ofx subcommands to force one.

A file with the same name, or covering exactly the same dates as an earlier import, is
refused unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], importer.ForFile(args[0], flags.mapping), flags)
		},
	}
	addImportFlags(cmd, flags)
	addMappingFlags(cmd, &flags.mapping)

	csvFlags := &importFlags{}
	csvCmd := &cobra.Command{
		Use:   "csv <file>",
		Short: "Import a CSV export",
		Long: `Import a CSV export. Columns not named with the mapping flags are detected from the
data: a date column, an amount column and the longest text column as the description.
Columns outside the mapping are kept with each transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], importer.NewCSVParser(csvFlags.mapping), csvFlags)
		},
	}
	addImportFlags(csvCmd, csvFlags)
	addMappingFlags(csvCmd, &csvFlags.mapping)

	ofxFlags := &importFlags{}
	ofxCmd := &cobra.Command{
		Use:   "ofx <file>",
		Short: "Import an OFX or QFX statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], importer.NewOFXParser(), ofxFlags)
		},
	}
	addImportFlags(ofxCmd, ofxFlags)

	cmd.AddCommand(csvCmd, ofxCmd)
	return cmd
}

func addImportFlags(cmd *cobra.Command, flags *importFlags) {
	cmd.Flags().StringVar(&flags.name, "name", "", "display name for the file (default: the file name)")
	cmd.Flags().BoolVar(&flags.force, "force", false, "import even if a file with the same name or dates exists")
	cmd.Flags().BoolVar(&flags.categorize, "categorize", false, "categorize the new file right after importing")
}

func addMappingFlags(cmd *cobra.Command, m *importer.ColumnMapping) {
	cmd.Flags().StringVar(&m.Date, "date-col", "", "header of the date column")
	cmd.Flags().StringVar(&m.Description, "description-col", "", "header of the description column")
	cmd.Flags().StringVar(&m.Amount, "amount-col", "", "header of the amount column")
	cmd.Flags().StringVar(&m.Category, "category-col", "", "header of an existing category column")
}

func runImport(cmd *cobra.Command, path string, parser importer.Parser, flags *importFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	txns, err := parser.ParseFile(ctx, f)
	if err != nil {
		if importer.IsMissingColumn(err) {
			return common.NewUserError(
				fmt.Sprintf("%v; name the columns with --date-col, --description-col and --amount-col", err), err)
		}
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	eng, closeEngine, err := newEngine(store, engine.DefaultConfig())
	if err != nil {
		return err
	}
	defer closeEngine()

	result, err := eng.ImportTransactions(ctx, engine.ImportOptions{
		OriginalName: filepath.Base(path),
		DisplayName:  flags.name,
		Force:        flags.force,
	}, txns)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d transactions as %q (file %d)",
		result.Rows, result.File.DisplayName, result.File.ID)))
	for _, existing := range result.SameDateFiles {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Same dates as file %d %q", existing.ID, existing.DisplayName)))
	}
	if len(result.Learned) > 0 {
		fmt.Fprintln(out, cli.FormatInfo("Added to the chart of accounts as Expense: "+strings.Join(result.Learned, ", ")))
	}

	if !flags.categorize {
		return nil
	}
	return categorizeFiles(cmd, store, []int64{result.File.ID}, categorizeOptions{})
}
