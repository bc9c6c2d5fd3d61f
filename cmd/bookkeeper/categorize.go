package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/bookkeeper/internal/cli"
	"github.com/Veraticus/bookkeeper/internal/common"
	"github.com/Veraticus/bookkeeper/internal/engine"
	"github.com/Veraticus/bookkeeper/internal/service"
	"github.com/Veraticus/bookkeeper/internal/storage"
	"github.com/spf13/cobra"
)

type categorizeOptions struct {
	force  bool
	review bool
}

func categorizeCmd() *cobra.Command {
	var (
		opts   categorizeOptions
		fileID string
	)

	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Suggest categories for uncategorized transactions",
		Long: `Suggest a category for every uncategorized transaction, from saved rules, similar
transactions you already categorized and, when an OpenAI key is configured, the LLM assistant.

Progress is saved as it goes; an interrupted run picks up where it stopped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var ids []int64
			if fileID != "" {
				id, err := parseID(fileID, "--file")
				if err != nil {
					return err
				}
				ids = []int64{id}
			} else {
				files, err := store.GetFiles(ctx)
				if err != nil {
					return err
				}
				for _, f := range files {
					ids = append(ids, f.ID)
				}
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No files imported yet. Use 'bookkeeper import' first."))
				return nil
			}

			return categorizeFiles(cmd, store, ids, opts)
		},
	}

	cmd.Flags().StringVar(&fileID, "file", "", "only categorize this file ID")
	cmd.Flags().BoolVar(&opts.force, "force", false, "re-categorize transactions that already have a category")
	cmd.Flags().BoolVar(&opts.review, "review", false, "confirm each suggestion interactively")

	return cmd
}

func categorizeFiles(cmd *cobra.Command, store *storage.SQLiteStorage, ids []int64, opts categorizeOptions) error {
	out := cmd.OutOrStdout()

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Categorization", "bookkeeper categorize")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	cfg := engine.DefaultConfig()
	cfg.Force = opts.force

	var reviewer *cli.Reviewer
	if opts.review {
		reg, err := store.LoadRegistry(ctx)
		if err != nil {
			return err
		}
		reviewer = cli.NewReviewer(nil, reg, cmd.InOrStdin(), out)
		cfg.Review = reviewer.Wrap
	}

	eng, closeEngine, err := newEngine(store, cfg)
	if err != nil {
		return err
	}
	defer closeEngine()

	for _, id := range ids {
		var progress service.ProgressFunc
		if !opts.review {
			progress = cli.NewProgressBar(out, fmt.Sprintf("Categorizing file %d", id))
		}

		result, err := eng.CategorizeFile(ctx, id, progress)
		switch {
		case errors.Is(err, common.ErrNoTransactions):
			continue
		case err != nil && handler.WasInterrupted():
			return nil
		case err != nil:
			return fmt.Errorf("file %d: %w", id, err)
		}

		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("File %d: %s", id, result.Summary())))
		for _, failure := range result.Failures {
			fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("  %s: %v", failure.Description, failure.Err)))
		}
	}

	if reviewer != nil {
		stats := reviewer.Stats()
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Reviewed: %d accepted, %d changed, %d skipped",
			stats.Accepted, stats.Overridden, stats.Skipped)))
	}
	return nil
}
