package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/Veraticus/bookkeeper/internal/cli"
	"github.com/spf13/cobra"
)

func filesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage imported files",
	}

	cmd.AddCommand(listFilesCmd())
	cmd.AddCommand(renameFileCmd())
	cmd.AddCommand(deleteFileCmd())
	cmd.AddCommand(cleanFilesCmd())

	return cmd
}

func listFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List imported files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			files, err := store.GetFiles(ctx)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No files imported yet."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Original"),
				cli.TableHeaderStyle.Render("Uploaded"))
			for _, f := range files {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", f.ID, f.DisplayName, f.OriginalName,
					f.UploadedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func renameFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Change a file's display name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0], "file id")
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.RenameFile(ctx, id, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Renamed file %d to %q", id, args[1])))
			return nil
		},
	}
}

func deleteFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a file and its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0], "file id")
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteFile(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted file %d", id)))
			return nil
		},
	}
}

func cleanFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove transactions whose file no longer exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			removed, err := store.CleanOrphanedTransactions(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed %d orphaned transactions", removed)))
			return nil
		},
	}
}
