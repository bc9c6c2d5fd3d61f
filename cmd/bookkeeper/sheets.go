package main

import (
	"fmt"

	"github.com/Veraticus/bookkeeper/internal/cli"
	"github.com/Veraticus/bookkeeper/internal/common"
	"github.com/Veraticus/bookkeeper/internal/config"
	"github.com/Veraticus/bookkeeper/internal/sheets"
	"github.com/spf13/cobra"
)

func sheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Google Sheets export settings",
	}
	cmd.AddCommand(sheetsAuthCmd())
	return cmd
}

func sheetsAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google Sheets access",
		Long: `Run the OAuth2 consent flow in your browser and save the token for 'pnl --format sheets'.
Needs sheets.client_id and sheets.client_secret (or GOOGLE_SHEETS_CLIENT_ID and
GOOGLE_SHEETS_CLIENT_SECRET).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			oauth := config.LoadSheetsOAuth()
			if oauth.ClientID == "" || oauth.ClientSecret == "" {
				return common.NewUserError("Google OAuth2 client ID and secret are required", common.ErrMissingConfig)
			}
			oauth.OpenURL = func(url string) {
				fmt.Fprintln(out, cli.FormatInfo("Open this URL in your browser to authorize access:"))
				fmt.Fprintln(out, url)
			}

			if _, err := sheets.GetOrCreateToken(cmd.Context(), oauth); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess("Google Sheets authorized, token at "+oauth.TokenFile))
			return nil
		},
	}
}
