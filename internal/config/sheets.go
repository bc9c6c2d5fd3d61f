package config

import (
	"os"
	"path/filepath"

	"github.com/Veraticus/bookkeeper/internal/sheets"
	"github.com/spf13/viper"
)

// DefaultTokenFile is where `sheets auth` saves the OAuth2 token.
var DefaultTokenFile = filepath.Join(Dir, "sheets-token.json")

// LoadSheetsConfig loads and validates the Google Sheets configuration.
// Precedence: viper (config file or BOOKKEEPER_SHEETS_* env vars), then GOOGLE_SHEETS_* env
// vars, then defaults. A token saved by `sheets auth` is picked up when no refresh token or
// service account is configured.
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := loadSheetsConfig()

	if cfg.RefreshToken == "" && cfg.ServiceAccountPath == "" && cfg.TokenFile == "" {
		if path := ExpandPath(DefaultTokenFile); fileExists(path) {
			cfg.TokenFile = path
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadSheetsOAuth returns the settings used by the interactive OAuth2 flow.
func LoadSheetsOAuth() sheets.OAuth2Config {
	cfg := loadSheetsConfig()
	tokenFile := cfg.TokenFile
	if tokenFile == "" {
		tokenFile = ExpandPath(DefaultTokenFile)
	}
	return sheets.OAuth2Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenFile:    tokenFile,
		CallbackAddr: viper.GetString("sheets.callback_addr"),
	}
}

func loadSheetsConfig() sheets.Config {
	cfg := sheets.DefaultConfig()

	cfg.ServiceAccountPath = ExpandPath(firstNonEmpty(
		viper.GetString("sheets.service_account_path"), os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")))
	cfg.ClientID = firstNonEmpty(viper.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	cfg.ClientSecret = firstNonEmpty(viper.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	cfg.RefreshToken = firstNonEmpty(viper.GetString("sheets.refresh_token"), os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"))
	cfg.TokenFile = ExpandPath(viper.GetString("sheets.token_file"))
	cfg.SpreadsheetID = firstNonEmpty(viper.GetString("sheets.spreadsheet_id"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))

	if v := firstNonEmpty(viper.GetString("sheets.spreadsheet_name"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME")); v != "" {
		cfg.SpreadsheetName = v
	}
	if v := viper.GetString("sheets.sheet_title"); v != "" {
		cfg.SheetTitle = v
	}
	if v := viper.GetString("sheets.time_zone"); v != "" {
		cfg.TimeZone = v
	}
	if viper.IsSet("sheets.enable_formatting") {
		cfg.EnableFormatting = viper.GetBool("sheets.enable_formatting")
	}

	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
