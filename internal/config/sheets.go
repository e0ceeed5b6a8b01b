// Package config loads application settings from viper and the environment.
package config

import (
	"os"

	"github.com/Veraticus/timetable/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig loads Google Sheets API configuration from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or TIMETABLE_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Default values
func LoadSheetsConfig() (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	if v := viper.GetString("sheets.service_account_path"); v != "" {
		config.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		config.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		config.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		config.RefreshToken = v
	}
	if v := viper.GetString("sheets.spreadsheet_id"); v != "" {
		config.SpreadsheetID = v
	}
	if v := viper.GetString("sheets.range"); v != "" {
		config.Range = v
	}
	if v := viper.GetString("sheets.semesters_range"); v != "" {
		config.SemestersRange = v
	}
	if v := viper.GetString("sheets.last_update_range"); v != "" {
		config.LastUpdateRange = v
	}
	if viper.IsSet("sheets.retry_attempts") {
		config.RetryAttempts = viper.GetInt("sheets.retry_attempts")
	}
	if v := viper.GetDuration("sheets.timeout"); v != 0 {
		config.Timeout = v
	}

	// Override with direct environment variables if not set
	if config.ServiceAccountPath == "" {
		if v := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
			config.ServiceAccountPath = ExpandPath(v)
		}
	}
	if config.ClientID == "" {
		config.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if config.ClientSecret == "" {
		config.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if config.RefreshToken == "" {
		config.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if config.SpreadsheetID == "" {
		config.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	}

	// Fall back to the token saved by the auth command
	if config.RefreshToken == "" && config.ServiceAccountPath == "" && config.ClientID != "" {
		if token, err := sheets.LoadToken(LoadOAuthConfig().TokenFile); err == nil {
			config.RefreshToken = token.RefreshToken
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadOAuthConfig loads the OAuth client used by the auth command.
func LoadOAuthConfig() sheets.OAuthConfig {
	config := sheets.OAuthConfig{
		ClientID:     viper.GetString("sheets.client_id"),
		ClientSecret: viper.GetString("sheets.client_secret"),
		TokenFile:    ExpandPath(viper.GetString("sheets.token_file")),
		CallbackAddr: viper.GetString("sheets.callback_addr"),
	}
	if config.ClientID == "" {
		config.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if config.ClientSecret == "" {
		config.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if config.TokenFile == "" {
		config.TokenFile = DefaultTokenFile()
	}
	return config
}
