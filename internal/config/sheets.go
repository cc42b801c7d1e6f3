package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/sheets"
)

// LoadSheetsConfig loads Google Sheets configuration from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or SPRUCE_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Default values
func LoadSheetsConfig() (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	pick := func(key, env string) string {
		if v := viper.GetString(key); v != "" {
			return v
		}
		return os.Getenv(env)
	}

	config.ServiceAccountPath = ExpandPath(pick("sheets.service_account_path", "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"))
	config.ClientID = pick("sheets.client_id", "GOOGLE_SHEETS_CLIENT_ID")
	config.ClientSecret = pick("sheets.client_secret", "GOOGLE_SHEETS_CLIENT_SECRET")
	config.RefreshToken = pick("sheets.refresh_token", "GOOGLE_SHEETS_REFRESH_TOKEN")
	config.SpreadsheetID = pick("sheets.spreadsheet_id", "GOOGLE_SHEETS_SPREADSHEET_ID")
	if v := pick("sheets.spreadsheet_name", "GOOGLE_SHEETS_SPREADSHEET_NAME"); v != "" {
		config.SpreadsheetName = v
	}
	if v := viper.GetString("sheets.timezone"); v != "" {
		config.TimeZone = v
	}
	if v := viper.GetInt("sheets.batch_size"); v > 0 {
		config.BatchSize = v
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
