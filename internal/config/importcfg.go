package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/common"
)

// Report output formats accepted by import.format.
var OutputFormats = []string{"table", "json", "yaml", "csv"}

// ImportConfig holds the import.* settings.
type ImportConfig struct {
	Column  string
	Sheet   string
	Format  string
	Workers int
	DryRun  bool
}

// SetDefaults registers default values for every key spruce reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("import.workers", 4)
	v.SetDefault("import.format", "table")
	v.SetDefault("import.dry_run", false)
}

// DatabasePath returns the expanded database.path setting.
func DatabasePath() string {
	if p := viper.GetString("database.path"); p != "" {
		return ExpandPath(p)
	}
	return DefaultDatabasePath()
}

// LoadImportConfig reads and validates the import.* settings.
func LoadImportConfig() (*ImportConfig, error) {
	cfg := &ImportConfig{
		Column:  strings.TrimSpace(viper.GetString("import.column")),
		Sheet:   strings.TrimSpace(viper.GetString("import.sheet")),
		Format:  strings.ToLower(strings.TrimSpace(viper.GetString("import.format"))),
		Workers: viper.GetInt("import.workers"),
		DryRun:  viper.GetBool("import.dry_run"),
	}

	if cfg.Format == "" {
		cfg.Format = "table"
	}
	if !validFormat(cfg.Format) {
		return nil, fmt.Errorf("%w: import.format must be one of %s, got %q",
			common.ErrInvalidConfig, strings.Join(OutputFormats, "|"), cfg.Format)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if limit := runtime.NumCPU() * 4; cfg.Workers > limit {
		cfg.Workers = limit
	}

	return cfg, nil
}

func validFormat(format string) bool {
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}
