package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/cli"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/common"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/config"
)

var (
	cfgFile    string
	version    = "dev"
	interrupts *cli.InterruptHandler
	rootCmd    = &cobra.Command{
		Use:   "spruce",
		Short: "🌲 Location reconciliation for recurring work-order imports",
		Long: `spruce matches the venue names in imported work-order spreadsheets
against your canonical location catalog.

Confident matches are assigned automatically. Everything else lands in a
resolve queue where an operator picks the right location once, and can
have spruce remember the decision for every future import.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/spruce/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("database", "", "database path (overrides database.path)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("database"))

	// Add commands
	rootCmd.AddCommand(locationsCmd())
	rootCmd.AddCommand(aliasesCmd())
	rootCmd.AddCommand(matchCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(authCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	interrupts = cli.NewInterruptHandler(os.Stderr)
	ctx, cancel := context.WithCancel(context.Background())
	ctx = interrupts.HandleInterrupts(ctx)

	err := rootCmd.ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		msg := err.Error()
		var userErr *common.UserError
		if errors.As(err, &userErr) {
			msg = userErr.UserMessage
			slog.Debug("Command failed", "error", err)
		}
		fmt.Fprintln(os.Stderr, cli.FormatError(msg))
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	config.SetDefaults(viper.GetViper())

	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in standard locations
		viper.AddConfigPath(config.Dir())
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables: SPRUCE_IMPORT_WORKERS -> import.workers
	viper.SetEnvPrefix("SPRUCE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := common.SetupLogger(viper.GetString("logging.level"), viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	slog.Debug("Configuration loaded", "config_file", viper.ConfigFileUsed(), "database", config.DatabasePath())
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spruce %s\n", version)
		},
	}
}

// setHint tells the interrupt handler how to resume the current command.
func setHint(hint string) {
	if interrupts != nil {
		interrupts.SetHint(hint)
	}
}
