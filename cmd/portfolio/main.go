// Package main provides the entry point for the portfolio web server and its CLI tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/observability"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	apiURL     string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio web server",
	Long: "Portfolio serves a localized CV page fetched from the profile API, " +
		"with projects, blog and contact views.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Base URL of the profile API")
}

// loadConfig builds the effective configuration (file, defaults, environment, flags)
// and installs the default logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if flags.Changed("api-url") {
		cfg.API.BaseURL = apiURL
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = serveAddr
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := observability.InitDefault(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return err
	}

	appConfig = cfg
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
