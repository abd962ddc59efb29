// finbrief — compact market briefs over the Finnhub API.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finbrief/finbrief/api"
	"github.com/finbrief/finbrief/internal/config"
	"github.com/finbrief/finbrief/internal/logger"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finbrief",
	Short: "finbrief — market snapshots, fundamentals, and news briefs over Finnhub",
	Long: `finbrief is a small HTTP service that reshapes the Finnhub market-data
API into compact briefs: quote snapshots, normalized fundamentals with
the next earnings date, and recent headlines for a list of tickers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("finbrief %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		if err := logger.Init(logger.Config{
			Level:          cfg.Logging.Level,
			Format:         cfg.Logging.Format,
			FileEnabled:    cfg.Logging.FileEnabled,
			FilePath:       cfg.Logging.FilePath,
			RotationSizeMB: cfg.Logging.RotationSizeMB,
			RetentionDays:  cfg.Logging.RetentionDays,
			ServiceName:    api.ServiceName,
			ServiceVersion: version,
		}); err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting finbrief API server on %s\n", addr)

		srv := api.NewServer(cfg)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show service status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  finbrief — Service Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:  %s (%s)\n", version, commit)
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    Finnhub URL:   %s\n", cfg.Finnhub.BaseURL)
		fmt.Printf("    Call Timeout:  %ds\n", cfg.Finnhub.TimeoutSec)
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Printf("    Log Level:     %s\n", cfg.Logging.Level)
		fmt.Println()

		// API keys status
		fmt.Println("  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
