// Package cmd provides the CLI commands for upsbill.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"upscli/internal/config"
	"upscli/internal/infrastructure"
	"upscli/pkg/contracts"
)

var (
	cfgFile string
	verbose bool

	appConfig *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "upsbill",
	Short: "Analyze UPS billing CSV exports",
	Long: `upsbill analyzes raw UPS billing CSV exports from the command line.

It normalizes the headerless 176-column billing layout, folds charge lines
into shipments and produces cost rollups as CSV, JSON or XLSX reports.

Examples:
  upsbill summary ./data/invoices
  upsbill report --format xlsx --out ./reports ./data/invoices
  upsbill report --period week --country DE --country FR`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var (
		cfg *config.Config
		err error
	)

	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, err = config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
			cfg = config.Default()
		}
	}

	// CLI runs log text to the console, not the server log file
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "console"
	cfg.Logging.Level = "warn"
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}

	appConfig = cfg
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(contracts.GetFullVersionString())
	},
}
