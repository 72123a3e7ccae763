// Command gradectl seeds the record store and renders grade reports in the
// terminal.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gradelookup/backend/internal/shared"
)

var (
	envFile      string
	reportConfig string
	verbose      bool
	timeout      time.Duration

	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gradectl",
	Short: "Student grade lookup tooling",
	Long: `gradectl manages the student record store and renders grade reports.

Available commands:
  seed    - Load sample student records into MongoDB
  report  - Look a student up through the record service and print the report
  config  - Print the resolved report layout`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envErr := shared.LoadEnv(envFile)

		level := "warn"
		if verbose {
			level = "debug"
		}
		var err error
		logger, err = shared.NewLogger(&shared.ServiceConfig{
			ServiceName: "gradectl",
			Environment: shared.GetEnv("ENVIRONMENT", "development"),
			LogLevel:    level,
		})
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(logger)
		if cmd.Flags().Changed("env") {
			shared.LogEnvResult(logger, envFile, envErr)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Environment file to load")
	rootCmd.PersistentFlags().StringVar(&reportConfig, "report-config", "", "Report layout YAML (default: $REPORT_CONFIG, then the bundled layout)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(configCmd)
}

// resolveReportConfig prefers --report-config over REPORT_CONFIG. The env var
// is read at run time so values from --env apply.
func resolveReportConfig() string {
	if reportConfig != "" {
		return reportConfig
	}
	return shared.GetEnv("REPORT_CONFIG", "")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
