package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ppiankov/compliancespectre/internal/config"
	"github.com/ppiankov/compliancespectre/internal/logging"
)

var (
	verbose bool
	profile string
	version string
	commit  string
	date    string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "compliancespectre",
	Short: "compliancespectre — compliance findings aggregator and risk scorer",
	Long: `compliancespectre reads compliance scan exports (semicolon-separated CSV, one
file per framework) from a folder or an S3 bucket and aggregates them into
per-framework dashboards: status counts, the most-failing requirements or
sections, and weighted risk scores per pillar.

Filters narrow by account, region and assessment date. Only the latest scan
per account and day is counted.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
		loaded, err := config.Load(".")
		if err != nil {
			slog.Warn("Failed to load config file", "error", err)
		} else {
			cfg = loaded
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with injected build info.
func Execute(v, c, d string) error {
	version = v
	commit = c
	date = d
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "AWS profile name for S3 sources")
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(frameworksCmd)
	rootCmd.AddCommand(datesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
