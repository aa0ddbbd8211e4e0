package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/compliancespectre/internal/compliance"
	"github.com/ppiankov/compliancespectre/internal/report"
)

var summaryFlags struct {
	source       sourceFlags
	framework    string
	accounts     []string
	regions      []string
	date         string
	format       string
	outputFile   string
	requirements bool
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Aggregate findings for one framework",
	Long: `Aggregate compliance findings for one framework. Only the latest scan per
account and day is counted; duplicate rows are collapsed before counting.

CIS frameworks are selected per profile level, e.g.
"CIS_2.0 - AWS - Level_1". Run 'compliancespectre frameworks' for the list.`,
	RunE: runSummary,
}

func init() {
	summaryFlags.source.register(summaryCmd)
	summaryCmd.Flags().StringVarP(&summaryFlags.framework, "framework", "f", "", "Framework to aggregate (required)")
	summaryCmd.Flags().StringSliceVar(&summaryFlags.accounts, "account", nil, "Account filter (comma-separated, default: All)")
	summaryCmd.Flags().StringSliceVar(&summaryFlags.regions, "region", nil, "Region filter (comma-separated, default: All)")
	summaryCmd.Flags().StringVar(&summaryFlags.date, "date", "", "Assessment day YYYY-MM-DD (default: All)")
	summaryCmd.Flags().StringVar(&summaryFlags.format, "format", "text", "Output format: text, json, sarif, spectrehub")
	summaryCmd.Flags().StringVarP(&summaryFlags.outputFile, "output", "o", "", "Output file path (default: stdout)")
	summaryCmd.Flags().BoolVar(&summaryFlags.requirements, "requirements", false, "Include the per-requirement table in text output")
	_ = summaryCmd.MarkFlagRequired("framework")
}

func runSummary(cmd *cobra.Command, _ []string) error {
	applyConfigDefaults()

	engine, skipped, err := summaryFlags.source.loadEngine(cmd.Context())
	if err != nil {
		return err
	}

	filters := compliance.Filters{
		Account: summaryFlags.accounts,
		Region:  summaryFlags.regions,
		Date:    summaryFlags.date,
	}
	result, err := engine.Aggregate(summaryFlags.framework, filters)
	if err != nil {
		return fmt.Errorf("aggregate %s: %w (available: %v)", summaryFlags.framework, err, engine.ListFrameworks())
	}

	src := summaryFlags.source.describe()
	data := report.Data{
		Tool:      "compliancespectre",
		Version:   version,
		Timestamp: time.Now().UTC(),
		Target: report.Target{
			Type:    "compliance-exports",
			URIHash: computeTargetHash(src, summaryFlags.framework),
		},
		Config: report.ReportConfig{
			Source:    src,
			Framework: result.Framework,
			Account:   summaryFlags.accounts,
			Region:    summaryFlags.regions,
			Date:      summaryFlags.date,
		},
		Result:       result,
		Skipped:      skipped,
		Requirements: summaryFlags.requirements,
	}

	reporter, closeOutput, err := selectReporter(summaryFlags.format, summaryFlags.outputFile)
	if err != nil {
		return err
	}
	if err := reporter.Generate(data); err != nil {
		_ = closeOutput()
		return err
	}
	return closeOutput()
}

func applyConfigDefaults() {
	if summaryFlags.format == "text" && cfg.Format != "" {
		summaryFlags.format = cfg.Format
	}
}

var reporters = map[string]func(io.Writer) report.Reporter{
	"text": func(w io.Writer) report.Reporter {
		return &report.TextReporter{Writer: w, Registry: report.DefaultRegistry()}
	},
	"json":       func(w io.Writer) report.Reporter { return &report.JSONReporter{Writer: w} },
	"sarif":      func(w io.Writer) report.Reporter { return &report.SARIFReporter{Writer: w} },
	"spectrehub": func(w io.Writer) report.Reporter { return &report.SpectreHubReporter{Writer: w} },
}

// selectReporter returns the reporter for format and a func closing its
// output. The output file is only created once the format is known.
func selectReporter(format, outputFile string) (report.Reporter, func() error, error) {
	newReporter, ok := reporters[format]
	if !ok {
		return nil, nil, fmt.Errorf("unsupported format: %s (use text, json, sarif, or spectrehub)", format)
	}

	if outputFile == "" {
		return newReporter(os.Stdout), func() error { return nil }, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	closeOutput := func() error {
		if err := f.Close(); err != nil {
			return fmt.Errorf("close output file: %w", err)
		}
		return nil
	}
	return newReporter(f), closeOutput, nil
}
