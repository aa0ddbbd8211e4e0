package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ppiankov/compliancespectre/internal/filter"
)

var frameworksFlags struct {
	source sourceFlags
	json   bool
}

var frameworksCmd = &cobra.Command{
	Use:   "frameworks",
	Short: "List frameworks found in the exports",
	RunE:  runFrameworks,
}

var datesFlags struct {
	source sourceFlags
	json   bool
}

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List assessment days with their latest scan time",
	RunE:  runDates,
}

func init() {
	frameworksFlags.source.register(frameworksCmd)
	frameworksCmd.Flags().BoolVar(&frameworksFlags.json, "json", false, "Print as JSON")
	datesFlags.source.register(datesCmd)
	datesCmd.Flags().BoolVar(&datesFlags.json, "json", false, "Print as JSON")
}

func runFrameworks(cmd *cobra.Command, _ []string) error {
	engine, skipped, err := frameworksFlags.source.loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	names := engine.ListFrameworks()

	if frameworksFlags.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"frameworks": names, "skipped": skipped})
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Framework"})
	for _, n := range names {
		t.AppendRow(table.Row{n})
	}
	t.Render()
	for _, s := range skipped {
		fmt.Fprintf(os.Stderr, "skipped %s: %s\n", s.Name, s.Reason)
	}
	return nil
}

func runDates(cmd *cobra.Command, _ []string) error {
	engine, _, err := datesFlags.source.loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	runs := engine.DateOptions()

	if datesFlags.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"dates": runs})
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Date", "Latest scan"})
	t.AppendRow(table.Row{filter.All, ""})
	for _, r := range runs {
		t.AppendRow(table.Row{r.Day, r.Timestamp})
	}
	t.Render()
	return nil
}
