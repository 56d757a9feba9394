package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/pmtable/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	refresh  bool
	noCache  bool
	noRobots bool
)

// reportFlags maps config keys to report flags
var reportFlags = map[string]string{
	"reference_year":      "reference-year",
	"source.selector":     "selector",
	"source.column":       "column",
	"output.json":         "json",
	"output.csv":          "csv",
	"output.markdown":     "md",
	"output.chart_width":  "chart-width",
	"http.timeout":        "timeout",
	"http.user_agent":     "ua",
	"http.max_body_bytes": "max-bytes",
	"cache.dir":           "cache-dir",
}

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report [url]",
	Short: "Fetch the prime ministers table and report ages",
	Long: `Report runs the whole pipeline:
- Fetch the source page (or reuse the cached copy)
- Extract the "Name (birth–death)" column from the table
- Parse every cell into name, birth year, death year, alive flag and age
- Compute mean, median and standard deviation of ages
- Print a table and a lifespan timeline, and write optional JSON/CSV/Markdown

Any failure stops the run; there is no partial report.

Example:
  pmtable report
  pmtable report --reference-year 2024 --md report.md --csv ages.csv
  pmtable report --refresh --json report.json`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, reportFlags)
	},
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	f := reportCmd.Flags()

	// Parsing flags
	f.Int("reference-year", 0, "\"as of\" year for living prime ministers (default: current year)")
	f.String("selector", "", "CSS selector of the source table (default: table.wikitable)")
	f.String("column", "", "header label of the biography column (default: Name)")

	// Output flags
	f.String("json", "", "output JSON path (optional)")
	f.String("csv", "", "output CSV path (optional)")
	f.String("md", "", "output Markdown path (optional)")
	f.Int("chart-width", 0, "timeline chart width in columns")

	// HTTP and cache flags
	f.Duration("timeout", 0, "overall fetch timeout")
	f.String("ua", "", "HTTP User-Agent")
	f.Int64("max-bytes", 0, "max response bytes to read")
	f.String("cache-dir", "", "directory holding the cached source page")
	f.BoolVar(&refresh, "refresh", false, "ignore the cached page and fetch again")
	f.BoolVar(&noCache, "no-cache", false, "neither read nor write the cache")
	f.BoolVar(&noRobots, "no-robots", false, "do not consult robots.txt")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Source.URL = args[0]
	}
	cfg.Cache.Refresh = refresh
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noRobots {
		cfg.HTTP.RespectRobots = false
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.Timeout)
	defer cancel()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Source:         %s\n", cfg.Source.URL)
		fmt.Fprintf(os.Stderr, "Reference year: %d\n", cfg.ReferenceYear)
		fmt.Fprintf(os.Stderr, "Cache:          %v (%s)\n", cfg.Cache.Enabled, cfg.Cache.Dir)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg, logger, cmd.OutOrStdout())

	start := time.Now()
	report, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ Parsed %d records in %v\n", len(report.Records), time.Since(start).Round(time.Millisecond))
	}

	if err := p.RenderReport(report); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
