package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/pmtable/internal/model"
	"github.com/ppiankov/pmtable/internal/parse"
	"github.com/ppiankov/pmtable/internal/pipeline"
	"github.com/ppiankov/pmtable/internal/stats"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var parseFormat string

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse [cell...]",
	Short: "Parse biography cells without fetching anything",
	Long: `Parse converts raw "Name(birth–death) description" or "Name(born year) description"
strings into records. Cells come from the arguments, or from stdin one per line.

Example:
  pmtable parse "Jawaharlal Nehru(1889–1964) MP for Phulpur"
  pmtable parse --reference-year 2024 --format csv < cells.txt`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{"reference_year": "reference-year"})
	},
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().Int("reference-year", 0, "\"as of\" year for living subjects (default: current year)")
	parseCmd.Flags().StringVar(&parseFormat, "format", "table", "output format (table, csv, json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	cells := args
	if len(cells) == 0 {
		if cells, err = readLines(cmd.InOrStdin()); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	records, err := parse.NewParser(cfg.ReferenceYear).ParseAll(cells)
	if err != nil {
		return err
	}
	logger.Debug("parsed cells", zap.Int("cells", len(cells)), zap.Int("records", len(records)))

	return writeRecords(cmd.OutOrStdout(), records, parseFormat)
}

func writeRecords(w io.Writer, records []model.Record, format string) error {
	switch format {
	case "csv":
		return pipeline.WriteCSV(w, records)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "table":
		fmt.Fprintln(w, pipeline.RecordTable(records))
		if summary, err := stats.Summarize(records); err == nil {
			fmt.Fprintf(w, "mean %.2f  median %.1f  stddev %.2f\n", summary.Mean, summary.Median, summary.StdDev)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", format)
	}
}

// readLines returns the non-blank lines of r
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
