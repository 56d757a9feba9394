package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ppiankov/pmtable/internal/model"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	deceasedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	aliveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	axisStyle     = lipgloss.NewStyle().Faint(true)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
)

// Renderer writes a report as files and as a terminal summary
type Renderer struct {
	chartWidth int
	out        io.Writer
}

// NewRenderer creates a renderer printing summaries to out
func NewRenderer(chartWidth int, out io.Writer) *Renderer {
	if chartWidth < 10 {
		chartWidth = 10
	}
	return &Renderer{chartWidth: chartWidth, out: out}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// RenderCSV writes one row per record
func (r *Renderer) RenderCSV(report *model.Report, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close csv: %w", closeErr)
		}
	}()

	return WriteCSV(f, report.Records)
}

// WriteCSV writes records as CSV with a header row
func WriteCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "birth_year", "death_year", "alive", "age"}); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.Name,
			strconv.Itoa(rec.BirthYear),
			strconv.Itoa(rec.DeathYear),
			strconv.FormatBool(rec.Alive),
			strconv.Itoa(rec.Age),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderMarkdown writes the records, statistics and a Mermaid timeline
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return os.WriteFile(path, []byte(Markdown(report)), 0644)
}

// Markdown renders the report as a Markdown document
func Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Prime ministers of India\n\n")
	fmt.Fprintf(&b, "Source: <%s>  \n", report.SourceURL)
	fmt.Fprintf(&b, "Ages as of %d. Generated %s (run `%s`).\n\n",
		report.ReferenceYear, report.GeneratedAt.Format("2006-01-02"), report.RunID)

	b.WriteString("## Records\n\n")
	b.WriteString("| Name | Born | Died | Alive | Age |\n")
	b.WriteString("|---|---:|---:|:---:|---:|\n")
	for _, rec := range report.Records {
		died := strconv.Itoa(rec.DeathYear)
		alive := ""
		if rec.Alive {
			died = "–"
			alive = "yes"
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %d |\n",
			strings.ReplaceAll(rec.Name, "|", `\|`), rec.BirthYear, died, alive, rec.Age)
	}

	s := report.Stats
	b.WriteString("\n## Statistics\n\n")
	b.WriteString("| Measure | Value |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Prime ministers | %d |\n", s.Count)
	fmt.Fprintf(&b, "| Living | %d |\n", s.Alive)
	fmt.Fprintf(&b, "| Mean age | %.2f |\n", s.Mean)
	fmt.Fprintf(&b, "| Median age | %.1f |\n", s.Median)
	fmt.Fprintf(&b, "| Standard deviation | %.2f |\n", s.StdDev)
	fmt.Fprintf(&b, "| Mean lifespan (deceased) | %.2f |\n", s.MeanLifespan)
	fmt.Fprintf(&b, "| Youngest | %s (%d) |\n", s.Youngest, s.MinAge)
	fmt.Fprintf(&b, "| Oldest | %s (%d) |\n", s.Oldest, s.MaxAge)

	b.WriteString("\n## Timeline\n\n")
	b.WriteString(mermaidTimeline(report.Records))

	return b.String()
}

func mermaidTimeline(records []model.Record) string {
	var b strings.Builder
	b.WriteString("```mermaid\ngantt\n")
	b.WriteString("    title Lifespans\n")
	b.WriteString("    dateFormat YYYY\n")
	b.WriteString("    axisFormat %Y\n")

	clean := strings.NewReplacer(":", " ", "#", " ", ";", " ")
	for _, group := range []struct {
		name  string
		alive bool
		tag   string
	}{
		{"Deceased", false, "done"},
		{"Living", true, "active"},
	} {
		header := false
		for _, rec := range records {
			if rec.Alive != group.alive {
				continue
			}
			if !header {
				fmt.Fprintf(&b, "    section %s\n", group.name)
				header = true
			}
			fmt.Fprintf(&b, "    %s :%s, %d, %d\n", clean.Replace(rec.Name), group.tag, rec.BirthYear, rec.DeathYear)
		}
	}

	b.WriteString("```\n")
	return b.String()
}

// RenderSummary prints the records table, the timeline chart and the statistics
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Fprintln(r.out, titleStyle.Render(fmt.Sprintf("Prime ministers of India (ages as of %d)", report.ReferenceYear)))
	fmt.Fprintln(r.out, RecordTable(report.Records))
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, Timeline(report.Records, r.chartWidth))
	fmt.Fprintln(r.out)

	s := report.Stats
	fmt.Fprintf(r.out, "  Records:   %d (%d living, %d deceased)\n", s.Count, s.Alive, s.Deceased)
	fmt.Fprintf(r.out, "  Mean age:  %.2f\n", s.Mean)
	fmt.Fprintf(r.out, "  Median:    %.1f\n", s.Median)
	fmt.Fprintf(r.out, "  Std dev:   %.2f\n", s.StdDev)
	fmt.Fprintf(r.out, "  Youngest:  %s (%d)\n", s.Youngest, s.MinAge)
	fmt.Fprintf(r.out, "  Oldest:    %s (%d)\n", s.Oldest, s.MaxAge)
	if report.FetchMeta.FromCache {
		fmt.Fprintf(r.out, "  Source:    %s (cached)\n", report.FetchMeta.CachePath)
	} else {
		fmt.Fprintf(r.out, "  Source:    %s\n", report.SourceURL)
	}
}

// RecordTable renders records as a bordered terminal table
func RecordTable(records []model.Record) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Name", "Born", "Died", "Status", "Age").
		StyleFunc(func(row, col int) lipgloss.Style {
			if col > 0 {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})

	for _, rec := range records {
		died := strconv.Itoa(rec.DeathYear)
		if rec.Alive {
			died = "-"
		}
		t.Row(rec.Name, strconv.Itoa(rec.BirthYear), died, rec.Status(), strconv.Itoa(rec.Age))
	}

	return t.String()
}

// Timeline draws one bar per record from birth to death (or the reference
// year) on a shared year axis of the given width
func Timeline(records []model.Record, width int) string {
	if len(records) == 0 {
		return ""
	}

	first, last := records[0].BirthYear, records[0].DeathYear
	labelWidth := 0
	for _, rec := range records {
		first = min(first, rec.BirthYear)
		last = max(last, rec.DeathYear)
		labelWidth = max(labelWidth, lipgloss.Width(rec.Name))
	}
	span := max(last-first, 1)

	col := func(year int) int {
		return (year - first) * (width - 1) / span
	}

	var b strings.Builder
	label := lipgloss.NewStyle().Width(labelWidth)
	for _, rec := range records {
		start, end := col(rec.BirthYear), col(rec.DeathYear)
		bar := strings.Repeat("█", max(end-start, 1))

		style := deceasedStyle
		if rec.Alive {
			style = aliveStyle
		}

		fmt.Fprintf(&b, "%s │%s%s %d–%d\n",
			label.Render(rec.Name),
			strings.Repeat(" ", start),
			style.Render(bar),
			rec.BirthYear, rec.DeathYear)
	}

	axis := fmt.Sprintf("%d%s%d", first, strings.Repeat(" ", max(width-8, 1)), last)
	fmt.Fprintf(&b, "%s └%s", strings.Repeat(" ", labelWidth), axisStyle.Render(axis))

	return b.String()
}
