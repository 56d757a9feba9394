package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/pmtable/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *model.Report {
	return &model.Report{
		RunID:         "run-1",
		SourceURL:     model.DefaultSourceURL,
		GeneratedAt:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ReferenceYear: 2024,
		Records: []model.Record{
			{Name: "Jawaharlal Nehru", BirthYear: 1889, DeathYear: 1964, Age: 75},
			{Name: "Narendra Modi", BirthYear: 1950, DeathYear: 2024, Alive: true, Age: 74},
		},
		Stats: model.Summary{Count: 2, Alive: 1, Deceased: 1, Mean: 74.5, Median: 74.5, StdDev: 0.71,
			MinAge: 74, MaxAge: 75, Youngest: "Narendra Modi", Oldest: "Jawaharlal Nehru", MeanLifespan: 75},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport().Records))

	assert.Equal(t, "name,birth_year,death_year,alive,age\n"+
		"Jawaharlal Nehru,1889,1964,false,75\n"+
		"Narendra Modi,1950,2024,true,74\n", buf.String())
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, NewRenderer(40, &bytes.Buffer{}).RenderJSON(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded model.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sampleReport().Records, decoded.Records)
	assert.Contains(t, string(data), `"birth_year": 1889`)
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	assert.Contains(t, md, "| Jawaharlal Nehru | 1889 | 1964 |  | 75 |")
	assert.Contains(t, md, "| Narendra Modi | 1950 | – | yes | 74 |")
	assert.Contains(t, md, "| Mean age | 74.50 |")
	assert.Contains(t, md, "```mermaid\ngantt\n")
	assert.Contains(t, md, "    section Deceased\n    Jawaharlal Nehru :done, 1889, 1964\n")
	assert.Contains(t, md, "    section Living\n    Narendra Modi :active, 1950, 2024\n")
}

func TestTimeline(t *testing.T) {
	chart := Timeline(sampleReport().Records, 20)
	lines := strings.Split(chart, "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "Jawaharlal Nehru │")
	assert.Contains(t, lines[0], "1889–1964")
	assert.Contains(t, lines[1], "Narendra Modi    │")
	assert.Contains(t, lines[1], "1950–2024")
	assert.Contains(t, lines[2], "1889")
	assert.Contains(t, lines[2], "2024")

	// Nehru starts at the left edge, Modi is indented
	assert.False(t, strings.HasPrefix(strings.SplitN(lines[0], "│", 2)[1], " "))
	assert.True(t, strings.HasPrefix(strings.SplitN(lines[1], "│", 2)[1], " "))

	assert.Empty(t, Timeline(nil, 20))
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(30, &buf).RenderSummary(sampleReport())

	out := buf.String()
	assert.Contains(t, out, "ages as of 2024")
	assert.Contains(t, out, "Jawaharlal Nehru")
	assert.Contains(t, out, "deceased")
	assert.Contains(t, out, "Mean age:  74.50")
	assert.Contains(t, out, "Youngest:  Narendra Modi (74)")
}
