// Package extract converts an HTML table into raw text cells and pulls out
// the biography column.
package extract

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// maxSpan bounds rowspan/colspan values taken from the document
const maxSpan = 1000

// Cell is one grid position after span expansion
type Cell struct {
	Text   string
	Header bool // came from a <th>
}

// Table is an HTML table flattened into a rectangular-ish grid
type Table struct {
	Header [][]Cell // leading rows made only of <th>
	Rows   [][]Cell
}

// Extractor finds a table by CSS selector and reads one column from it
type Extractor struct {
	selector string
	column   string
}

// NewExtractor creates an extractor for the first table matching selector,
// reading the first column whose header contains column
func NewExtractor(selector, column string) *Extractor {
	return &Extractor{selector: selector, column: column}
}

// Extract returns the non-empty, deduplicated values of the configured column
// in document order
func (e *Extractor) Extract(htmlContent string) ([]string, error) {
	table, err := e.Table(htmlContent)
	if err != nil {
		return nil, err
	}

	values, err := table.Column(e.column)
	if err != nil {
		return nil, &ExtractionError{Selector: e.selector, Column: e.column, Err: err}
	}
	return values, nil
}

// Table parses the document and converts the first matching table
func (e *Extractor) Table(htmlContent string) (*Table, error) {
	root, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &ExtractionError{Selector: e.selector, Err: fmt.Errorf("parse HTML: %w", err)}
	}

	doc := goquery.NewDocumentFromNode(root)
	sel := doc.Find(e.selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return goquery.NodeName(s) == "table"
	}).First()
	if sel.Length() == 0 {
		return nil, &ExtractionError{Selector: e.selector, Err: ErrTableNotFound}
	}

	return ParseTable(sel), nil
}

// ParseTable flattens a <table> selection, copying rowspan and colspan cells
// into every grid position they cover. Rows of nested tables are ignored.
func ParseTable(table *goquery.Selection) *Table {
	grid := expand(rowsOf(table))

	t := &Table{}
	inHeader := true
	for _, row := range grid {
		allHeader := len(row) > 0
		for _, c := range row {
			if !c.Header {
				allHeader = false
				break
			}
		}

		switch {
		case allHeader && (!inHeader || (len(t.Header) > 0 && spansAll(row))):
			// separator rows such as era captions
		case allHeader:
			t.Header = append(t.Header, row)
		default:
			inHeader = false
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

// Column returns the values of the first column whose header contains label
// (case-insensitive), trimmed, without empties and duplicates
func (t *Table) Column(label string) ([]string, error) {
	idx := t.columnIndex(label)
	if idx < 0 {
		return nil, ErrColumnNotFound
	}

	seen := make(map[string]bool)
	var values []string
	for _, row := range t.Rows {
		if idx >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[idx].Text)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}

	if len(values) == 0 {
		return nil, ErrNoRows
	}
	return values, nil
}

func (t *Table) columnIndex(label string) int {
	want := strings.ToLower(strings.TrimSpace(label))
	if want == "" {
		return -1
	}

	for _, row := range t.Header {
		for i, c := range row {
			if strings.Contains(strings.ToLower(c.Text), want) {
				return i
			}
		}
	}
	return -1
}

// spansAll reports a multi-column row holding one repeated cell
func spansAll(row []Cell) bool {
	if len(row) < 2 {
		return false
	}
	for _, c := range row[1:] {
		if c != row[0] {
			return false
		}
	}
	return true
}

func rowsOf(table *goquery.Selection) *goquery.Selection {
	return table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(table)
	})
}

type pendingSpan struct {
	cell Cell
	left int
}

func expand(rows *goquery.Selection) [][]Cell {
	var grid [][]Cell
	spans := make(map[int]*pendingSpan)

	rows.Each(func(_ int, tr *goquery.Selection) {
		var row []Cell
		used := make(map[int]bool)
		col := 0

		takeSpans := func() {
			for {
				s, ok := spans[col]
				if !ok || used[col] {
					return
				}
				row = setCell(row, col, s.cell)
				used[col] = true
				col++
			}
		}

		tr.ChildrenFiltered("td, th").Each(func(_ int, td *goquery.Selection) {
			takeSpans()

			c := Cell{
				Text:   cellText(td.Get(0)),
				Header: goquery.NodeName(td) == "th",
			}
			rs, cs := span(td, "rowspan"), span(td, "colspan")
			for k := 0; k < cs; k++ {
				row = setCell(row, col, c)
				used[col] = true
				if rs > 1 {
					spans[col] = &pendingSpan{cell: c, left: rs}
				}
				col++
			}
		})

		// spans to the right of the last explicit cell
		keys := make([]int, 0, len(spans))
		for k := range spans {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		for _, k := range keys {
			if !used[k] {
				row = setCell(row, k, spans[k].cell)
				used[k] = true
			}
		}

		for k, s := range spans {
			if used[k] {
				s.left--
			}
			if s.left <= 0 {
				delete(spans, k)
			}
		}

		grid = append(grid, row)
	})

	return grid
}

func setCell(row []Cell, col int, c Cell) []Cell {
	for len(row) <= col {
		row = append(row, Cell{})
	}
	row[col] = c
	return row
}

func span(s *goquery.Selection, name string) int {
	v, ok := s.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxSpan {
		return maxSpan
	}
	return n
}
