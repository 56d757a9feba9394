package parse

import (
	"sort"

	"github.com/ppiankov/pmtable/internal/model"
)

// Parser converts raw biography strings into records as of a reference year
type Parser struct {
	referenceYear int
}

// NewParser creates a parser that ages living subjects up to referenceYear
func NewParser(referenceYear int) *Parser {
	return &Parser{referenceYear: referenceYear}
}

// ReferenceYear returns the configured "as of" year
func (p *Parser) ReferenceYear() int {
	return p.referenceYear
}

// Parse converts one raw string into a validated record
func (p *Parser) Parse(raw string) (model.Record, error) {
	bio, err := Classify(raw)
	if err != nil {
		return model.Record{}, err
	}

	rec := bio.Record(p.referenceYear)
	if rec.BirthYear >= rec.DeathYear {
		return model.Record{}, newParseError(raw, "birth year %d is not before %d", rec.BirthYear, rec.DeathYear)
	}

	return rec, nil
}

// ParseAll parses a batch of raw strings. Duplicates are collapsed first.
// A single failure rejects the whole batch. Records come back sorted by
// birth year, then name.
func (p *Parser) ParseAll(raws []string) ([]model.Record, error) {
	seen := make(map[string]bool, len(raws))
	records := make([]model.Record, 0, len(raws))

	for _, raw := range raws {
		if seen[raw] {
			continue
		}
		seen[raw] = true

		rec, err := p.Parse(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].BirthYear != records[j].BirthYear {
			return records[i].BirthYear < records[j].BirthYear
		}
		return records[i].Name < records[j].Name
	})

	return records, nil
}
