// Package parse turns raw "Name(birth–death) description" cells into records.
package parse

import (
	"regexp"
	"strings"

	"github.com/ppiankov/pmtable/internal/model"
)

// livingToken marks the "Name(born <year>)" form
const livingToken = "born"

// yearPattern matches a four-digit run that is not part of a longer number
var yearPattern = regexp.MustCompile(`(?:^|[^0-9])([0-9]{4})(?:[^0-9]|$)`)

// dashes separating birth and death years
const dashes = "-‐‑‒–—−"

// Biography is a classified raw string, either DeceasedBiography or LivingBiography
type Biography interface {
	// Record resolves the biography against the "as of" year
	Record(referenceYear int) model.Record
}

// DeceasedBiography is the "Name(birth–death)" form
type DeceasedBiography struct {
	Name  string
	Birth int
	Death int
}

// Record implements Biography
func (b DeceasedBiography) Record(int) model.Record {
	return model.Record{
		Name:      b.Name,
		BirthYear: b.Birth,
		DeathYear: b.Death,
		Alive:     false,
		Age:       b.Death - b.Birth,
	}
}

// LivingBiography is the "Name(born birth)" form
type LivingBiography struct {
	Name  string
	Birth int
}

// Record implements Biography; the reference year stands in for the death year
func (b LivingBiography) Record(referenceYear int) model.Record {
	return model.Record{
		Name:      b.Name,
		BirthYear: b.Birth,
		DeathYear: referenceYear,
		Alive:     true,
		Age:       referenceYear - b.Birth,
	}
}

// Classify splits a raw string into name and parenthetical and picks the variant.
// Text after the first ")" is never inspected.
func Classify(raw string) (Biography, error) {
	name, inner, err := split(raw)
	if err != nil {
		return nil, err
	}

	if idx := strings.Index(inner, livingToken); idx >= 0 {
		birth, ok := firstYear(inner[idx+len(livingToken):])
		if !ok {
			return nil, newParseError(raw, "no year after %q", livingToken)
		}
		return LivingBiography{Name: name, Birth: birth}, nil
	}

	birth, birthEnd, ok := findYear(inner)
	if !ok {
		return nil, newParseError(raw, "no birth year inside parentheses")
	}

	rest := inner[birthEnd:]
	dash := strings.IndexAny(rest, dashes)
	if dash < 0 {
		return nil, newParseError(raw, "no dash after birth year %d", birth)
	}

	death, ok := firstYear(rest[dash:])
	if !ok {
		return nil, newParseError(raw, "no death year after birth year %d", birth)
	}

	return DeceasedBiography{Name: name, Birth: birth, Death: death}, nil
}

// split returns the text before the first "(" and the text up to the first ")" after it
func split(raw string) (string, string, error) {
	open := strings.Index(raw, "(")
	if open < 0 {
		return "", "", newParseError(raw, "no opening parenthesis")
	}

	closing := strings.Index(raw[open+1:], ")")
	if closing < 0 {
		return "", "", newParseError(raw, "no closing parenthesis")
	}

	name := strings.Join(strings.Fields(raw[:open]), " ")
	if name == "" {
		return "", "", newParseError(raw, "empty name")
	}

	return name, raw[open+1 : open+1+closing], nil
}

// firstYear returns the first four-digit year in s
func firstYear(s string) (int, bool) {
	year, _, ok := findYear(s)
	return year, ok
}

// findYear returns the first four-digit year in s and the byte offset just past it
func findYear(s string) (int, int, bool) {
	m := yearPattern.FindStringSubmatchIndex(s)
	if m == nil {
		return 0, 0, false
	}

	start, end := m[2], m[3]
	year := 0
	for _, c := range s[start:end] {
		year = year*10 + int(c-'0')
	}
	return year, end, true
}
