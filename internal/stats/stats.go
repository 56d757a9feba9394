// Package stats computes age statistics over parsed records.
package stats

import (
	"errors"
	"sort"

	"github.com/ppiankov/pmtable/internal/model"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat"
)

// ErrEmpty is returned when there is nothing to aggregate
var ErrEmpty = errors.New("no ages to aggregate")

// Ages holds the three headline statistics
type Ages struct {
	Mean   float64
	Median float64
	StdDev float64
}

// Aggregate computes the mean (2 decimals), median and sample standard
// deviation of ages. A single value has a standard deviation of 0.
func Aggregate(ages []int) (Ages, error) {
	if len(ages) == 0 {
		return Ages{}, ErrEmpty
	}

	xs := make([]float64, len(ages))
	for i, a := range ages {
		xs[i] = float64(a)
	}
	sort.Float64s(xs)

	out := Ages{
		Mean:   scalar.Round(stat.Mean(xs, nil), 2),
		Median: median(xs),
	}
	if len(xs) > 1 {
		out.StdDev = stat.StdDev(xs, nil)
	}

	return out, nil
}

// median expects sorted input
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Summarize builds the report summary for a set of records
func Summarize(records []model.Record) (model.Summary, error) {
	ages, err := Aggregate(model.Ages(records))
	if err != nil {
		return model.Summary{}, err
	}

	sum := model.Summary{
		Count:  len(records),
		Mean:   ages.Mean,
		Median: ages.Median,
		StdDev: scalar.Round(ages.StdDev, 2),
	}

	var lifespans []float64
	for i, r := range records {
		if r.Alive {
			sum.Alive++
		} else {
			sum.Deceased++
			lifespans = append(lifespans, float64(r.Age))
		}

		if i == 0 || r.Age < sum.MinAge {
			sum.MinAge, sum.Youngest = r.Age, r.Name
		}
		if i == 0 || r.Age > sum.MaxAge {
			sum.MaxAge, sum.Oldest = r.Age, r.Name
		}
	}

	if len(lifespans) > 0 {
		sum.MeanLifespan = scalar.Round(stat.Mean(lifespans, nil), 2)
	}

	return sum, nil
}
