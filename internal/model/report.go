package model

import "time"

// Report is the complete result of one pipeline run
type Report struct {
	RunID         string    `json:"run_id"`         // Unique identifier for this run
	SourceURL     string    `json:"source_url"`     // Page the table was read from
	GeneratedAt   time.Time `json:"generated_at"`   // When the run completed
	ReferenceYear int       `json:"reference_year"` // "As of" year used for living subjects
	FetchMeta     FetchMeta `json:"fetch_meta"`

	Records []Record `json:"records"` // Sorted by birth year ascending
	Stats   Summary  `json:"stats"`
}

// FetchMeta describes how the source document was obtained
type FetchMeta struct {
	StatusCode  int    `json:"status_code,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	FromCache   bool   `json:"from_cache"`
	CachePath   string `json:"cache_path,omitempty"`
	Bytes       int    `json:"bytes"`
}

// Summary holds aggregate statistics over record ages
type Summary struct {
	Count    int     `json:"count"`
	Alive    int     `json:"alive"`
	Deceased int     `json:"deceased"`
	Mean     float64 `json:"mean"`   // Rounded to 2 decimals
	Median   float64 `json:"median"`
	StdDev   float64 `json:"stddev"` // Sample standard deviation (N-1)
	MinAge   int     `json:"min_age"`
	MaxAge   int     `json:"max_age"`
	Youngest string  `json:"youngest,omitempty"`
	Oldest   string  `json:"oldest,omitempty"`

	// MeanLifespan is the mean age of deceased records only, 0 when there are none
	MeanLifespan float64 `json:"mean_lifespan"`
}
