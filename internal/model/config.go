package model

import "time"

// DefaultSourceURL is the page holding the prime ministers table
const DefaultSourceURL = "https://en.wikipedia.org/wiki/List_of_prime_ministers_of_India"

// Config holds all runtime settings
type Config struct {
	ReferenceYear int          `yaml:"reference_year" mapstructure:"reference_year"`
	Source        SourceConfig `yaml:"source" mapstructure:"source"`
	HTTP          HTTPConfig   `yaml:"http" mapstructure:"http"`
	Cache         CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Output        OutputConfig `yaml:"output" mapstructure:"output"`
}

// SourceConfig locates the biography column
type SourceConfig struct {
	URL      string `yaml:"url" mapstructure:"url"`
	Selector string `yaml:"selector" mapstructure:"selector"` // CSS selector of the table
	Column   string `yaml:"column" mapstructure:"column"`     // Header label of the biography column
}

// HTTPConfig controls fetching
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	RobotsTTL         time.Duration `yaml:"robots_ttl" mapstructure:"robots_ttl"` // how long robots.txt rules are reused
}

// CacheConfig controls the on-disk copy of the source document
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"` // 0 keeps the cached page forever
	Refresh bool          `yaml:"-" mapstructure:"-"`
}

// OutputConfig selects the rendered artifacts
type OutputConfig struct {
	JSON       string `yaml:"json,omitempty" mapstructure:"json"`
	CSV        string `yaml:"csv,omitempty" mapstructure:"csv"`
	Markdown   string `yaml:"markdown,omitempty" mapstructure:"markdown"`
	Verbose    bool   `yaml:"verbose" mapstructure:"verbose"`
	ChartWidth int    `yaml:"chart_width" mapstructure:"chart_width"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		ReferenceYear: time.Now().Year(),
		Source: SourceConfig{
			URL:      DefaultSourceURL,
			Selector: "table.wikitable",
			Column:   "Name",
		},
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "pmtable/0.1 (+https://github.com/ppiankov/pmtable)",
			MaxBodyBytes:      5_000_000,
			RespectRobots:     true,
			RequestsPerSecond: 1,
			Burst:             1,
			RobotsTTL:         time.Hour,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".pmtable-cache",
			TTL:     0,
		},
		Output: OutputConfig{
			ChartWidth: 60,
		},
	}
}
