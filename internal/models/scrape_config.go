package models

import "fmt"

// SortMode enumerates the supported subreddit listing orders.
type SortMode string

const (
	SortHot    SortMode = "hot"
	SortNew    SortMode = "new"
	SortTop    SortMode = "top"
	SortRising SortMode = "rising"
)

// TimeFilter enumerates the time windows for the "top" sort.
type TimeFilter string

const (
	TimeHour  TimeFilter = "hour"
	TimeDay   TimeFilter = "day"
	TimeWeek  TimeFilter = "week"
	TimeMonth TimeFilter = "month"
	TimeYear  TimeFilter = "year"
	TimeAll   TimeFilter = "all"
)

// OutputFormat enumerates the supported persistence encodings.
type OutputFormat string

const (
	FormatCSV  OutputFormat = "csv"
	FormatJSON OutputFormat = "json"
	FormatTXT  OutputFormat = "txt"
)

// ScrapeConfig is the immutable input to a single scrape run. It is
// created per job submission and consumed entirely by the scraper.
type ScrapeConfig struct {
	Subreddit       string       `json:"subreddit"`
	PostLimit       int          `json:"post_limit"`
	OutputFormat    OutputFormat `json:"output_format"`
	IncludeComments bool         `json:"include_comments"`
	Pages           int          `json:"pages"`
	SortBy          SortMode     `json:"sort_by"`
	TimeFilter      TimeFilter   `json:"time_filter"`
	DelayMin        float64      `json:"delay_min"`
	DelayMax        float64      `json:"delay_max"`
}

// ApplyDefaults fills zero-valued fields with the documented defaults.
func (c *ScrapeConfig) ApplyDefaults() {
	if c.PostLimit == 0 {
		c.PostLimit = 25
	}
	if c.Pages == 0 {
		c.Pages = 1
	}
	if c.OutputFormat == "" {
		c.OutputFormat = FormatJSON
	}
	if c.SortBy == "" {
		c.SortBy = SortHot
	}
	if c.TimeFilter == "" {
		c.TimeFilter = TimeAll
	}
	if c.DelayMin == 0 {
		c.DelayMin = 1.0
	}
	if c.DelayMax == 0 {
		c.DelayMax = 3.0
	}
}

// Validate checks the config against the request bounds enforced by the
// job-submission API.
func (c *ScrapeConfig) Validate() error {
	if c.Subreddit == "" {
		return fmt.Errorf("subreddit is required")
	}
	if c.PostLimit < 1 || c.PostLimit > 100 {
		return fmt.Errorf("post_limit must be between 1 and 100")
	}
	if c.Pages < 1 || c.Pages > 10 {
		return fmt.Errorf("pages must be between 1 and 10")
	}
	switch c.SortBy {
	case SortHot, SortNew, SortTop, SortRising:
	default:
		return fmt.Errorf("sort_by must be one of hot, new, top, rising")
	}
	switch c.TimeFilter {
	case TimeHour, TimeDay, TimeWeek, TimeMonth, TimeYear, TimeAll:
	default:
		return fmt.Errorf("time_filter must be one of hour, day, week, month, year, all")
	}
	switch c.OutputFormat {
	case FormatCSV, FormatJSON, FormatTXT:
	default:
		return fmt.Errorf("output_format must be one of csv, json, txt")
	}
	if c.DelayMin < 0.5 {
		return fmt.Errorf("delay_min must be at least 0.5 seconds")
	}
	if c.DelayMax < 1.0 {
		return fmt.Errorf("delay_max must be at least 1 second")
	}
	if c.DelayMax < c.DelayMin {
		return fmt.Errorf("delay_max must be greater than or equal to delay_min")
	}
	return nil
}
