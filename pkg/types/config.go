// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "gosoup/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SegmentConfig holds the heading heuristic thresholds. A line is a
// heading when its font size is strictly greater than MinFontSize and its
// word count is strictly less than MaxWords.
type SegmentConfig struct {
	MinFontSize float64 `json:"min_font_size" yaml:"min_font_size" mapstructure:"min_font_size"`
	MaxWords    int     `json:"max_words" yaml:"max_words" mapstructure:"max_words"`
}

// DefaultSegmentConfig returns the thresholds the textbook pipeline has
// always used: larger than 13pt and fewer than 15 words.
func DefaultSegmentConfig() SegmentConfig {
	return SegmentConfig{
		MinFontSize: 13.0,
		MaxWords:    15,
	}
}

// TextbookConfig holds settings for the PDF textbook stage.
type TextbookConfig struct {
	Segment SegmentConfig `json:"segment" yaml:"segment" mapstructure:"segment"`

	// InputDir is the directory scanned for *.pdf files.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// OutputFile is the JSONL file records are appended to.
	OutputFile string `json:"output_file" yaml:"output_file" mapstructure:"output_file"`
}

// SiteConfig names a harvest site and the page it starts from.
type SiteConfig struct {
	Name    string `json:"name" yaml:"name" mapstructure:"name"`
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
}

// HarvestConfig holds settings for the web harvest stage.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Sites lists the sites to harvest, in order.
	Sites []SiteConfig `json:"sites" yaml:"sites" mapstructure:"sites"`

	// LinkDelay is an optional pause between linked page fetches (default 0).
	LinkDelay time.Duration `json:"link_delay" yaml:"link_delay" mapstructure:"link_delay"`

	// OutputFile is the JSONL file records are appended to.
	OutputFile string `json:"output_file" yaml:"output_file" mapstructure:"output_file"`
}

// DatasetConfig holds settings for the dataset index.
type DatasetConfig struct {
	// IndexDir holds dataset.db and default export files.
	IndexDir string `json:"index_dir" yaml:"index_dir" mapstructure:"index_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}
