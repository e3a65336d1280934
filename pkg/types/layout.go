// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Document is the visual layout of a PDF: pages of blocks of lines of spans.
// It is read-only once built and owned by the caller for one extraction.
type Document struct {
	// Source is the path the document was read from, if any.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	Pages []Page `json:"pages" yaml:"pages"`
}

// Page is an ordered sequence of blocks.
type Page struct {
	// Number is the 1-based page number in the source file.
	Number int     `json:"number" yaml:"number"`
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

// Block is an ordered sequence of lines. Blocks without lines (images)
// contribute nothing to segmentation.
type Block struct {
	Lines []Line `json:"lines" yaml:"lines"`
}

// Line is an ordered sequence of spans sharing a baseline.
type Line struct {
	Spans []Span `json:"spans" yaml:"spans"`
}

// FontSize returns the size of the first span, or 0 for a line without spans.
func (l Line) FontSize() float64 {
	if len(l.Spans) == 0 {
		return 0
	}
	return l.Spans[0].Size
}

// Span is a run of text set in one font and size.
type Span struct {
	Text string  `json:"text" yaml:"text"`
	Font string  `json:"font,omitempty" yaml:"font,omitempty"`
	Size float64 `json:"size" yaml:"size"`
}
