// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment turns the visual layout of a document into
// prompt/completion records. Large, short lines are headings; the text
// between one heading and the next is that heading's completion.
package segment

import (
	"strings"

	"github.com/pdiddy/gosoup/pkg/types"
)

// Normalize trims s and collapses every internal run of whitespace
// (spaces, tabs, newlines) to a single space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// LineText joins the text of every span whose trimmed text is non-empty
// with a single space. Whitespace-only spans are dropped entirely.
func LineText(line types.Line) string {
	parts := make([]string, 0, len(line.Spans))
	for _, s := range line.Spans {
		if strings.TrimSpace(s.Text) != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}

// IsHeading reports whether a line with the given text and font size is a
// heading under cfg. Both comparisons are strict.
func IsHeading(text string, fontSize float64, cfg types.SegmentConfig) bool {
	return fontSize > cfg.MinFontSize && len(strings.Fields(text)) < cfg.MaxWords
}

// State is the accumulator threaded through a document's lines. The zero
// value has no heading and an empty chunk. Step returns the next State;
// the chunk storage may be shared with the receiver, so a State should be
// stepped at most once.
type State struct {
	cfg     types.SegmentConfig
	heading string
	hasHead bool
	chunk   []string
}

// NewState returns an empty State using cfg for the heading test.
func NewState(cfg types.SegmentConfig) State {
	return State{cfg: cfg}
}

// Heading returns the current heading and whether one has been seen.
func (s State) Heading() (string, bool) {
	return s.heading, s.hasHead
}

// Chunk returns the normalized body text accumulated under the current heading.
func (s State) Chunk() string {
	return Normalize(strings.Join(s.chunk, " "))
}

// Step folds one line into the state. It returns the next state and, when
// the line is a heading that closes a non-empty section, the record for
// that section.
func (s State) Step(line types.Line) (State, *types.Record) {
	text := LineText(line)
	if strings.TrimSpace(text) == "" {
		return s, nil
	}

	if !IsHeading(text, line.FontSize(), s.cfg) {
		next := s
		next.chunk = append(s.chunk, text)
		return next, nil
	}

	rec := s.Flush()
	return State{
		cfg:     s.cfg,
		heading: Normalize(text),
		hasHead: true,
	}, rec
}

// Flush returns the record for the open section, or nil when there is no
// heading or the accumulated body is empty.
func (s State) Flush() *types.Record {
	if !s.hasHead {
		return nil
	}
	completion := s.Chunk()
	if s.heading == "" || completion == "" {
		return nil
	}
	return &types.Record{Prompt: s.heading, Completion: completion}
}

// Lines flattens doc into its lines in page, block, line order.
func Lines(doc *types.Document) []types.Line {
	if doc == nil {
		return nil
	}
	var lines []types.Line
	for _, p := range doc.Pages {
		for _, b := range p.Blocks {
			lines = append(lines, b.Lines...)
		}
	}
	return lines
}

// Segment runs the fold over every line of doc and returns the records in
// document order, including the trailing section. The heading state
// carries across page boundaries.
func Segment(doc *types.Document, cfg types.SegmentConfig) []types.Record {
	records := []types.Record{}
	st := NewState(cfg)
	for _, line := range Lines(doc) {
		var rec *types.Record
		st, rec = st.Step(line)
		if rec != nil {
			records = append(records, *rec)
		}
	}
	if rec := st.Flush(); rec != nil {
		records = append(records, *rec)
	}
	return records
}
