// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gosoup/pkg/types"
)

// --- test helpers ---

func line(text string, size float64) types.Line {
	return types.Line{Spans: []types.Span{{Text: text, Size: size}}}
}

func doc(pages ...[]types.Line) *types.Document {
	d := &types.Document{}
	for i, lines := range pages {
		d.Pages = append(d.Pages, types.Page{
			Number: i + 1,
			Blocks: []types.Block{{Lines: lines}},
		})
	}
	return d
}

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = "word"
	}
	return strings.Join(w, " ")
}

// --- Normalize ---

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"hello", "hello"},
		{"  hello  world ", "hello world"},
		{"a\tb\nc\r\n  d", "a b c d"},
		{"already clean", "already clean"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"", " x ", "a\n\n\tb", "  many   spaces here  ", "ünïcode text"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

// --- LineText ---

func TestLineText_SkipsBlankSpans(t *testing.T) {
	l := types.Line{Spans: []types.Span{
		{Text: "func", Size: 10},
		{Text: "   ", Size: 10},
		{Text: "", Size: 10},
		{Text: "main()", Size: 10},
	}}
	assert.Equal(t, "func main()", LineText(l))
}

func TestLineText_NoSpans(t *testing.T) {
	assert.Equal(t, "", LineText(types.Line{}))
}

// --- IsHeading ---

func TestIsHeading_Boundaries(t *testing.T) {
	cfg := types.DefaultSegmentConfig()
	tests := []struct {
		name string
		text string
		size float64
		want bool
	}{
		{"size exactly 13 is body", "Title", 13.0, false},
		{"size just above 13", "Title", 13.01, true},
		{"14 words at 14pt", words(14), 14, true},
		{"15 words at 14pt", words(15), 14, false},
		{"small text", "Title", 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHeading(tt.text, tt.size, cfg))
		})
	}
}

// --- Segment ---

func TestSegment_EndToEnd(t *testing.T) {
	d := doc([]types.Line{
		line("Intro", 18),
		line("This is a simple example of Go code.", 10),
		line("Variables", 18),
		line("Variables are declared with var.", 10),
	})

	got := Segment(d, types.DefaultSegmentConfig())
	want := []types.Record{
		{Prompt: "Intro", Completion: "This is a simple example of Go code."},
		{Prompt: "Variables", Completion: "Variables are declared with var."},
	}
	assert.Equal(t, want, got)
}

func TestSegment_EmptyDocument(t *testing.T) {
	got := Segment(&types.Document{}, types.DefaultSegmentConfig())
	require.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, Segment(nil, types.DefaultSegmentConfig()))
}

func TestSegment_EmptyPagesAndBlocks(t *testing.T) {
	d := &types.Document{Pages: []types.Page{
		{Number: 1},
		{Number: 2, Blocks: []types.Block{{}, {Lines: []types.Line{{}}}}},
	}}
	assert.Empty(t, Segment(d, types.DefaultSegmentConfig()))
}

func TestSegment_NoHeadingDiscardsBody(t *testing.T) {
	d := doc([]types.Line{
		line("Some body text.", 10),
		line("More body text.", 10),
	})
	assert.Empty(t, Segment(d, types.DefaultSegmentConfig()))
}

func TestSegment_HeadingsWithoutBodyAreDropped(t *testing.T) {
	d := doc([]types.Line{
		line("A", 20),
		line("B", 20),
	})
	assert.Empty(t, Segment(d, types.DefaultSegmentConfig()))
}

func TestSegment_ConsecutiveHeadingsKeepLast(t *testing.T) {
	d := doc([]types.Line{
		line("Part One", 24),
		line("Chapter 1", 18),
		line("Body for chapter one.", 10),
	})
	got := Segment(d, types.DefaultSegmentConfig())
	require.Len(t, got, 1)
	assert.Equal(t, "Chapter 1", got[0].Prompt)
	assert.Equal(t, "Body for chapter one.", got[0].Completion)
}

func TestSegment_FlushOnEnd(t *testing.T) {
	d := doc([]types.Line{
		line("Closures", 16),
		line("A closure captures variables", 10),
		line("from its enclosing scope.", 10),
	})
	got := Segment(d, types.DefaultSegmentConfig())
	require.Len(t, got, 1)
	assert.Equal(t, types.Record{
		Prompt:     "Closures",
		Completion: "A closure captures variables from its enclosing scope.",
	}, got[0])
}

func TestSegment_CrossPageContinuity(t *testing.T) {
	d := doc(
		[]types.Line{line("Goroutines", 18)},
		[]types.Line{line("Goroutines are lightweight threads.", 10)},
	)
	got := Segment(d, types.DefaultSegmentConfig())
	require.Len(t, got, 1)
	assert.Equal(t, "Goroutines", got[0].Prompt)
	assert.Equal(t, "Goroutines are lightweight threads.", got[0].Completion)
}

func TestSegment_LongLargeLineIsBody(t *testing.T) {
	d := doc([]types.Line{
		line("Maps", 18),
		line(words(15), 18),
	})
	got := Segment(d, types.DefaultSegmentConfig())
	require.Len(t, got, 1)
	assert.Equal(t, words(15), got[0].Completion)
}

func TestSegment_FontSizeFromFirstSpan(t *testing.T) {
	// The first span is small, so the line is body text even though a
	// later span is set large.
	mixed := types.Line{Spans: []types.Span{
		{Text: "see", Size: 10},
		{Text: "Figure 3", Size: 20},
	}}
	d := doc([]types.Line{line("Slices", 18), mixed})
	got := Segment(d, types.DefaultSegmentConfig())
	require.Len(t, got, 1)
	assert.Equal(t, "see Figure 3", got[0].Completion)
}

func TestSegment_WhitespaceIsNormalized(t *testing.T) {
	d := doc([]types.Line{
		line("  Error   handling\t", 18),
		line("errors are\n values", 10),
		line("   ", 10),
		line("  in Go.  ", 10),
	})
	got := Segment(d, types.DefaultSegmentConfig())
	require.Len(t, got, 1)
	assert.Equal(t, "Error handling", got[0].Prompt)
	assert.Equal(t, "errors are values in Go.", got[0].Completion)
}

func TestSegment_CustomThresholds(t *testing.T) {
	cfg := types.SegmentConfig{MinFontSize: 9, MaxWords: 3}
	d := doc([]types.Line{
		line("Small Heading", 10),
		line("body at eight points", 8),
	})
	got := Segment(d, cfg)
	require.Len(t, got, 1)
	assert.Equal(t, "Small Heading", got[0].Prompt)
}

// --- State fold ---

func TestState_StepAndFlush(t *testing.T) {
	st := NewState(types.DefaultSegmentConfig())

	_, ok := st.Heading()
	assert.False(t, ok)
	assert.Nil(t, st.Flush())

	st, rec := st.Step(line("Interfaces", 18))
	assert.Nil(t, rec)
	h, ok := st.Heading()
	assert.True(t, ok)
	assert.Equal(t, "Interfaces", h)

	st, rec = st.Step(line("Interfaces are implicit.", 10))
	assert.Nil(t, rec)
	assert.Equal(t, "Interfaces are implicit.", st.Chunk())

	st, rec = st.Step(line("Embedding", 18))
	require.NotNil(t, rec)
	assert.Equal(t, types.Record{Prompt: "Interfaces", Completion: "Interfaces are implicit."}, *rec)
	assert.Equal(t, "", st.Chunk())
	assert.Nil(t, st.Flush())
}

func TestState_BlankLineLeavesStateUnchanged(t *testing.T) {
	st := NewState(types.DefaultSegmentConfig())
	st, _ = st.Step(line("Heading", 18))
	next, rec := st.Step(types.Line{Spans: []types.Span{{Text: " \t ", Size: 30}}})
	assert.Nil(t, rec)
	assert.Equal(t, st, next)
}
