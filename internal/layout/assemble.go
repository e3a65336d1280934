// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/gosoup/pkg/types"
)

const (
	// lineTolerance is the fraction of the font size the baseline may
	// drift before a run starts a new line.
	lineTolerance = 0.5
	// wordGap is the horizontal gap, as a fraction of the font size, that
	// reads as a space between two runs.
	wordGap = 0.15
	// blockGap is the vertical distance, in multiples of the previous
	// line's font size, that separates two blocks.
	blockGap = 2.0
	// sizeEpsilon absorbs float noise when comparing font sizes.
	sizeEpsilon = 0.01
)

// Run is one positioned piece of text from a page's content stream,
// usually a single glyph. Y grows upward as in PDF user space.
type Run struct {
	Text  string
	Font  string
	Size  float64
	X, Y  float64
	Width float64
}

// Assemble groups runs, in content-stream order, into the blocks, lines
// and spans of page number.
func Assemble(number int, runs []Run) types.Page {
	a := assembler{page: types.Page{Number: number}}
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		a.add(r)
	}
	a.endBlock()
	return a.page
}

type assembler struct {
	page  types.Page
	block types.Block
	line  types.Line
	span  strings.Builder

	spanFont string
	spanSize float64
	inSpan   bool

	last    Run
	inLine  bool
	lineY   float64
	lineSz  float64
	hasPrev bool
	prevY   float64
	prevSz  float64
}

func (a *assembler) add(r Run) {
	if !a.inLine {
		a.startLine(r)
		return
	}

	ref := math.Max(a.lineSz, r.Size)
	if math.Abs(r.Y-a.lineY) > lineTolerance*ref {
		a.endLine()
		if a.hasPrev && math.Abs(a.prevY-r.Y) > blockGap*a.prevSz {
			a.endBlock()
		}
		a.startLine(r)
		return
	}

	gap := r.X - (a.last.X + a.last.Width)
	if gap > wordGap*r.Size && !endsWithSpace(a.span.String()) && !startsWithSpace(r.Text) {
		a.span.WriteByte(' ')
	}
	if r.Font != a.spanFont || math.Abs(r.Size-a.spanSize) > sizeEpsilon {
		a.endSpan()
		a.startSpan(r)
	}
	a.span.WriteString(r.Text)
	a.last = r
}

func (a *assembler) startLine(r Run) {
	a.inLine = true
	a.lineY = r.Y
	a.lineSz = r.Size
	a.startSpan(r)
	a.span.WriteString(r.Text)
	a.last = r
}

func (a *assembler) startSpan(r Run) {
	a.inSpan = true
	a.spanFont = r.Font
	a.spanSize = r.Size
	a.span.Reset()
}

func (a *assembler) endSpan() {
	if !a.inSpan {
		return
	}
	a.line.Spans = append(a.line.Spans, types.Span{
		Text: a.span.String(),
		Font: a.spanFont,
		Size: a.spanSize,
	})
	a.span.Reset()
	a.inSpan = false
}

func (a *assembler) endLine() {
	if !a.inLine {
		return
	}
	a.endSpan()
	if len(a.line.Spans) > 0 {
		a.block.Lines = append(a.block.Lines, a.line)
	}
	a.line = types.Line{}
	a.hasPrev = true
	a.prevY = a.lineY
	a.prevSz = a.lineSz
	a.inLine = false
}

func (a *assembler) endBlock() {
	a.endLine()
	if len(a.block.Lines) > 0 {
		a.page.Blocks = append(a.page.Blocks, a.block)
	}
	a.block = types.Block{}
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return s != "" && unicode.IsSpace(r)
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return s != "" && unicode.IsSpace(r)
}
