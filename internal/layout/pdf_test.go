// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gosoup/internal/segment"
	"github.com/pdiddy/gosoup/pkg/types"
)

// buildPDF returns a minimal PDF with one page per content stream, all
// pages sharing a Helvetica font resource named F1.
func buildPDF(contents ...string) []byte {
	var objs []string
	kids := ""
	for i := range contents {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(contents)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, c := range contents {
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(c), c),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func textAt(size, x, y float64, s string) string {
	return fmt.Sprintf("BT /F1 %g Tf %g %g Td (%s) Tj ET\n", size, x, y, s)
}

func writePDF(t *testing.T, contents ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.pdf")
	require.NoError(t, os.WriteFile(path, buildPDF(contents...), 0o644))
	return path
}

func TestOpen_RealPDF(t *testing.T) {
	path := writePDF(t,
		textAt(18, 72, 700, "Intro")+
			textAt(10, 72, 680, "This is a simple example of Go code.")+
			textAt(18, 72, 640, "Variables")+
			textAt(10, 72, 620, "Variables are declared with var."),
	)

	doc, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, 1, doc.Pages[0].Number)

	blocks := doc.Pages[0].Blocks
	require.Len(t, blocks, 2)
	require.Len(t, blocks[0].Lines, 2)
	require.Len(t, blocks[1].Lines, 2)
	assert.Equal(t, "Intro", segment.LineText(blocks[0].Lines[0]))
	assert.InDelta(t, 18.0, blocks[0].Lines[0].FontSize(), 0.01)
	assert.InDelta(t, 10.0, blocks[0].Lines[1].FontSize(), 0.01)
	assert.Equal(t, "Variables", segment.LineText(blocks[1].Lines[0]))

	got := segment.Segment(doc, types.DefaultSegmentConfig())
	assert.Equal(t, []types.Record{
		{Prompt: "Intro", Completion: "This is a simple example of Go code."},
		{Prompt: "Variables", Completion: "Variables are declared with var."},
	}, got)
}

func TestOpen_RealPDF_HeadingCarriesAcrossPages(t *testing.T) {
	path := writePDF(t,
		textAt(18, 72, 700, "Goroutines"),
		textAt(10, 72, 700, "A goroutine is a lightweight thread."),
	)

	doc, err := (Reader{}).Load(path)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 2, doc.Pages[1].Number)

	got := segment.Segment(doc, types.DefaultSegmentConfig())
	assert.Equal(t, []types.Record{
		{Prompt: "Goroutines", Completion: "A goroutine is a lightweight thread."},
	}, got)
}

// openFDs counts this process's open file descriptors.
func openFDs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("/proc/self/fd not available")
	}
	return len(entries)
}

func TestOpen_ClosesFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	valid := buildPDF(textAt(10, 72, 700, "body"))
	inputs := map[string][]byte{
		"not-a-pdf.pdf": []byte("this is not a pdf"),
		"truncated.pdf": valid[:len(valid)/2],
		"no-xref.pdf":   []byte("%PDF-1.4\n1 0 obj\n<< >>\nendobj\nstartxref\n9999\n%%EOF\n"),
	}

	before := openFDs(t)
	for name, data := range inputs {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o644))
		for i := 0; i < 5; i++ {
			_, err := Open(path)
			assert.Error(t, err, name)
		}
	}
	assert.Equal(t, before, openFDs(t))
}
