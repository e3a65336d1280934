// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package layout reads the visual layout of PDF files: pages of blocks of
// lines of spans, each span carrying its font and size.
package layout

import (
	"fmt"
	"os"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/pdiddy/gosoup/pkg/types"
)

// Reader loads PDF documents from disk. The zero value is ready to use.
type Reader struct{}

// Load implements textbook.Loader.
func (Reader) Load(path string) (*types.Document, error) {
	return Open(path)
}

// Open reads the PDF at path and builds its layout. The file is closed
// before Open returns. Pages whose content cannot be decoded are kept as
// empty pages so page numbering stays aligned with the source.
func Open(path string) (doc *types.Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	// The pdf library panics on some malformed cross-reference tables.
	defer func() {
		if p := recover(); p != nil {
			doc = nil
			err = fmt.Errorf("reading pdf %s: malformed document: %v", path, p)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	r, err := pdflib.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}

	doc = &types.Document{Source: path}
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, types.Page{Number: i})
			continue
		}
		doc.Pages = append(doc.Pages, Assemble(i, pageRuns(page)))
	}
	return doc, nil
}

// pageRuns returns the positioned text of one page in content-stream
// order, or nil when the content stream cannot be decoded.
func pageRuns(page pdflib.Page) (runs []Run) {
	defer func() {
		if recover() != nil {
			runs = nil
		}
	}()

	for _, t := range page.Content().Text {
		runs = append(runs, Run{
			Text:  t.S,
			Font:  t.Font,
			Size:  t.FontSize,
			X:     t.X,
			Y:     t.Y,
			Width: t.W,
		})
	}
	return runs
}
