// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textbook turns a directory of PDF textbooks into prompt/completion
// records by segmenting each document on its headings.
package textbook

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/gosoup/internal/segment"
	"github.com/pdiddy/gosoup/pkg/types"
)

// Loader reads a document's visual layout. layout.Reader implements it
// for PDF files; tests supply fakes.
type Loader interface {
	Load(path string) (*types.Document, error)
}

// RecordWriter receives each document's records as soon as it is segmented.
// *jsonl.Sink implements it.
type RecordWriter interface {
	Write(records ...types.Record) error
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Processed int
	Failed    int
	Records   int
}

// Total returns the total number of documents attempted.
func (r BatchResult) Total() int {
	return r.Processed + r.Failed
}

// HasFailures reports whether any document failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ListPDFs returns the *.pdf files directly inside dir, sorted by name.
// The extension match is case-insensitive.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ProcessFile loads one document and segments it into records.
func ProcessFile(l Loader, path string, cfg types.SegmentConfig, w io.Writer) ([]types.Record, error) {
	fmt.Fprintf(w, "processing: %s\n", path)
	doc, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	return segment.Segment(doc, cfg), nil
}

// ProcessBatch processes paths in order and hands each document's records
// to out. A document that fails to load is reported and counted; the batch
// continues. A failure to write records is returned as an error since the
// output is no longer trustworthy.
func ProcessBatch(l Loader, paths []string, cfg types.SegmentConfig, out RecordWriter, w io.Writer) (BatchResult, error) {
	var result BatchResult
	for _, path := range paths {
		name := filepath.Base(path)
		records, err := ProcessFile(l, path, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			result.Failed++
			continue
		}
		if err := out.Write(records...); err != nil {
			return result, fmt.Errorf("writing records for %s: %w", name, err)
		}
		fmt.Fprintf(w, "segmented: %s (%d records)\n", name, len(records))
		result.Processed++
		result.Records += len(records)
	}
	fmt.Fprintf(w, "\nBatch summary: %d processed, %d failed, %d records (total: %d)\n",
		result.Processed, result.Failed, result.Records, result.Total())
	return result, nil
}

// ProcessDir lists the PDFs in cfg.InputDir and processes them with
// ProcessBatch. An unreadable input directory is an error.
func ProcessDir(l Loader, cfg types.TextbookConfig, out RecordWriter, w io.Writer) (BatchResult, error) {
	paths, err := ListPDFs(cfg.InputDir)
	if err != nil {
		return BatchResult{}, err
	}
	return ProcessBatch(l, paths, cfg.Segment, out, w)
}
