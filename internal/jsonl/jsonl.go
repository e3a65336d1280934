// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jsonl reads and appends line-delimited JSON record files.
// Each line is one compact {"prompt": ..., "completion": ...} object.
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/gosoup/pkg/types"
)

// maxLineBytes bounds a single JSONL line when reading.
const maxLineBytes = 16 * 1024 * 1024

// Sink appends records to a file. Writes go straight to the file, so
// records written before a failure stay on disk.
type Sink struct {
	f     *os.File
	enc   *json.Encoder
	path  string
	count int
}

// Open opens path for appending, creating the file and its parent
// directory if they do not exist.
func Open(path string) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	return &Sink{f: f, enc: enc, path: path}, nil
}

// Path returns the file the sink appends to.
func (s *Sink) Path() string { return s.path }

// Count returns the number of records written through this sink.
func (s *Sink) Count() int { return s.count }

// Write appends records in order, one JSON object per line.
func (s *Sink) Write(records ...types.Record) error {
	for i := range records {
		if err := s.enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("writing record to %s: %w", s.path, err)
		}
		s.count++
	}
	return nil
}

// Close closes the underlying file.
func (s *Sink) Close() error {
	return s.f.Close()
}

// Append opens path, appends records and closes it. It returns the number
// of records written, which is less than len(records) on failure.
func Append(path string, records []types.Record) (int, error) {
	s, err := Open(path)
	if err != nil {
		return 0, err
	}
	writeErr := s.Write(records...)
	closeErr := s.Close()
	if writeErr != nil {
		return s.Count(), writeErr
	}
	if closeErr != nil {
		return s.Count(), fmt.Errorf("closing %s: %w", path, closeErr)
	}
	return s.Count(), nil
}

// ReadFile reads every record in a JSONL file.
func ReadFile(path string) ([]types.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// Read decodes records from r. Blank lines are ignored; a malformed line
// is an error naming its 1-based line number.
func Read(r io.Reader) ([]types.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []types.Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		var rec types.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return records, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("line %d: %w", lineNo+1, err)
	}
	return records, nil
}
