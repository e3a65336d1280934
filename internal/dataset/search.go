// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"context"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for dataset queries.
type QueryOptions struct {
	// Query is matched case-insensitively as a substring of the prompt or
	// the completion. ASCII letters only are folded.
	Query string

	// Source filters by source file, given as its base name
	// (e.g. "go_dataset.jsonl") or its absolute path.
	Source string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Entry is an indexed record with its origin.
type Entry struct {
	ID         string `json:"id" yaml:"id"`
	Source     string `json:"source" yaml:"source"`
	Path       string `json:"path" yaml:"path"`
	Line       int    `json:"line" yaml:"line"`
	Prompt     string `json:"prompt" yaml:"prompt"`
	Completion string `json:"completion" yaml:"completion"`
}

// Search returns records matching opts ordered by source name, path and
// line.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}
	return s.query(ctx, opts, maxResults)
}

// query runs the search; a limit of zero returns every match.
func (s *Store) query(ctx context.Context, opts QueryOptions, limit int) ([]Entry, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT r.id, s.name, s.path, r.line, r.prompt, r.completion
		FROM records r
		JOIN sources s ON s.path = r.source
		WHERE 1=1`)

	if opts.Query != "" {
		qb.WriteString(` AND (instr(lower(r.prompt), lower(?)) > 0 OR instr(lower(r.completion), lower(?)) > 0)`)
		args = append(args, opts.Query, opts.Query)
	}

	if opts.Source != "" {
		qb.WriteString(` AND (s.name = ? OR s.path = ?)`)
		args = append(args, opts.Source, opts.Source)
	}

	qb.WriteString(` ORDER BY s.name, s.path, r.line`)
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying dataset: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Source, &e.Path, &e.Line, &e.Prompt, &e.Completion); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SourceStats describes one indexed file.
type SourceStats struct {
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path" yaml:"path"`
	Records int    `json:"records" yaml:"records"`
}

// Stats summarizes the index. Duplicates counts records whose
// prompt/completion pair already appeared elsewhere in the index.
type Stats struct {
	Total      int           `json:"total" yaml:"total"`
	Distinct   int           `json:"distinct" yaml:"distinct"`
	Duplicates int           `json:"duplicates" yaml:"duplicates"`
	Sources    []SourceStats `json:"sources" yaml:"sources"`
}

// Stats reports record totals, duplicate counts and per-source counts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*), count(DISTINCT id) FROM records`,
	).Scan(&st.Total, &st.Distinct); err != nil {
		return Stats{}, fmt.Errorf("counting records: %w", err)
	}
	st.Duplicates = st.Total - st.Distinct

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, path, record_count FROM sources ORDER BY name, path`)
	if err != nil {
		return Stats{}, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var src SourceStats
		if err := rows.Scan(&src.Name, &src.Path, &src.Records); err != nil {
			return Stats{}, fmt.Errorf("scanning source: %w", err)
		}
		st.Sources = append(st.Sources, src)
	}
	return st, rows.Err()
}
