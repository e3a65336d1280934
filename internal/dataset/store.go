// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset indexes JSONL prompt/completion files in SQLite for
// search, duplicate reporting and export.
package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/gosoup/internal/jsonl"
	"github.com/pdiddy/gosoup/pkg/types"
)

const (
	dbFile            = "dataset.db"
	defaultMaxResults = 20
)

// recordNamespace scopes record IDs so identical pairs always hash to the
// same UUID.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/pdiddy/gosoup/record"))

// RecordID returns the deterministic ID of a prompt/completion pair.
func RecordID(r types.Record) string {
	return uuid.NewSHA1(recordNamespace, []byte(r.Prompt+"\x00"+r.Completion)).String()
}

// Store manages the dataset SQLite database.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int
}

// NewStore opens or creates the database at indexDir/dataset.db and
// creates the schema if it does not exist.
func NewStore(cfg types.DatasetConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		indexDir:   cfg.IndexDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			path TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			file_mod_time TEXT NOT NULL,
			record_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			source TEXT NOT NULL REFERENCES sources(path),
			line INTEGER NOT NULL,
			prompt TEXT NOT NULL,
			completion TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_source ON records(source, line)`,
		`CREATE INDEX IF NOT EXISTS idx_records_id ON records(id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
	Records int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest indexes each JSONL file in paths as a source keyed by its
// absolute path and named after its base name. Files whose modification
// time matches the last indexing are skipped; changed files replace their
// previous rows. A file that cannot
// be read or parsed is reported and counted, and the batch continues.
func (s *Store) Ingest(ctx context.Context, paths []string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := filepath.Base(path)

		key, err := filepath.Abs(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		info, err := os.Stat(key)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM sources WHERE path = ?`, key,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		records, err := jsonl.ReadFile(key)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if err := s.ingestSource(ctx, key, name, modTime, records); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d records)\n", name, len(records))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d records)\n", name, len(records))
			summary.Indexed++
		}
		summary.Records += len(records)
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestSource(ctx context.Context, path, name, modTime string, records []types.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE source = ?`, path); err != nil {
		return fmt.Errorf("deleting old records: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sources (path, name, file_mod_time, record_count) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			name=excluded.name, file_mod_time=excluded.file_mod_time,
			record_count=excluded.record_count`,
		path, name, modTime, len(records),
	)
	if err != nil {
		return fmt.Errorf("upserting source: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (id, source, line, prompt, completion) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, RecordID(r), path, i+1, r.Prompt, r.Completion); err != nil {
			return fmt.Errorf("inserting record %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}
