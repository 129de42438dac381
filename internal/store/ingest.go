// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/findoc/internal/report"
	"github.com/pdiddy/findoc/pkg/types"
)

const fieldsSuffix = "-fields.yaml"

// IngestSummary holds counts from an ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads extraction files from dataDir/extracted/, validates them,
// and stores one document row and one metrics row per file. Files whose
// modification time matches the last ingest are skipped. On success it
// writes export.yaml.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	extractDir := filepath.Join(s.dataDir, extractedDir)

	entries, err := os.ReadDir(extractDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading extraction directory %s: %w", extractDir, err)
	}

	v, err := newValidator()
	if err != nil {
		return IngestSummary{}, err
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fieldsSuffix) {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		key := strings.TrimSuffix(entry.Name(), fieldsSuffix)
		filePath := filepath.Join(extractDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx, s.rebind(
			`SELECT file_mod_time FROM indexing_status WHERE doc_key = ?`), key,
		).Scan(&storedModTime)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			summary.Failed++
			continue
		}

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", key)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		data, err := os.ReadFile(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			summary.Failed++
			continue
		}

		doc, err := v.decode(data)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			s.log.Warn().Str("document", key).Err(err).Msg("extraction file rejected")
			summary.Failed++
			continue
		}
		// The file name is authoritative for the key.
		doc.Document.Key = key

		n, err := s.ingestDocument(ctx, doc, modTime, isUpdate)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d fields)\n", key, n)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d fields)\n", key, n)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

// ingestDocument writes one extraction in a transaction and returns the
// number of flat fields stored.
func (s *Store) ingestDocument(ctx context.Context, doc *types.DocumentExtraction, modTime string, isUpdate bool) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := s.saveDocument(ctx, tx, doc.Document)
	if err != nil {
		return 0, err
	}

	if isUpdate {
		if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM financial_metrics WHERE document_id = ?`), id); err != nil {
			return 0, fmt.Errorf("deleting old metrics: %w", err)
		}
	}

	rec := report.Flatten(doc.Result, id)
	if _, err := s.saveMetrics(ctx, tx, rec); err != nil && !errors.Is(err, ErrEmptyRecord) {
		return 0, err
	}

	_, err = tx.ExecContext(ctx, s.rebind(
		`INSERT INTO indexing_status (doc_key, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(doc_key) DO UPDATE SET file_mod_time=excluded.file_mod_time`),
		doc.Document.Key, modTime,
	)
	if err != nil {
		return 0, fmt.Errorf("updating indexing status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(rec.Values), nil
}
