// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"

	"github.com/pdiddy/findoc/pkg/types"
)

// SaveDocument inserts doc or updates the row with the same key and
// returns its id.
func (s *Store) SaveDocument(ctx context.Context, doc types.Document) (int64, error) {
	return s.saveDocument(ctx, s.db, doc)
}

func (s *Store) saveDocument(ctx context.Context, q querier, doc types.Document) (int64, error) {
	if doc.Key == "" {
		return 0, fmt.Errorf("saving document: empty key")
	}
	processed := doc.ProcessedAt
	if processed.IsZero() {
		processed = s.now()
	}

	var id int64
	err := q.QueryRowContext(ctx, s.rebind(
		`INSERT INTO documents (doc_key, filename, source_kind, text_length, processed_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(doc_key) DO UPDATE SET
			filename=excluded.filename, source_kind=excluded.source_kind,
			text_length=excluded.text_length, processed_at=excluded.processed_at
		 RETURNING id`),
		doc.Key, doc.Filename, string(doc.SourceKind), doc.TextLength, formatTime(processed),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving document %s: %w", doc.Key, err)
	}
	return id, nil
}

// ListDocuments returns up to limit documents, most recently processed
// first. A non-positive limit uses the store default.
func (s *Store) ListDocuments(ctx context.Context, limit int) ([]types.Document, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, doc_key, filename, source_kind, text_length, processed_at
		 FROM documents
		 ORDER BY processed_at DESC, id DESC
		 LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		var (
			d         types.Document
			kind      string
			processed string
		)
		if err := rows.Scan(&d.ID, &d.Key, &d.Filename, &kind, &d.TextLength, &processed); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		d.SourceKind = types.SourceKind(kind)
		d.ProcessedAt = parseTime(processed)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
