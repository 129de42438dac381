// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/findoc/pkg/types"
)

// ErrEmptyRecord is returned by SaveMetrics when the record carries no
// values. No row is written.
var ErrEmptyRecord = errors.New("flat record has no values")

// SaveMetrics inserts one financial_metrics row holding only the columns
// present in rec. Absent fields are left to the column default rather
// than written as explicit NULLs. It returns the new row id, or -1 with
// ErrEmptyRecord.
func (s *Store) SaveMetrics(ctx context.Context, rec types.FlatRecord) (int64, error) {
	return s.saveMetrics(ctx, s.db, rec)
}

func (s *Store) saveMetrics(ctx context.Context, q querier, rec types.FlatRecord) (int64, error) {
	cols := rec.Columns()
	if len(cols) == 0 {
		return -1, ErrEmptyRecord
	}

	names := make([]string, 0, len(cols)+2)
	args := make([]any, 0, len(cols)+2)
	if rec.DocumentID > 0 {
		names = append(names, "document_id")
		args = append(args, rec.DocumentID)
	}
	for _, id := range cols {
		spec, _ := types.LookupField(id)
		if spec.Category == types.CategoryDates {
			continue
		}
		names = append(names, string(id))
		args = append(args, rec.Values[id].Any())
	}
	names = append(names, "extracted_at")
	args = append(args, formatTime(s.now()))

	query := fmt.Sprintf(`INSERT INTO financial_metrics (%s) VALUES (%s) RETURNING id`,
		strings.Join(names, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", "))

	var id int64
	if err := q.QueryRowContext(ctx, s.rebind(query), args...).Scan(&id); err != nil {
		return -1, fmt.Errorf("inserting financial metrics: %w", err)
	}
	return id, nil
}

// LatestMetrics returns the most recent flat record stored for a
// document. Columns that were never written are absent from the record.
func (s *Store) LatestMetrics(ctx context.Context, documentID int64) (types.FlatRecord, error) {
	specs := flatColumns()
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = string(spec.ID)
	}

	row := s.db.QueryRowContext(ctx, s.rebind(fmt.Sprintf(
		`SELECT %s FROM financial_metrics WHERE document_id = ? ORDER BY extracted_at DESC, id DESC LIMIT 1`,
		strings.Join(names, ", "))), documentID)

	dest := make([]any, len(specs))
	for i, spec := range specs {
		switch spec.Kind {
		case types.KindInteger:
			dest[i] = new(sql.NullInt64)
		case types.KindDecimal:
			dest[i] = new(sql.NullFloat64)
		default:
			dest[i] = new(sql.NullString)
		}
	}
	if err := row.Scan(dest...); err != nil {
		return types.FlatRecord{}, fmt.Errorf("reading metrics for document %d: %w", documentID, err)
	}

	rec := types.FlatRecord{DocumentID: documentID, Values: make(map[types.FieldID]types.Value)}
	for i, spec := range specs {
		switch v := dest[i].(type) {
		case *sql.NullInt64:
			if v.Valid {
				rec.Values[spec.ID] = types.IntegerValue(v.Int64)
			}
		case *sql.NullFloat64:
			if v.Valid {
				rec.Values[spec.ID] = types.DecimalValue(v.Float64)
			}
		case *sql.NullString:
			if v.Valid {
				rec.Values[spec.ID] = types.StringValue(v.String)
			}
		}
	}
	return rec, nil
}

// QueryOptions filters Summary and exports.
type QueryOptions struct {
	// Company matches company_name case-insensitively as a substring.
	Company string

	// MinCreditScore keeps rows whose credit_score is at least this value.
	// Zero disables the filter.
	MinCreditScore int64

	// DocumentID restricts rows to one document. Zero disables the filter.
	DocumentID int64

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether no filters are set.
func (q QueryOptions) IsEmpty() bool {
	return q.Company == "" && q.MinCreditScore == 0 && q.DocumentID == 0
}

// SummaryRow is one financial_metrics row joined with its document.
type SummaryRow struct {
	ID           int64     `json:"id" yaml:"id"`
	DocumentID   int64     `json:"document_id,omitempty" yaml:"document_id,omitempty"`
	Filename     string    `json:"filename,omitempty" yaml:"filename,omitempty"`
	CompanyName  *string   `json:"company_name,omitempty" yaml:"company_name,omitempty"`
	CreditScore  *int64    `json:"credit_score,omitempty" yaml:"credit_score,omitempty"`
	CreditRating *string   `json:"credit_rating,omitempty" yaml:"credit_rating,omitempty"`
	CreditLimit  *float64  `json:"credit_limit,omitempty" yaml:"credit_limit,omitempty"`
	Revenue      *float64  `json:"revenue,omitempty" yaml:"revenue,omitempty"`
	DebtToEquity *float64  `json:"debt_to_equity,omitempty" yaml:"debt_to_equity,omitempty"`
	ExtractedAt  time.Time `json:"extracted_at" yaml:"extracted_at"`
}

// Summary returns financial rows, newest first, narrowed by opts.
func (s *Store) Summary(ctx context.Context, opts QueryOptions) ([]SummaryRow, error) {
	limit := opts.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT m.id, m.document_id, d.filename, m.company_name, m.credit_score,
			m.credit_rating, m.credit_limit, m.revenue, m.debt_to_equity, m.extracted_at
		FROM financial_metrics m
		LEFT JOIN documents d ON d.id = m.document_id
		WHERE 1=1`)

	if opts.Company != "" {
		qb.WriteString(` AND LOWER(m.company_name) LIKE ?`)
		args = append(args, "%"+strings.ToLower(opts.Company)+"%")
	}
	if opts.MinCreditScore > 0 {
		qb.WriteString(` AND m.credit_score >= ?`)
		args = append(args, opts.MinCreditScore)
	}
	if opts.DocumentID > 0 {
		qb.WriteString(` AND m.document_id = ?`)
		args = append(args, opts.DocumentID)
	}
	qb.WriteString(` ORDER BY m.extracted_at DESC, m.id DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.rebind(qb.String()), args...)
	if err != nil {
		return nil, fmt.Errorf("querying summary: %w", err)
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var (
			r         SummaryRow
			docID     sql.NullInt64
			filename  sql.NullString
			company   sql.NullString
			score     sql.NullInt64
			rating    sql.NullString
			limitVal  sql.NullFloat64
			revenue   sql.NullFloat64
			dte       sql.NullFloat64
			extracted string
		)
		if err := rows.Scan(&r.ID, &docID, &filename, &company, &score, &rating, &limitVal, &revenue, &dte, &extracted); err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}
		r.DocumentID = docID.Int64
		r.Filename = filename.String
		r.CompanyName = nullString(company)
		r.CreditScore = nullInt(score)
		r.CreditRating = nullString(rating)
		r.CreditLimit = nullFloat(limitVal)
		r.Revenue = nullFloat(revenue)
		r.DebtToEquity = nullFloat(dte)
		r.ExtractedAt = parseTime(extracted)
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
