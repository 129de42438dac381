// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists documents and their flat financial records.
// A Store is opened explicitly, passed to whoever needs it, and closed
// by its owner; there is no package-level connection.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/pdiddy/findoc/pkg/types"
)

const (
	extractedDir = "extracted"
	indexDir     = "index"
	dbFile       = "findoc.db"

	// timeLayout is fixed-width so stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000Z"

	defaultMaxResults = 10
	dialTimeout       = 10 * time.Second
)

// ErrNoDSN is returned when the postgres dialect is selected without a
// connection string.
var ErrNoDSN = errors.New("postgres dialect requires a DSN")

// Store manages the findoc database.
type Store struct {
	db         *sql.DB
	pool       *pgxpool.Pool
	dialect    types.StoreDialect
	dataDir    string
	maxResults int
	log        zerolog.Logger
	now        func() time.Time
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open connects to the configured database and creates the schema if it
// does not exist. The caller owns the Store and must Close it.
func Open(ctx context.Context, cfg types.StoreConfig, log zerolog.Logger) (*Store, error) {
	s := &Store{
		dialect:    cfg.Dialect,
		dataDir:    cfg.DataDir,
		maxResults: cfg.MaxResults,
		log:        log,
		now:        time.Now,
	}
	if s.dialect == "" {
		s.dialect = types.DialectSQLite
	}
	if s.maxResults <= 0 {
		s.maxResults = defaultMaxResults
	}

	switch s.dialect {
	case types.DialectSQLite:
		dbDir := filepath.Join(cfg.DataDir, indexDir)
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
		db, err := sql.Open("sqlite3", filepath.Join(dbDir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		s.db = db
	case types.DialectPostgres:
		if cfg.DSN == "" {
			return nil, ErrNoDSN
		}
		pc, err := pgxpool.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("parsing postgres DSN: %w", err)
		}
		pc.ConnConfig.RuntimeParams["application_name"] = "findoc"
		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		pool, err := pgxpool.NewWithConfig(dialCtx, pc)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		s.pool = pool
		s.db = stdlib.OpenDBFromPool(pool)
	default:
		return nil, fmt.Errorf("unknown store dialect %q", s.dialect)
	}

	if err := s.db.PingContext(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("connecting to %s: %w", s.dialect, err)
	}
	if err := s.createSchema(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s.log.Debug().Str("dialect", string(s.dialect)).Msg("store opened")
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	err := s.db.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

// Dialect reports the SQL backend in use.
func (s *Store) Dialect() types.StoreDialect {
	return s.dialect
}

// Path returns the SQLite database file, or "" for other dialects.
func (s *Store) Path() string {
	if s.dialect != types.DialectSQLite {
		return ""
	}
	return filepath.Join(s.dataDir, indexDir, dbFile)
}

// flatColumns lists the financial_metrics value columns in schema order.
// Dates are not stored.
func flatColumns() []types.FieldSpec {
	var out []types.FieldSpec
	for _, spec := range types.Schema {
		if spec.Category != types.CategoryDates {
			out = append(out, spec)
		}
	}
	return out
}

func (s *Store) columnType(kind types.ValueKind) string {
	switch kind {
	case types.KindInteger:
		return "BIGINT"
	case types.KindDecimal:
		if s.dialect == types.DialectPostgres {
			return "DOUBLE PRECISION"
		}
		return "REAL"
	default:
		return "TEXT"
	}
}

func (s *Store) createSchema(ctx context.Context) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == types.DialectPostgres {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	var metricCols strings.Builder
	for _, spec := range flatColumns() {
		fmt.Fprintf(&metricCols, "\n\t\t\t%s %s,", spec.ID, s.columnType(spec.Kind))
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id ` + serial + `,
			doc_key TEXT NOT NULL UNIQUE,
			filename TEXT NOT NULL,
			source_kind TEXT NOT NULL,
			text_length INTEGER,
			processed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS financial_metrics (
			id ` + serial + `,
			document_id BIGINT REFERENCES documents(id),` + metricCols.String() + `
			extracted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_document_id ON financial_metrics(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_extracted_at ON financial_metrics(extracted_at)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			doc_key TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if s.dialect != types.DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
