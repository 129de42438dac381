// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/findoc/internal/report"
	"github.com/pdiddy/findoc/internal/secrets"
	"github.com/pdiddy/findoc/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Index extracted fields and query the financial database",
	Long: `Store manages the database of documents and their financial metrics.
SQLite (index/findoc.db) is the default; set --dialect postgres with a DSN
from --dsn, the FINDOC_POSTGRES_DSN variable, or .secrets/postgres-dsn.`,
}

// --- ingest subcommand ---

var storeIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load extracted/*-fields.yaml into the database",
	Long: `Ingest validates each extraction file against the field schema and
upserts one document row and one metrics row per file, then writes
index/export.yaml. Unchanged files are skipped on later runs.`,
	RunE: runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	return withStore(cmd.Context(), func(s *store.Store) error {
		summary, err := s.Ingest(cmd.Context(), os.Stdout)
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d document(s) failed indexing", summary.Failed)
		}
		return nil
	})
}

// --- summary subcommand ---

var storeSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "List financial records, newest first",
	RunE:  runStoreSummary,
}

func runStoreSummary(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	opts := queryOptsFromFlags(cmd)

	return withStore(cmd.Context(), func(s *store.Store) error {
		rows, err := s.Summary(cmd.Context(), opts)
		if err != nil {
			return err
		}
		return formatSummaryOutput(rows, jsonOutput)
	})
}

func formatSummaryOutput(rows []store.SummaryRow, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-30s  %-6s  %-7s  %-15s  %-8s  %s\n",
		"ID", "Company", "Score", "Rating", "Revenue", "D/E", "Extracted")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range rows {
		company := deref(r.CompanyName, "-")
		if len(company) > 30 {
			company = company[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-5d  %-30s  %-6s  %-7s  %-15s  %-8s  %s\n",
			r.ID,
			company,
			formatInt(r.CreditScore),
			deref(r.CreditRating, "-"),
			formatFloat(r.Revenue, 0),
			formatFloat(r.DebtToEquity, 2),
			r.ExtractedAt.Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(os.Stdout, "\n%d records\n", len(rows))
	return nil
}

// --- documents subcommand ---

var storeDocumentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List indexed documents, newest first",
	RunE:  runStoreDocuments,
}

func runStoreDocuments(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	return withStore(cmd.Context(), func(s *store.Store) error {
		docs, err := s.ListDocuments(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Println("No documents indexed.")
			return nil
		}
		fmt.Fprintf(os.Stdout, "%-5s  %-30s  %-6s  %-8s  %s\n", "ID", "Key", "Kind", "Chars", "Processed")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
		for _, d := range docs {
			fmt.Fprintf(os.Stdout, "%-5d  %-30s  %-6s  %-8d  %s\n",
				d.ID, d.Key, d.SourceKind, d.TextLength, d.ProcessedAt.Format("2006-01-02 15:04"))
		}
		return nil
	})
}

// --- show subcommand ---

var storeShowCmd = &cobra.Command{
	Use:   "show <document-id>",
	Short: "Print the latest stored fields for one document",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreShow,
}

func runStoreShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid document id %q", args[0])
	}

	return withStore(cmd.Context(), func(s *store.Store) error {
		rec, err := s.LatestMetrics(cmd.Context(), id)
		if err != nil {
			return err
		}
		if len(rec.Values) == 0 {
			fmt.Printf("No metrics stored for document %d.\n", id)
			return nil
		}
		for _, field := range rec.Columns() {
			fmt.Fprintf(os.Stdout, "%-28s %s\n", report.Label(field)+":", rec.Values[field].String())
		}
		return nil
	})
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export financial records to YAML, JSON, or XLSX",
	Long: `Export writes the summary rows (optionally filtered) to
index/export.yaml, export.json, or export.xlsx.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	opts := queryOptsFromFlags(cmd)
	ctx := cmd.Context()

	return withStore(ctx, func(s *store.Store) error {
		var err error
		switch format {
		case "yaml", "":
			format = "yaml"
			err = s.ExportYAML(ctx, opts)
		case "json":
			err = s.ExportJSON(ctx, opts)
		case "xlsx":
			err = s.ExportXLSX(ctx, opts)
		default:
			return fmt.Errorf("unsupported format %q: use yaml, json, or xlsx", format)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", s.ExportPath(format))
		return nil
	})
}

// --- shared helpers ---

// withStore opens the configured store, runs fn, and closes the store.
func withStore(ctx context.Context, fn func(*store.Store) error) error {
	sc := cfg.Store
	if sc.DSN == "" {
		sc.DSN = secrets.Lookup(loadedSecrets, secrets.PostgresDSN)
	}

	s, err := store.Open(ctx, sc, component("store"))
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(s)
}

func queryOptsFromFlags(cmd *cobra.Command) store.QueryOptions {
	company, _ := cmd.Flags().GetString("company")
	minScore, _ := cmd.Flags().GetInt64("min-score")
	docID, _ := cmd.Flags().GetInt64("document")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Company:        company,
		MinCreditScore: minScore,
		DocumentID:     docID,
		MaxResults:     limit,
	}
}

func addFilterFlags(c *cobra.Command) {
	c.Flags().String("company", "", "filter by company name substring")
	c.Flags().Int64("min-score", 0, "minimum credit score")
	c.Flags().Int64("document", 0, "filter by document id")
	c.Flags().Int("limit", 0, "maximum rows (0 = use default)")
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func formatInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

func formatFloat(v *float64, prec int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("dialect", "", "database dialect: sqlite or postgres")
	storeCmd.PersistentFlags().String("dsn", "", "Postgres connection string")
	storeCmd.PersistentFlags().Int("max-results", 0, "default row limit for queries")

	bindFlag("store.dialect", storeCmd.PersistentFlags().Lookup("dialect"))
	bindFlag("store.dsn", storeCmd.PersistentFlags().Lookup("dsn"))
	bindFlag("store.max_results", storeCmd.PersistentFlags().Lookup("max-results"))

	addFilterFlags(storeSummaryCmd)
	storeSummaryCmd.Flags().Bool("json", false, "output rows as JSON")

	storeDocumentsCmd.Flags().Int("limit", 20, "maximum documents to list")

	addFilterFlags(storeExportCmd)
	storeExportCmd.Flags().String("format", "yaml", "export format: yaml, json, or xlsx")

	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeSummaryCmd)
	storeCmd.AddCommand(storeDocumentsCmd)
	storeCmd.AddCommand(storeShowCmd)
	storeCmd.AddCommand(storeExportCmd)

	rootCmd.AddCommand(storeCmd)
}
