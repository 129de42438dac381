// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"
)

const (
	exportLimit = 100000
	exportSheet = "Summary"
)

// ExportPath returns the export file for an extension (yaml, json, xlsx).
func (s *Store) ExportPath(ext string) string {
	return filepath.Join(s.dataDir, indexDir, "export."+ext)
}

// ExportYAML writes the summary rows to index/export.yaml.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	rows, err := s.exportRows(ctx, opts)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport("yaml", data)
}

// ExportJSON writes the summary rows to index/export.json.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	rows, err := s.exportRows(ctx, opts)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport("json", data)
}

// ExportXLSX writes the summary rows to index/export.xlsx as a single
// sheet with one header row.
func (s *Store) ExportXLSX(ctx context.Context, opts QueryOptions) error {
	rows, err := s.exportRows(ctx, opts)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	headers := []string{
		"ID", "Document ID", "Filename", "Company Name", "Credit Score",
		"Credit Rating", "Credit Limit", "Revenue", "Debt To Equity", "Extracted At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
	}

	for i, r := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(exportSheet, cell, v)
		}
		write(1, r.ID)
		if r.DocumentID > 0 {
			write(2, r.DocumentID)
		}
		write(3, r.Filename)
		if r.CompanyName != nil {
			write(4, *r.CompanyName)
		}
		if r.CreditScore != nil {
			write(5, *r.CreditScore)
		}
		if r.CreditRating != nil {
			write(6, *r.CreditRating)
		}
		if r.CreditLimit != nil {
			write(7, *r.CreditLimit)
		}
		if r.Revenue != nil {
			write(8, *r.Revenue)
		}
		if r.DebtToEquity != nil {
			write(9, *r.DebtToEquity)
		}
		if !r.ExtractedAt.IsZero() {
			write(10, r.ExtractedAt.Format("2006-01-02 15:04:05"))
		}
	}

	_ = f.SetColWidth(exportSheet, "C", "D", 28)

	if err := os.MkdirAll(filepath.Join(s.dataDir, indexDir), 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	if err := f.SaveAs(s.ExportPath("xlsx")); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}

func (s *Store) exportRows(ctx context.Context, opts QueryOptions) ([]SummaryRow, error) {
	opts.MaxResults = exportLimit
	rows, err := s.Summary(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if rows == nil {
		rows = []SummaryRow{}
	}
	return rows, nil
}

func (s *Store) writeExport(ext string, data []byte) error {
	if err := os.MkdirAll(filepath.Join(s.dataDir, indexDir), 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	return os.WriteFile(s.ExportPath(ext), data, 0o644)
}
