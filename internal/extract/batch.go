// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/findoc/pkg/types"
)

const (
	textDir      = "text"
	extractedDir = "extracted"

	// OutputSuffix names per-document extraction files in extracted/.
	OutputSuffix = "-fields.yaml"
)

// BatchSummary holds counts from a batch extraction run.
type BatchSummary struct {
	Extracted int
	Empty     int
	Skipped   int
	Failed    int
}

// Total returns the number of documents processed.
func (s BatchSummary) Total() int {
	return s.Extracted + s.Empty + s.Skipped + s.Failed
}

// HasFailures reports whether any documents failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// Runner runs the engine over the text/ directory.
type Runner struct {
	Engine  *Engine
	Logger  zerolog.Logger
	Metrics *Metrics
}

// ExtractAll processes every .txt file in dataDir/text/ and writes one
// YAML file per document to dataDir/extracted/. Documents whose output is
// newer than their text are skipped unless cfg.Force is set. Progress
// lines go to w.
func (r *Runner) ExtractAll(ctx context.Context, cfg types.ExtractionConfig, w io.Writer) (BatchSummary, error) {
	inDir := filepath.Join(cfg.DataDir, textDir)
	outDir := filepath.Join(cfg.DataDir, extractedDir)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return BatchSummary{}, fmt.Errorf("creating output directory: %w", err)
	}

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("reading text directory %s: %w", inDir, err)
	}

	log := r.Logger.With().Str("run_id", uuid.NewString()).Logger()
	log.Info().Str("dir", inDir).Int("entries", len(entries)).Msg("batch extraction started")

	var (
		summary  BatchSummary
		coverage float64
	)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		key := strings.TrimSuffix(entry.Name(), ".txt")
		inPath := filepath.Join(inDir, entry.Name())
		outPath := filepath.Join(outDir, key+OutputSuffix)

		changed, err := hasChanged(inPath, outPath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			r.Metrics.ObserveStatus(StatusFailed)
			summary.Failed++
			continue
		}
		if !changed && !cfg.Force {
			fmt.Fprintf(w, "skipped %s\n", key)
			r.Metrics.ObserveStatus(StatusSkipped)
			summary.Skipped++
			continue
		}

		doc, diag, elapsed, err := r.extractFile(inPath, log)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			r.Metrics.ObserveStatus(StatusFailed)
			summary.Failed++
			continue
		}

		if err := writeResult(outPath, doc); err != nil {
			fmt.Fprintf(w, "failed  %s: write error: %v\n", key, err)
			r.Metrics.ObserveStatus(StatusFailed)
			summary.Failed++
			continue
		}
		r.Metrics.ObserveDocument(doc.Result, diag, elapsed)

		coverage += float64(doc.Result.FieldCount) / float64(len(types.Schema))
		if doc.Result.Complete {
			fmt.Fprintf(w, "extracted %s (%d fields)\n", key, doc.Result.FieldCount)
			summary.Extracted++
		} else {
			fmt.Fprintf(w, "empty   %s (no fields found)\n", key)
			summary.Empty++
		}
	}

	if n := summary.Extracted + summary.Empty; n > 0 && r.Metrics != nil {
		r.Metrics.LastRunFieldCoverage.Set(coverage / float64(n))
	}

	fmt.Fprintf(w, "\nextracted: %d, empty: %d, skipped: %d, failed: %d\n",
		summary.Extracted, summary.Empty, summary.Skipped, summary.Failed)
	log.Info().
		Int("extracted", summary.Extracted).
		Int("empty", summary.Empty).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("batch extraction finished")

	return summary, nil
}

// ExtractFile reads one text file and extracts it. The document key is
// the file name without its extension.
func (r *Runner) ExtractFile(path string, log zerolog.Logger) (*types.DocumentExtraction, error) {
	doc, diag, elapsed, err := r.extractFile(path, log)
	if err != nil {
		return nil, err
	}
	r.Metrics.ObserveDocument(doc.Result, diag, elapsed)
	return doc, nil
}

// extractFile does the work of ExtractFile without recording metrics, so
// batch runs can count a document only once its output is written.
func (r *Runner) extractFile(path string, log zerolog.Logger) (*types.DocumentExtraction, Diagnostics, time.Duration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Diagnostics{}, 0, fmt.Errorf("reading text %s: %w", path, err)
	}

	text := string(data)
	start := time.Now()
	result, diag := r.Engine.ExtractDetailed(text)
	elapsed := time.Since(start)

	base := filepath.Base(path)
	key := strings.TrimSuffix(base, filepath.Ext(base))

	for _, f := range diag.Failures {
		log.Debug().Str("document", key).Str("field", string(f.Field)).Str("raw", f.Raw).Err(f.Err).Msg("field did not parse")
	}
	log.Debug().Str("document", key).Int("fields", result.FieldCount).Dur("elapsed", elapsed).Msg("document extracted")

	return &types.DocumentExtraction{
		Document: types.Document{
			Key:         key,
			Filename:    base,
			SourceKind:  types.SourceText,
			TextLength:  len([]rune(text)),
			ProcessedAt: result.ExtractedAt,
		},
		Result: result,
	}, diag, elapsed, nil
}

// hasChanged reports whether the text file is newer than the output file.
// Returns true if the output does not exist or the text is more recent.
func hasChanged(inPath, outPath string) (bool, error) {
	inInfo, err := os.Stat(inPath)
	if err != nil {
		return false, fmt.Errorf("stat text %s: %w", inPath, err)
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat output %s: %w", outPath, err)
	}

	return inInfo.ModTime().After(outInfo.ModTime()), nil
}

// writeResult marshals a DocumentExtraction to a YAML file.
func writeResult(path string, doc *types.DocumentExtraction) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResult loads a DocumentExtraction written by ExtractAll.
func ReadResult(path string) (*types.DocumentExtraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc types.DocumentExtraction
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}
