// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/findoc/pkg/types"
)

func writeText(t *testing.T, dataDir, key, content string) string {
	t.Helper()
	dir := filepath.Join(dataDir, textDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, key+".txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testRunner() *Runner {
	return &Runner{Engine: testEngine(), Logger: zerolog.Nop(), Metrics: NewMetrics()}
}

func TestExtractAll(t *testing.T) {
	dataDir := t.TempDir()
	writeText(t, dataDir, "acme", sampleReport)
	writeText(t, dataDir, "blank", "nothing useful in here")
	writeText(t, dataDir, "ignored", "Revenue: 1")
	require.NoError(t, os.Rename(
		filepath.Join(dataDir, textDir, "ignored.txt"),
		filepath.Join(dataDir, textDir, "ignored.md"),
	))

	r := testRunner()
	var out bytes.Buffer
	summary, err := r.ExtractAll(context.Background(), types.ExtractionConfig{DataDir: dataDir}, &out)
	require.NoError(t, err)

	assert.Equal(t, BatchSummary{Extracted: 1, Empty: 1}, summary)
	assert.Equal(t, 2, summary.Total())
	assert.False(t, summary.HasFailures())
	assert.Contains(t, out.String(), "extracted acme (21 fields)")
	assert.Contains(t, out.String(), "empty   blank")

	doc, err := ReadResult(filepath.Join(dataDir, extractedDir, "acme"+OutputSuffix))
	require.NoError(t, err)
	assert.Equal(t, "acme", doc.Document.Key)
	assert.Equal(t, "acme.txt", doc.Document.Filename)
	assert.Equal(t, types.SourceText, doc.Document.SourceKind)
	assert.Equal(t, len(types.Schema), doc.Result.FieldCount)
	assert.Equal(t, 4850000.0, *doc.Result.FinancialData.Revenue)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics.DocumentsTotal.WithLabelValues(StatusExtracted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics.DocumentsTotal.WithLabelValues(StatusEmpty)))
	assert.InDelta(t, 0.5, testutil.ToFloat64(r.Metrics.LastRunFieldCoverage), 1e-9)
}

func TestExtractAllSkipsUnchanged(t *testing.T) {
	dataDir := t.TempDir()
	in := writeText(t, dataDir, "acme", sampleReport)

	r := testRunner()
	cfg := types.ExtractionConfig{DataDir: dataDir}

	_, err := r.ExtractAll(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)

	// Age the input so the output is strictly newer.
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(in, past, past))

	summary, err := r.ExtractAll(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, BatchSummary{Skipped: 1}, summary)

	cfg.Force = true
	summary, err = r.ExtractAll(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, BatchSummary{Extracted: 1}, summary)
}

func TestExtractAllWriteFailure(t *testing.T) {
	dataDir := t.TempDir()
	writeText(t, dataDir, "acme", sampleReport)

	// A directory in place of the output file makes the write fail.
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, extractedDir, "acme"+OutputSuffix), 0o755))

	r := testRunner()
	var out bytes.Buffer
	summary, err := r.ExtractAll(context.Background(), types.ExtractionConfig{DataDir: dataDir, Force: true}, &out)
	require.NoError(t, err)

	assert.Equal(t, BatchSummary{Failed: 1}, summary)
	assert.Contains(t, out.String(), "failed  acme: write error")
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics.DocumentsTotal.WithLabelValues(StatusFailed)))
	assert.Zero(t, testutil.ToFloat64(r.Metrics.DocumentsTotal.WithLabelValues(StatusExtracted)))
}

func TestExtractAllMissingTextDir(t *testing.T) {
	_, err := testRunner().ExtractAll(context.Background(), types.ExtractionConfig{DataDir: t.TempDir()}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestExtractAllCancelled(t *testing.T) {
	dataDir := t.TempDir()
	writeText(t, dataDir, "acme", sampleReport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testRunner().ExtractAll(ctx, types.ExtractionConfig{DataDir: dataDir}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractFileEmpty(t *testing.T) {
	path := writeText(t, t.TempDir(), "empty", "")

	doc, err := testRunner().ExtractFile(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, types.ErrNoText, doc.Result.Error)
	assert.False(t, doc.Result.Complete)
	assert.Zero(t, doc.Document.TextLength)
}

func TestHasChanged(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.yaml")
	require.NoError(t, os.WriteFile(in, []byte("x"), 0o644))

	changed, err := hasChanged(in, out)
	require.NoError(t, err)
	assert.True(t, changed, "missing output counts as changed")

	require.NoError(t, os.WriteFile(out, []byte("y"), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(in, past, past))

	changed, err = hasChanged(in, out)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = hasChanged(filepath.Join(dir, "nope.txt"), out)
	assert.Error(t, err)
}

func TestWriteResultYAMLKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.yaml")
	doc := &types.DocumentExtraction{
		Document: types.Document{Key: "k"},
		Result:   testEngine().Extract("Current Ratio: 1.85"),
	}
	require.NoError(t, writeResult(path, doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(data)
	assert.True(t, strings.Contains(s, "current_ratio: 1.85"), s)
	assert.NotContains(t, s, "revenue")
	assert.Contains(t, s, "total_fields_extracted: 1")
}
