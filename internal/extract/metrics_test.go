// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/findoc/pkg/types"
)

func TestObserveDocument(t *testing.T) {
	m := NewMetrics()
	rules := []Rule{{types.FieldRevenue, "Revenue", `Revenue:\s*(\S+)`}}
	e := NewEngine(mustRegistry(t, rules))

	r, diag := e.ExtractDetailed("Revenue: lots")
	m.ObserveDocument(r, diag, time.Millisecond)

	r, diag = testEngine().ExtractDetailed(sampleReport)
	m.ObserveDocument(r, diag, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsTotal.WithLabelValues(StatusEmpty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsTotal.WithLabelValues(StatusExtracted)))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.FieldsExtracted.WithLabelValues(string(types.CategoryFinancialData))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FieldParseFailures.WithLabelValues(string(types.FieldRevenue))))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ExtractionDuration))
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStatus(StatusSkipped)
		m.ObserveDocument(types.ExtractionResult{}, Diagnostics{}, 0)
	})
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.ObserveStatus(StatusSkipped)

	path := filepath.Join(t.TempDir(), "findoc.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `findoc_documents_total{status="skipped"} 1`)
}

func TestMetricsRegistriesAreIndependent(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.ObserveStatus(StatusFailed)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.DocumentsTotal.WithLabelValues(StatusFailed)))
}
