// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/findoc/pkg/types"
)

func sampleResult(t *testing.T) types.ExtractionResult {
	t.Helper()
	var r types.ExtractionResult
	set := func(id types.FieldID, v types.Value) {
		require.NoError(t, r.Set(id, v))
	}
	set(types.FieldCompanyName, types.StringValue("Acme Widgets Ltd"))
	set(types.FieldLEICode, types.StringValue("5493001KJTIIGC8Y1R12"))
	set(types.FieldCreditScore, types.IntegerValue(75))
	set(types.FieldCreditLimit, types.DecimalValue(150000))
	set(types.FieldRevenue, types.DecimalValue(4850000))
	set(types.FieldCurrentRatio, types.DecimalValue(1.85))
	set(types.FieldProfitMargin, types.DecimalValue(10))
	set(types.FieldOnTimePercentage, types.IntegerValue(92))
	set(types.FieldAveragePaymentDays, types.IntegerValue(28))
	set(types.FieldIncorporationDate, types.DateValue("12 March 2018"))
	r.Recount()
	return r
}

func TestLabel(t *testing.T) {
	tests := []struct {
		id   types.FieldID
		want string
	}{
		{types.FieldCreditLimit, "Credit Limit"},
		{types.FieldLEICode, "LEI Code"},
		{types.FieldDUNSNumber, "DUNS Number"},
		{types.FieldOnTimePercentage, "On Time Percentage"},
		{types.FieldDebtToEquity, "Debt To Equity"},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.id))
		})
	}
}

func TestFormat(t *testing.T) {
	out := Format(sampleResult(t), types.ReportConfig{})

	assert.Contains(t, out, "  Company Name: Acme Widgets Ltd\n")
	assert.Contains(t, out, "  LEI Code: 5493001KJTIIGC8Y1R12\n")
	assert.Contains(t, out, "  Credit Score: 75\n")
	assert.Contains(t, out, "  Credit Limit: £150,000\n")
	assert.Contains(t, out, "  Revenue: £4,850,000\n")
	assert.Contains(t, out, "  Current Ratio: 1.85\n")
	assert.Contains(t, out, "  Profit Margin: 10%\n")
	assert.Contains(t, out, "  On Time Percentage: 92%\n")
	assert.Contains(t, out, "  Average Payment Days: 28 days\n")
	assert.Contains(t, out, "  Total Fields Extracted: 10\n")
	assert.Contains(t, out, "  Extraction Status: Complete\n")
	assert.NotContains(t, out, "Incorporation")
}

func TestFormatSectionOrder(t *testing.T) {
	out := Format(sampleResult(t), types.ReportConfig{})

	order := []string{"COMPANY INFORMATION", "CREDIT METRICS", "FINANCIAL DATA", "PAYMENT INFORMATION", "EXTRACTION SUMMARY"}
	last := -1
	for _, h := range order {
		i := strings.Index(out, "\n"+h+"\n")
		require.NotEqual(t, -1, i, "missing heading %s", h)
		assert.Greater(t, i, last, "%s out of order", h)
		last = i
	}
}

func TestFormatNegativeMoney(t *testing.T) {
	var r types.ExtractionResult
	require.NoError(t, r.Set(types.FieldCreditLimit, types.DecimalValue(-5000)))
	r.Recount()

	out := Format(r, types.ReportConfig{})
	assert.Contains(t, out, "  Credit Limit: -£5,000\n")
}

func TestFormatCurrencySymbol(t *testing.T) {
	out := Format(sampleResult(t), types.ReportConfig{CurrencySymbol: "$"})
	assert.Contains(t, out, "  Credit Limit: $150,000\n")
}

func TestFormatEmpty(t *testing.T) {
	r := types.ExtractionResult{Error: types.ErrNoText}
	out := Format(r, types.ReportConfig{})

	assert.NotContains(t, out, "COMPANY INFORMATION")
	assert.Contains(t, out, "  Extraction Status: Failed\n")
	assert.Contains(t, out, "  Error: no text provided\n")
}

func TestFormatDoesNotMutate(t *testing.T) {
	r := sampleResult(t)
	before := sampleResult(t)
	_ = Format(r, types.ReportConfig{})
	assert.Equal(t, before, r)
}

func TestFlatten(t *testing.T) {
	rec := Flatten(sampleResult(t), 42)

	assert.Equal(t, int64(42), rec.DocumentID)
	assert.NotContains(t, rec.Values, types.FieldIncorporationDate)
	assert.NotContains(t, rec.Values, types.FieldRiskLevel, "absent fields are absent keys")
	assert.Len(t, rec.Values, 9)

	m := rec.Map()
	assert.Equal(t, int64(42), m["document_id"])
	assert.Equal(t, 150000.0, m["credit_limit"])
	assert.Equal(t, int64(75), m["credit_score"])
	assert.Equal(t, "Acme Widgets Ltd", m["company_name"])
	assert.NotContains(t, m, "incorporation_date")
}

func TestFlattenEmpty(t *testing.T) {
	rec := Flatten(types.ExtractionResult{}, 1)
	assert.Empty(t, rec.Values)
	assert.Empty(t, rec.Columns())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult(t)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, 10.0, decoded["total_fields_extracted"])
	assert.Equal(t, true, decoded["extraction_complete"])
	credit := decoded["credit_metrics"].(map[string]any)
	assert.Equal(t, 150000.0, credit["credit_limit"])
	assert.NotContains(t, credit, "risk_level")
	assert.NotContains(t, decoded, "error")
}
