// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaCoversEveryCategory(t *testing.T) {
	counts := map[Category]int{}
	for _, s := range Schema {
		counts[s.Category]++
	}
	assert.Equal(t, map[Category]int{
		CategoryCompanyInfo:   4,
		CategoryCreditMetrics: 4,
		CategoryFinancialData: 8,
		CategoryPaymentInfo:   3,
		CategoryDates:         2,
	}, counts)
}

func TestSetGetEveryField(t *testing.T) {
	var r ExtractionResult
	for _, s := range Schema {
		var v Value
		switch s.Kind {
		case KindInteger:
			v = IntegerValue(7)
		case KindDecimal:
			v = DecimalValue(1.5)
		case KindDate:
			v = DateValue("1 May 2020")
		default:
			v = StringValue("x")
		}
		require.NoError(t, r.Set(s.ID, v), s.ID)

		got, ok := r.Get(s.ID)
		require.True(t, ok, s.ID)
		assert.Equal(t, v, got, s.ID)
	}

	r.Recount()
	assert.Equal(t, len(Schema), r.FieldCount)
	assert.True(t, r.Complete)
	assert.Len(t, r.Fields(), len(Schema))
}

func TestSetRejects(t *testing.T) {
	var r ExtractionResult
	assert.ErrorIs(t, r.Set("shoe_size", StringValue("9")), ErrUnknownField)
	assert.ErrorIs(t, r.Set(FieldRevenue, StringValue("lots")), ErrKindMismatch)
	assert.ErrorIs(t, r.Set(FieldIncorporationDate, StringValue("today")), ErrKindMismatch)

	r.Recount()
	assert.Zero(t, r.FieldCount)
	assert.False(t, r.Complete)
}

func TestCategory(t *testing.T) {
	var r ExtractionResult
	require.NoError(t, r.Set(FieldRevenue, DecimalValue(10)))
	require.NoError(t, r.Set(FieldReportDate, DateValue("1 June 2024")))

	assert.Equal(t, map[FieldID]Value{FieldRevenue: DecimalValue(10)}, r.Category(CategoryFinancialData))
	assert.Empty(t, r.Category(CategoryCompanyInfo))
	assert.Len(t, r.Category(CategoryDates), 1)
}

func TestFlatRecordColumnsFollowSchema(t *testing.T) {
	rec := FlatRecord{
		DocumentID: 3,
		Values: map[FieldID]Value{
			FieldCurrentRatio: DecimalValue(1.2),
			FieldCompanyName:  StringValue("Acme"),
			FieldCreditScore:  IntegerValue(80),
			FieldPaymentTerms: StringValue("30 days"),
		},
	}
	assert.Equal(t, []FieldID{FieldCompanyName, FieldCreditScore, FieldCurrentRatio, FieldPaymentTerms}, rec.Columns())
	assert.Equal(t, map[string]any{
		"document_id":   int64(3),
		"company_name":  "Acme",
		"credit_score":  int64(80),
		"current_ratio": 1.2,
		"payment_terms": "30 days",
	}, rec.Map())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "4850000", DecimalValue(4850000).String())
	assert.Equal(t, "1.85", DecimalValue(1.85).String())
	assert.Equal(t, "75", IntegerValue(75).String())
	assert.Equal(t, "B+", StringValue("B+").String())
	assert.Equal(t, "decimal", KindDecimal.String())
}
