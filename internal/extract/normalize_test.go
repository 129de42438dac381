// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/findoc/pkg/types"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name string
		kind types.ValueKind
		raw  string
		want types.Value
	}{
		{"integer", types.KindInteger, "75", types.IntegerValue(75)},
		{"integer strips noise", types.KindInteger, " 1,234 days", types.IntegerValue(1234)},
		{"decimal with separators", types.KindDecimal, "4,850,000", types.DecimalValue(4850000)},
		{"decimal with currency", types.KindDecimal, "£150,000", types.DecimalValue(150000)},
		{"decimal with fraction", types.KindDecimal, "1.85", types.DecimalValue(1.85)},
		{"decimal with percent", types.KindDecimal, "10.0%", types.DecimalValue(10)},
		{"string trimmed", types.KindString, "  Acme Ltd \t", types.StringValue("Acme Ltd")},
		{"date kept raw", types.KindDate, "12 March 2018", types.DateValue("12 March 2018")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.kind, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValueErrors(t *testing.T) {
	tests := []struct {
		name    string
		kind    types.ValueKind
		raw     string
		wantErr error
	}{
		{"integer without digits", types.KindInteger, "n/a", ErrParse},
		{"integer overflow", types.KindInteger, "99999999999999999999", ErrParse},
		{"decimal of symbols", types.KindDecimal, "£,", ErrParse},
		{"decimal with two points", types.KindDecimal, "1.2.3", ErrParse},
		{"blank string", types.KindString, "   ", ErrEmpty},
		{"blank date", types.KindDate, "", ErrEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseValue(tt.kind, tt.raw)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
