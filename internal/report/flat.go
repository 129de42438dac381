// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/findoc/pkg/types"
)

// flatCategories are merged into a FlatRecord. Dates are left out.
var flatCategories = []types.Category{
	types.CategoryCompanyInfo,
	types.CategoryCreditMetrics,
	types.CategoryFinancialData,
	types.CategoryPaymentInfo,
}

// Flatten projects result into a single-level record for documentID.
// Missing fields are absent keys, never zero values.
func Flatten(result types.ExtractionResult, documentID int64) types.FlatRecord {
	rec := types.FlatRecord{
		DocumentID: documentID,
		Values:     make(map[types.FieldID]types.Value),
	}
	for _, cat := range flatCategories {
		for id, v := range result.Category(cat) {
			rec.Values[id] = v
		}
	}
	return rec
}

// WriteJSON writes result as indented JSON followed by a newline.
func WriteJSON(w io.Writer, result types.ExtractionResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}
