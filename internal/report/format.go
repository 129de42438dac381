// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders ExtractionResults for people and for storage.
// Every function here is a pure projection of its input.
package report

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pdiddy/findoc/pkg/types"
)

const (
	ruleWidth = 80

	// DefaultCurrencySymbol is used when ReportConfig leaves it blank.
	DefaultCurrencySymbol = "£"
)

// section binds a heading to a category in report order. Dates are not
// part of the human report.
type section struct {
	heading  string
	category types.Category
}

var sections = []section{
	{"COMPANY INFORMATION", types.CategoryCompanyInfo},
	{"CREDIT METRICS", types.CategoryCreditMetrics},
	{"FINANCIAL DATA", types.CategoryFinancialData},
	{"PAYMENT INFORMATION", types.CategoryPaymentInfo},
}

// acronyms keeps identifier words that title-casing would spoil.
var acronyms = map[string]string{
	"lei":  "LEI",
	"duns": "DUNS",
}

// Label humanizes a field identifier: credit_limit becomes "Credit Limit".
func Label(id types.FieldID) string {
	titler := cases.Title(language.English)
	words := strings.Split(string(id), "_")
	for i, w := range words {
		if a, ok := acronyms[w]; ok {
			words[i] = a
			continue
		}
		words[i] = titler.String(w)
	}
	return strings.Join(words, " ")
}

// Format renders result as a fixed-layout text report. Categories with no
// fields are left out; the summary is always present.
func Format(result types.ExtractionResult, cfg types.ReportConfig) string {
	symbol := cfg.CurrencySymbol
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	p := message.NewPrinter(language.English)
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)

	var b strings.Builder
	b.WriteString(heavy + "\n")
	b.WriteString("EXTRACTED FINANCIAL DATA\n")
	b.WriteString(heavy + "\n\n")

	for _, s := range sections {
		specs := types.FieldsIn(s.category)
		var lines []string
		for _, spec := range specs {
			v, ok := result.Get(spec.ID)
			if !ok {
				continue
			}
			lines = append(lines, "  "+Label(spec.ID)+": "+formatValue(p, spec, v, symbol))
		}
		if len(lines) == 0 {
			continue
		}
		b.WriteString(s.heading + "\n")
		b.WriteString(light + "\n")
		for _, l := range lines {
			b.WriteString(l + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("EXTRACTION SUMMARY\n")
	b.WriteString(light + "\n")
	p.Fprintf(&b, "  Total Fields Extracted: %d\n", result.FieldCount)
	status := "Failed"
	if result.Complete {
		status = "Complete"
	}
	b.WriteString("  Extraction Status: " + status + "\n")
	if result.Error != "" {
		b.WriteString("  Error: " + result.Error + "\n")
	}
	b.WriteString("\n" + heavy + "\n")
	return b.String()
}

// formatValue applies the unit of spec to v.
func formatValue(p *message.Printer, spec types.FieldSpec, v types.Value, symbol string) string {
	switch spec.Unit {
	case types.UnitMoney:
		if v.Dec < 0 {
			return "-" + symbol + p.Sprintf("%.0f", -v.Dec)
		}
		return symbol + p.Sprintf("%.0f", v.Dec)
	case types.UnitPercent:
		return v.String() + "%"
	case types.UnitDays:
		return v.String() + " days"
	default:
		return v.String()
	}
}
