// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns document text into a typed ExtractionResult.
// The rule table in this file is the whole of the matching logic; the
// engine only walks it.
package extract

import (
	"fmt"
	"regexp"

	"github.com/pdiddy/findoc/pkg/types"
)

// Pattern fragments shared by the rule table.
const (
	// currency is an optional currency symbol directly before an amount.
	currency = `[£$€]?\s*`

	// money requires the currency symbol, so qualified labels such as
	// "Revenue Growth: 12%" or "Revenue for 2023:" never yield a bare number.
	money = `[£$€]\s*`

	// qualifier allows text between a label and its colon on the same line,
	// as in "Credit Limit (Recommended):".
	qualifier = `[^:\n]*:\s*`

	// amount is a number with optional thousands separators and decimals.
	// It must start with a digit so a lone comma is never captured. A
	// leading minus sign is kept.
	amount = `(-?\d[\d,]*(?:\.\d+)?)`

	// ratio is a plain decimal number.
	ratio = `(\d+(?:\.\d+)?)`

	// toEOL captures the rest of the line.
	toEOL = `(.+?)(?:\n|$)`

	// dateLabel captures "12 March 2018" style dates.
	dateLabel = `(\d{1,2}\s+\w+\s+\d{4})`
)

// Rule binds a text pattern to a field. Several rules may target the same
// field; their order in the table is the synonym priority.
type Rule struct {
	Field types.FieldID
	// Label names the synonym the rule recognizes (e.g. "Turnover").
	Label string
	// Pattern must contain exactly one capture group for the value. It is
	// compiled case-insensitively.
	Pattern string
}

// DefaultRules is the built-in rule table for English label-colon-value
// credit reports.
var DefaultRules = []Rule{
	{types.FieldCompanyName, "Company Name", `Company Name:\s*` + toEOL},
	{types.FieldRegistrationNumber, "Registration Number", `Registration Number:\s*(\d+)`},
	{types.FieldRegistrationNumber, "Company Number", `Company (?:Number|No\.?):\s*(\d+)`},
	{types.FieldLEICode, "LEI Code", `LEI Code:\s*([A-Z0-9]{20})`},
	{types.FieldDUNSNumber, "DUNS Number", `DUNS Number:\s*(\d{9})`},

	{types.FieldCreditScore, "Credit Score", `Credit Score:\s*(\d+)\s*(?:/|out of)?\s*\d*`},
	{types.FieldCreditRating, "Credit Rating", `Credit Rating:\s*([A-Z][A-Z+\-]*)`},
	{types.FieldCreditLimit, "Credit Limit", `Credit Limit` + qualifier + currency + amount},
	{types.FieldRiskLevel, "Risk Level", `Risk Level:\s*` + toEOL},

	{types.FieldRevenue, "Revenue", `Revenue` + qualifier + money + amount},
	{types.FieldRevenue, "Turnover", `Turnover` + qualifier + money + amount},
	{types.FieldRevenue, "Total Sales", `Total Sales` + qualifier + money + amount},
	{types.FieldProfit, "Profit Before Tax", `Profit Before Tax` + qualifier + money + amount},
	{types.FieldProfit, "Pre-Tax Profit", `Pre-Tax Profit` + qualifier + money + amount},
	{types.FieldTotalAssets, "Total Assets", `Total Assets:\s*` + currency + amount},
	{types.FieldTotalLiabilities, "Total Liabilities", `Total Liabilities:\s*` + currency + amount},
	{types.FieldNetWorth, "Net Worth", `Net Worth:\s*` + currency + amount},
	{types.FieldNetWorth, "Net Assets", `Net Assets:\s*` + currency + amount},
	{types.FieldDebtToEquity, "Debt-to-Equity", `Debt[- ]to[- ]Equity.*?` + ratio},
	{types.FieldCurrentRatio, "Current Ratio", `Current Ratio:\s*` + ratio},
	{types.FieldProfitMargin, "Profit Margin", `Profit Margin:\s*` + ratio + `\s*%?`},

	{types.FieldPaymentTerms, "Payment Terms", `Payment Terms:\s*` + toEOL},
	{types.FieldOnTimePercentage, "On-Time Payments", `On-Time Payments?:\s*\d+\s*\((\d+)%\)`},
	{types.FieldAveragePaymentDays, "Average Payment Days", `Average Payment Days:\s*(\d+)`},

	{types.FieldIncorporationDate, "Date of Incorporation", `Date of Incorporation:\s*` + dateLabel},
	{types.FieldIncorporationDate, "Incorporation Date", `Incorporation Date:\s*` + dateLabel},
	{types.FieldReportDate, "Report Date", `Report Date:\s*` + dateLabel},
}

// Matcher is a compiled Rule.
type Matcher struct {
	Rule
	re *regexp.Regexp
}

// find returns the first capture of the matcher in text.
func (m Matcher) find(text string) (string, bool) {
	sub := m.re.FindStringSubmatch(text)
	if sub == nil {
		return "", false
	}
	return sub[1], true
}

// FieldDef is a schema entry with its matchers in priority order.
type FieldDef struct {
	types.FieldSpec
	Matchers []Matcher
}

// Registry holds compiled matchers grouped by category. It is read-only
// after construction and safe for concurrent use.
type Registry struct {
	byCategory map[types.Category][]FieldDef
	byField    map[types.FieldID]FieldDef
}

// NewRegistry compiles rules into a Registry. Rules for unknown fields or
// patterns without exactly one capture group are rejected. Fields of the
// schema with no rule are simply never extracted.
func NewRegistry(rules []Rule) (*Registry, error) {
	matchers := make(map[types.FieldID][]Matcher)
	for i, r := range rules {
		if _, ok := types.LookupField(r.Field); !ok {
			return nil, fmt.Errorf("rule %d (%s): %w: %q", i, r.Label, types.ErrUnknownField, r.Field)
		}
		re, err := regexp.Compile(`(?i)` + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): compiling pattern: %w", i, r.Label, err)
		}
		if re.NumSubexp() != 1 {
			return nil, fmt.Errorf("rule %d (%s): pattern has %d capture groups, want 1", i, r.Label, re.NumSubexp())
		}
		matchers[r.Field] = append(matchers[r.Field], Matcher{Rule: r, re: re})
	}

	reg := &Registry{
		byCategory: make(map[types.Category][]FieldDef),
		byField:    make(map[types.FieldID]FieldDef),
	}
	for _, spec := range types.Schema {
		ms, ok := matchers[spec.ID]
		if !ok {
			continue
		}
		def := FieldDef{FieldSpec: spec, Matchers: ms}
		reg.byCategory[spec.Category] = append(reg.byCategory[spec.Category], def)
		reg.byField[spec.ID] = def
	}
	return reg, nil
}

// MustDefaultRegistry compiles DefaultRules and panics on error. The rule
// table is static, so a failure here is a programming error.
func MustDefaultRegistry() *Registry {
	reg, err := NewRegistry(DefaultRules)
	if err != nil {
		panic(err)
	}
	return reg
}

// Fields returns the field definitions of a category in schema order.
func (r *Registry) Fields(cat types.Category) []FieldDef {
	return r.byCategory[cat]
}

// Rules returns the synonym rules of a field in priority order.
func (r *Registry) Rules(id types.FieldID) []Rule {
	def, ok := r.byField[id]
	if !ok {
		return nil
	}
	rules := make([]Rule, len(def.Matchers))
	for i, m := range def.Matchers {
		rules[i] = m.Rule
	}
	return rules
}

// Find returns the raw capture for field id. Matchers are tried in
// priority order and the first one that matches anywhere in text wins;
// within that matcher the first occurrence in document order wins. The
// label of the winning synonym is returned alongside the capture.
func (r *Registry) Find(id types.FieldID, text string) (raw, label string, ok bool) {
	def, found := r.byField[id]
	if !found {
		return "", "", false
	}
	for _, m := range def.Matchers {
		if v, hit := m.find(text); hit {
			return v, m.Label, true
		}
	}
	return "", "", false
}
