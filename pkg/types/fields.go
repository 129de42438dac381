// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strconv"
)

// Category groups related financial facts. Membership of a FieldID in a
// category is fixed by Schema.
type Category string

const (
	CategoryCompanyInfo   Category = "company_info"
	CategoryCreditMetrics Category = "credit_metrics"
	CategoryFinancialData Category = "financial_data"
	CategoryPaymentInfo   Category = "payment_info"
	CategoryDates         Category = "dates"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryCompanyInfo,
	CategoryCreditMetrics,
	CategoryFinancialData,
	CategoryPaymentInfo,
	CategoryDates,
}

// FieldID is the canonical identifier of one extractable financial fact.
type FieldID string

const (
	FieldCompanyName        FieldID = "company_name"
	FieldRegistrationNumber FieldID = "registration_number"
	FieldLEICode            FieldID = "lei_code"
	FieldDUNSNumber         FieldID = "duns_number"

	FieldCreditScore  FieldID = "credit_score"
	FieldCreditRating FieldID = "credit_rating"
	FieldCreditLimit  FieldID = "credit_limit"
	FieldRiskLevel    FieldID = "risk_level"

	FieldRevenue          FieldID = "revenue"
	FieldProfit           FieldID = "profit"
	FieldTotalAssets      FieldID = "total_assets"
	FieldTotalLiabilities FieldID = "total_liabilities"
	FieldNetWorth         FieldID = "net_worth"
	FieldDebtToEquity     FieldID = "debt_to_equity"
	FieldCurrentRatio     FieldID = "current_ratio"
	FieldProfitMargin     FieldID = "profit_margin"

	FieldPaymentTerms       FieldID = "payment_terms"
	FieldOnTimePercentage   FieldID = "on_time_percentage"
	FieldAveragePaymentDays FieldID = "average_payment_days"

	FieldIncorporationDate FieldID = "incorporation_date"
	FieldReportDate        FieldID = "report_date"
)

// ValueKind is the declared type of a field's value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInteger
	KindDecimal
	KindDate
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Unit describes how a numeric field is presented to people.
type Unit string

const (
	UnitNone    Unit = ""
	UnitMoney   Unit = "money"
	UnitPercent Unit = "percent"
	UnitDays    Unit = "days"
)

// FieldSpec is the schema entry for one FieldID.
type FieldSpec struct {
	ID       FieldID
	Category Category
	Kind     ValueKind
	Unit     Unit
}

// Schema is the fixed field catalog in category order, and within a
// category in report order.
var Schema = []FieldSpec{
	{FieldCompanyName, CategoryCompanyInfo, KindString, UnitNone},
	{FieldRegistrationNumber, CategoryCompanyInfo, KindString, UnitNone},
	{FieldLEICode, CategoryCompanyInfo, KindString, UnitNone},
	{FieldDUNSNumber, CategoryCompanyInfo, KindString, UnitNone},

	{FieldCreditScore, CategoryCreditMetrics, KindInteger, UnitNone},
	{FieldCreditRating, CategoryCreditMetrics, KindString, UnitNone},
	{FieldCreditLimit, CategoryCreditMetrics, KindDecimal, UnitMoney},
	{FieldRiskLevel, CategoryCreditMetrics, KindString, UnitNone},

	{FieldRevenue, CategoryFinancialData, KindDecimal, UnitMoney},
	{FieldProfit, CategoryFinancialData, KindDecimal, UnitMoney},
	{FieldTotalAssets, CategoryFinancialData, KindDecimal, UnitMoney},
	{FieldTotalLiabilities, CategoryFinancialData, KindDecimal, UnitMoney},
	{FieldNetWorth, CategoryFinancialData, KindDecimal, UnitMoney},
	{FieldDebtToEquity, CategoryFinancialData, KindDecimal, UnitNone},
	{FieldCurrentRatio, CategoryFinancialData, KindDecimal, UnitNone},
	{FieldProfitMargin, CategoryFinancialData, KindDecimal, UnitPercent},

	{FieldPaymentTerms, CategoryPaymentInfo, KindString, UnitNone},
	{FieldOnTimePercentage, CategoryPaymentInfo, KindInteger, UnitPercent},
	{FieldAveragePaymentDays, CategoryPaymentInfo, KindInteger, UnitDays},

	{FieldIncorporationDate, CategoryDates, KindDate, UnitNone},
	{FieldReportDate, CategoryDates, KindDate, UnitNone},
}

var schemaIndex = func() map[FieldID]FieldSpec {
	m := make(map[FieldID]FieldSpec, len(Schema))
	for _, s := range Schema {
		m[s.ID] = s
	}
	return m
}()

// LookupField returns the schema entry for id.
func LookupField(id FieldID) (FieldSpec, bool) {
	s, ok := schemaIndex[id]
	return s, ok
}

// FieldsIn returns the schema entries of one category in schema order.
func FieldsIn(cat Category) []FieldSpec {
	var out []FieldSpec
	for _, s := range Schema {
		if s.Category == cat {
			out = append(out, s)
		}
	}
	return out
}

// Value is a typed scalar extracted for one field. Exactly one of Str,
// Int, or Dec is meaningful, selected by Kind. Dates are kept as the raw
// label text in Str.
type Value struct {
	Kind ValueKind
	Str  string
	Int  int64
	Dec  float64
}

func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func IntegerValue(n int64) Value { return Value{Kind: KindInteger, Int: n} }
func DecimalValue(f float64) Value { return Value{Kind: KindDecimal, Dec: f} }
func DateValue(s string) Value { return Value{Kind: KindDate, Str: s} }

// Any returns the value as string, int64, or float64.
func (v Value) Any() any {
	switch v.Kind {
	case KindInteger:
		return v.Int
	case KindDecimal:
		return v.Dec
	default:
		return v.Str
	}
}

// String renders the value without any unit formatting.
func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindDecimal:
		return strconv.FormatFloat(v.Dec, 'f', -1, 64)
	default:
		return v.Str
	}
}
