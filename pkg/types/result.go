// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoText is the message recorded on a result when extraction was given
// empty input.
const ErrNoText = "no text provided"

var (
	// ErrUnknownField is returned by Set for ids outside Schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrKindMismatch is returned by Set when the value's kind differs from
	// the field's declared kind.
	ErrKindMismatch = errors.New("value kind does not match field")
)

// CompanyInfo holds company identifiers.
type CompanyInfo struct {
	CompanyName        *string `json:"company_name,omitempty" yaml:"company_name,omitempty"`
	RegistrationNumber *string `json:"registration_number,omitempty" yaml:"registration_number,omitempty"`
	LEICode            *string `json:"lei_code,omitempty" yaml:"lei_code,omitempty"`
	DUNSNumber         *string `json:"duns_number,omitempty" yaml:"duns_number,omitempty"`
}

// CreditMetrics holds the credit score, rating, limit, and risk band.
type CreditMetrics struct {
	CreditScore  *int64   `json:"credit_score,omitempty" yaml:"credit_score,omitempty"`
	CreditRating *string  `json:"credit_rating,omitempty" yaml:"credit_rating,omitempty"`
	CreditLimit  *float64 `json:"credit_limit,omitempty" yaml:"credit_limit,omitempty"`
	RiskLevel    *string  `json:"risk_level,omitempty" yaml:"risk_level,omitempty"`
}

// FinancialData holds monetary amounts and ratios. ProfitMargin is a
// percentage with the sign stripped (10.0 means 10%).
type FinancialData struct {
	Revenue          *float64 `json:"revenue,omitempty" yaml:"revenue,omitempty"`
	Profit           *float64 `json:"profit,omitempty" yaml:"profit,omitempty"`
	TotalAssets      *float64 `json:"total_assets,omitempty" yaml:"total_assets,omitempty"`
	TotalLiabilities *float64 `json:"total_liabilities,omitempty" yaml:"total_liabilities,omitempty"`
	NetWorth         *float64 `json:"net_worth,omitempty" yaml:"net_worth,omitempty"`
	DebtToEquity     *float64 `json:"debt_to_equity,omitempty" yaml:"debt_to_equity,omitempty"`
	CurrentRatio     *float64 `json:"current_ratio,omitempty" yaml:"current_ratio,omitempty"`
	ProfitMargin     *float64 `json:"profit_margin,omitempty" yaml:"profit_margin,omitempty"`
}

// PaymentInfo holds payment terms and payment behaviour.
type PaymentInfo struct {
	PaymentTerms       *string `json:"payment_terms,omitempty" yaml:"payment_terms,omitempty"`
	OnTimePercentage   *int64  `json:"on_time_percentage,omitempty" yaml:"on_time_percentage,omitempty"`
	AveragePaymentDays *int64  `json:"average_payment_days,omitempty" yaml:"average_payment_days,omitempty"`
}

// Dates holds date labels exactly as they appear in the document.
type Dates struct {
	IncorporationDate *string `json:"incorporation_date,omitempty" yaml:"incorporation_date,omitempty"`
	ReportDate        *string `json:"report_date,omitempty" yaml:"report_date,omitempty"`
}

// ExtractionResult is the typed record produced from one document's text.
// A nil field means the fact was not found; absent facts are never
// serialized.
type ExtractionResult struct {
	// ExtractedAt is informational and takes no part in comparisons.
	ExtractedAt time.Time `json:"extraction_timestamp" yaml:"extraction_timestamp"`

	CompanyInfo   CompanyInfo   `json:"company_info" yaml:"company_info"`
	CreditMetrics CreditMetrics `json:"credit_metrics" yaml:"credit_metrics"`
	FinancialData FinancialData `json:"financial_data" yaml:"financial_data"`
	PaymentInfo   PaymentInfo   `json:"payment_info" yaml:"payment_info"`
	Dates         Dates         `json:"dates" yaml:"dates"`

	// FieldCount is the number of present fields across all categories.
	FieldCount int `json:"total_fields_extracted" yaml:"total_fields_extracted"`

	// Complete is true when at least one field was extracted.
	Complete bool `json:"extraction_complete" yaml:"extraction_complete"`

	// Error is set when the input could not be processed at all.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Set assigns v to the field id. The value kind must match the schema.
func (r *ExtractionResult) Set(id FieldID, v Value) error {
	spec, ok := LookupField(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	if spec.Kind != v.Kind {
		return fmt.Errorf("%w: %s wants %s, got %s", ErrKindMismatch, id, spec.Kind, v.Kind)
	}

	s, n, f := v.Str, v.Int, v.Dec
	switch id {
	case FieldCompanyName:
		r.CompanyInfo.CompanyName = &s
	case FieldRegistrationNumber:
		r.CompanyInfo.RegistrationNumber = &s
	case FieldLEICode:
		r.CompanyInfo.LEICode = &s
	case FieldDUNSNumber:
		r.CompanyInfo.DUNSNumber = &s
	case FieldCreditScore:
		r.CreditMetrics.CreditScore = &n
	case FieldCreditRating:
		r.CreditMetrics.CreditRating = &s
	case FieldCreditLimit:
		r.CreditMetrics.CreditLimit = &f
	case FieldRiskLevel:
		r.CreditMetrics.RiskLevel = &s
	case FieldRevenue:
		r.FinancialData.Revenue = &f
	case FieldProfit:
		r.FinancialData.Profit = &f
	case FieldTotalAssets:
		r.FinancialData.TotalAssets = &f
	case FieldTotalLiabilities:
		r.FinancialData.TotalLiabilities = &f
	case FieldNetWorth:
		r.FinancialData.NetWorth = &f
	case FieldDebtToEquity:
		r.FinancialData.DebtToEquity = &f
	case FieldCurrentRatio:
		r.FinancialData.CurrentRatio = &f
	case FieldProfitMargin:
		r.FinancialData.ProfitMargin = &f
	case FieldPaymentTerms:
		r.PaymentInfo.PaymentTerms = &s
	case FieldOnTimePercentage:
		r.PaymentInfo.OnTimePercentage = &n
	case FieldAveragePaymentDays:
		r.PaymentInfo.AveragePaymentDays = &n
	case FieldIncorporationDate:
		r.Dates.IncorporationDate = &s
	case FieldReportDate:
		r.Dates.ReportDate = &s
	}
	return nil
}

// Get returns the value of field id, if present.
func (r *ExtractionResult) Get(id FieldID) (Value, bool) {
	switch id {
	case FieldCompanyName:
		return strOf(r.CompanyInfo.CompanyName, KindString)
	case FieldRegistrationNumber:
		return strOf(r.CompanyInfo.RegistrationNumber, KindString)
	case FieldLEICode:
		return strOf(r.CompanyInfo.LEICode, KindString)
	case FieldDUNSNumber:
		return strOf(r.CompanyInfo.DUNSNumber, KindString)
	case FieldCreditScore:
		return intOf(r.CreditMetrics.CreditScore)
	case FieldCreditRating:
		return strOf(r.CreditMetrics.CreditRating, KindString)
	case FieldCreditLimit:
		return decOf(r.CreditMetrics.CreditLimit)
	case FieldRiskLevel:
		return strOf(r.CreditMetrics.RiskLevel, KindString)
	case FieldRevenue:
		return decOf(r.FinancialData.Revenue)
	case FieldProfit:
		return decOf(r.FinancialData.Profit)
	case FieldTotalAssets:
		return decOf(r.FinancialData.TotalAssets)
	case FieldTotalLiabilities:
		return decOf(r.FinancialData.TotalLiabilities)
	case FieldNetWorth:
		return decOf(r.FinancialData.NetWorth)
	case FieldDebtToEquity:
		return decOf(r.FinancialData.DebtToEquity)
	case FieldCurrentRatio:
		return decOf(r.FinancialData.CurrentRatio)
	case FieldProfitMargin:
		return decOf(r.FinancialData.ProfitMargin)
	case FieldPaymentTerms:
		return strOf(r.PaymentInfo.PaymentTerms, KindString)
	case FieldOnTimePercentage:
		return intOf(r.PaymentInfo.OnTimePercentage)
	case FieldAveragePaymentDays:
		return intOf(r.PaymentInfo.AveragePaymentDays)
	case FieldIncorporationDate:
		return strOf(r.Dates.IncorporationDate, KindDate)
	case FieldReportDate:
		return strOf(r.Dates.ReportDate, KindDate)
	}
	return Value{}, false
}

func strOf(p *string, kind ValueKind) (Value, bool) {
	if p == nil {
		return Value{}, false
	}
	return Value{Kind: kind, Str: *p}, true
}

func intOf(p *int64) (Value, bool) {
	if p == nil {
		return Value{}, false
	}
	return IntegerValue(*p), true
}

func decOf(p *float64) (Value, bool) {
	if p == nil {
		return Value{}, false
	}
	return DecimalValue(*p), true
}

// Fields returns every present field keyed by id.
func (r *ExtractionResult) Fields() map[FieldID]Value {
	out := make(map[FieldID]Value)
	for _, s := range Schema {
		if v, ok := r.Get(s.ID); ok {
			out[s.ID] = v
		}
	}
	return out
}

// Category returns the present fields of one category.
func (r *ExtractionResult) Category(cat Category) map[FieldID]Value {
	out := make(map[FieldID]Value)
	for _, s := range FieldsIn(cat) {
		if v, ok := r.Get(s.ID); ok {
			out[s.ID] = v
		}
	}
	return out
}

// Recount recomputes FieldCount and Complete from the present fields.
func (r *ExtractionResult) Recount() {
	n := 0
	for _, s := range Schema {
		if _, ok := r.Get(s.ID); ok {
			n++
		}
	}
	r.FieldCount = n
	r.Complete = n > 0
}

// FlatRecord is the single-level projection of an ExtractionResult used
// for tabular storage. Dates are never part of it.
type FlatRecord struct {
	DocumentID int64             `json:"document_id" yaml:"document_id"`
	Values     map[FieldID]Value `json:"-" yaml:"-"`
}

// Columns returns the present keys in schema order.
func (f FlatRecord) Columns() []FieldID {
	var cols []FieldID
	for _, s := range Schema {
		if _, ok := f.Values[s.ID]; ok {
			cols = append(cols, s.ID)
		}
	}
	return cols
}

// Map returns the record as plain scalars keyed by column name, including
// document_id.
func (f FlatRecord) Map() map[string]any {
	m := make(map[string]any, len(f.Values)+1)
	m["document_id"] = f.DocumentID
	for id, v := range f.Values {
		m[string(id)] = v.Any()
	}
	return m
}
