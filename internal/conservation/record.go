// Package conservation normalizes cost-share contract and funding tables and
// folds the canonical records into the dashboard's summary views.
//
// Everything in this package is pure: functions take a batch, never mutate
// it, and return freshly built values.
package conservation

import (
	"strings"
	"time"
)

// Contract table columns.
const (
	ColPaidDate     = "PAID_DATE"
	ColDate         = "DATE"
	ColStart        = "START"
	ColEnd          = "END"
	ColAmount319    = "319_AMOUNT"
	ColAmountCWSRF  = "CWSRF-WQ_AMOUNT"
	ColAmountLocal  = "LOCAL_AMOUNT"
	ColTotalAmount  = "TOTAL_AMOUNT"
	ColAcres        = "ACRES"
	ColReductionN   = "RED_N"
	ColReductionP   = "RED_P"
	ColReductionS   = "RED_S"
	ColLatitude     = "LAT"
	ColLongitude    = "LONG"
	ColFarm         = "FARM"
	ColCity         = "CITY"
	ColPractice     = "BMP"
	ColFirstName    = "NAME_FIRST"
	ColLastName     = "NAME_LAST"
	ColSegment      = "SEG"
	ColQualityFlag  = "FLAG"
	ColPracticeType = "BMP Type"
	ColFundName     = "Fund Name"
	ColAllocated    = "Amount Allocated"
	ColUsed         = "Amount Used"
	ColAvailable    = "Amount Available"
	ColFundSegment  = "Segment"
)

// Unknown is the placeholder for missing farm, city and practice names.
const Unknown = "Unknown"

// FlagSentinel marks a flagged value in FLAG and the reduction columns.
const FlagSentinel = "*"

// RawRow is one table row keyed by header name. Callers own it; this package
// only reads from it.
type RawRow map[string]string

// Get returns the value of col. An exact header match wins; otherwise the
// header is matched case-insensitively ignoring surrounding whitespace.
func (r RawRow) Get(col string) string {
	if v, ok := r[col]; ok {
		return v
	}
	want := normalizeCol(col)
	for k, v := range r {
		if normalizeCol(k) == want {
			return v
		}
	}
	return ""
}

func normalizeCol(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ConservationRecord is one normalized cost-share contract.
type ConservationRecord struct {
	Farm      string `json:"farm" yaml:"farm"`
	City      string `json:"city" yaml:"city"`
	Practice  string `json:"practice" yaml:"practice"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	Segment   string `json:"segment" yaml:"segment"`

	// EffectiveDate is the date used for every time-series bucket: the paid
	// date when known, otherwise the start date.
	EffectiveDate *time.Time `json:"effective_date,omitempty" yaml:"effective_date,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	PaidDate      *time.Time `json:"paid_date,omitempty" yaml:"paid_date,omitempty"`

	Amount319   float64 `json:"amount_319" yaml:"amount_319"`
	AmountCWSRF float64 `json:"amount_cwsrf" yaml:"amount_cwsrf"`
	AmountLocal float64 `json:"amount_local" yaml:"amount_local"`
	TotalAmount float64 `json:"total_amount" yaml:"total_amount"`

	Acres               float64 `json:"acres" yaml:"acres"`
	NitrogenReduction   float64 `json:"nitrogen_reduction" yaml:"nitrogen_reduction"`
	PhosphorusReduction float64 `json:"phosphorus_reduction" yaml:"phosphorus_reduction"`
	SedimentReduction   float64 `json:"sediment_reduction" yaml:"sediment_reduction"`

	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`

	HasDataQualityFlag          bool `json:"has_data_quality_flag" yaml:"has_data_quality_flag"`
	HasMissingEnvironmentalData bool `json:"has_missing_environmental_data" yaml:"has_missing_environmental_data"`
}

// Included reports whether the record passes the inclusion gate: it needs a
// date, a practice and a farm.
func (r ConservationRecord) Included() bool {
	return r.EffectiveDate != nil && r.Practice != Unknown && r.Farm != Unknown
}

// HasLocation reports whether the record carries usable coordinates. Only
// the exact (0, 0) pair means the source had no location.
func (r ConservationRecord) HasLocation() bool {
	return r.Latitude != 0 || r.Longitude != 0
}

// Year returns the calendar year of the effective date, or 0 when absent.
func (r ConservationRecord) Year() int {
	if r.EffectiveDate == nil {
		return 0
	}
	return r.EffectiveDate.Year()
}

// FundingAllocation is one row of the funding-allocation table.
type FundingAllocation struct {
	Practice     string  `json:"practice" yaml:"practice"`
	PracticeType string  `json:"practice_type,omitempty" yaml:"practice_type,omitempty"`
	FundName     string  `json:"fund_name" yaml:"fund_name"`
	Allocated    float64 `json:"allocated" yaml:"allocated"`
	Used         float64 `json:"used" yaml:"used"`
	Available    float64 `json:"available" yaml:"available"`
	Segment      string  `json:"segment" yaml:"segment"`
}
