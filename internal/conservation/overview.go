package conservation

import "time"

// Overview holds program-wide totals for a batch.
type Overview struct {
	TotalFarms      int `json:"total_farms" yaml:"total_farms"`
	TotalProducers  int `json:"total_producers" yaml:"total_producers"`
	TotalContracts  int `json:"total_contracts" yaml:"total_contracts"`
	FundedContracts int `json:"funded_contracts" yaml:"funded_contracts"`

	TotalAcres float64 `json:"total_acres" yaml:"total_acres"`

	Funding319   float64 `json:"funding_319" yaml:"funding_319"`
	FundingCWSRF float64 `json:"funding_cwsrf" yaml:"funding_cwsrf"`
	FundingLocal float64 `json:"funding_local" yaml:"funding_local"`
	TotalFunding float64 `json:"total_funding" yaml:"total_funding"`

	// Reductions exclude records whose reduction columns were flagged missing.
	NitrogenReduction   float64 `json:"nitrogen_reduction" yaml:"nitrogen_reduction"`
	PhosphorusReduction float64 `json:"phosphorus_reduction" yaml:"phosphorus_reduction"`
	SedimentReduction   float64 `json:"sediment_reduction" yaml:"sediment_reduction"`

	Earliest *time.Time `json:"earliest,omitempty" yaml:"earliest,omitempty"`
	Latest   *time.Time `json:"latest,omitempty" yaml:"latest,omitempty"`
}

type producerKey struct {
	last  string
	first string
}

// Summarize folds a batch into program-wide totals.
func Summarize(batch []ConservationRecord) Overview {
	var o Overview
	farms := make(map[string]struct{})
	producers := make(map[producerKey]struct{})

	for _, r := range batch {
		farms[r.Farm] = struct{}{}
		producers[producerKey{last: r.LastName, first: r.FirstName}] = struct{}{}

		o.TotalContracts++
		if r.TotalAmount > 0 {
			o.FundedContracts++
		}
		o.TotalAcres += r.Acres
		o.Funding319 += r.Amount319
		o.FundingCWSRF += r.AmountCWSRF
		o.FundingLocal += r.AmountLocal
		o.TotalFunding += r.TotalAmount

		if !r.HasMissingEnvironmentalData {
			o.NitrogenReduction += r.NitrogenReduction
			o.PhosphorusReduction += r.PhosphorusReduction
			o.SedimentReduction += r.SedimentReduction
		}

		if d := r.EffectiveDate; d != nil {
			if o.Earliest == nil || d.Before(*o.Earliest) {
				o.Earliest = d
			}
			if o.Latest == nil || d.After(*o.Latest) {
				o.Latest = d
			}
		}
	}

	o.TotalFarms = len(farms)
	o.TotalProducers = len(producers)
	return o
}
