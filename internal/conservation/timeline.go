package conservation

import "sort"

// YearSummary accumulates the contracts whose effective date falls in Year.
type YearSummary struct {
	Year        int     `json:"year" yaml:"year"`
	Contracts   int     `json:"contracts" yaml:"contracts"`
	Funding     float64 `json:"funding" yaml:"funding"`
	Acres       float64 `json:"acres" yaml:"acres"`
	Amount319   float64 `json:"amount_319" yaml:"amount_319"`
	AmountCWSRF float64 `json:"amount_cwsrf" yaml:"amount_cwsrf"`
	AmountLocal float64 `json:"amount_local" yaml:"amount_local"`
}

// RollupByYear groups a batch by effective-date year in ascending order.
// Records without an effective date cannot pass the inclusion gate; any
// that are passed in anyway are skipped.
func RollupByYear(batch []ConservationRecord) []YearSummary {
	byYear := make(map[int]*YearSummary)
	for _, r := range batch {
		year := r.Year()
		if year == 0 {
			continue
		}
		y, ok := byYear[year]
		if !ok {
			y = &YearSummary{Year: year}
			byYear[year] = y
		}
		y.Contracts++
		y.Funding += r.TotalAmount
		y.Acres += r.Acres
		y.Amount319 += r.Amount319
		y.AmountCWSRF += r.AmountCWSRF
		y.AmountLocal += r.AmountLocal
	}

	out := make([]YearSummary, 0, len(byYear))
	for _, y := range byYear {
		out = append(out, *y)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
