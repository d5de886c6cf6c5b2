package conservation

import "sort"

// PracticeSummary accumulates the contracts of one best management practice.
type PracticeSummary struct {
	Name                string  `json:"name" yaml:"name"`
	Contracts           int     `json:"contracts" yaml:"contracts"`
	Funding             float64 `json:"funding" yaml:"funding"`
	Acres               float64 `json:"acres" yaml:"acres"`
	NitrogenReduction   float64 `json:"nitrogen_reduction" yaml:"nitrogen_reduction"`
	PhosphorusReduction float64 `json:"phosphorus_reduction" yaml:"phosphorus_reduction"`
	SedimentReduction   float64 `json:"sediment_reduction" yaml:"sediment_reduction"`
}

// RollupByPractice groups a batch by practice name, ordered by descending
// contract count with ties broken by name.
func RollupByPractice(batch []ConservationRecord) []PracticeSummary {
	idx := make(map[string]int)
	var out []PracticeSummary

	for _, r := range batch {
		i, ok := idx[r.Practice]
		if !ok {
			i = len(out)
			idx[r.Practice] = i
			out = append(out, PracticeSummary{Name: r.Practice})
		}
		p := &out[i]
		p.Contracts++
		p.Funding += r.TotalAmount
		p.Acres += r.Acres
		if !r.HasMissingEnvironmentalData {
			p.NitrogenReduction += r.NitrogenReduction
			p.PhosphorusReduction += r.PhosphorusReduction
			p.SedimentReduction += r.SedimentReduction
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Contracts != out[j].Contracts {
			return out[i].Contracts > out[j].Contracts
		}
		return out[i].Name < out[j].Name
	})
	if out == nil {
		return []PracticeSummary{}
	}
	return out
}
