package conservation

import "sort"

// ImpactSummary is the environmental benefit attributed to one practice.
type ImpactSummary struct {
	Practice   string  `json:"practice" yaml:"practice"`
	Nitrogen   float64 `json:"nitrogen" yaml:"nitrogen"`
	Phosphorus float64 `json:"phosphorus" yaml:"phosphorus"`
	Sediment   float64 `json:"sediment" yaml:"sediment"`
	Acres      float64 `json:"acres" yaml:"acres"`
}

// RankImpact sums reductions per practice over records with known, nonzero
// reductions and returns the top limit practices by nitrogen reduction.
// A limit <= 0 returns every practice.
func RankImpact(batch []ConservationRecord, limit int) []ImpactSummary {
	idx := make(map[string]int)
	out := make([]ImpactSummary, 0)

	for _, r := range batch {
		if r.HasMissingEnvironmentalData {
			continue
		}
		if r.NitrogenReduction <= 0 && r.PhosphorusReduction <= 0 && r.SedimentReduction <= 0 {
			continue
		}
		i, ok := idx[r.Practice]
		if !ok {
			i = len(out)
			idx[r.Practice] = i
			out = append(out, ImpactSummary{Practice: r.Practice})
		}
		s := &out[i]
		s.Nitrogen += r.NitrogenReduction
		s.Phosphorus += r.PhosphorusReduction
		s.Sediment += r.SedimentReduction
		s.Acres += r.Acres
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Nitrogen > out[j].Nitrogen })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
