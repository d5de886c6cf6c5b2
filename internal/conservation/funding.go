package conservation

import (
	"sort"
	"strconv"
)

// OtherPracticeType groups allocations without a practice type.
const OtherPracticeType = "Other"

// BudgetSummary accumulates allocated, used and available funds for one
// grouping key of the funding table.
type BudgetSummary struct {
	Name      string  `json:"name" yaml:"name"`
	Allocated float64 `json:"allocated" yaml:"allocated"`
	Used      float64 `json:"used" yaml:"used"`
	Available float64 `json:"available" yaml:"available"`
}

// Utilization returns used/allocated as a percentage, or 0 when nothing was
// allocated.
func (b BudgetSummary) Utilization() float64 {
	if b.Allocated <= 0 {
		return 0
	}
	return b.Used / b.Allocated * 100
}

// Budget bundles the funding-table rollups.
type Budget struct {
	Segments      []BudgetSummary `json:"segments" yaml:"segments"`
	Funds         []BudgetSummary `json:"funds" yaml:"funds"`
	PracticeTypes []BudgetSummary `json:"practice_types" yaml:"practice_types"`
}

// SummarizeBudget runs every funding-table rollup.
func SummarizeBudget(batch []FundingAllocation) Budget {
	return Budget{
		Segments:      RollupBudgetBySegment(batch),
		Funds:         RollupBudgetByFund(batch),
		PracticeTypes: RollupBudgetByPracticeType(batch),
	}
}

// RollupBudgetBySegment groups allocations by segment code, ascending.
// Numeric codes sort numerically and precede any others.
func RollupBudgetBySegment(batch []FundingAllocation) []BudgetSummary {
	out := rollupBudget(batch, func(a FundingAllocation) string { return a.Segment })
	sort.SliceStable(out, func(i, j int) bool {
		ni, errI := strconv.Atoi(out[i].Name)
		nj, errJ := strconv.Atoi(out[j].Name)
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return out[i].Name < out[j].Name
		}
	})
	return out
}

// RollupBudgetByFund groups allocations by fund name, largest allocation first.
func RollupBudgetByFund(batch []FundingAllocation) []BudgetSummary {
	out := rollupBudget(batch, func(a FundingAllocation) string { return a.FundName })
	sortByAllocated(out)
	return out
}

// RollupBudgetByPracticeType groups allocations by practice type, largest
// allocation first.
func RollupBudgetByPracticeType(batch []FundingAllocation) []BudgetSummary {
	out := rollupBudget(batch, func(a FundingAllocation) string {
		if a.PracticeType == "" {
			return OtherPracticeType
		}
		return a.PracticeType
	})
	sortByAllocated(out)
	return out
}

func rollupBudget(batch []FundingAllocation, key func(FundingAllocation) string) []BudgetSummary {
	idx := make(map[string]int)
	out := make([]BudgetSummary, 0)
	for _, a := range batch {
		k := key(a)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, BudgetSummary{Name: k})
		}
		b := &out[i]
		b.Allocated += a.Allocated
		b.Used += a.Used
		b.Available += a.Available
	}
	return out
}

func sortByAllocated(out []BudgetSummary) {
	sort.SliceStable(out, func(i, j int) bool { return out[i].Allocated > out[j].Allocated })
}
