package conservation

// DefaultImpactLimit is how many practices the impact ranking keeps.
const DefaultImpactLimit = 8

// Views holds every derived view of one run over the same filtered batch.
type Views struct {
	Overview  Overview          `json:"overview" yaml:"overview"`
	Practices []PracticeSummary `json:"practices" yaml:"practices"`
	Years     []YearSummary     `json:"years" yaml:"years"`
	Impact    []ImpactSummary   `json:"impact" yaml:"impact"`
	Clusters  []LocationCluster `json:"clusters" yaml:"clusters"`
	Budget    Budget            `json:"budget" yaml:"budget"`
}
