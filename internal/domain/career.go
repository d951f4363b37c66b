package domain

type GrowthPotential string

const (
	GrowthLow      GrowthPotential = "Low"
	GrowthMedium   GrowthPotential = "Medium"
	GrowthHigh     GrowthPotential = "High"
	GrowthVeryHigh GrowthPotential = "Very High"
)

func (g GrowthPotential) Valid() bool {
	switch g {
	case GrowthLow, GrowthMedium, GrowthHigh, GrowthVeryHigh:
		return true
	}
	return false
}

type Career struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	RequiredSkills  []string        `json:"required_skills"`
	SalaryRange     string          `json:"salary_range"`
	GrowthPotential GrowthPotential `json:"growth_potential"`
	Icon            string          `json:"icon,omitempty"`
}

// CareerRecommendation es una carrera del catalogo con su porcentaje de match.
// Reasoning e Insights solo se completan si el enriquecimiento con IA responde.
type CareerRecommendation struct {
	Career          Career   `json:"career"`
	MatchPercentage int      `json:"match_percentage"`
	Reasoning       string   `json:"reasoning,omitempty"`
	Insights        []string `json:"insights,omitempty"`
}
