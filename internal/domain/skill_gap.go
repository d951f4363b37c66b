package domain

type SkillPriority string

const (
	PriorityHigh   SkillPriority = "high"
	PriorityMedium SkillPriority = "medium"
	PriorityLow    SkillPriority = "low"
)

type SkillGap struct {
	Skill         string        `json:"skill"`
	CurrentLevel  int           `json:"current_level"`
	RequiredLevel int           `json:"required_level"`
	Gap           int           `json:"gap"`
	Priority      SkillPriority `json:"priority"`
}

// PriorityForGap: high si gap > 30, low si gap < 10, medium en otro caso.
func PriorityForGap(gap int) SkillPriority {
	switch {
	case gap > 30:
		return PriorityHigh
	case gap < 10:
		return PriorityLow
	default:
		return PriorityMedium
	}
}
