package domain

import "time"

// AssessmentResult es inmutable una vez creado, salvo el flag Completed de cada paso del roadmap.
type AssessmentResult struct {
	ID              string                     `json:"id"`
	UserID          string                     `json:"user_id"`
	CompletedAt     time.Time                  `json:"completed_at"`
	CategoryScores  map[Category]CategoryScore `json:"category_scores"`
	Recommendations []CareerRecommendation     `json:"recommendations"`
	SkillGaps       []SkillGap                 `json:"skill_gaps"`
	Roadmap         []RoadmapStep              `json:"roadmap"`
}
