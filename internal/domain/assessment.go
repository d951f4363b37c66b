package domain

import "time"

type Answer struct {
	QuestionID string    `json:"question_id"`
	Category   Category  `json:"category"`
	Value      int       `json:"value"`
	AnsweredAt time.Time `json:"answered_at"`
}

// AssessmentSession es el assessment en curso. Se descarta al completarse.
type AssessmentSession struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Answers         []Answer  `json:"answers"`
	CurrentCategory Category  `json:"current_category"`
	CurrentIndex    int       `json:"current_index"`
	Completed       bool      `json:"completed"`
	StartedAt       time.Time `json:"started_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CategoryScore struct {
	Category   Category `json:"category"`
	Score      int      `json:"score"`
	MaxScore   int      `json:"max_score"`
	Percentage int      `json:"percentage"`
}
