package service

import (
	"math"

	"careerpath/internal/domain"
)

// ScoreAssessment calcula el porcentaje por categoria. Nunca falla:
// preguntas sin respuesta suman 0, respuestas a preguntas desconocidas o con
// categoria distinta a la de su pregunta se ignoran, y una categoria sin
// preguntas usa maxScore 1 para evitar la division por cero.
func ScoreAssessment(answers []domain.Answer, bank []domain.Question) map[domain.Category]domain.CategoryScore {
	latest := latestAnswers(answers)

	scores := make(map[domain.Category]domain.CategoryScore, len(domain.Categories()))
	for _, category := range domain.Categories() {
		sum, count := 0, 0
		for _, q := range bank {
			if q.Category != category {
				continue
			}
			count++
			a, ok := latest[q.ID]
			if !ok || a.Category != category {
				continue
			}
			sum += clampInt(a.Value, 0, domain.MaxOptionValue)
		}

		maxScore := count * domain.MaxOptionValue
		if maxScore == 0 {
			maxScore = 1
		}
		pct := int(math.Round(float64(sum) / float64(maxScore) * 100))
		scores[category] = domain.CategoryScore{
			Category:   category,
			Score:      sum,
			MaxScore:   maxScore,
			Percentage: clampInt(pct, 0, 100),
		}
	}
	return scores
}

// latestAnswers se queda con la ultima respuesta por pregunta. Ante timestamps
// desordenados gana la mas reciente; a igualdad gana la posterior en el slice.
func latestAnswers(answers []domain.Answer) map[string]domain.Answer {
	latest := make(map[string]domain.Answer, len(answers))
	for _, a := range answers {
		prev, ok := latest[a.QuestionID]
		if ok && a.AnsweredAt.Before(prev.AnsweredAt) {
			continue
		}
		latest[a.QuestionID] = a
	}
	return latest
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
