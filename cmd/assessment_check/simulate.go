package main

import (
	"fmt"
	"time"

	"careerpath/internal/domain"
	"careerpath/internal/service"
)

// Report es lo que imprime la herramienta: el perfil usado, las respuestas
// simuladas y el resultado completo del pipeline.
type Report struct {
	Seed            int64                                    `json:"seed"`
	Profile         domain.CareerProfile                     `json:"profile"`
	Answers         []domain.Answer                          `json:"answers"`
	CategoryScores  map[domain.Category]domain.CategoryScore `json:"category_scores"`
	Recommendations []domain.CareerRecommendation            `json:"recommendations"`
	SkillGaps       []domain.SkillGap                        `json:"skill_gaps"`
	Roadmap         []domain.RoadmapStep                     `json:"roadmap"`
}

type simulationCatalog interface {
	service.QuestionBank
	service.CareerCatalog
}

// simulate recorre el assessment completo con start/answer/next, eligiendo
// una opcion al azar por pregunta, y evalua el resultado.
func simulate(cat simulationCatalog, seed int64, topN int, profile domain.CareerProfile, now time.Time) (Report, error) {
	r := service.NewRandomSource(seed)
	session := service.StartSession("assessment-check", cat, now)

	for {
		q, ok := service.CurrentQuestion(session, cat)
		if !ok {
			break
		}
		value := pickValue(r, q)
		var err error
		session, err = service.Answer(session, cat, q.ID, value, now)
		if err != nil {
			return Report{}, fmt.Errorf("answer %s: %w", q.ID, err)
		}
		var moved bool
		session, moved = service.Next(session, cat, now)
		if !moved {
			break
		}
	}

	ev := service.NewCareerEngine(cat, r, topN).Evaluate(session.Answers, profile)
	return Report{
		Seed:            seed,
		Profile:         profile,
		Answers:         session.Answers,
		CategoryScores:  ev.Scores,
		Recommendations: ev.Recommendations,
		SkillGaps:       ev.SkillGaps,
		Roadmap:         ev.Roadmap,
	}, nil
}

func pickValue(r service.RandomSource, q domain.Question) int {
	if len(q.Options) == 0 {
		return int(r.Float64() * float64(domain.MaxOptionValue+1))
	}
	return q.Options[int(r.Float64()*float64(len(q.Options)))].Value
}
