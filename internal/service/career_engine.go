package service

import (
	"careerpath/internal/domain"
)

const defaultTopRecommendations = 5

// Evaluation es el resultado puro del pipeline, antes de persistir o enriquecer.
type Evaluation struct {
	Scores          map[domain.Category]domain.CategoryScore
	Recommendations []domain.CareerRecommendation
	SkillGaps       []domain.SkillGap
	Roadmap         []domain.RoadmapStep
}

// CareerCatalog es la vista del catalogo que necesita el pipeline.
type CareerCatalog interface {
	RoadmapSource
	Questions() []domain.Question
	Careers() []domain.Career
}

// CareerEngine encadena scorer -> matcher -> brechas -> roadmap. Sincrono y sin
// estado compartido mutable, se puede usar desde varias goroutines.
type CareerEngine struct {
	catalog CareerCatalog
	matcher *Matcher
	gaps    *SkillGapCalculator
	roadmap *RoadmapGenerator
	topN    int
}

func NewCareerEngine(cat CareerCatalog, r RandomSource, topN int) *CareerEngine {
	if topN <= 0 {
		topN = defaultTopRecommendations
	}
	return &CareerEngine{
		catalog: cat,
		matcher: NewMatcher(r),
		gaps:    NewSkillGapCalculator(r),
		roadmap: NewRoadmapGenerator(cat),
		topN:    topN,
	}
}

func (e *CareerEngine) Evaluate(answers []domain.Answer, profile domain.CareerProfile) Evaluation {
	scores := ScoreAssessment(answers, e.catalog.Questions())
	ranked := e.matcher.Match(scores, e.catalog.Careers(), profile)
	if len(ranked) > e.topN {
		ranked = ranked[:e.topN]
	}

	ev := Evaluation{
		Scores:          scores,
		Recommendations: ranked,
	}
	if len(ranked) == 0 {
		return ev
	}
	target := ranked[0].Career
	ev.SkillGaps = e.gaps.Calculate(target, profile.Skills)
	ev.Roadmap = e.roadmap.Generate(target, ev.SkillGaps)
	return ev
}
