package service

import (
	"careerpath/internal/catalog"
	"careerpath/internal/domain"
)

// RoadmapSource expone los roadmaps curados por clave normalizada.
type RoadmapSource interface {
	Roadmap(key string) ([]domain.RoadmapStep, bool)
}

const foundationResourceLimit = 3

// RoadmapGenerator arma el plan de aprendizaje para una carrera objetivo.
type RoadmapGenerator struct {
	source RoadmapSource
}

func NewRoadmapGenerator(source RoadmapSource) *RoadmapGenerator {
	return &RoadmapGenerator{source: source}
}

// Generate devuelve el roadmap curado si existe (por id y luego por titulo);
// si no, sintetiza cuatro fases fijas a partir de las brechas. Nunca devuelve vacio.
func (g *RoadmapGenerator) Generate(career domain.Career, gaps []domain.SkillGap) []domain.RoadmapStep {
	if g.source != nil {
		for _, key := range []string{career.ID, career.Title} {
			if key == "" {
				continue
			}
			if steps, ok := g.source.Roadmap(catalog.NormalizeKey(key)); ok && len(steps) > 0 {
				return steps
			}
		}
	}
	return synthesizeRoadmap(career, gaps)
}

func synthesizeRoadmap(career domain.Career, gaps []domain.SkillGap) []domain.RoadmapStep {
	foundation := make([]domain.Resource, 0, foundationResourceLimit)
	for _, gap := range gaps {
		if len(foundation) == foundationResourceLimit {
			break
		}
		if gap.Priority != domain.PriorityHigh {
			continue
		}
		foundation = append(foundation, domain.Resource{
			Type:     domain.ResourceCourse,
			Title:    gap.Skill + " Fundamentals",
			Platform: "Online Course",
		})
	}

	return []domain.RoadmapStep{
		{
			ID:          "phase-1",
			Title:       "Build Foundation Skills",
			Description: "Close the highest-priority skill gaps for " + career.Title + ".",
			Duration:    "1-3 months",
			Resources:   foundation,
		},
		{
			ID:          "phase-2",
			Title:       "Develop Intermediate Skills",
			Description: "Apply what you learned in real projects and get feedback.",
			Duration:    "3-6 months",
			Resources: []domain.Resource{
				{Type: domain.ResourceProject, Title: "Build portfolio projects"},
				{Type: domain.ResourceMentorship, Title: "Find a mentor in the field"},
			},
		},
		{
			ID:          "phase-3",
			Title:       "Master Advanced Concepts",
			Description: "Deepen expertise in the advanced topics of the role.",
			Duration:    "6-12 months",
			Resources: []domain.Resource{
				{Type: domain.ResourceCourse, Title: "Advanced specialization course", Platform: "Online Course"},
				{Type: domain.ResourceCertification, Title: "Industry certification"},
			},
		},
		{
			ID:          "phase-4",
			Title:       "Career Preparation",
			Description: "Prepare to land a " + career.Title + " role.",
			Duration:    "1-2 months",
			Resources: []domain.Resource{
				{Type: domain.ResourceMentorship, Title: "Mock interviews"},
				{Type: domain.ResourceProject, Title: "Polish your portfolio"},
			},
		},
	}
}
