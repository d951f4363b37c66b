// Package catalog holds the static question bank, career catalog and curated roadmaps.
package catalog

import (
	"slices"
	"strings"

	"careerpath/internal/domain"
)

// Catalog es inmutable despues de Load/LoadDir; es seguro compartirlo entre goroutines.
type Catalog struct {
	questions   []domain.Question
	questionIdx map[string]int
	careers     []domain.Career
	careerIdx   map[string]int
	roadmaps    map[string][]domain.RoadmapStep
}

// Questions devuelve una copia del banco completo en orden de archivo.
func (c *Catalog) Questions() []domain.Question {
	out := make([]domain.Question, len(c.questions))
	for i, q := range c.questions {
		out[i] = cloneQuestion(q)
	}
	return out
}

func (c *Catalog) QuestionsByCategory(category domain.Category) []domain.Question {
	var out []domain.Question
	for _, q := range c.questions {
		if q.Category == category {
			out = append(out, cloneQuestion(q))
		}
	}
	return out
}

func (c *Catalog) Question(id string) (domain.Question, bool) {
	i, ok := c.questionIdx[id]
	if !ok {
		return domain.Question{}, false
	}
	return cloneQuestion(c.questions[i]), true
}

// Careers devuelve una copia del catalogo en orden de insercion (orden de
// desempate del matcher).
func (c *Catalog) Careers() []domain.Career {
	out := make([]domain.Career, len(c.careers))
	for i, career := range c.careers {
		out[i] = cloneCareer(career)
	}
	return out
}

func (c *Catalog) Career(id string) (domain.Career, bool) {
	i, ok := c.careerIdx[NormalizeKey(id)]
	if !ok {
		return domain.Career{}, false
	}
	return cloneCareer(c.careers[i]), true
}

// Roadmap busca el roadmap curado por clave normalizada y devuelve una copia.
func (c *Catalog) Roadmap(key string) ([]domain.RoadmapStep, bool) {
	steps, ok := c.roadmaps[NormalizeKey(key)]
	if !ok {
		return nil, false
	}
	return domain.CloneSteps(steps), true
}

// NormalizeKey pasa a minusculas y reemplaza espacios por guiones.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

func cloneQuestion(q domain.Question) domain.Question {
	q.Options = slices.Clone(q.Options)
	return q
}

func cloneCareer(c domain.Career) domain.Career {
	c.RequiredSkills = slices.Clone(c.RequiredSkills)
	return c
}
