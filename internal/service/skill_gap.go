package service

import (
	"sort"
	"strings"

	"careerpath/internal/domain"
)

// Bandas de nivel, [lo, hi).
const (
	ownedSkillLow    = 70
	ownedSkillHigh   = 100
	missingSkillLow  = 20
	missingSkillHigh = 60
	requiredLow      = 80
	requiredHigh     = 100
)

// SkillGapCalculator estima niveles actuales y requeridos por bandas aleatorias.
type SkillGapCalculator struct {
	rand RandomSource
}

func NewSkillGapCalculator(r RandomSource) *SkillGapCalculator {
	if r == nil {
		r = NewRandomSource(0)
	}
	return &SkillGapCalculator{rand: r}
}

// Calculate devuelve una brecha por skill requerida (deduplicada sin distinguir
// mayusculas), ordenada por gap descendente.
func (c *SkillGapCalculator) Calculate(career domain.Career, userSkills []string) []domain.SkillGap {
	owned := make(map[string]struct{}, len(userSkills))
	for _, s := range userSkills {
		owned[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	seen := make(map[string]struct{}, len(career.RequiredSkills))
	gaps := make([]domain.SkillGap, 0, len(career.RequiredSkills))
	for _, skill := range career.RequiredSkills {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		var current int
		if _, ok := owned[key]; ok {
			current = intInBand(c.rand, ownedSkillLow, ownedSkillHigh)
		} else {
			current = intInBand(c.rand, missingSkillLow, missingSkillHigh)
		}
		required := intInBand(c.rand, requiredLow, requiredHigh)
		gap := required - current
		gaps = append(gaps, domain.SkillGap{
			Skill:         strings.TrimSpace(skill),
			CurrentLevel:  current,
			RequiredLevel: required,
			Gap:           gap,
			Priority:      domain.PriorityForGap(gap),
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Gap > gaps[j].Gap
	})
	return gaps
}
