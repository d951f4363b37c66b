package service

import (
	"math"
	"sort"
	"strings"

	"careerpath/internal/domain"
)

// Pesos fijos por categoria; suman 1.0.
var categoryWeights = map[domain.Category]float64{
	domain.CategoryAptitude:              0.20,
	domain.CategoryInterests:             0.30,
	domain.CategoryPersonality:           0.20,
	domain.CategoryEmotionalIntelligence: 0.15,
	domain.CategorySkillsReadiness:       0.15,
}

const (
	matchJitterRange       = 10.0
	interestOverlapBonus   = 10.0
	graduateBonus          = 8.0
	studentGrowthBonus     = 6.0
	professionalRoleBonus  = 5.0
	careerChangerBonus     = 5.0
	entrySeniorPenalty     = -15.0
	seniorNonSeniorPenalty = -10.0
)

// Matcher rankea el catalogo completo contra los puntajes y el perfil del usuario.
type Matcher struct {
	rand RandomSource
}

func NewMatcher(r RandomSource) *Matcher {
	if r == nil {
		r = NewRandomSource(0)
	}
	return &Matcher{rand: r}
}

// Match devuelve una recomendacion por carrera, ordenada de mayor a menor; los
// empates conservan el orden del catalogo. El jitter se sortea por carrera en
// orden de catalogo.
func (m *Matcher) Match(scores map[domain.Category]domain.CategoryScore, careers []domain.Career, profile domain.CareerProfile) []domain.CareerRecommendation {
	base := weightedBase(scores)
	recs := make([]domain.CareerRecommendation, 0, len(careers))
	for _, career := range careers {
		score := base + m.rand.Float64()*matchJitterRange + profileAdjustment(career, profile)
		score = math.Max(0, math.Min(100, score))
		recs = append(recs, domain.CareerRecommendation{
			Career:          career,
			MatchPercentage: int(math.Round(score)),
		})
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MatchPercentage > recs[j].MatchPercentage
	})
	return recs
}

func weightedBase(scores map[domain.Category]domain.CategoryScore) float64 {
	var base float64
	for _, category := range domain.Categories() {
		base += float64(scores[category].Percentage) * categoryWeights[category]
	}
	return base
}

// profileAdjustment suma los bonus y penalizaciones que dependen del perfil.
func profileAdjustment(career domain.Career, profile domain.CareerProfile) float64 {
	var adj float64
	if anyOverlap(career.RequiredSkills, profile.Interests) {
		adj += interestOverlapBonus
	}

	switch profile.UserType {
	case domain.UserTypeGraduates:
		if strings.Contains(career.SalaryRange, "$100,000") || career.GrowthPotential == domain.GrowthVeryHigh {
			adj += graduateBonus
		}
	case domain.UserTypeStudents:
		if career.GrowthPotential == domain.GrowthHigh || career.GrowthPotential == domain.GrowthVeryHigh {
			adj += studentGrowthBonus
		}
	case domain.UserTypeProfessionals:
		if strings.Contains(career.Title, "Senior") || strings.Contains(career.Title, "Manager") {
			adj += professionalRoleBonus
		}
	case domain.UserTypeCareerChangers:
		if anyOverlap(career.RequiredSkills, profile.Skills) {
			adj += careerChangerBonus
		}
	}

	senior := strings.Contains(career.Title, "Senior")
	switch profile.Experience {
	case domain.ExperienceEntry:
		if senior {
			adj += entrySeniorPenalty
		}
	case domain.ExperienceSenior:
		if !senior {
			adj += seniorNonSeniorPenalty
		}
	}
	return adj
}

// anyOverlap compara por substring en ambas direcciones, sin distinguir
// mayusculas. Cadenas vacias nunca coinciden.
func anyOverlap(skills, terms []string) bool {
	for _, s := range skills {
		ls := strings.ToLower(strings.TrimSpace(s))
		if ls == "" {
			continue
		}
		for _, t := range terms {
			lt := strings.ToLower(strings.TrimSpace(t))
			if lt == "" {
				continue
			}
			if strings.Contains(ls, lt) || strings.Contains(lt, ls) {
				return true
			}
		}
	}
	return false
}
