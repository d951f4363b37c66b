package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"careerpath/internal/domain"
	"careerpath/internal/llm"
	"careerpath/internal/metrics"
)

const (
	defaultEnrichTimeout = 20 * time.Second
	maxInsightsPerCareer = 4
)

// LLMRecommendationEnricher pide al modelo textos de justificacion por carrera.
// Solo se tocan Reasoning e Insights; ids, orden y porcentajes quedan intactos.
type LLMRecommendationEnricher struct {
	logger  *zap.Logger
	llm     llm.LLMClient
	metrics *metrics.Manager
	timeout time.Duration
}

func NewLLMRecommendationEnricher(logger *zap.Logger, client llm.LLMClient, m *metrics.Manager) *LLMRecommendationEnricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMRecommendationEnricher{
		logger:  logger,
		llm:     client,
		metrics: m,
		timeout: defaultEnrichTimeout,
	}
}

type enrichmentReply struct {
	Recommendations []struct {
		CareerID  string   `json:"career_id"`
		Reasoning string   `json:"reasoning"`
		Insights  []string `json:"insights"`
	} `json:"recommendations"`
}

func (e *LLMRecommendationEnricher) Enrich(ctx context.Context, recs []domain.CareerRecommendation, scores map[domain.Category]domain.CategoryScore, profile domain.CareerProfile) []domain.CareerRecommendation {
	if e == nil || e.llm == nil || len(recs) == 0 {
		return recs
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.llm.Generate(ctx, buildEnrichmentPrompt(recs, scores, profile))
	if err != nil {
		e.fail("llm generate failed", err)
		return recs
	}
	var reply enrichmentReply
	if err := decodeLLMJSON(raw, &reply); err != nil {
		e.fail("llm reply not parseable", err)
		return recs
	}

	byID := make(map[string]int, len(reply.Recommendations))
	for i, r := range reply.Recommendations {
		byID[strings.TrimSpace(r.CareerID)] = i
	}
	out := make([]domain.CareerRecommendation, len(recs))
	applied := 0
	for i, rec := range recs {
		out[i] = rec
		j, ok := byID[rec.Career.ID]
		if !ok {
			continue
		}
		item := reply.Recommendations[j]
		if reasoning := strings.TrimSpace(item.Reasoning); reasoning != "" {
			out[i].Reasoning = reasoning
		}
		if insights := cleanTerms(item.Insights); len(insights) > 0 {
			if len(insights) > maxInsightsPerCareer {
				insights = insights[:maxInsightsPerCareer]
			}
			out[i].Insights = insights
		}
		applied++
	}
	if applied == 0 {
		e.fail("llm reply matched no careers", nil)
		return recs
	}
	return out
}

func (e *LLMRecommendationEnricher) fail(msg string, err error) {
	e.metrics.EnrichmentFailed()
	e.logger.Warn(msg, zap.Error(err))
}

func buildEnrichmentPrompt(recs []domain.CareerRecommendation, scores map[domain.Category]domain.CategoryScore, profile domain.CareerProfile) string {
	type careerLine struct {
		ID     string   `json:"career_id"`
		Title  string   `json:"title"`
		Match  int      `json:"match_percentage"`
		Skills []string `json:"required_skills"`
	}
	careers := make([]careerLine, 0, len(recs))
	for _, r := range recs {
		careers = append(careers, careerLine{
			ID:     r.Career.ID,
			Title:  r.Career.Title,
			Match:  r.MatchPercentage,
			Skills: r.Career.RequiredSkills,
		})
	}
	pct := make(map[string]int, len(scores))
	for c, s := range scores {
		pct[c.String()] = s.Percentage
	}
	careersJSON, _ := json.Marshal(careers)
	scoresJSON, _ := json.Marshal(pct)

	var b strings.Builder
	b.WriteString("You are a career counselor. A user completed a career assessment.\n")
	fmt.Fprintf(&b, "Category percentages: %s\n", scoresJSON)
	fmt.Fprintf(&b, "User type: %s. Experience: %s.\n", valueOr(string(profile.UserType), "unknown"), valueOr(string(profile.Experience), "unknown"))
	fmt.Fprintf(&b, "Interests: %s. Skills: %s.\n", joinOr(profile.Interests, "none"), joinOr(profile.Skills, "none"))
	fmt.Fprintf(&b, "Recommended careers: %s\n", careersJSON)
	b.WriteString("For each career write a two-sentence reasoning and up to 3 short insights.\n")
	b.WriteString("Do not change ids or percentages. Reply ONLY with JSON of the form ")
	b.WriteString(`{"recommendations":[{"career_id":"...","reasoning":"...","insights":["..."]}]}`)
	return b.String()
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}
