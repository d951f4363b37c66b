package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"careerpath/internal/domain"
	"careerpath/internal/llm"
	"careerpath/internal/metrics"
)

var (
	ErrRateLimited            = errors.New("rate limited")
	ErrGeneratorNotConfigured = errors.New("question generator not configured")
	ErrNoQuestionsGenerated   = errors.New("llm produced no usable questions")
)

const (
	minGeneratedQuestions  = 1
	maxGeneratedQuestions  = 10
	defaultGenerateTimeout = 30 * time.Second
)

// QuestionGenerator pide al modelo preguntas nuevas para una categoria.
type QuestionGenerator struct {
	logger  *zap.Logger
	llm     llm.LLMClient
	limiter RequestLimiter
	metrics *metrics.Manager
	timeout time.Duration
}

func NewQuestionGenerator(logger *zap.Logger, client llm.LLMClient, limiter RequestLimiter, m *metrics.Manager) *QuestionGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = NewMemoryRequestLimiter(time.Hour, 10)
	}
	return &QuestionGenerator{
		logger:  logger,
		llm:     client,
		limiter: limiter,
		metrics: m,
		timeout: defaultGenerateTimeout,
	}
}

type generatedQuestions struct {
	Questions []struct {
		Text    string `json:"text"`
		Type    string `json:"type"`
		Options []struct {
			Text  string `json:"text"`
			Value int    `json:"value"`
			Trait string `json:"trait"`
		} `json:"options"`
	} `json:"questions"`
}

// Generate devuelve hasta count preguntas (acotado a [1,10]) de la categoria pedida.
// Las preguntas son solo de muestra: no entran al banco y Answer las rechaza.
func (g *QuestionGenerator) Generate(ctx context.Context, userID string, category domain.Category, count int) ([]domain.Question, error) {
	if g == nil || g.llm == nil {
		return nil, ErrGeneratorNotConfigured
	}
	if !category.Valid() {
		return nil, domain.ErrUnknownCategory
	}
	count = clampInt(count, minGeneratedQuestions, maxGeneratedQuestions)
	if !g.limiter.Allow(ctx, userID) {
		return nil, ErrRateLimited
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	raw, err := g.llm.Generate(ctx, buildQuestionPrompt(category, count))
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	var reply generatedQuestions
	if err := decodeLLMJSON(raw, &reply); err != nil {
		g.logger.Warn("question reply not parseable", zap.Error(err), zap.String("category", category.String()))
		return nil, ErrNoQuestionsGenerated
	}

	questions := make([]domain.Question, 0, count)
	for _, item := range reply.Questions {
		if len(questions) == count {
			break
		}
		text := strings.TrimSpace(item.Text)
		if text == "" || len(item.Options) == 0 {
			continue
		}
		q := domain.Question{
			ID:       "ai-" + category.String() + "-" + uuid.NewString(),
			Category: category,
			Text:     text,
			Type:     domain.QuestionType(strings.ToLower(strings.TrimSpace(item.Type))),
		}
		if !q.Type.Valid() {
			q.Type = domain.QuestionSingleChoice
		}
		for _, o := range item.Options {
			optText := strings.TrimSpace(o.Text)
			if optText == "" {
				continue
			}
			opt := domain.Option{Text: optText, Value: clampInt(o.Value, 0, domain.MaxOptionValue)}
			if category == domain.CategoryInterests || category == domain.CategoryPersonality {
				opt.Trait = strings.TrimSpace(o.Trait)
			}
			q.Options = append(q.Options, opt)
		}
		if len(q.Options) == 0 {
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestionsGenerated
	}
	g.metrics.QuestionsGenerated(len(questions))
	return questions, nil
}

func buildQuestionPrompt(category domain.Category, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d multiple-choice questions for the %q section of a career assessment.\n", count, category.String())
	b.WriteString("Each question needs 3 to 5 options. Each option has a numeric value from 0 to 10 where 10 is the strongest signal.\n")
	if category == domain.CategoryInterests || category == domain.CategoryPersonality {
		b.WriteString("Each option also carries a short trait label.\n")
	}
	b.WriteString("Reply ONLY with JSON of the form ")
	b.WriteString(`{"questions":[{"text":"...","type":"single-choice","options":[{"text":"...","value":0,"trait":"..."}]}]}`)
	return b.String()
}
