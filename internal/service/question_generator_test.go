package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"careerpath/internal/domain"
	"careerpath/internal/llm"
)

const generatedReply = `Here you go:
{"questions":[
  {"text":"Do you enjoy sketching ideas?","type":"scale","options":[
    {"text":"Never","value":-3,"trait":"practical"},
    {"text":"Always","value":42,"trait":"creative"}]},
  {"text":"   ","options":[{"text":"x","value":1}]},
  {"text":"No options here","options":[]},
  {"text":"Pick a weekend plan","type":"weird","options":[
    {"text":"Museum","value":7,"trait":"curious"},
    {"text":"","value":3}]}
]}`

func TestQuestionGenerator_Generate(t *testing.T) {
	mock := &llm.MockClient{Response: generatedReply}
	g := NewQuestionGenerator(zap.NewNop(), mock, NewMemoryRequestLimiter(time.Hour, 5), nil)

	qs, err := g.Generate(context.Background(), "u1", domain.CategoryInterests, 3)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 usable questions, got %d: %+v", len(qs), qs)
	}
	for _, q := range qs {
		if !strings.HasPrefix(q.ID, "ai-interests-") || q.Category != domain.CategoryInterests {
			t.Fatalf("unexpected id/category: %+v", q)
		}
		for _, o := range q.Options {
			if o.Value < 0 || o.Value > domain.MaxOptionValue {
				t.Fatalf("option value not clamped: %+v", o)
			}
		}
	}
	if qs[0].Type != domain.QuestionScale || qs[0].Options[0].Value != 0 || qs[0].Options[1].Value != 10 || qs[0].Options[1].Trait != "creative" {
		t.Fatalf("unexpected first question: %+v", qs[0])
	}
	if qs[1].Type != domain.QuestionSingleChoice || len(qs[1].Options) != 1 {
		t.Fatalf("unexpected second question: %+v", qs[1])
	}
	if qs[0].ID == qs[1].ID {
		t.Fatalf("expected unique ids")
	}
	if !strings.Contains(mock.Prompts[0], "Write 3 ") {
		t.Fatalf("unexpected prompt: %s", mock.Prompts[0])
	}
}

func TestQuestionGenerator_QuestionsAreNotAnswerable(t *testing.T) {
	g := NewQuestionGenerator(zap.NewNop(), &llm.MockClient{Response: generatedReply}, nil, nil)
	qs, err := g.Generate(context.Background(), "u1", domain.CategoryInterests, 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	bank := mustCatalog(t)
	now := time.Now().UTC()
	session := StartSession("u1", bank, now)
	if _, err := Answer(session, bank, qs[0].ID, qs[0].Options[0].Value, now); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("expected generated question outside the bank, got %v", err)
	}
}

func TestQuestionGenerator_ClampsCountAndDropsTraits(t *testing.T) {
	mock := &llm.MockClient{Response: generatedReply}
	g := NewQuestionGenerator(zap.NewNop(), mock, nil, nil)

	qs, err := g.Generate(context.Background(), "u1", domain.CategoryAptitude, 0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("expected count clamped to 1, got %d", len(qs))
	}
	if qs[0].Options[1].Trait != "" {
		t.Fatalf("expected traits dropped outside interests/personality, got %+v", qs[0].Options)
	}

	if _, err := g.Generate(context.Background(), "u1", domain.CategoryAptitude, 99); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(mock.Prompts[1], "Write 10 ") {
		t.Fatalf("expected count clamped to 10, got prompt %s", mock.Prompts[1])
	}
}

func TestQuestionGenerator_Errors(t *testing.T) {
	ctx := context.Background()

	var nilGen *QuestionGenerator
	if _, err := nilGen.Generate(ctx, "u1", domain.CategoryAptitude, 1); !errors.Is(err, ErrGeneratorNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}

	g := NewQuestionGenerator(zap.NewNop(), &llm.MockClient{Response: generatedReply}, NewMemoryRequestLimiter(time.Hour, 1), nil)
	if _, err := g.Generate(ctx, "u1", domain.Category(0), 1); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if _, err := g.Generate(ctx, "u1", domain.CategoryAptitude, 1); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := g.Generate(ctx, "u1", domain.CategoryAptitude, 1); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	bad := NewQuestionGenerator(zap.NewNop(), &llm.MockClient{Response: `{"questions":[]}`}, nil, nil)
	if _, err := bad.Generate(ctx, "u2", domain.CategoryAptitude, 1); !errors.Is(err, ErrNoQuestionsGenerated) {
		t.Fatalf("expected ErrNoQuestionsGenerated, got %v", err)
	}

	failing := NewQuestionGenerator(zap.NewNop(), &llm.MockClient{Err: errors.New("boom")}, nil, nil)
	if _, err := failing.Generate(ctx, "u3", domain.CategoryAptitude, 1); err == nil {
		t.Fatalf("expected llm error")
	}
}
