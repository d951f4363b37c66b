package service

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"careerpath/internal/domain"
	"careerpath/internal/metrics"
)

type mockResultRepo struct {
	mu        sync.Mutex
	items     map[string]domain.AssessmentResult
	createErr error
}

func newMockResultRepo() *mockResultRepo {
	return &mockResultRepo{items: make(map[string]domain.AssessmentResult)}
}

func (m *mockResultRepo) Create(_ context.Context, r domain.AssessmentResult) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[r.ID] = r
	return nil
}

func (m *mockResultRepo) GetByID(_ context.Context, id string) (domain.AssessmentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return domain.AssessmentResult{}, pgx.ErrNoRows
	}
	return r, nil
}

func (m *mockResultRepo) ListByUser(_ context.Context, userID string) ([]domain.AssessmentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AssessmentResult
	for _, r := range m.items {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

func (m *mockResultRepo) UpdateRoadmap(_ context.Context, id string, roadmap []domain.RoadmapStep) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	r.Roadmap = roadmap
	m.items[id] = r
	return nil
}

type stubEnricher struct {
	calls int
}

func (e *stubEnricher) Enrich(_ context.Context, recs []domain.CareerRecommendation, _ map[domain.Category]domain.CategoryScore, _ domain.CareerProfile) []domain.CareerRecommendation {
	e.calls++
	out := make([]domain.CareerRecommendation, len(recs))
	for i, r := range recs {
		r.Reasoning = "enriched"
		out[i] = r
	}
	return out
}

func newTestAssessmentService(t *testing.T) (*AssessmentService, *mockResultRepo, *stubEnricher) {
	t.Helper()
	cat := mustCatalog(t)
	repo := newMockResultRepo()
	enricher := &stubEnricher{}
	svc := NewAssessmentService(AssessmentServiceDeps{
		Logger:   zap.NewNop(),
		Catalog:  cat,
		Engine:   NewCareerEngine(cat, NewRandomSource(11), 5),
		Results:  repo,
		Enricher: enricher,
		Metrics:  metrics.NewManager(),
	})
	return svc, repo, enricher
}

func TestAssessmentService_FullFlow(t *testing.T) {
	ctx := context.Background()
	svc, repo, enricher := newTestAssessmentService(t)

	session, err := svc.Start(ctx, "u1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	view := svc.View(session)
	if view.Question == nil || view.Question.ID != "apt-1" || view.Answered != 0 || view.Total == 0 {
		t.Fatalf("unexpected initial view: %+v", view)
	}

	for {
		q, ok := CurrentQuestion(session, svc.catalog)
		if !ok {
			t.Fatalf("expected a current question")
		}
		if session, err = svc.Answer(ctx, "u1", session.ID, q.ID, q.Options[0].Value); err != nil {
			t.Fatalf("answer %s: %v", q.ID, err)
		}
		var moved bool
		session, moved, err = svc.Next(ctx, "u1", session.ID)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if !moved {
			break
		}
	}
	if answered, total := Progress(session, svc.catalog); answered != total {
		t.Fatalf("expected every question answered, got %d/%d", answered, total)
	}

	result, err := svc.Complete(ctx, "u1", session.ID, domain.CareerProfile{Skills: []string{"SQL"}})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if result.ID == "" || result.UserID != "u1" || len(result.Recommendations) != 5 || len(result.Roadmap) == 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if enricher.calls != 1 || result.Recommendations[0].Reasoning != "enriched" {
		t.Fatalf("expected enrichment to be applied once")
	}
	if _, ok := repo.items[result.ID]; !ok {
		t.Fatalf("expected result persisted")
	}
	if _, err := svc.Session(ctx, "u1", session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session discarded after completion, got %v", err)
	}
}

func TestAssessmentService_CompleteWithoutAnswers(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAssessmentService(t)
	session, _ := svc.Start(ctx, "u1")

	result, err := svc.Complete(ctx, "u1", session.ID, domain.CareerProfile{})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	for _, c := range domain.Categories() {
		if result.CategoryScores[c].Percentage != 0 {
			t.Fatalf("expected zero scores, got %+v", result.CategoryScores)
		}
	}
}

func TestAssessmentService_CompleteNormalizesProfile(t *testing.T) {
	ctx := context.Background()
	complete := func(profile domain.CareerProfile) []int {
		t.Helper()
		svc, _, _ := newTestAssessmentService(t)
		session, _ := svc.Start(ctx, "u1")
		result, err := svc.Complete(ctx, "u1", session.ID, profile)
		if err != nil {
			t.Fatalf("complete: %v", err)
		}
		out := make([]int, len(result.Recommendations))
		for i, r := range result.Recommendations {
			out[i] = r.MatchPercentage
		}
		return out
	}

	lower := complete(domain.CareerProfile{UserType: "graduates", Experience: "entry"})
	mixed := complete(domain.CareerProfile{UserType: " Graduates", Experience: "Entry "})
	plain := complete(domain.CareerProfile{})
	if !reflect.DeepEqual(lower, mixed) {
		t.Fatalf("expected mixed-case profile to score like lowercase: %v vs %v", mixed, lower)
	}
	if reflect.DeepEqual(lower, plain) {
		t.Fatalf("expected graduate/entry adjustments to change scores, got %v", lower)
	}
}

func TestAssessmentService_CompleteRejectsInvalidProfile(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestAssessmentService(t)
	session, _ := svc.Start(ctx, "u1")

	if _, err := svc.Complete(ctx, "u1", session.ID, domain.CareerProfile{UserType: "retirees"}); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatalf("expected nothing persisted")
	}
	if _, err := svc.Session(ctx, "u1", session.ID); err != nil {
		t.Fatalf("expected session kept after rejected profile, got %v", err)
	}
}

func TestAssessmentService_ForeignSessionIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAssessmentService(t)
	session, _ := svc.Start(ctx, "owner")

	if _, err := svc.Answer(ctx, "intruder", session.ID, "apt-1", 10); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Complete(ctx, "intruder", session.ID, domain.CareerProfile{}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAssessmentService_PersistFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestAssessmentService(t)
	repo.createErr = errors.New("db down")
	session, _ := svc.Start(ctx, "u1")

	if _, err := svc.Complete(ctx, "u1", session.ID, domain.CareerProfile{}); err == nil {
		t.Fatalf("expected persistence error")
	}
	if _, err := svc.Session(ctx, "u1", session.ID); err != nil {
		t.Fatalf("expected session to survive failed completion, got %v", err)
	}
}

func TestAssessmentService_PreviousAtStart(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAssessmentService(t)
	session, _ := svc.Start(ctx, "u1")

	got, moved, err := svc.Previous(ctx, "u1", session.ID)
	if err != nil || moved {
		t.Fatalf("expected no-op, got moved=%v err=%v", moved, err)
	}
	if got.CurrentIndex != 0 || got.CurrentCategory != domain.CategoryAptitude {
		t.Fatalf("unexpected position: %+v", got)
	}
}

func TestAssessmentService_HistoryCurrentAndSteps(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestAssessmentService(t)
	old := time.Now().UTC().Add(-time.Hour)
	repo.items["r-old"] = domain.AssessmentResult{ID: "r-old", UserID: "u1", CompletedAt: old}
	repo.items["r-new"] = domain.AssessmentResult{
		ID: "r-new", UserID: "u1", CompletedAt: old.Add(30 * time.Minute),
		Roadmap: []domain.RoadmapStep{{ID: "phase-1"}, {ID: "phase-2"}},
	}
	repo.items["r-other"] = domain.AssessmentResult{ID: "r-other", UserID: "u2", CompletedAt: time.Now().UTC()}

	history, err := svc.History(ctx, "u1")
	if err != nil || len(history) != 2 || history[0].ID != "r-new" {
		t.Fatalf("unexpected history: %+v err=%v", history, err)
	}
	current, err := svc.Current(ctx, "u1")
	if err != nil || current.ID != "r-new" {
		t.Fatalf("unexpected current: %+v err=%v", current, err)
	}
	if _, err := svc.Current(ctx, "nobody"); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("expected ErrResultNotFound, got %v", err)
	}
	if _, err := svc.Result(ctx, "u1", "r-other"); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("expected foreign result hidden, got %v", err)
	}

	updated, err := svc.SetStepCompleted(ctx, "u1", "r-new", "phase-2", true)
	if err != nil {
		t.Fatalf("set step: %v", err)
	}
	if !updated.Roadmap[1].Completed || updated.Roadmap[0].Completed {
		t.Fatalf("unexpected roadmap: %+v", updated.Roadmap)
	}
	if !repo.items["r-new"].Roadmap[1].Completed {
		t.Fatalf("expected roadmap persisted")
	}
	if _, err := svc.SetStepCompleted(ctx, "u1", "r-new", "phase-9", true); !errors.Is(err, ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}
}

func TestAssessmentService_NotConfigured(t *testing.T) {
	var svc *AssessmentService
	if _, err := svc.Start(context.Background(), "u1"); !errors.Is(err, ErrAssessmentServiceNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
	empty := NewAssessmentService(AssessmentServiceDeps{})
	if _, err := empty.History(context.Background(), "u1"); !errors.Is(err, ErrAssessmentServiceNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
}
