package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"careerpath/internal/catalog"
	"careerpath/internal/domain"
	"careerpath/internal/llm"
	"careerpath/internal/metrics"
	"careerpath/internal/repository"
	"careerpath/internal/service"
)

type mockUserRepo struct {
	mu           sync.Mutex
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.usersByEmail[user.Email]; taken {
		return repository.ErrDuplicate
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	id, ok := m.usersByEmail[email]
	m.mu.Unlock()
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.usersByID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.usersByID[user.ID] = user
	return nil
}

type mockResultRepo struct {
	mu      sync.Mutex
	results map[string]domain.AssessmentResult
}

func newMockResultRepo() *mockResultRepo {
	return &mockResultRepo{results: make(map[string]domain.AssessmentResult)}
}

func (m *mockResultRepo) Create(_ context.Context, result domain.AssessmentResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[result.ID] = result
	return nil
}

func (m *mockResultRepo) GetByID(_ context.Context, id string) (domain.AssessmentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.results[id]
	if !ok {
		return domain.AssessmentResult{}, pgx.ErrNoRows
	}
	return result, nil
}

func (m *mockResultRepo) ListByUser(_ context.Context, userID string) ([]domain.AssessmentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AssessmentResult
	for _, r := range m.results {
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
	result, ok := m.results[id]
	if !ok {
		return pgx.ErrNoRows
	}
	result.Roadmap = roadmap
	m.results[id] = result
	return nil
}

type allowLimiter struct {
	allow bool
}

func (l allowLimiter) Allow(_ context.Context, _ string) bool {
	return l.allow
}

type testServer struct {
	router  *gin.Engine
	users   *mockUserRepo
	results *mockResultRepo
	llm     *llm.MockClient
	jwt     *service.JWTService
	metrics *metrics.Manager
}

type testServerOptions struct {
	limiter service.RequestLimiter
}

func newTestServer(t *testing.T, opts testServerOptions) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	m := metrics.NewManager()
	users := newMockUserRepo()
	results := newMockResultRepo()
	mockLLM := &llm.MockClient{}
	jwtSvc := service.NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, service.NewMemoryRefreshTokenStore())

	userSvc := service.NewUserService(logger, users)
	assessSvc := service.NewAssessmentService(service.AssessmentServiceDeps{
		Logger:   logger,
		Catalog:  cat,
		Engine:   service.NewCareerEngine(cat, service.NewRandomSource(42), 5),
		Sessions: service.NewMemorySessionStore(time.Hour),
		Results:  results,
		Metrics:  m,
	})
	limiter := opts.limiter
	if limiter == nil {
		limiter = allowLimiter{allow: true}
	}
	search := service.NewCareerSearch(logger, cat, nil, nil, m)
	generator := service.NewQuestionGenerator(logger, mockLLM, limiter, m)

	router := NewRouter(RouterDeps{
		Logger:      logger,
		Metrics:     m,
		JWT:         jwtSvc,
		Users:       NewUserHandler(logger, userSvc, jwtSvc),
		Assessments: NewAssessmentHandler(logger, assessSvc, userSvc),
		Catalog:     NewCatalogHandler(logger, cat, search, generator),
	})
	return &testServer{
		router:  router,
		users:   users,
		results: results,
		llm:     mockLLM,
		jwt:     jwtSvc,
		metrics: m,
	}
}

// register crea un usuario por HTTP y devuelve su access token.
func (s *testServer) register(t *testing.T, email string, profile domain.CareerProfile) (domain.User, service.TokenPair) {
	t.Helper()
	rec := performRequest(s.router, http.MethodPost, "/users", map[string]any{
		"email":        email,
		"password":     "supersecret",
		"display_name": "Test",
		"profile":      profile,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		User   domain.User       `json:"user"`
		Tokens service.TokenPair `json:"tokens"`
	}
	decodeBody(t, rec, &resp)
	return resp.User, resp.Tokens
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	return performAuthRequest(r, method, path, "", body)
}

func performAuthRequest(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}
