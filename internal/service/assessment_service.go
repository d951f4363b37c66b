package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"careerpath/internal/domain"
	"careerpath/internal/metrics"
	"careerpath/internal/repository"
)

var (
	ErrAssessmentServiceNotConfigured = errors.New("assessment service not configured")
	ErrResultNotFound                 = errors.New("assessment result not found")
	ErrStepNotFound                   = errors.New("roadmap step not found")
)

// RecommendationEnricher reescribe los textos de las recomendaciones. Nunca
// falla: ante cualquier error devuelve la lista recibida.
type RecommendationEnricher interface {
	Enrich(ctx context.Context, recs []domain.CareerRecommendation, scores map[domain.Category]domain.CategoryScore, profile domain.CareerProfile) []domain.CareerRecommendation
}

// AssessmentCatalog es lo que el servicio necesita del catalogo estatico.
type AssessmentCatalog interface {
	QuestionBank
	CareerCatalog
}

// AssessmentService orquesta el flujo start -> answer -> next/previous -> complete.
type AssessmentService struct {
	logger   *zap.Logger
	catalog  AssessmentCatalog
	engine   *CareerEngine
	sessions SessionStore
	results  repository.ResultRepository
	enricher RecommendationEnricher
	metrics  *metrics.Manager
	now      func() time.Time
}

type AssessmentServiceDeps struct {
	Logger   *zap.Logger
	Catalog  AssessmentCatalog
	Engine   *CareerEngine
	Sessions SessionStore
	Results  repository.ResultRepository
	Enricher RecommendationEnricher
	Metrics  *metrics.Manager
}

func NewAssessmentService(deps AssessmentServiceDeps) *AssessmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sessions := deps.Sessions
	if sessions == nil {
		sessions = NewMemorySessionStore(defaultSessionTTL)
	}
	engine := deps.Engine
	if engine == nil && deps.Catalog != nil {
		engine = NewCareerEngine(deps.Catalog, NewRandomSource(0), defaultTopRecommendations)
	}
	return &AssessmentService{
		logger:   logger,
		catalog:  deps.Catalog,
		engine:   engine,
		sessions: sessions,
		results:  deps.Results,
		enricher: deps.Enricher,
		metrics:  deps.Metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SessionView es la sesion junto con la pregunta actual y el progreso.
type SessionView struct {
	Session  domain.AssessmentSession `json:"session"`
	Question *domain.Question         `json:"question,omitempty"`
	Answered int                      `json:"answered"`
	Total    int                      `json:"total"`
}

func (s *AssessmentService) View(session domain.AssessmentSession) SessionView {
	view := SessionView{Session: session}
	if s.catalog == nil {
		return view
	}
	if q, ok := CurrentQuestion(session, s.catalog); ok {
		view.Question = &q
	}
	view.Answered, view.Total = Progress(session, s.catalog)
	return view
}

func (s *AssessmentService) Start(ctx context.Context, userID string) (domain.AssessmentSession, error) {
	if s == nil || s.catalog == nil {
		return domain.AssessmentSession{}, ErrAssessmentServiceNotConfigured
	}
	session := StartSession(strings.TrimSpace(userID), s.catalog, s.now())
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("save session: %w", err)
	}
	s.metrics.SessionStarted()
	return session, nil
}

// Session devuelve la sesion si pertenece a userID. Sesiones ajenas se
// reportan como inexistentes.
func (s *AssessmentService) Session(ctx context.Context, userID, sessionID string) (domain.AssessmentSession, error) {
	if s == nil || s.catalog == nil {
		return domain.AssessmentSession{}, ErrAssessmentServiceNotConfigured
	}
	session, err := s.sessions.Get(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return domain.AssessmentSession{}, err
	}
	if session.UserID != userID {
		return domain.AssessmentSession{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *AssessmentService) Answer(ctx context.Context, userID, sessionID, questionID string, value int) (domain.AssessmentSession, error) {
	session, err := s.Session(ctx, userID, sessionID)
	if err != nil {
		return domain.AssessmentSession{}, err
	}
	session, err = Answer(session, s.catalog, strings.TrimSpace(questionID), value, s.now())
	if err != nil {
		return domain.AssessmentSession{}, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("save session: %w", err)
	}
	s.metrics.AnswerRecorded()
	return session, nil
}

// Next y Previous devuelven moved=false cuando no hay adonde moverse; en ese
// caso la sesion no se vuelve a guardar.
func (s *AssessmentService) Next(ctx context.Context, userID, sessionID string) (domain.AssessmentSession, bool, error) {
	return s.move(ctx, userID, sessionID, Next)
}

func (s *AssessmentService) Previous(ctx context.Context, userID, sessionID string) (domain.AssessmentSession, bool, error) {
	return s.move(ctx, userID, sessionID, Previous)
}

type transition func(domain.AssessmentSession, QuestionBank, time.Time) (domain.AssessmentSession, bool)

func (s *AssessmentService) move(ctx context.Context, userID, sessionID string, step transition) (domain.AssessmentSession, bool, error) {
	session, err := s.Session(ctx, userID, sessionID)
	if err != nil {
		return domain.AssessmentSession{}, false, err
	}
	if session.Completed {
		return session, false, ErrSessionCompleted
	}
	session, moved := step(session, s.catalog, s.now())
	if !moved {
		return session, false, nil
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.AssessmentSession{}, false, fmt.Errorf("save session: %w", err)
	}
	return session, true, nil
}

// Complete puntua la sesion, arma el resultado, lo persiste y descarta la sesion.
func (s *AssessmentService) Complete(ctx context.Context, userID, sessionID string, profile domain.CareerProfile) (domain.AssessmentResult, error) {
	if s == nil || s.engine == nil || s.results == nil {
		return domain.AssessmentResult{}, ErrAssessmentServiceNotConfigured
	}
	session, err := s.Session(ctx, userID, sessionID)
	if err != nil {
		return domain.AssessmentResult{}, err
	}
	if session.Completed {
		return domain.AssessmentResult{}, ErrSessionCompleted
	}
	profile, err = NormalizeProfile(profile)
	if err != nil {
		return domain.AssessmentResult{}, err
	}

	started := time.Now()
	ev := s.engine.Evaluate(session.Answers, profile)
	recs := ev.Recommendations
	if s.enricher != nil && len(recs) > 0 {
		recs = s.enricher.Enrich(ctx, recs, ev.Scores, profile)
	}

	result := domain.AssessmentResult{
		ID:              uuid.NewString(),
		UserID:          session.UserID,
		CompletedAt:     s.now(),
		CategoryScores:  ev.Scores,
		Recommendations: recs,
		SkillGaps:       ev.SkillGaps,
		Roadmap:         ev.Roadmap,
	}
	if err := s.results.Create(ctx, result); err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("save result: %w", err)
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		s.logger.Warn("delete completed session failed", zap.Error(err), zap.String("session_id", session.ID))
	}

	s.metrics.AssessmentCompleted(time.Since(started))
	s.logger.Info("assessment completed",
		zap.String("user_id", result.UserID),
		zap.String("result_id", result.ID),
		zap.Int("answers", len(session.Answers)),
	)
	return result, nil
}

func (s *AssessmentService) History(ctx context.Context, userID string) ([]domain.AssessmentResult, error) {
	if s == nil || s.results == nil {
		return nil, ErrAssessmentServiceNotConfigured
	}
	results, err := s.results.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []domain.AssessmentResult{}
	}
	return results, nil
}

// Current es el resultado mas reciente del usuario.
func (s *AssessmentService) Current(ctx context.Context, userID string) (domain.AssessmentResult, error) {
	results, err := s.History(ctx, userID)
	if err != nil {
		return domain.AssessmentResult{}, err
	}
	if len(results) == 0 {
		return domain.AssessmentResult{}, ErrResultNotFound
	}
	latest := results[0]
	for _, r := range results[1:] {
		if r.CompletedAt.After(latest.CompletedAt) {
			latest = r
		}
	}
	return latest, nil
}

func (s *AssessmentService) Result(ctx context.Context, userID, resultID string) (domain.AssessmentResult, error) {
	if s == nil || s.results == nil {
		return domain.AssessmentResult{}, ErrAssessmentServiceNotConfigured
	}
	result, err := s.results.GetByID(ctx, strings.TrimSpace(resultID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AssessmentResult{}, ErrResultNotFound
		}
		return domain.AssessmentResult{}, err
	}
	if result.UserID != userID {
		return domain.AssessmentResult{}, ErrResultNotFound
	}
	return result, nil
}

// SetStepCompleted marca o desmarca un paso del roadmap; es la unica mutacion
// permitida sobre un resultado.
func (s *AssessmentService) SetStepCompleted(ctx context.Context, userID, resultID, stepID string, completed bool) (domain.AssessmentResult, error) {
	result, err := s.Result(ctx, userID, resultID)
	if err != nil {
		return domain.AssessmentResult{}, err
	}
	roadmap := domain.CloneSteps(result.Roadmap)
	found := false
	for i := range roadmap {
		if roadmap[i].ID == stepID {
			roadmap[i].Completed = completed
			found = true
			break
		}
	}
	if !found {
		return domain.AssessmentResult{}, ErrStepNotFound
	}
	if err := s.results.UpdateRoadmap(ctx, result.ID, roadmap); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AssessmentResult{}, ErrResultNotFound
		}
		return domain.AssessmentResult{}, err
	}
	result.Roadmap = roadmap
	return result, nil
}
