package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"careerpath/internal/domain"
	"careerpath/internal/llm"
	"careerpath/internal/metrics"
	"careerpath/internal/repository"
)

var (
	ErrEmptyQuery             = errors.New("search query is empty")
	ErrSearchIndexUnavailable = errors.New("career embeddings not configured")
)

const (
	defaultSearchResults = 5
	maxSearchResults     = 20
)

// CareerLookup es la vista del catalogo que usa la busqueda.
type CareerLookup interface {
	Careers() []domain.Career
	Career(id string) (domain.Career, bool)
}

// CareerSearch busca carreras por similitud semantica y cae a coincidencia por
// palabras cuando no hay embeddings disponibles.
type CareerSearch struct {
	logger   *zap.Logger
	catalog  CareerLookup
	embedder llm.Embedder
	store    repository.CareerEmbeddingRepository
	metrics  *metrics.Manager
}

func NewCareerSearch(logger *zap.Logger, catalog CareerLookup, embedder llm.Embedder, store repository.CareerEmbeddingRepository, m *metrics.Manager) *CareerSearch {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CareerSearch{
		logger:   logger,
		catalog:  catalog,
		embedder: embedder,
		store:    store,
		metrics:  m,
	}
}

func (s *CareerSearch) semanticEnabled() bool {
	return s.embedder != nil && s.store != nil
}

// Reindex embebe todas las carreras del catalogo en una sola llamada y hace upsert.
func (s *CareerSearch) Reindex(ctx context.Context) (int, error) {
	if !s.semanticEnabled() {
		return 0, ErrSearchIndexUnavailable
	}
	careers := s.catalog.Careers()
	if len(careers) == 0 {
		return 0, nil
	}
	docs := make([]string, len(careers))
	for i, c := range careers {
		docs[i] = careerDocument(c)
	}
	vectors, err := s.embedder.Embed(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("embed careers: %w", err)
	}
	if len(vectors) != len(careers) {
		return 0, fmt.Errorf("embed careers: expected %d vectors, got %d", len(careers), len(vectors))
	}
	for i, c := range careers {
		if err := s.store.Upsert(ctx, c.ID, docs[i], pgvector.NewVector(vectors[i])); err != nil {
			return i, fmt.Errorf("upsert %s: %w", c.ID, err)
		}
	}
	s.logger.Info("career embeddings reindexed", zap.Int("careers", len(careers)))
	return len(careers), nil
}

// Search devuelve hasta k carreras (default 5, maximo 20) para el texto dado.
func (s *CareerSearch) Search(ctx context.Context, query string, k int) ([]domain.Career, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 {
		k = defaultSearchResults
	}
	if k > maxSearchResults {
		k = maxSearchResults
	}

	if s.semanticEnabled() {
		careers, err := s.semanticSearch(ctx, query, k)
		if err == nil && len(careers) > 0 {
			return careers, nil
		}
		if err != nil {
			s.logger.Warn("semantic career search failed, using keywords", zap.Error(err))
		}
	}
	s.metrics.SearchFallback()
	return s.keywordSearch(query, k), nil
}

func (s *CareerSearch) semanticSearch(ctx context.Context, query string, k int) ([]domain.Career, error) {
	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, llm.ErrEmptyResponse
	}
	matches, err := s.store.Nearest(ctx, pgvector.NewVector(vectors[0]), k)
	if err != nil {
		return nil, err
	}
	careers := make([]domain.Career, 0, len(matches))
	for _, m := range matches {
		// filas de carreras retiradas del catalogo se ignoran
		if c, ok := s.catalog.Career(m.CareerID); ok {
			careers = append(careers, c)
		}
	}
	return careers, nil
}

// keywordSearch exige que cada termino aparezca en titulo, descripcion o skills.
func (s *CareerSearch) keywordSearch(query string, k int) []domain.Career {
	terms := strings.Fields(strings.ToLower(query))
	out := make([]domain.Career, 0, k)
	for _, c := range s.catalog.Careers() {
		if len(out) == k {
			break
		}
		doc := strings.ToLower(careerDocument(c))
		matched := true
		for _, t := range terms {
			if !strings.Contains(doc, t) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, c)
		}
	}
	return out
}

func careerDocument(c domain.Career) string {
	return c.Title + ". " + c.Description + " Skills: " + strings.Join(c.RequiredSkills, ", ")
}
