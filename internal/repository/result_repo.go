package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"careerpath/internal/domain"
)

// ResultRepository guarda el historial de assessments completados.
type ResultRepository interface {
	Create(ctx context.Context, result domain.AssessmentResult) error
	GetByID(ctx context.Context, id string) (domain.AssessmentResult, error)
	ListByUser(ctx context.Context, userID string) ([]domain.AssessmentResult, error)
	UpdateRoadmap(ctx context.Context, id string, roadmap []domain.RoadmapStep) error
}

type PgResultRepository struct {
	pool *pgxpool.Pool
}

func NewPgResultRepository(pool *pgxpool.Pool) *PgResultRepository {
	return &PgResultRepository{pool: pool}
}

const resultColumns = `id, user_id, completed_at, category_scores, recommendations, skill_gaps, roadmap`

func (r *PgResultRepository) Create(ctx context.Context, result domain.AssessmentResult) error {
	scores, err := json.Marshal(result.CategoryScores)
	if err != nil {
		return fmt.Errorf("encode category scores: %w", err)
	}
	recs, err := json.Marshal(result.Recommendations)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	gaps, err := json.Marshal(result.SkillGaps)
	if err != nil {
		return fmt.Errorf("encode skill gaps: %w", err)
	}
	roadmap, err := json.Marshal(result.Roadmap)
	if err != nil {
		return fmt.Errorf("encode roadmap: %w", err)
	}

	const query = `
		INSERT INTO assessment_results (` + resultColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.pool.Exec(ctx, query,
		result.ID,
		result.UserID,
		result.CompletedAt,
		scores,
		recs,
		gaps,
		roadmap,
	)
	return translateWriteErr(err)
}

func (r *PgResultRepository) GetByID(ctx context.Context, id string) (domain.AssessmentResult, error) {
	const query = `SELECT ` + resultColumns + ` FROM assessment_results WHERE id = $1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return domain.AssessmentResult{}, err
	}
	defer rows.Close()

	results, err := scanResults(rows)
	if err != nil {
		return domain.AssessmentResult{}, err
	}
	if len(results) == 0 {
		return domain.AssessmentResult{}, pgx.ErrNoRows
	}
	return results[0], nil
}

// ListByUser devuelve el historial del usuario, mas reciente primero.
func (r *PgResultRepository) ListByUser(ctx context.Context, userID string) ([]domain.AssessmentResult, error) {
	const query = `
		SELECT ` + resultColumns + `
		FROM assessment_results
		WHERE user_id = $1
		ORDER BY completed_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResults(rows)
}

func (r *PgResultRepository) UpdateRoadmap(ctx context.Context, id string, roadmap []domain.RoadmapStep) error {
	payload, err := json.Marshal(roadmap)
	if err != nil {
		return fmt.Errorf("encode roadmap: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `UPDATE assessment_results SET roadmap = $2 WHERE id = $1`, id, payload)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanResults(rows pgxRows) ([]domain.AssessmentResult, error) {
	var results []domain.AssessmentResult
	for rows.Next() {
		var res domain.AssessmentResult
		var scores, recs, gaps, roadmap []byte
		if err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.CompletedAt,
			&scores,
			&recs,
			&gaps,
			&roadmap,
		); err != nil {
			return nil, err
		}
		if err := decodeResultColumns(&res, scores, recs, gaps, roadmap); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func decodeResultColumns(res *domain.AssessmentResult, scores, recs, gaps, roadmap []byte) error {
	if err := json.Unmarshal(scores, &res.CategoryScores); err != nil {
		return fmt.Errorf("decode category scores: %w", err)
	}
	if err := json.Unmarshal(recs, &res.Recommendations); err != nil {
		return fmt.Errorf("decode recommendations: %w", err)
	}
	if err := json.Unmarshal(gaps, &res.SkillGaps); err != nil {
		return fmt.Errorf("decode skill gaps: %w", err)
	}
	if err := json.Unmarshal(roadmap, &res.Roadmap); err != nil {
		return fmt.Errorf("decode roadmap: %w", err)
	}
	return nil
}
