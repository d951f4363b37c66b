package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// CareerMatch es un resultado de busqueda vectorial.
type CareerMatch struct {
	CareerID string
	Distance float64
}

type CareerEmbeddingRepository interface {
	Upsert(ctx context.Context, careerID, content string, embedding pgvector.Vector) error
	Nearest(ctx context.Context, query pgvector.Vector, k int) ([]CareerMatch, error)
}

type PgCareerEmbeddingRepository struct {
	pool *pgxpool.Pool
}

func NewPgCareerEmbeddingRepository(pool *pgxpool.Pool) *PgCareerEmbeddingRepository {
	return &PgCareerEmbeddingRepository{pool: pool}
}

func (r *PgCareerEmbeddingRepository) Upsert(ctx context.Context, careerID, content string, embedding pgvector.Vector) error {
	const query = `
		INSERT INTO career_embeddings (career_id, content, embedding, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (career_id) DO UPDATE
		SET content = EXCLUDED.content, embedding = EXCLUDED.embedding, updated_at = now()
	`
	_, err := r.pool.Exec(ctx, query, careerID, content, embedding)
	return err
}

// Nearest ordena por distancia coseno (operador <=>).
func (r *PgCareerEmbeddingRepository) Nearest(ctx context.Context, query pgvector.Vector, k int) ([]CareerMatch, error) {
	if k <= 0 {
		k = 5
	}
	const sql = `
		SELECT career_id, embedding <=> $1 AS distance
		FROM career_embeddings
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, sql, query, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCareerMatches(rows)
}

func scanCareerMatches(rows pgxRows) ([]CareerMatch, error) {
	var matches []CareerMatch
	for rows.Next() {
		var m CareerMatch
		if err := rows.Scan(&m.CareerID, &m.Distance); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}
