package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"swipe-market/internal/domain"
)

// SyntheticTestRepository persiste corridas completas; personas y resultados van como JSONB.
type SyntheticTestRepository interface {
	Create(ctx context.Context, test domain.SyntheticTest) error
	GetByID(ctx context.Context, id string) (domain.SyntheticTest, error)
	ListByFounder(ctx context.Context, founderID string) ([]domain.SyntheticTest, error)
}

type PgSyntheticTestRepository struct {
	pool *pgxpool.Pool
}

func NewPgSyntheticTestRepository(pool *pgxpool.Pool) *PgSyntheticTestRepository {
	return &PgSyntheticTestRepository{pool: pool}
}

const syntheticTestColumns = `id, product_id, founder_id, persona_count, synthetic_personas, results, status, processing_time_seconds, test_date`

func (r *PgSyntheticTestRepository) Create(ctx context.Context, t domain.SyntheticTest) error {
	const query = `
		INSERT INTO ai_synthetic_tests (
			id, product_id, founder_id, persona_count, synthetic_personas, results, status, processing_time_seconds, test_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		t.ID,
		t.ProductID,
		t.FounderID,
		t.PersonaCount,
		t.SyntheticPersonas,
		t.Results,
		t.Status,
		t.ProcessingTimeSeconds,
		t.TestDate,
	)
	return err
}

func (r *PgSyntheticTestRepository) GetByID(ctx context.Context, id string) (domain.SyntheticTest, error) {
	query := `SELECT ` + syntheticTestColumns + ` FROM ai_synthetic_tests WHERE id = $1`
	return scanSyntheticTest(r.pool.QueryRow(ctx, query, id))
}

func (r *PgSyntheticTestRepository) ListByFounder(ctx context.Context, founderID string) ([]domain.SyntheticTest, error) {
	query := `SELECT ` + syntheticTestColumns + ` FROM ai_synthetic_tests WHERE founder_id = $1 ORDER BY test_date DESC`
	rows, err := r.pool.Query(ctx, query, founderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []domain.SyntheticTest
	for rows.Next() {
		t, err := scanSyntheticTest(rows)
		if err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

func scanSyntheticTest(row pgx.Row) (domain.SyntheticTest, error) {
	var t domain.SyntheticTest
	err := row.Scan(
		&t.ID,
		&t.ProductID,
		&t.FounderID,
		&t.PersonaCount,
		&t.SyntheticPersonas,
		&t.Results,
		&t.Status,
		&t.ProcessingTimeSeconds,
		&t.TestDate,
	)
	if err != nil {
		return domain.SyntheticTest{}, err
	}
	return t, nil
}
