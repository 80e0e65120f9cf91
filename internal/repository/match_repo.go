package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"swipe-market/internal/domain"
)

type MatchRepository interface {
	// CreateIfAbsent devuelve created=false si el match ya existia.
	CreateIfAbsent(ctx context.Context, match domain.Match) (domain.Match, bool, error)
	GetByID(ctx context.Context, id string) (domain.Match, error)
	ListByInvestor(ctx context.Context, investorID string) ([]domain.Match, error)
	ListByFounder(ctx context.Context, founderID string) ([]domain.Match, error)
}

type PgMatchRepository struct {
	pool *pgxpool.Pool
}

func NewPgMatchRepository(pool *pgxpool.Pool) *PgMatchRepository {
	return &PgMatchRepository{pool: pool}
}

const matchColumns = `id, founder_id, investor_id, product_id, status, matched_at, updated_at`

func (r *PgMatchRepository) CreateIfAbsent(ctx context.Context, m domain.Match) (domain.Match, bool, error) {
	query := `
		INSERT INTO matches (id, founder_id, investor_id, product_id, status, matched_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (investor_id, product_id) DO NOTHING
		RETURNING ` + matchColumns
	created, err := scanMatch(r.pool.QueryRow(ctx, query, m.ID, m.FounderID, m.InvestorID, m.ProductID, m.Status, m.MatchedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Match{}, false, nil
	}
	if err != nil {
		return domain.Match{}, false, err
	}

	const bump = `UPDATE products SET match_count = match_count + 1 WHERE id = $1`
	if _, err := r.pool.Exec(ctx, bump, m.ProductID); err != nil {
		return created, true, err
	}
	return created, true, nil
}

func (r *PgMatchRepository) GetByID(ctx context.Context, id string) (domain.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return scanMatch(r.pool.QueryRow(ctx, query, id))
}

func (r *PgMatchRepository) ListByInvestor(ctx context.Context, investorID string) ([]domain.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE investor_id = $1 ORDER BY matched_at DESC`
	return r.list(ctx, query, investorID)
}

func (r *PgMatchRepository) ListByFounder(ctx context.Context, founderID string) ([]domain.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE founder_id = $1 ORDER BY matched_at DESC`
	return r.list(ctx, query, founderID)
}

func (r *PgMatchRepository) list(ctx context.Context, query, arg string) ([]domain.Match, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func scanMatch(row pgx.Row) (domain.Match, error) {
	var m domain.Match
	if err := row.Scan(&m.ID, &m.FounderID, &m.InvestorID, &m.ProductID, &m.Status, &m.MatchedAt, &m.UpdatedAt); err != nil {
		return domain.Match{}, err
	}
	return m, nil
}
