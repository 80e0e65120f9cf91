package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"swipe-market/internal/domain"
)

type InvestorPreferencesRepository interface {
	Upsert(ctx context.Context, prefs domain.InvestorPreferences) (domain.InvestorPreferences, error)
	GetByInvestor(ctx context.Context, investorID string) (domain.InvestorPreferences, error)
}

type PgInvestorPreferencesRepository struct {
	pool *pgxpool.Pool
}

func NewPgInvestorPreferencesRepository(pool *pgxpool.Pool) *PgInvestorPreferencesRepository {
	return &PgInvestorPreferencesRepository{pool: pool}
}

const preferencesColumns = `investor_id, preferred_categories, preferred_stages, investment_range, avoid_keywords, ai_recommendation_enabled, updated_at`

// Upsert reemplaza las preferencias completas del inversor.
func (r *PgInvestorPreferencesRepository) Upsert(ctx context.Context, p domain.InvestorPreferences) (domain.InvestorPreferences, error) {
	query := `
		INSERT INTO investor_preferences (` + preferencesColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (investor_id)
		DO UPDATE SET
			preferred_categories = EXCLUDED.preferred_categories,
			preferred_stages = EXCLUDED.preferred_stages,
			investment_range = EXCLUDED.investment_range,
			avoid_keywords = EXCLUDED.avoid_keywords,
			ai_recommendation_enabled = EXCLUDED.ai_recommendation_enabled,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + preferencesColumns
	return scanPreferences(r.pool.QueryRow(ctx, query,
		p.InvestorID,
		p.PreferredCategories,
		p.PreferredStages,
		p.InvestmentRange,
		p.AvoidKeywords,
		p.AIRecommendationEnabled,
		p.UpdatedAt,
	))
}

// GetByInvestor devuelve pgx.ErrNoRows si el inversor nunca guardo preferencias.
func (r *PgInvestorPreferencesRepository) GetByInvestor(ctx context.Context, investorID string) (domain.InvestorPreferences, error) {
	query := `SELECT ` + preferencesColumns + ` FROM investor_preferences WHERE investor_id = $1`
	return scanPreferences(r.pool.QueryRow(ctx, query, investorID))
}

func scanPreferences(row pgx.Row) (domain.InvestorPreferences, error) {
	var p domain.InvestorPreferences
	err := row.Scan(
		&p.InvestorID,
		&p.PreferredCategories,
		&p.PreferredStages,
		&p.InvestmentRange,
		&p.AvoidKeywords,
		&p.AIRecommendationEnabled,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.InvestorPreferences{}, err
	}
	return p, nil
}
