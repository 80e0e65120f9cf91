package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"swipe-market/internal/domain"
)

type InteractionRepository interface {
	Create(ctx context.Context, interaction domain.Interaction) error
	UpsertReview(ctx context.Context, investorID, productID string, rating int, text string, at time.Time) (domain.Interaction, error)
	ListReviewsByProduct(ctx context.Context, productID string) ([]domain.Review, error)
	ActivityStats(ctx context.Context, userID string) (domain.ActivityStats, error)
	MarkDeal(ctx context.Context, investorID, productID string, amount *float64, at time.Time) (domain.Interaction, error)
	UnmarkDeal(ctx context.Context, investorID, productID string) error
	ListDeals(ctx context.Context, investorID string) ([]domain.Deal, error)
}

type PgInteractionRepository struct {
	pool *pgxpool.Pool
}

func NewPgInteractionRepository(pool *pgxpool.Pool) *PgInteractionRepository {
	return &PgInteractionRepository{pool: pool}
}

// Create inserta un swipe; un segundo swipe del mismo inversor sobre el producto devuelve ErrDuplicate.
func (r *PgInteractionRepository) Create(ctx context.Context, in domain.Interaction) error {
	const query = `
		INSERT INTO interactions (
			id, investor_id, product_id, action, time_spent_seconds, video_completion_pct,
			replay_count, clicked_founder_profile, ai_intent_score, ai_reasoning, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11)
	`
	_, err := r.pool.Exec(ctx, query,
		in.ID,
		in.InvestorID,
		in.ProductID,
		in.Action,
		in.TimeSpentSeconds,
		in.VideoCompletionPct,
		in.ReplayCount,
		in.ClickedFounderProfile,
		in.AIIntentScore,
		in.AIReasoning,
		in.CreatedAt,
	)
	return mapWriteError(err)
}

// UpsertReview agrega la review a la interaccion existente o crea una nueva como like.
func (r *PgInteractionRepository) UpsertReview(ctx context.Context, investorID, productID string, rating int, text string, at time.Time) (domain.Interaction, error) {
	const query = `
		INSERT INTO interactions (id, investor_id, product_id, action, review_rating, review_text, reviewed_at, created_at)
		VALUES (gen_random_uuid(), $1, $2, 'like', $3, NULLIF($4, ''), $5, $5)
		ON CONFLICT (investor_id, product_id)
		DO UPDATE SET
			review_rating = EXCLUDED.review_rating,
			review_text = EXCLUDED.review_text,
			reviewed_at = EXCLUDED.reviewed_at
		RETURNING id, investor_id, product_id, action, review_rating, COALESCE(review_text, ''), reviewed_at, created_at
	`
	var in domain.Interaction
	err := r.pool.QueryRow(ctx, query, investorID, productID, rating, text, at).Scan(
		&in.ID,
		&in.InvestorID,
		&in.ProductID,
		&in.Action,
		&in.ReviewRating,
		&in.ReviewText,
		&in.ReviewedAt,
		&in.CreatedAt,
	)
	if err != nil {
		return domain.Interaction{}, err
	}
	return in, nil
}

func (r *PgInteractionRepository) ListReviewsByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	const query = `
		SELECT i.investor_id, COALESCE(u.profile->>'name', ''), i.review_rating, COALESCE(i.review_text, ''), i.reviewed_at
		FROM interactions i
		JOIN users u ON u.id = i.investor_id
		WHERE i.product_id = $1
		  AND i.review_rating IS NOT NULL
		ORDER BY i.reviewed_at DESC
	`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		var reviewedAt sql.NullTime
		if err := rows.Scan(&rv.InvestorID, &rv.ReviewerName, &rv.Rating, &rv.Text, &reviewedAt); err != nil {
			return nil, err
		}
		if reviewedAt.Valid {
			rv.ReviewedAt = reviewedAt.Time
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ActivityStats cuenta la actividad del usuario; AccountAgeDays lo calcula el servicio.
func (r *PgInteractionRepository) ActivityStats(ctx context.Context, userID string) (domain.ActivityStats, error) {
	const query = `
		SELECT
			COUNT(*) FILTER (WHERE review_rating IS NOT NULL)::INT,
			COUNT(*) FILTER (WHERE review_rating IS NOT NULL AND LENGTH(review_text) > 100)::INT,
			COUNT(*)::INT,
			COUNT(*) FILTER (WHERE action = 'super_like')::INT,
			(SELECT COUNT(*)::INT FROM messages WHERE sender_id = $1)
		FROM interactions
		WHERE investor_id = $1
	`
	var s domain.ActivityStats
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&s.ReviewCount,
		&s.DetailedReviewCount,
		&s.InteractionCount,
		&s.SuperLikeCount,
		&s.MessageCount,
	)
	if err != nil {
		return domain.ActivityStats{}, err
	}
	return s, nil
}

// MarkDeal marca la interaccion como inversion cerrada; si el inversor nunca swipeo
// el producto la crea como like.
func (r *PgInteractionRepository) MarkDeal(ctx context.Context, investorID, productID string, amount *float64, at time.Time) (domain.Interaction, error) {
	const query = `
		INSERT INTO interactions (id, investor_id, product_id, action, deal_done, deal_amount, deal_closed_at, created_at)
		VALUES (gen_random_uuid(), $1, $2, 'like', TRUE, $3, $4, $4)
		ON CONFLICT (investor_id, product_id)
		DO UPDATE SET
			deal_done = TRUE,
			deal_amount = EXCLUDED.deal_amount,
			deal_closed_at = EXCLUDED.deal_closed_at
		RETURNING id, investor_id, product_id, action, deal_done, deal_amount, deal_closed_at, created_at
	`
	var in domain.Interaction
	err := r.pool.QueryRow(ctx, query, investorID, productID, amount, at).Scan(
		&in.ID,
		&in.InvestorID,
		&in.ProductID,
		&in.Action,
		&in.DealDone,
		&in.DealAmount,
		&in.DealClosedAt,
		&in.CreatedAt,
	)
	if err != nil {
		return domain.Interaction{}, err
	}
	return in, nil
}

// UnmarkDeal devuelve pgx.ErrNoRows si no habia deal para desmarcar.
func (r *PgInteractionRepository) UnmarkDeal(ctx context.Context, investorID, productID string) error {
	const query = `
		UPDATE interactions
		SET deal_done = FALSE, deal_amount = NULL, deal_closed_at = NULL
		WHERE investor_id = $1 AND product_id = $2 AND deal_done
	`
	tag, err := r.pool.Exec(ctx, query, investorID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgInteractionRepository) ListDeals(ctx context.Context, investorID string) ([]domain.Deal, error) {
	const query = `
		SELECT i.id, i.investor_id, i.product_id, i.action, i.deal_done, i.deal_amount, i.deal_closed_at, i.created_at,
			p.title, p.description_7words, p.category, COALESCE(u.profile->>'name', '')
		FROM interactions i
		JOIN products p ON p.id = i.product_id
		JOIN users u ON u.id = p.founder_id
		WHERE i.investor_id = $1
		  AND i.deal_done
		ORDER BY i.deal_closed_at DESC
	`
	rows, err := r.pool.Query(ctx, query, investorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []domain.Deal
	for rows.Next() {
		var d domain.Deal
		if err := rows.Scan(
			&d.ID,
			&d.InvestorID,
			&d.ProductID,
			&d.Action,
			&d.DealDone,
			&d.DealAmount,
			&d.DealClosedAt,
			&d.CreatedAt,
			&d.ProductTitle,
			&d.ProductPitch,
			&d.Category,
			&d.FounderName,
		); err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return deals, nil
}
