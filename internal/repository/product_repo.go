package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"swipe-market/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) error
	GetByID(ctx context.Context, id string) (domain.Product, error)
	ListByFounder(ctx context.Context, founderID string) ([]domain.Product, error)
	SwipeFeed(ctx context.Context, investorID string, limit, offset int) ([]domain.Product, error)
	FindSimilar(ctx context.Context, productID string, embedding pgvector.Vector, k int) ([]domain.Product, error)
	UpdateEmbedding(ctx context.Context, id string, embedding pgvector.Vector) error
	IncrementLikeCount(ctx context.Context, id string) error
}

type PgProductRepository struct {
	pool *pgxpool.Pool
}

func NewPgProductRepository(pool *pgxpool.Pool) *PgProductRepository {
	return &PgProductRepository{pool: pool}
}

const productColumns = `p.id, p.founder_id, p.title, p.description_7words, COALESCE(p.full_description, ''), p.demo_video, p.pricing,
	p.category, p.tags, COALESCE(p.ai_generated_summary, ''), p.embedding, p.market_data, p.status,
	p.view_count, p.like_count, p.match_count, p.created_at, p.updated_at`

func (r *PgProductRepository) Create(ctx context.Context, p domain.Product) error {
	const query = `
		INSERT INTO products (
			id, founder_id, title, description_7words, full_description, demo_video, pricing,
			category, tags, ai_generated_summary, embedding, market_data, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, NULLIF($10, ''), $11, $12, $13, $14, $15)
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.FounderID,
		p.Title,
		p.Pitch,
		p.FullDescription,
		p.DemoVideo,
		p.Pricing,
		p.Category,
		p.Tags,
		p.AIGeneratedSummary,
		p.Embedding,
		p.MarketData,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return mapWriteError(err)
}

func (r *PgProductRepository) GetByID(ctx context.Context, id string) (domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1`
	return scanProduct(r.pool.QueryRow(ctx, query, id))
}

func (r *PgProductRepository) ListByFounder(ctx context.Context, founderID string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.founder_id = $1 ORDER BY p.created_at DESC`
	rows, err := r.pool.Query(ctx, query, founderID)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// SwipeFeed devuelve productos activos que el inversor todavia no swipeo (anti-join).
func (r *PgProductRepository) SwipeFeed(ctx context.Context, investorID string, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN interactions i ON p.id = i.product_id AND i.investor_id = $1
		WHERE p.status = 'active'
		  AND i.id IS NULL
		ORDER BY p.created_at DESC
		LIMIT $2
		OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, investorID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// FindSimilar ordena por distancia coseno al embedding dado, excluyendo el propio producto.
func (r *PgProductRepository) FindSimilar(ctx context.Context, productID string, embedding pgvector.Vector, k int) ([]domain.Product, error) {
	if k <= 0 {
		k = 5
	}
	query := `
		SELECT ` + productColumns + `
		FROM products p
		WHERE p.id <> $1
		  AND p.status = 'active'
		  AND p.embedding IS NOT NULL
		ORDER BY p.embedding <=> $2
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, productID, embedding, k)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *PgProductRepository) UpdateEmbedding(ctx context.Context, id string, embedding pgvector.Vector) error {
	const query = `UPDATE products SET embedding = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, embedding)
	return err
}

func (r *PgProductRepository) IncrementLikeCount(ctx context.Context, id string) error {
	const query = `UPDATE products SET like_count = like_count + 1 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.FounderID,
		&p.Title,
		&p.Pitch,
		&p.FullDescription,
		&p.DemoVideo,
		&p.Pricing,
		&p.Category,
		&p.Tags,
		&p.AIGeneratedSummary,
		&p.Embedding,
		&p.MarketData,
		&p.Status,
		&p.ViewCount,
		&p.LikeCount,
		&p.MatchCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
