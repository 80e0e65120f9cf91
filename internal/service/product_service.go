package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"swipe-market/internal/domain"
	"swipe-market/internal/llm"
	"swipe-market/internal/repository"
)

const (
	pitchMaxWords       = 7
	defaultSimilarLimit = 5
	maxSimilarLimit     = 20
)

// ProductService administra los productos de los founders. El resumen y el
// embedding son opcionales: si el oraculo falla el producto se crea igual.
type ProductService struct {
	logger     *zap.Logger
	products   repository.ProductRepository
	llmClient  llm.LLMClient
	embeddings llm.EmbeddingClient
	policy     AccessPolicy
	now        func() time.Time
}

func NewProductService(logger *zap.Logger, products repository.ProductRepository, llmClient llm.LLMClient, embeddings llm.EmbeddingClient, policy AccessPolicy) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		logger:     logger,
		products:   products,
		llmClient:  llmClient,
		embeddings: embeddings,
		policy:     policy,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type CreateProductInput struct {
	Title           string
	Pitch           string
	FullDescription string
	DemoVideo       domain.DemoVideo
	Pricing         domain.ProductPricing
	Category        string
	Tags            []string
	MarketData      *domain.MarketData
}

func (s *ProductService) Create(ctx context.Context, founder domain.User, input CreateProductInput) (domain.Product, error) {
	if founder.UserType != domain.UserTypeFounder {
		return domain.Product{}, fmt.Errorf("%w: only founders can create products", ErrForbidden)
	}
	if !s.policy.HasAccess(founder.Tier, domain.FeatureCreateProduct) {
		return domain.Product{}, ErrPaymentRequired
	}
	if err := validateProductInput(input); err != nil {
		return domain.Product{}, err
	}

	now := s.now()
	product := domain.Product{
		ID:              uuid.NewString(),
		FounderID:       founder.ID,
		Title:           strings.TrimSpace(input.Title),
		Pitch:           strings.TrimSpace(input.Pitch),
		FullDescription: strings.TrimSpace(input.FullDescription),
		DemoVideo:       input.DemoVideo,
		Pricing:         input.Pricing,
		Category:        strings.ToLower(strings.TrimSpace(input.Category)),
		Tags:            normalizeSet(input.Tags, false),
		MarketData:      input.MarketData,
		Status:          domain.ProductStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	product.AIGeneratedSummary = s.summarize(ctx, product)
	if vec := s.embed(ctx, product); vec != nil {
		product.Embedding = vec
	}

	if err := s.products.Create(ctx, product); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.logger.Info("product created", zap.String("product_id", product.ID), zap.String("founder_id", founder.ID))
	return product, nil
}

func validateProductInput(input CreateProductInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	words := strings.Fields(input.Pitch)
	if len(words) == 0 || len(words) > pitchMaxWords {
		return fmt.Errorf("%w: pitch must have between 1 and %d words", ErrInvalidInput, pitchMaxWords)
	}
	if strings.TrimSpace(input.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if input.Pricing.Amount < 0 {
		return fmt.Errorf("%w: pricing amount must be >= 0", ErrInvalidInput)
	}
	if p := input.Pricing.EquityPercentage; p < 0 || p > 100 {
		return fmt.Errorf("%w: equity percentage must be within 0-100", ErrInvalidInput)
	}
	return nil
}

func (s *ProductService) summarize(ctx context.Context, p domain.Product) string {
	if s.llmClient == nil {
		return ""
	}
	prompt := "Summarize this startup product for investors in 2-3 sentences. Focus on the problem, the solution and the business model. Respond with plain text only.\n\n" + describeProduct(p)
	raw, err := s.llmClient.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("product summary failed", zap.String("product_id", p.ID), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(CleanLLMJSONResponse(raw))
}

func (s *ProductService) embed(ctx context.Context, p domain.Product) *pgvector.Vector {
	if s.embeddings == nil {
		return nil
	}
	text := strings.Join([]string{p.Title, p.Pitch, p.FullDescription, p.Category, strings.Join(p.Tags, " ")}, "\n")
	values, err := s.embeddings.CreateEmbedding(ctx, text)
	if err != nil {
		if !errors.Is(err, llm.ErrEmbeddingsUnsupported) {
			s.logger.Warn("product embedding failed", zap.String("product_id", p.ID), zap.Error(err))
		}
		return nil
	}
	vec := pgvector.NewVector(values)
	return &vec
}

func (s *ProductService) Get(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	return product, err
}

func (s *ProductService) ListMine(ctx context.Context, founder domain.User) ([]domain.Product, error) {
	if founder.UserType != domain.UserTypeFounder {
		return nil, ErrForbidden
	}
	products, err := s.products.ListByFounder(ctx, founder.ID)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// Similar busca vecinos por distancia coseno; sin embedding devuelve lista vacia.
func (s *ProductService) Similar(ctx context.Context, id string, limit int) ([]domain.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.Embedding == nil {
		return []domain.Product{}, nil
	}
	if limit <= 0 {
		limit = defaultSimilarLimit
	}
	if limit > maxSimilarLimit {
		limit = maxSimilarLimit
	}
	similar, err := s.products.FindSimilar(ctx, product.ID, *product.Embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("find similar: %w", err)
	}
	if similar == nil {
		similar = []domain.Product{}
	}
	return similar, nil
}
