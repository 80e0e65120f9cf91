package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swipe-market/internal/domain"
	"swipe-market/internal/llm"
	"swipe-market/internal/repository"
)

const (
	defaultFeedLimit      = 20
	maxFeedLimit          = 50
	feedEnrichConcurrency = 8
)

// SwipeService cubre el feed del inversor, los swipes, los matches que generan y las reviews.
type SwipeService struct {
	logger       *zap.Logger
	products     repository.ProductRepository
	interactions repository.InteractionRepository
	matches      repository.MatchRepository
	llmClient    llm.LLMClient
	policy       AccessPolicy
	now          func() time.Time
}

func NewSwipeService(
	logger *zap.Logger,
	products repository.ProductRepository,
	interactions repository.InteractionRepository,
	matches repository.MatchRepository,
	llmClient llm.LLMClient,
	policy AccessPolicy,
) *SwipeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SwipeService{
		logger:       logger,
		products:     products,
		interactions: interactions,
		matches:      matches,
		llmClient:    llmClient,
		policy:       policy,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Feed devuelve productos activos que el inversor todavia no swipeo. Si tiene tesis
// de inversion, cada tarjeta se enriquece en paralelo; un fallo deja la tarjeta sin puntaje.
func (s *SwipeService) Feed(ctx context.Context, investor domain.User, limit, offset int) ([]domain.FeedCard, error) {
	if investor.UserType != domain.UserTypeInvestor {
		return nil, fmt.Errorf("%w: feed is for investors", ErrForbidden)
	}
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.products.SwipeFeed(ctx, investor.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("swipe feed: %w", err)
	}
	cards := make([]domain.FeedCard, len(products))
	for i, p := range products {
		cards[i] = domain.FeedCard{Product: p}
	}

	if s.llmClient == nil || strings.TrimSpace(investor.Profile.InvestmentThesis) == "" ||
		!s.policy.HasAccess(investor.Tier, domain.FeatureAIMatchScoring) {
		return cards, nil
	}

	var g errgroup.Group
	g.SetLimit(feedEnrichConcurrency)
	for i := range cards {
		g.Go(func() error {
			insight, err := s.matchScore(ctx, investor, cards[i].Product)
			if err != nil {
				s.logger.Debug("match score failed", zap.String("product_id", cards[i].ID), zap.Error(err))
				return nil
			}
			score := insight.Score
			cards[i].AIMatchScore = &score
			cards[i].AIInsight = insight.Reasoning
			return nil
		})
	}
	_ = g.Wait()
	return cards, nil
}

func (s *SwipeService) matchScore(ctx context.Context, investor domain.User, product domain.Product) (domain.MatchScoreInsight, error) {
	raw, err := s.llmClient.Generate(ctx, buildMatchScorePrompt(investor.Profile, product))
	if err != nil {
		return domain.MatchScoreInsight{}, err
	}
	var parsed struct {
		domain.MatchScoreInsight
		Score oracleScore `json:"score"`
	}
	if err := decodeLLMObject("match score", raw, &parsed); err != nil {
		return domain.MatchScoreInsight{}, err
	}
	insight := parsed.MatchScoreInsight
	insight.Score = parsed.Score.Int()
	insight.Reasoning = strings.TrimSpace(insight.Reasoning)
	insight.KeyAlignments = cleanStringList(insight.KeyAlignments)
	insight.PotentialConcerns = cleanStringList(insight.PotentialConcerns)
	return insight, nil
}

func buildMatchScorePrompt(profile domain.UserProfile, product domain.Product) string {
	var sb strings.Builder
	sb.WriteString("Analyze how well this product matches the investor's thesis.\n\n")
	fmt.Fprintf(&sb, "Investor Thesis: %s\n", profile.InvestmentThesis)
	fmt.Fprintf(&sb, "Preferred Stages: %s\n", orDefault(strings.Join(profile.StagePreference, ", "), "Any"))
	if r := profile.InvestmentRange; r != nil {
		fmt.Fprintf(&sb, "Investment Range: $%.0f - $%.0f\n", r.Min, r.Max)
	}
	sb.WriteString("\nProduct:\n")
	sb.WriteString(describeProduct(product))
	sb.WriteString(`
Respond ONLY in JSON:
{
  "score": 0-100,
  "reasoning": "1-2 sentences",
  "key_alignments": ["..."],
  "potential_concerns": ["..."],
  "confidence": 0.0-1.0
}`)
	return sb.String()
}

type SwipeInput struct {
	ProductID             string
	Action                string
	TimeSpentSeconds      int
	VideoCompletionPct    float64
	ReplayCount           int
	ClickedFounderProfile bool
}

type SwipeResult struct {
	Interaction domain.Interaction `json:"interaction"`
	Match       *domain.Match      `json:"match,omitempty"`
}

// Swipe registra la decision. like y super_like piden prediccion de intencion
// (opcional) y crean el match con el founder.
func (s *SwipeService) Swipe(ctx context.Context, investor domain.User, input SwipeInput) (SwipeResult, error) {
	if investor.UserType != domain.UserTypeInvestor {
		return SwipeResult{}, fmt.Errorf("%w: only investors can swipe", ErrForbidden)
	}
	action := strings.ToLower(strings.TrimSpace(input.Action))
	if !domain.IsValidAction(action) {
		return SwipeResult{}, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, input.Action)
	}
	if input.TimeSpentSeconds < 0 || input.ReplayCount < 0 || input.VideoCompletionPct < 0 || input.VideoCompletionPct > 100 {
		return SwipeResult{}, fmt.Errorf("%w: behavioral signals out of range", ErrInvalidInput)
	}

	product, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SwipeResult{}, ErrNotFound
		}
		return SwipeResult{}, fmt.Errorf("load product: %w", err)
	}

	interaction := domain.Interaction{
		ID:                    uuid.NewString(),
		InvestorID:            investor.ID,
		ProductID:             product.ID,
		Action:                action,
		TimeSpentSeconds:      input.TimeSpentSeconds,
		VideoCompletionPct:    input.VideoCompletionPct,
		ReplayCount:           input.ReplayCount,
		ClickedFounderProfile: input.ClickedFounderProfile,
		CreatedAt:             s.now(),
	}

	positive := domain.IsPositiveAction(action)
	if positive && s.llmClient != nil && s.policy.HasAccess(investor.Tier, domain.FeaturePurchaseIntent) {
		if pred, err := s.predictIntent(ctx, investor, product, interaction); err != nil {
			s.logger.Warn("intent prediction failed", zap.String("product_id", product.ID), zap.Error(err))
		} else {
			score := pred.Score
			interaction.AIIntentScore = &score
			interaction.AIReasoning = pred.Reasoning
		}
	}

	if err := s.interactions.Create(ctx, interaction); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return SwipeResult{}, ErrAlreadySwiped
		}
		return SwipeResult{}, fmt.Errorf("create interaction: %w", err)
	}

	result := SwipeResult{Interaction: interaction}
	if !positive {
		return result, nil
	}

	if err := s.products.IncrementLikeCount(ctx, product.ID); err != nil {
		s.logger.Warn("like count not updated", zap.String("product_id", product.ID), zap.Error(err))
	}
	match, created, err := s.matches.CreateIfAbsent(ctx, domain.Match{
		ID:         uuid.NewString(),
		FounderID:  product.FounderID,
		InvestorID: investor.ID,
		ProductID:  product.ID,
		Status:     domain.MatchStatusInterested,
		MatchedAt:  interaction.CreatedAt,
	})
	if err != nil {
		return SwipeResult{}, fmt.Errorf("create match: %w", err)
	}
	if created {
		result.Match = &match
		s.logger.Info("match created", zap.String("match_id", match.ID), zap.String("product_id", product.ID))
	}
	return result, nil
}

func (s *SwipeService) predictIntent(ctx context.Context, investor domain.User, product domain.Product, in domain.Interaction) (domain.IntentPrediction, error) {
	var sb strings.Builder
	sb.WriteString("Predict how likely this investor is to invest in the product, based on their behavior.\n\n")
	fmt.Fprintf(&sb, "Investor Thesis: %s\n", orDefault(investor.Profile.InvestmentThesis, "Not provided"))
	fmt.Fprintf(&sb, "Action: %s\n", in.Action)
	fmt.Fprintf(&sb, "Time spent: %ds\n", in.TimeSpentSeconds)
	fmt.Fprintf(&sb, "Video completion: %.0f%%\n", in.VideoCompletionPct)
	fmt.Fprintf(&sb, "Replays: %d\n", in.ReplayCount)
	fmt.Fprintf(&sb, "Opened founder profile: %t\n\n", in.ClickedFounderProfile)
	sb.WriteString("Product:\n")
	sb.WriteString(describeProduct(product))
	sb.WriteString(`
Respond ONLY in JSON:
{"score": 0-100, "reasoning": "1 sentence", "confidence": 0.0-1.0}`)

	raw, err := s.llmClient.Generate(ctx, sb.String())
	if err != nil {
		return domain.IntentPrediction{}, err
	}
	var parsed struct {
		domain.IntentPrediction
		Score oracleScore `json:"score"`
	}
	if err := decodeLLMObject("intent prediction", raw, &parsed); err != nil {
		return domain.IntentPrediction{}, err
	}
	pred := parsed.IntentPrediction
	pred.Score = parsed.Score.Int()
	pred.Reasoning = strings.TrimSpace(pred.Reasoning)
	pred.Confidence = math.Max(0, math.Min(1, pred.Confidence))
	return pred, nil
}

type ReviewInput struct {
	ProductID string
	Rating    int
	Text      string
}

func (s *SwipeService) Review(ctx context.Context, investor domain.User, input ReviewInput) (domain.Interaction, error) {
	if investor.UserType != domain.UserTypeInvestor {
		return domain.Interaction{}, fmt.Errorf("%w: only investors can review", ErrForbidden)
	}
	if input.Rating < 1 || input.Rating > 5 {
		return domain.Interaction{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Interaction{}, ErrNotFound
		}
		return domain.Interaction{}, fmt.Errorf("load product: %w", err)
	}
	in, err := s.interactions.UpsertReview(ctx, investor.ID, input.ProductID, input.Rating, strings.TrimSpace(input.Text), s.now())
	if err != nil {
		return domain.Interaction{}, fmt.Errorf("save review: %w", err)
	}
	return in, nil
}

type ProductReviews struct {
	Reviews       []domain.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
	Count         int             `json:"count"`
}

func (s *SwipeService) Reviews(ctx context.Context, productID string) (ProductReviews, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductReviews{}, ErrNotFound
		}
		return ProductReviews{}, fmt.Errorf("load product: %w", err)
	}
	reviews, err := s.interactions.ListReviewsByProduct(ctx, productID)
	if err != nil {
		return ProductReviews{}, fmt.Errorf("list reviews: %w", err)
	}
	out := ProductReviews{Reviews: reviews, Count: len(reviews)}
	if out.Reviews == nil {
		out.Reviews = []domain.Review{}
	}
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		out.AverageRating = float64(sum) / float64(len(reviews))
	}
	return out, nil
}
