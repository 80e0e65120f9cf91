package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"swipe-market/internal/domain"
	"swipe-market/internal/repository"
)

// Pesos y techos de cada componente del puntaje.
const (
	reviewWeight         = 5.0
	reviewCap            = 30.0
	detailedReviewWeight = 4.0
	detailedReviewCap    = 20.0
	interactionWeight    = 0.5
	interactionCap       = 20.0
	messageWeight        = 1.0
	messageCap           = 15.0
	superLikeWeight      = 2.0
	superLikeCap         = 10.0

	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// ComputeReputation es la suma lineal con techos por componente.
func ComputeReputation(stats domain.ActivityStats) domain.Reputation {
	b := domain.ReputationBreakdown{
		Reviews:         math.Min(float64(stats.ReviewCount)*reviewWeight, reviewCap),
		DetailedReviews: math.Min(float64(stats.DetailedReviewCount)*detailedReviewWeight, detailedReviewCap),
		Interactions:    math.Min(float64(stats.InteractionCount)*interactionWeight, interactionCap),
		Messages:        math.Min(float64(stats.MessageCount)*messageWeight, messageCap),
		SuperLikes:      math.Min(float64(stats.SuperLikeCount)*superLikeWeight, superLikeCap),
		AccountAge:      accountAgePoints(stats.AccountAgeDays),
	}
	score := b.Reviews + b.DetailedReviews + b.Interactions + b.Messages + b.SuperLikes + b.AccountAge
	return domain.Reputation{Score: score, Rank: rankForScore(score), Breakdown: b}
}

func accountAgePoints(days int) float64 {
	switch {
	case days > 30:
		return 5
	case days > 7:
		return 3
	case days > 1:
		return 1
	}
	return 0
}

func rankForScore(score float64) int {
	switch {
	case score >= 100:
		return 5
	case score >= 75:
		return 4
	case score >= 50:
		return 3
	case score >= 25:
		return 2
	case score >= 10:
		return 1
	}
	return 0
}

type ReputationService struct {
	logger       *zap.Logger
	users        repository.UserRepository
	interactions repository.InteractionRepository
	now          func() time.Time
}

func NewReputationService(logger *zap.Logger, users repository.UserRepository, interactions repository.InteractionRepository) *ReputationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReputationService{
		logger:       logger,
		users:        users,
		interactions: interactions,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Recalculate recomputa y persiste el puntaje del usuario.
func (s *ReputationService) Recalculate(ctx context.Context, userID string) (domain.Reputation, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Reputation{}, ErrNotFound
		}
		return domain.Reputation{}, fmt.Errorf("load user: %w", err)
	}
	stats, err := s.interactions.ActivityStats(ctx, userID)
	if err != nil {
		return domain.Reputation{}, fmt.Errorf("activity stats: %w", err)
	}
	if !user.CreatedAt.IsZero() {
		stats.AccountAgeDays = int(s.now().Sub(user.CreatedAt).Hours() / 24)
	}

	rep := ComputeReputation(stats)
	if err := s.users.UpdateReputation(ctx, userID, rep.Score, rep.Rank); err != nil {
		return domain.Reputation{}, fmt.Errorf("update reputation: %w", err)
	}
	s.logger.Info("reputation updated",
		zap.String("user_id", userID),
		zap.Float64("score", rep.Score),
		zap.Int("rank", rep.Rank),
	)
	return rep, nil
}

func (s *ReputationService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	entries, err := s.users.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, nil
}
