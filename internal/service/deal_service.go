package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"swipe-market/internal/domain"
	"swipe-market/internal/repository"
)

// DealService registra las inversiones cerradas sobre la interaccion del inversor.
// El puntaje de reputacion no pondera deals, asi que marcar uno no lo recalcula.
type DealService struct {
	logger       *zap.Logger
	products     repository.ProductRepository
	interactions repository.InteractionRepository
	now          func() time.Time
}

func NewDealService(
	logger *zap.Logger,
	products repository.ProductRepository,
	interactions repository.InteractionRepository,
) *DealService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DealService{
		logger:       logger,
		products:     products,
		interactions: interactions,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Mark cierra un deal. amount es opcional; si viene no puede ser negativo.
func (s *DealService) Mark(ctx context.Context, investor domain.User, productID string, amount *float64) (domain.Interaction, error) {
	if investor.UserType != domain.UserTypeInvestor {
		return domain.Interaction{}, fmt.Errorf("%w: only investors can record deals", ErrForbidden)
	}
	if productID == "" {
		return domain.Interaction{}, fmt.Errorf("%w: product_id is required", ErrInvalidInput)
	}
	if amount != nil && *amount < 0 {
		return domain.Interaction{}, fmt.Errorf("%w: deal amount must not be negative", ErrInvalidInput)
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Interaction{}, ErrNotFound
		}
		return domain.Interaction{}, fmt.Errorf("load product: %w", err)
	}

	interaction, err := s.interactions.MarkDeal(ctx, investor.ID, productID, amount, s.now())
	if err != nil {
		return domain.Interaction{}, fmt.Errorf("mark deal: %w", err)
	}
	s.logger.Info("deal recorded",
		zap.String("investor_id", investor.ID),
		zap.String("product_id", productID),
	)
	return interaction, nil
}

func (s *DealService) List(ctx context.Context, investor domain.User) ([]domain.Deal, error) {
	if investor.UserType != domain.UserTypeInvestor {
		return nil, fmt.Errorf("%w: only investors have deals", ErrForbidden)
	}
	deals, err := s.interactions.ListDeals(ctx, investor.ID)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	if deals == nil {
		deals = []domain.Deal{}
	}
	return deals, nil
}

// Unmark deja la interaccion como estaba antes del deal.
func (s *DealService) Unmark(ctx context.Context, investor domain.User, productID string) error {
	if investor.UserType != domain.UserTypeInvestor {
		return fmt.Errorf("%w: only investors have deals", ErrForbidden)
	}
	if productID == "" {
		return fmt.Errorf("%w: product_id is required", ErrInvalidInput)
	}
	if err := s.interactions.UnmarkDeal(ctx, investor.ID, productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("unmark deal: %w", err)
	}
	return nil
}
