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

// PreferencesService guarda las preferencias de busqueda de cada inversor.
type PreferencesService struct {
	logger *zap.Logger
	prefs  repository.InvestorPreferencesRepository
	now    func() time.Time
}

func NewPreferencesService(logger *zap.Logger, prefs repository.InvestorPreferencesRepository) *PreferencesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferencesService{
		logger: logger,
		prefs:  prefs,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Save reemplaza las preferencias del inversor. El InvestorID siempre sale del usuario autenticado.
func (s *PreferencesService) Save(ctx context.Context, investor domain.User, in domain.InvestorPreferences) (domain.InvestorPreferences, error) {
	if investor.UserType != domain.UserTypeInvestor {
		return domain.InvestorPreferences{}, fmt.Errorf("%w: only investors have preferences", ErrForbidden)
	}
	r := in.InvestmentRange
	if r.Min < 0 || r.Max < 0 || (r.Max > 0 && r.Min > r.Max) {
		return domain.InvestorPreferences{}, fmt.Errorf("%w: invalid investment range %v-%v", ErrInvalidInput, r.Min, r.Max)
	}

	in.InvestorID = investor.ID
	in.PreferredCategories = normalizeSet(in.PreferredCategories, false)
	in.PreferredStages = normalizeSet(in.PreferredStages, true)
	in.AvoidKeywords = normalizeSet(in.AvoidKeywords, false)
	in.UpdatedAt = s.now()

	saved, err := s.prefs.Upsert(ctx, in)
	if err != nil {
		return domain.InvestorPreferences{}, fmt.Errorf("save preferences: %w", err)
	}
	s.logger.Info("investor preferences saved", zap.String("investor_id", investor.ID))
	return saved, nil
}

func (s *PreferencesService) Get(ctx context.Context, investor domain.User) (domain.InvestorPreferences, error) {
	if investor.UserType != domain.UserTypeInvestor {
		return domain.InvestorPreferences{}, fmt.Errorf("%w: only investors have preferences", ErrForbidden)
	}
	prefs, err := s.prefs.GetByInvestor(ctx, investor.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.InvestorPreferences{}, ErrNotFound
		}
		return domain.InvestorPreferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return prefs, nil
}
