package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"swipe-market/internal/domain"
	"swipe-market/internal/email"
	"swipe-market/internal/repository"
)

// SyntheticTestConfig agrupa los limites de una corrida.
type SyntheticTestConfig struct {
	DefaultPersonas int
	MaxPersonas     int
	Timeout         time.Duration
}

// SyntheticTestService orquesta generacion, fan-out, agregacion y persistencia.
type SyntheticTestService struct {
	logger    *zap.Logger
	products  repository.ProductRepository
	tests     repository.SyntheticTestRepository
	generator *PersonaGenerator
	evaluator *PersonaEvaluator
	analyzer  *ResultAnalyzer
	policy    AccessPolicy
	limiter   RunLimiter
	sender    email.Sender
	cfg       SyntheticTestConfig
	now       func() time.Time
}

func NewSyntheticTestService(
	logger *zap.Logger,
	products repository.ProductRepository,
	tests repository.SyntheticTestRepository,
	generator *PersonaGenerator,
	evaluator *PersonaEvaluator,
	analyzer *ResultAnalyzer,
	policy AccessPolicy,
	limiter RunLimiter,
	sender email.Sender,
	cfg SyntheticTestConfig,
) *SyntheticTestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultPersonas <= 0 {
		cfg.DefaultPersonas = 100
	}
	if cfg.MaxPersonas <= 0 {
		cfg.MaxPersonas = 150
	}
	if cfg.DefaultPersonas > cfg.MaxPersonas {
		cfg.DefaultPersonas = cfg.MaxPersonas
	}
	return &SyntheticTestService{
		logger:    logger,
		products:  products,
		tests:     tests,
		generator: generator,
		evaluator: evaluator,
		analyzer:  analyzer,
		policy:    policy,
		limiter:   limiter,
		sender:    sender,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// NormalizePersonaCount aplica el default (0) y rechaza negativos o pedidos sobre el maximo.
func (s *SyntheticTestService) NormalizePersonaCount(requested int) (int, error) {
	if requested == 0 {
		return s.cfg.DefaultPersonas, nil
	}
	if requested < 0 || requested > s.cfg.MaxPersonas {
		return 0, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidPersonaCount, s.cfg.MaxPersonas)
	}
	return requested, nil
}

// Run ejecuta una corrida completa para un producto del founder. Nada se persiste
// si alguna etapa fatal falla o si el contexto se cancela antes de agregar.
func (s *SyntheticTestService) Run(ctx context.Context, founder domain.User, productID string, personaCount int) (domain.SyntheticTest, error) {
	if founder.UserType != domain.UserTypeFounder {
		return domain.SyntheticTest{}, fmt.Errorf("%w: only founders can run synthetic tests", ErrForbidden)
	}
	if !s.policy.HasAccess(founder.Tier, domain.FeatureSyntheticTest) {
		return domain.SyntheticTest{}, ErrPaymentRequired
	}
	count, err := s.NormalizePersonaCount(personaCount)
	if err != nil {
		return domain.SyntheticTest{}, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SyntheticTest{}, ErrNotFound
		}
		return domain.SyntheticTest{}, fmt.Errorf("load product: %w", err)
	}
	if product.FounderID != founder.ID {
		return domain.SyntheticTest{}, fmt.Errorf("%w: product belongs to another founder", ErrForbidden)
	}

	if s.limiter != nil && !s.limiter.Allow(founder.ID) {
		return domain.SyntheticTest{}, ErrRateLimited
	}
	completed := false
	defer func() {
		// solo las corridas persistidas cuentan contra el limite
		if s.limiter != nil && !completed {
			s.limiter.Release(founder.ID)
		}
	}()

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := s.now()
	s.logger.Info("synthetic test started",
		zap.String("product_id", product.ID),
		zap.String("founder_id", founder.ID),
		zap.Int("persona_count", count),
	)

	personas, err := s.generator.Generate(ctx, count)
	if err != nil {
		return domain.SyntheticTest{}, err
	}

	responses := s.evaluator.EvaluateAll(ctx, personas, product)
	if err := ctx.Err(); err != nil {
		return domain.SyntheticTest{}, fmt.Errorf("synthetic test abandoned: %w", err)
	}

	results, err := s.analyzer.Analyze(ctx, product, responses)
	if err != nil {
		return domain.SyntheticTest{}, err
	}

	elapsed := s.now().Sub(start)
	test := domain.SyntheticTest{
		ID:                    uuid.NewString(),
		ProductID:             product.ID,
		FounderID:             founder.ID,
		PersonaCount:          count,
		SyntheticPersonas:     personas,
		Results:               results,
		Status:                domain.SyntheticTestStatusCompleted,
		ProcessingTimeSeconds: int(math.Floor(elapsed.Seconds())),
		TestDate:              s.now(),
	}
	if err := s.tests.Create(ctx, test); err != nil {
		return domain.SyntheticTest{}, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	completed = true

	s.logger.Info("synthetic test completed",
		zap.String("test_id", test.ID),
		zap.Float64("like_rate", results.LikeRate),
		zap.Int("processing_time_seconds", test.ProcessingTimeSeconds),
	)
	s.notify(ctx, founder, product, test)
	return test, nil
}

// ListByFounder devuelve las corridas previas, mas recientes primero.
func (s *SyntheticTestService) ListByFounder(ctx context.Context, founder domain.User) ([]domain.SyntheticTest, error) {
	if founder.UserType != domain.UserTypeFounder {
		return nil, ErrForbidden
	}
	tests, err := s.tests.ListByFounder(ctx, founder.ID)
	if err != nil {
		return nil, fmt.Errorf("list synthetic tests: %w", err)
	}
	if tests == nil {
		tests = []domain.SyntheticTest{}
	}
	return tests, nil
}

func (s *SyntheticTestService) notify(ctx context.Context, founder domain.User, product domain.Product, test domain.SyntheticTest) {
	if s.sender == nil || founder.Email == "" {
		return
	}
	report := email.TestReport{
		ProductTitle:  product.Title,
		PersonaCount:  test.PersonaCount,
		LikeRate:      test.Results.LikeRate,
		SuperLikeRate: test.Results.SuperLikeRate,
		TopConcerns:   test.Results.TopConcerns,
	}
	if err := s.sender.SendTestReportReady(ctx, founder.Email, report); err != nil {
		s.logger.Warn("report email not sent", zap.String("test_id", test.ID), zap.Error(err))
	}
}
