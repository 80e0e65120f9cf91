package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"swipe-market/internal/domain"
	"swipe-market/internal/llm"
	"swipe-market/internal/repository"
)

const (
	minAnalysisDescriptionChars = 100
	defaultAnalysisConfidence   = 85
	defaultGeographicFocus      = "Global"
)

// MarketAnalysisService agrupa los analisis del oraculo que no forman parte del
// pipeline sintetico: estudio de mercado para founders y due diligence para inversores.
// Ninguno tiene fallback; si el oraculo falla la request falla.
type MarketAnalysisService struct {
	logger    *zap.Logger
	products  repository.ProductRepository
	users     repository.UserRepository
	llmClient llm.LLMClient
	policy    AccessPolicy
	now       func() time.Time
}

func NewMarketAnalysisService(
	logger *zap.Logger,
	products repository.ProductRepository,
	users repository.UserRepository,
	llmClient llm.LLMClient,
	policy AccessPolicy,
) *MarketAnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarketAnalysisService{
		logger:    logger,
		products:  products,
		users:     users,
		llmClient: llmClient,
		policy:    policy,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type MarketAnalysisInput struct {
	ProductID   string
	ProductName string
	Description string
	PricePoint  string
}

// Analyze corre el estudio de mercado. Si viene ProductID el producto tiene que ser del founder.
func (s *MarketAnalysisService) Analyze(ctx context.Context, founder domain.User, input MarketAnalysisInput) (domain.MarketAnalysis, error) {
	if founder.UserType != domain.UserTypeFounder {
		return domain.MarketAnalysis{}, fmt.Errorf("%w: only founders can request market analysis", ErrForbidden)
	}
	if !s.policy.HasAccess(founder.Tier, domain.FeatureMarketAnalysis) {
		return domain.MarketAnalysis{}, ErrPaymentRequired
	}

	input.ProductName = strings.TrimSpace(input.ProductName)
	input.Description = strings.TrimSpace(input.Description)
	input.PricePoint = strings.TrimSpace(input.PricePoint)
	if input.ProductName == "" || input.Description == "" || input.PricePoint == "" {
		return domain.MarketAnalysis{}, fmt.Errorf("%w: product name, description and price point are required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(input.Description) < minAnalysisDescriptionChars {
		return domain.MarketAnalysis{}, fmt.Errorf("%w: description must be at least %d characters", ErrInvalidInput, minAnalysisDescriptionChars)
	}

	if input.ProductID != "" {
		product, err := s.products.GetByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.MarketAnalysis{}, ErrNotFound
			}
			return domain.MarketAnalysis{}, fmt.Errorf("load product: %w", err)
		}
		if product.FounderID != founder.ID {
			return domain.MarketAnalysis{}, fmt.Errorf("%w: product belongs to another founder", ErrForbidden)
		}
	}

	start := s.now()
	raw, err := s.llmClient.Generate(ctx, buildMarketAnalysisPrompt(input))
	if err != nil {
		return domain.MarketAnalysis{}, fmt.Errorf("%w: llm generate: %w", ErrAnalysisFailure, err)
	}
	var parsed marketAnalysisResponse
	if err := decodeLLMObject("market analysis", raw, &parsed); err != nil {
		return domain.MarketAnalysis{}, fmt.Errorf("%w: %w", ErrAnalysisFailure, err)
	}

	analysis := parsed.toDomain()
	analysis.ID = uuid.NewString()
	analysis.ProductID = input.ProductID
	analysis.FounderID = founder.ID
	finished := s.now()
	analysis.AnalysisDate = finished
	analysis.ProcessingTimeMS = finished.Sub(start).Milliseconds()
	analysis.Status = domain.MarketAnalysisStatusCompleted

	s.logger.Info("market analysis completed",
		zap.String("founder_id", founder.ID),
		zap.String("product_name", input.ProductName),
		zap.Int64("processing_time_ms", analysis.ProcessingTimeMS),
	)
	return analysis, nil
}

// marketAnalysisResponse es la forma cruda del oraculo; los campos ausentes quedan vacios.
type marketAnalysisResponse struct {
	ExecutiveSummary string                      `json:"executive_summary"`
	Demographics     []domain.DemographicSegment `json:"demographics"`
	IncomeSegments   []domain.IncomeSegment      `json:"income_segments"`
	MarketSizing     *domain.MarketSizing        `json:"market_sizing"`
	Competitors      []domain.CompetitorAnalysis `json:"competitors"`
	GTMStrategies    []domain.GTMStrategy        `json:"gtm_strategies"`
	CriticalInsights []string                    `json:"critical_insights"`
	RealTalkSummary  string                      `json:"real_talk_summary"`
	ConfidenceScore  *oracleScore                `json:"confidence_score"`
}

func (r marketAnalysisResponse) toDomain() domain.MarketAnalysis {
	a := domain.MarketAnalysis{
		ExecutiveSummary: strings.TrimSpace(r.ExecutiveSummary),
		Demographics:     r.Demographics,
		IncomeSegments:   r.IncomeSegments,
		Competitors:      r.Competitors,
		GTMStrategies:    r.GTMStrategies,
		CriticalInsights: cleanStringList(r.CriticalInsights),
		RealTalkSummary:  strings.TrimSpace(r.RealTalkSummary),
		ConfidenceScore:  defaultAnalysisConfidence,
	}
	if a.Demographics == nil {
		a.Demographics = []domain.DemographicSegment{}
	}
	if a.IncomeSegments == nil {
		a.IncomeSegments = []domain.IncomeSegment{}
	}
	if a.Competitors == nil {
		a.Competitors = []domain.CompetitorAnalysis{}
	}
	if a.GTMStrategies == nil {
		a.GTMStrategies = []domain.GTMStrategy{}
	}
	if r.MarketSizing != nil {
		a.MarketSizing = *r.MarketSizing
	}
	if a.MarketSizing.KeyAssumptions == nil {
		a.MarketSizing.KeyAssumptions = []string{}
	}
	if strings.TrimSpace(a.MarketSizing.GeographicFocus) == "" {
		a.MarketSizing.GeographicFocus = defaultGeographicFocus
	}
	// 0 o ausente cae al default, igual que un puntaje no informado
	if r.ConfidenceScore != nil && r.ConfidenceScore.Int() > 0 {
		a.ConfidenceScore = r.ConfidenceScore.Int()
	}
	return a
}

func buildMarketAnalysisPrompt(input MarketAnalysisInput) string {
	var sb strings.Builder
	sb.WriteString("You are an expert market research analyst specializing in demographic purchase behavior and startup market sizing.\n\n")
	sb.WriteString("PRODUCT TO ANALYZE:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", input.ProductName)
	fmt.Fprintf(&sb, "- Description: %s\n", input.Description)
	fmt.Fprintf(&sb, "- Price Point: %s\n\n", input.PricePoint)
	sb.WriteString(`Respond ONLY with a JSON object:
{
  "executive_summary": "2-3 sentences on who will buy this product and why",
  "demographics": [{"name": "...", "age_range": "25-34", "gender": "All", "ethnicity": "All", "purchase_intent": 0-100, "population_percentage": 0-100, "psychographic_profile": "...", "behavioral_insights": [], "motivations": [], "pain_points": [], "media_consumption": []}],
  "income_segments": [{"income_bracket": "$75-150k/yr", "purchase_intent": 0-100, "market_size_percentage": 0-100, "financial_profile": "...", "spending_behavior": "...", "value_drivers": []}],
  "market_sizing": {"tam": 0, "sam": 0, "som": 0, "methodology": "...", "key_assumptions": [], "geographic_focus": "..."},
  "competitors": [{"name": "...", "url": "...", "positioning": "...", "pricing": "...", "strengths": [], "weaknesses": [], "differentiation_opportunities": []}],
  "gtm_strategies": [{"title": "...", "priority": "high|medium|low", "description": "...", "channels": [], "target_segments": [], "estimated_cost": "...", "expected_timeline": "...", "success_metrics": []}],
  "critical_insights": ["...", "...", "..."],
  "real_talk_summary": "2-3 brutally honest sentences about the market potential",
  "confidence_score": 0-100
}

Guidelines:
1. 5-8 demographic segments by age, income and psychographics.
2. Income brackets: <$40k, $40-75k, $75-150k, $150-300k, >$300k.
3. TAM/SAM/SOM in USD, bottom-up and top-down; SOM is the first year.
4. 3-5 direct or indirect competitors.
5. 3-5 go-to-market strategies ordered by impact.
6. The real talk summary must be critical and realistic.`)
	return sb.String()
}

// DueDiligence arma el brief de un producto para un inversor. El perfil del founder
// es opcional: si no se encuentra el brief sale con datos desconocidos.
func (s *MarketAnalysisService) DueDiligence(ctx context.Context, investor domain.User, productID string) (domain.DueDiligenceBrief, error) {
	if investor.UserType != domain.UserTypeInvestor {
		return domain.DueDiligenceBrief{}, fmt.Errorf("%w: only investors can request due diligence", ErrForbidden)
	}
	if !s.policy.HasAccess(investor.Tier, domain.FeatureDueDiligence) {
		return domain.DueDiligenceBrief{}, ErrPaymentRequired
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DueDiligenceBrief{}, ErrNotFound
		}
		return domain.DueDiligenceBrief{}, fmt.Errorf("load product: %w", err)
	}

	var founderProfile domain.UserProfile
	if founder, err := s.users.GetByID(ctx, product.FounderID); err == nil {
		founderProfile = founder.Profile
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.DueDiligenceBrief{}, fmt.Errorf("load founder: %w", err)
	}

	raw, err := s.llmClient.Generate(ctx, buildDueDiligencePrompt(product, founderProfile))
	if err != nil {
		return domain.DueDiligenceBrief{}, fmt.Errorf("%w: llm generate: %w", ErrAnalysisFailure, err)
	}
	brief := strings.TrimSpace(raw)
	if brief == "" {
		return domain.DueDiligenceBrief{}, fmt.Errorf("%w: empty brief", ErrAnalysisFailure)
	}
	return domain.DueDiligenceBrief{
		ProductID:   product.ID,
		Brief:       brief,
		GeneratedAt: s.now(),
	}, nil
}

func buildDueDiligencePrompt(product domain.Product, founder domain.UserProfile) string {
	var sb strings.Builder
	sb.WriteString("You are an AI due diligence analyst. Generate a concise due diligence brief for the following startup product.\n\n")
	sb.WriteString("Product:\n")
	sb.WriteString(describeProduct(product))
	if product.MarketData != nil {
		market, _ := json.Marshal(product.MarketData)
		fmt.Fprintf(&sb, "Market Data: %s\n", market)
	}
	sb.WriteString("\nFounder:\n")
	fmt.Fprintf(&sb, "Name: %s\n", orDefault(founder.Name, "Unknown"))
	fmt.Fprintf(&sb, "Company: %s\n", orDefault(founder.Company, "Unknown"))
	fmt.Fprintf(&sb, "Bio: %s\n", orDefault(founder.Bio, "Not provided"))
	fmt.Fprintf(&sb, "LinkedIn: %s\n", orDefault(founder.LinkedIn, "Not provided"))
	fmt.Fprintf(&sb, "GitHub: %s\n", orDefault(founder.GitHub, "Not provided"))
	fmt.Fprintf(&sb, "Previous Exits: %d\n\n", founder.PreviousExits)
	sb.WriteString(`Cover:
1. Market size estimation (with reasoning)
2. Competitive analysis (key competitors, differentiation)
3. Founder assessment (credibility, strengths)
4. Risk factors (3-5 key risks)
5. Investment opportunity (why this could be interesting)

Keep it between 200 and 300 words. Use bullet points.`)
	return sb.String()
}
