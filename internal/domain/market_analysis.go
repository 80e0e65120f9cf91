package domain

import "time"

const MarketAnalysisStatusCompleted = "completed"

// MarketAnalysis es el estudio de mercado que el oraculo arma para un founder.
// No se persiste: se devuelve en la misma request.
type MarketAnalysis struct {
	ID               string               `json:"id"`
	ProductID        string               `json:"product_id,omitempty"`
	FounderID        string               `json:"founder_id"`
	AnalysisDate     time.Time            `json:"analysis_date"`
	Demographics     []DemographicSegment `json:"demographics"`
	IncomeSegments   []IncomeSegment      `json:"income_segments"`
	MarketSizing     MarketSizing         `json:"market_sizing"`
	Competitors      []CompetitorAnalysis `json:"competitors"`
	GTMStrategies    []GTMStrategy        `json:"gtm_strategies"`
	ExecutiveSummary string               `json:"executive_summary"`
	CriticalInsights []string             `json:"critical_insights"`
	RealTalkSummary  string               `json:"real_talk_summary"`
	ConfidenceScore  int                  `json:"confidence_score"`
	ProcessingTimeMS int64                `json:"processing_time_ms"`
	Status           string               `json:"status"`
}

type DemographicSegment struct {
	Name                 string   `json:"name"`
	AgeRange             string   `json:"age_range"`
	Gender               string   `json:"gender"`
	Ethnicity            string   `json:"ethnicity,omitempty"`
	PurchaseIntent       float64  `json:"purchase_intent"`
	PopulationPercentage float64  `json:"population_percentage"`
	PsychographicProfile string   `json:"psychographic_profile"`
	BehavioralInsights   []string `json:"behavioral_insights"`
	Motivations          []string `json:"motivations"`
	PainPoints           []string `json:"pain_points"`
	MediaConsumption     []string `json:"media_consumption"`
}

type IncomeSegment struct {
	IncomeBracket        string   `json:"income_bracket"`
	PurchaseIntent       float64  `json:"purchase_intent"`
	MarketSizePercentage float64  `json:"market_size_percentage"`
	FinancialProfile     string   `json:"financial_profile"`
	SpendingBehavior     string   `json:"spending_behavior"`
	ValueDrivers         []string `json:"value_drivers"`
}

// MarketSizing va en USD.
type MarketSizing struct {
	TAM             float64  `json:"tam"`
	SAM             float64  `json:"sam"`
	SOM             float64  `json:"som"`
	Methodology     string   `json:"methodology"`
	KeyAssumptions  []string `json:"key_assumptions"`
	GeographicFocus string   `json:"geographic_focus"`
}

type CompetitorAnalysis struct {
	Name                         string   `json:"name"`
	URL                          string   `json:"url,omitempty"`
	Positioning                  string   `json:"positioning"`
	Pricing                      string   `json:"pricing"`
	Strengths                    []string `json:"strengths"`
	Weaknesses                   []string `json:"weaknesses"`
	DifferentiationOpportunities []string `json:"differentiation_opportunities"`
}

type GTMStrategy struct {
	Title            string   `json:"title"`
	Priority         string   `json:"priority"`
	Description      string   `json:"description"`
	Channels         []string `json:"channels"`
	TargetSegments   []string `json:"target_segments"`
	EstimatedCost    string   `json:"estimated_cost"`
	ExpectedTimeline string   `json:"expected_timeline"`
	SuccessMetrics   []string `json:"success_metrics"`
}

// DueDiligenceBrief es el resumen en texto libre que recibe un inversor antes de avanzar.
type DueDiligenceBrief struct {
	ProductID   string    `json:"product_id"`
	Brief       string    `json:"brief"`
	GeneratedAt time.Time `json:"generated_at"`
}
