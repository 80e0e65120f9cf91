package domain

import "time"

const (
	RiskToleranceLow    = "low"
	RiskToleranceMedium = "medium"
	RiskToleranceHigh   = "high"
)

const (
	SyntheticTestStatusCompleted = "completed"
)

// EvaluationErrorConcern es la preocupacion centinela de una evaluacion fallida.
const EvaluationErrorConcern = "Evaluation error"

// SyntheticPersona es un inversor ficticio generado para una sola corrida.
type SyntheticPersona struct {
	Name               string      `json:"name"`
	Role               string      `json:"role"`
	Firm               string      `json:"firm,omitempty"`
	InvestmentThesis   string      `json:"investment_thesis"`
	StagePreference    []string    `json:"stage_preference"`
	InvestmentRange    AmountRange `json:"investment_range"`
	RiskTolerance      string      `json:"risk_tolerance"`
	IndustryExperience []string    `json:"industry_experience"`
}

// PersonaResponse es la decision de una persona sobre un producto.
type PersonaResponse struct {
	Persona       SyntheticPersona `json:"persona"`
	Decision      string           `json:"decision"`
	Reasoning     string           `json:"reasoning"`
	InterestScore int              `json:"interest_score"`
	Concerns      []string         `json:"concerns"`
	Suggestions   []string         `json:"suggestions"`
}

// FallbackPersonaResponse reemplaza una evaluacion fallida para no achicar el lote.
func FallbackPersonaResponse(persona SyntheticPersona) PersonaResponse {
	return PersonaResponse{
		Persona:       persona,
		Decision:      ActionPass,
		Reasoning:     "Evaluation failed",
		InterestScore: 0,
		Concerns:      []string{EvaluationErrorConcern},
		Suggestions:   []string{},
	}
}

type SentimentAnalysis struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// TestResults es el agregado de una corrida. Las tasas son porcentajes 0-100;
// LikeRate incluye los super_like.
type TestResults struct {
	LikeRate          float64           `json:"like_rate"`
	PassRate          float64           `json:"pass_rate"`
	SuperLikeRate     float64           `json:"super_like_rate"`
	TopConcerns       []string          `json:"top_concerns"`
	Recommendations   []string          `json:"recommendations"`
	SentimentAnalysis SentimentAnalysis `json:"sentiment_analysis"`
	PersonaResponses  []PersonaResponse `json:"persona_responses"`
}

// SyntheticTest es el registro persistido de una corrida completa.
type SyntheticTest struct {
	ID                    string             `json:"id"`
	ProductID             string             `json:"product_id"`
	FounderID             string             `json:"founder_id"`
	PersonaCount          int                `json:"persona_count"`
	SyntheticPersonas     []SyntheticPersona `json:"synthetic_personas"`
	Results               TestResults        `json:"results"`
	Status                string             `json:"status"`
	ProcessingTimeSeconds int                `json:"processing_time_seconds"`
	TestDate              time.Time          `json:"test_date"`
}
