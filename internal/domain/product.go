package domain

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

const (
	ProductStatusActive = "active"
	ProductStatusPaused = "paused"
	ProductStatusFunded = "funded"
)

type Product struct {
	ID                 string           `json:"id"`
	FounderID          string           `json:"founder_id"`
	Title              string           `json:"title"`
	Pitch              string           `json:"description_7words"`
	FullDescription    string           `json:"full_description,omitempty"`
	DemoVideo          DemoVideo        `json:"demo_video"`
	Pricing            ProductPricing   `json:"pricing"`
	Category           string           `json:"category"`
	Tags               []string         `json:"tags"`
	AIGeneratedSummary string           `json:"ai_generated_summary,omitempty"`
	Embedding          *pgvector.Vector `json:"-"`
	MarketData         *MarketData      `json:"market_data,omitempty"`
	Status             string           `json:"status"`
	ViewCount          int              `json:"view_count"`
	LikeCount          int              `json:"like_count"`
	MatchCount         int              `json:"match_count"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type DemoVideo struct {
	URL           string `json:"url,omitempty" yaml:"url"`
	Duration      int    `json:"duration,omitempty" yaml:"duration"`
	Thumbnail     string `json:"thumbnail,omitempty" yaml:"thumbnail"`
	Transcription string `json:"transcription,omitempty" yaml:"transcription"`
}

type ProductPricing struct {
	Amount            float64 `json:"amount" yaml:"amount"`
	Currency          string  `json:"currency" yaml:"currency"`
	Type              string  `json:"type" yaml:"type"` // one_time, subscription, equity, partnership
	EquityPercentage  float64 `json:"equity_percentage,omitempty" yaml:"equity_percentage"`
	RecurringInterval string  `json:"recurring_interval,omitempty" yaml:"recurring_interval"`
}

type MarketData struct {
	TAM         float64  `json:"tam,omitempty" yaml:"tam"`
	Competitors []string `json:"competitors,omitempty" yaml:"competitors"`
	Stage       string   `json:"stage,omitempty" yaml:"stage"`
}

// FeedCard es un producto del feed enriquecido con el puntaje de afinidad del inversor.
type FeedCard struct {
	Product
	AIMatchScore *int   `json:"ai_match_score"`
	AIInsight    string `json:"ai_insight,omitempty"`
}

// MatchScoreInsight es la salida estructurada del oraculo al comparar tesis y producto.
type MatchScoreInsight struct {
	Score             int      `json:"score"`
	Reasoning         string   `json:"reasoning"`
	KeyAlignments     []string `json:"key_alignments"`
	PotentialConcerns []string `json:"potential_concerns"`
	Confidence        float64  `json:"confidence"`
}
