package domain

import "time"

const (
	ActionLike      = "like"
	ActionPass      = "pass"
	ActionSuperLike = "super_like"
)

// IsValidAction valida una decision de swipe.
func IsValidAction(a string) bool {
	return a == ActionLike || a == ActionPass || a == ActionSuperLike
}

// IsPositiveAction indica si la accion cuenta como interes (like o super_like).
func IsPositiveAction(a string) bool {
	return a == ActionLike || a == ActionSuperLike
}

type Interaction struct {
	ID                    string     `json:"id"`
	InvestorID            string     `json:"investor_id"`
	ProductID             string     `json:"product_id"`
	Action                string     `json:"action"`
	TimeSpentSeconds      int        `json:"time_spent_seconds"`
	VideoCompletionPct    float64    `json:"video_completion_pct"`
	ReplayCount           int        `json:"replay_count"`
	ClickedFounderProfile bool       `json:"clicked_founder_profile"`
	AIIntentScore         *int       `json:"ai_intent_score,omitempty"`
	AIReasoning           string     `json:"ai_reasoning,omitempty"`
	ReviewRating          *int       `json:"review_rating,omitempty"`
	ReviewText            string     `json:"review_text,omitempty"`
	ReviewedAt            *time.Time `json:"reviewed_at,omitempty"`
	DealDone              bool       `json:"deal_done"`
	DealAmount            *float64   `json:"deal_amount,omitempty"`
	DealClosedAt          *time.Time `json:"deal_closed_at,omitempty"`
	CreatedAt             time.Time  `json:"timestamp"`
}

// Deal es una interaccion cerrada como inversion, con datos del producto para listar.
type Deal struct {
	Interaction
	ProductTitle string `json:"title"`
	ProductPitch string `json:"description_7words"`
	Category     string `json:"category"`
	FounderName  string `json:"founder_name,omitempty"`
}

// Review es la vista publica de una interaccion con rating.
type Review struct {
	InvestorID   string    `json:"investor_id"`
	ReviewerName string    `json:"reviewer_name,omitempty"`
	Rating       int       `json:"review_rating"`
	Text         string    `json:"review_text,omitempty"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}

// IntentPrediction es la prediccion del oraculo sobre la intencion de inversion.
type IntentPrediction struct {
	Score      int     `json:"score"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}
