package domain

import "time"

// InvestorPreferences es una fila por inversor; guardar de nuevo reemplaza todo.
type InvestorPreferences struct {
	InvestorID              string      `json:"investor_id"`
	PreferredCategories     []string    `json:"preferred_categories"`
	PreferredStages         []string    `json:"preferred_stages"`
	InvestmentRange         AmountRange `json:"investment_range"`
	AvoidKeywords           []string    `json:"avoid_keywords"`
	AIRecommendationEnabled bool        `json:"ai_recommendation_enabled"`
	UpdatedAt               time.Time   `json:"updated_at"`
}
