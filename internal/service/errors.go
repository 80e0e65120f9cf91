package service

import "errors"

// Errores fatales de la corrida sintetica.
var (
	ErrGenerationFailure     = errors.New("persona generation failed")
	ErrRecommendationFailure = errors.New("recommendation generation failed")
	ErrPersistenceFailure    = errors.New("synthetic test persistence failed")
	ErrNoResponses           = errors.New("no persona responses to aggregate")
	ErrInvalidPersonaCount   = errors.New("invalid persona count")
)

// ErrAnalysisFailure cubre el analisis de mercado y el brief de due diligence.
var ErrAnalysisFailure = errors.New("analysis generation failed")

// Errores de negocio compartidos por los handlers.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrPaymentRequired  = errors.New("feature requires a paid tier")
	ErrRateLimited      = errors.New("rate limited")
	ErrInvalidInput     = errors.New("invalid input")
	ErrAlreadySwiped    = errors.New("product already swiped")
	ErrAlreadyOnboarded = errors.New("user already onboarded")
	ErrNotOnboarded     = errors.New("user not onboarded")
)
