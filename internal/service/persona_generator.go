package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"swipe-market/internal/domain"
	"swipe-market/internal/llm"
)

// PersonaGenerator pide al oraculo un lote de inversores sinteticos en una sola llamada.
type PersonaGenerator struct {
	llmClient llm.LLMClient
	logger    *zap.Logger
}

func NewPersonaGenerator(llmClient llm.LLMClient, logger *zap.Logger) *PersonaGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonaGenerator{llmClient: llmClient, logger: logger}
}

// Generate devuelve exactamente count personas. Cualquier salida no parseable o un
// lote corto es un error fatal: no hay reintentos ni lotes parciales.
func (g *PersonaGenerator) Generate(ctx context.Context, count int) ([]domain.SyntheticPersona, error) {
	if count <= 0 {
		return nil, ErrInvalidPersonaCount
	}

	raw, err := g.llmClient.Generate(ctx, buildPersonaPrompt(count))
	if err != nil {
		return nil, fmt.Errorf("%w: llm generate: %w", ErrGenerationFailure, err)
	}

	personas, err := parsePersonas(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailure, err)
	}

	if len(personas) < count {
		return nil, fmt.Errorf("%w: requested %d personas, got %d", ErrGenerationFailure, count, len(personas))
	}
	if len(personas) > count {
		g.logger.Warn("oracle returned extra personas, truncating",
			zap.Int("requested", count),
			zap.Int("received", len(personas)),
		)
		personas = personas[:count]
	}
	return personas, nil
}

func buildPersonaPrompt(count int) string {
	return fmt.Sprintf(`You are an AI that generates realistic investor personas for startup testing.

Generate %d diverse, realistic investor personas with the following characteristics:
- Mix of different investment stages (angel, pre_seed, seed, series_a, series_b)
- Various industry preferences (AI, SaaS, Fintech, Healthcare, Consumer, etc.)
- Different risk tolerances (low, medium, high)
- Diverse investment ranges

Each persona should be unique and realistic. Include:
- Name (realistic but fictional)
- Role (e.g., "Angel Investor", "Partner at VC Firm", "Startup Advisor")
- Firm (optional, for VCs)
- Investment thesis (1-2 sentences)
- Stage preference (array)
- Investment range (min/max in USD, min <= max)
- Risk tolerance (one of: low, medium, high)
- Industry experience (array of industries)

Respond ONLY with a JSON array of exactly %d personas:
[
  {
    "name": "...",
    "role": "...",
    "firm": "...",
    "investment_thesis": "...",
    "stage_preference": ["seed", "series_a"],
    "investment_range": {"min": 50000, "max": 500000},
    "risk_tolerance": "medium",
    "industry_experience": ["ai", "saas"]
  }
]`, count, count)
}

// parsePersonas acepta un array JSON o un objeto {"personas": [...]}, y valida cada entrada.
func parsePersonas(raw string) ([]domain.SyntheticPersona, error) {
	var personas []domain.SyntheticPersona
	if err := decodeLLMArray("personas", raw, &personas); err != nil {
		var wrapped struct {
			Personas []domain.SyntheticPersona `json:"personas"`
		}
		if objErr := decodeLLMObject("personas", raw, &wrapped); objErr != nil || len(wrapped.Personas) == 0 {
			return nil, err
		}
		personas = wrapped.Personas
	}

	for i := range personas {
		normalized, err := normalizePersona(personas[i])
		if err != nil {
			return nil, newParseError("personas", raw, fmt.Errorf("persona %d: %w", i, err))
		}
		personas[i] = normalized
	}
	return personas, nil
}

func normalizePersona(p domain.SyntheticPersona) (domain.SyntheticPersona, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Role = strings.TrimSpace(p.Role)
	p.Firm = strings.TrimSpace(p.Firm)
	p.InvestmentThesis = strings.TrimSpace(p.InvestmentThesis)
	if p.Name == "" {
		return p, fmt.Errorf("missing name")
	}
	if p.Role == "" {
		return p, fmt.Errorf("missing role")
	}

	p.RiskTolerance = strings.ToLower(strings.TrimSpace(p.RiskTolerance))
	switch p.RiskTolerance {
	case domain.RiskToleranceLow, domain.RiskToleranceMedium, domain.RiskToleranceHigh:
	default:
		return p, fmt.Errorf("invalid risk tolerance %q", p.RiskTolerance)
	}

	if p.InvestmentRange.Min < 0 || p.InvestmentRange.Min > p.InvestmentRange.Max {
		return p, fmt.Errorf("invalid investment range %v-%v", p.InvestmentRange.Min, p.InvestmentRange.Max)
	}

	p.StagePreference = normalizeSet(p.StagePreference, true)
	p.IndustryExperience = normalizeSet(p.IndustryExperience, false)
	return p, nil
}

// normalizeSet recorta, deduplica y conserva el orden de aparicion.
func normalizeSet(in []string, snake bool) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if snake {
			v = strings.ReplaceAll(strings.ToLower(v), " ", "_")
			v = strings.ReplaceAll(v, "-", "_")
		}
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
