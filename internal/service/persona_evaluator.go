package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swipe-market/internal/domain"
	"swipe-market/internal/llm"
)

// PersonaEvaluator hace que cada persona sintetica juzgue un producto.
type PersonaEvaluator struct {
	llmClient      llm.LLMClient
	logger         *zap.Logger
	maxConcurrency int
}

// NewPersonaEvaluator crea el evaluador. maxConcurrency <= 0 dispara todas las
// evaluaciones a la vez, sin techo.
func NewPersonaEvaluator(llmClient llm.LLMClient, logger *zap.Logger, maxConcurrency int) *PersonaEvaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonaEvaluator{
		llmClient:      llmClient,
		logger:         logger,
		maxConcurrency: maxConcurrency,
	}
}

// EvaluateAll devuelve una respuesta por persona, en el mismo orden que personas.
// Una evaluacion fallida se reemplaza por la respuesta de fallback y nunca aborta el lote.
func (e *PersonaEvaluator) EvaluateAll(ctx context.Context, personas []domain.SyntheticPersona, product domain.Product) []domain.PersonaResponse {
	responses := make([]domain.PersonaResponse, len(personas))

	var g errgroup.Group
	if e.maxConcurrency > 0 {
		g.SetLimit(e.maxConcurrency)
	}
	for i, persona := range personas {
		g.Go(func() error {
			resp, err := e.Evaluate(ctx, persona, product)
			if err != nil {
				e.logger.Warn("persona evaluation failed",
					zap.Int("persona_index", i),
					zap.String("persona", persona.Name),
					zap.Error(err),
				)
				resp = domain.FallbackPersonaResponse(persona)
			}
			responses[i] = resp
			return nil
		})
	}
	_ = g.Wait() // los errores ya se convirtieron en fallback

	return responses
}

// Evaluate ejecuta una sola evaluacion persona/producto.
func (e *PersonaEvaluator) Evaluate(ctx context.Context, persona domain.SyntheticPersona, product domain.Product) (domain.PersonaResponse, error) {
	raw, err := e.llmClient.Generate(ctx, buildEvaluationPrompt(persona, product))
	if err != nil {
		return domain.PersonaResponse{}, fmt.Errorf("llm generate: %w", err)
	}

	var parsed evaluationResponse
	if err := decodeLLMObject("persona evaluation", raw, &parsed); err != nil {
		return domain.PersonaResponse{}, err
	}

	decision := strings.ToLower(strings.TrimSpace(parsed.Decision))
	decision = decisionReplacer.Replace(decision)
	if !domain.IsValidAction(decision) {
		return domain.PersonaResponse{}, newParseError("persona evaluation", raw, fmt.Errorf("invalid decision %q", parsed.Decision))
	}

	return domain.PersonaResponse{
		Persona:       persona,
		Decision:      decision,
		Reasoning:     strings.TrimSpace(parsed.Reasoning),
		InterestScore: parsed.InterestScore.Int(),
		Concerns:      cleanStringList(parsed.Concerns),
		Suggestions:   cleanStringList(parsed.Suggestions),
	}, nil
}

// decisionReplacer lleva "super-like" y "super like" a super_like.
var decisionReplacer = strings.NewReplacer("-", "_", " ", "_")

type evaluationResponse struct {
	Decision      string      `json:"decision"`
	Reasoning     string      `json:"reasoning"`
	InterestScore oracleScore `json:"interest_score"`
	Concerns      []string    `json:"concerns"`
	Suggestions   []string    `json:"suggestions"`
}

func buildEvaluationPrompt(persona domain.SyntheticPersona, product domain.Product) string {
	var sb strings.Builder
	sb.WriteString("You are roleplaying as the following investor persona:\n\n")
	fmt.Fprintf(&sb, "Name: %s\n", persona.Name)
	fmt.Fprintf(&sb, "Role: %s\n", persona.Role)
	if persona.Firm != "" {
		fmt.Fprintf(&sb, "Firm: %s\n", persona.Firm)
	}
	fmt.Fprintf(&sb, "Investment Thesis: %s\n", persona.InvestmentThesis)
	fmt.Fprintf(&sb, "Stage Preference: %s\n", strings.Join(persona.StagePreference, ", "))
	fmt.Fprintf(&sb, "Investment Range: $%.0f - $%.0f\n", persona.InvestmentRange.Min, persona.InvestmentRange.Max)
	fmt.Fprintf(&sb, "Risk Tolerance: %s\n", persona.RiskTolerance)
	fmt.Fprintf(&sb, "Industry Experience: %s\n", strings.Join(persona.IndustryExperience, ", "))

	sb.WriteString("\nYou are evaluating this startup product:\n\n")
	sb.WriteString(describeProduct(product))

	sb.WriteString(`
Task: As this persona, decide whether you would invest in this product. Respond in character.

Respond ONLY in JSON:
{
  "decision": "like" | "pass" | "super_like",
  "reasoning": "your reasoning as this persona (2-3 sentences)",
  "interest_score": 0-100,
  "concerns": ["concern 1", "concern 2"],
  "suggestions": ["suggestion 1", "suggestion 2"]
}`)
	return sb.String()
}
