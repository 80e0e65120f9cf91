package service

import (
	"context"
	"fmt"
	"strings"

	"swipe-market/internal/domain"
	"swipe-market/internal/llm"
)

const recommendationSampleSize = 5

// ResultAnalyzer agrega las respuestas y pide recomendaciones al oraculo.
type ResultAnalyzer struct {
	llmClient llm.LLMClient
}

func NewResultAnalyzer(llmClient llm.LLMClient) *ResultAnalyzer {
	return &ResultAnalyzer{llmClient: llmClient}
}

// Analyze agrega y completa Recommendations. Un fallo del oraculo aca es fatal.
func (a *ResultAnalyzer) Analyze(ctx context.Context, product domain.Product, responses []domain.PersonaResponse) (domain.TestResults, error) {
	results, err := Aggregate(responses)
	if err != nil {
		return domain.TestResults{}, err
	}

	recs, err := a.Recommend(ctx, product, results)
	if err != nil {
		return domain.TestResults{}, err
	}
	results.Recommendations = recs
	return results, nil
}

// Recommend hace la llamada final al oraculo con las tasas, las preocupaciones y una muestra de razonamientos.
func (a *ResultAnalyzer) Recommend(ctx context.Context, product domain.Product, results domain.TestResults) ([]string, error) {
	raw, err := a.llmClient.Generate(ctx, buildRecommendationPrompt(product, results))
	if err != nil {
		return nil, fmt.Errorf("%w: llm generate: %w", ErrRecommendationFailure, err)
	}

	var recs []string
	if err := decodeLLMArray("recommendations", raw, &recs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecommendationFailure, err)
	}
	recs = cleanStringList(recs)
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrRecommendationFailure, newParseError("recommendations", raw, fmt.Errorf("empty list")))
	}
	return recs, nil
}

func buildRecommendationPrompt(product domain.Product, results domain.TestResults) string {
	var sb strings.Builder
	sb.WriteString("Based on synthetic investor testing, provide recommendations for improving this product's appeal:\n\n")
	fmt.Fprintf(&sb, "Product: %s - %s\n\n", product.Title, product.Pitch)

	sb.WriteString("Test Results:\n")
	fmt.Fprintf(&sb, "- Like Rate: %.1f%%\n", results.LikeRate)
	fmt.Fprintf(&sb, "- Pass Rate: %.1f%%\n", results.PassRate)
	fmt.Fprintf(&sb, "- Super Like Rate: %.1f%%\n\n", results.SuperLikeRate)

	sb.WriteString("Top Concerns from Investors:\n")
	for i, c := range results.TopConcerns {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, c)
	}

	sb.WriteString("\nSample Feedback:\n")
	for i, r := range results.PersonaResponses {
		if i == recommendationSampleSize {
			break
		}
		fmt.Fprintf(&sb, "- %s: %q\n", r.Persona.Role, r.Reasoning)
	}

	sb.WriteString(`
Provide 3-5 actionable recommendations to improve product-market fit and investor appeal.

Respond ONLY with a JSON array of strings:
["recommendation 1", "recommendation 2"]`)
	return sb.String()
}
