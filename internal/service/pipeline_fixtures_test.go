package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"swipe-market/internal/domain"
	"swipe-market/internal/llm"
)

var personaNameRe = regexp.MustCompile(`(?m)^Name: (.+)$`)

func testPersona(i int) domain.SyntheticPersona {
	return domain.SyntheticPersona{
		Name:               fmt.Sprintf("Persona %d", i),
		Role:               "Angel Investor",
		InvestmentThesis:   "Backs technical founders in B2B software.",
		StagePreference:    []string{"seed"},
		InvestmentRange:    domain.AmountRange{Min: 25000, Max: 250000},
		RiskTolerance:      domain.RiskToleranceMedium,
		IndustryExperience: []string{"saas"},
	}
}

// testPersonas numera desde 1 para que "persona #7" sea Persona 7.
func testPersonas(n int) []domain.SyntheticPersona {
	out := make([]domain.SyntheticPersona, n)
	for i := range out {
		out[i] = testPersona(i + 1)
	}
	return out
}

func personasJSON(n int) string {
	b, _ := json.Marshal(testPersonas(n))
	return string(b)
}

func testProduct() domain.Product {
	return domain.Product{
		ID:        "prod-1",
		FounderID: "founder-1",
		Title:     "LedgerLeaf",
		Pitch:     "Bookkeeping that closes itself every month",
		Category:  "fintech",
		Pricing:   domain.ProductPricing{Type: "subscription", Amount: 49, Currency: "USD"},
	}
}

func evaluationJSON(decision string, score int, concerns ...string) string {
	if concerns == nil {
		concerns = []string{}
	}
	b, _ := json.Marshal(map[string]any{
		"decision":       decision,
		"reasoning":      "Fits my thesis.",
		"interest_score": score,
		"concerns":       concerns,
		"suggestions":    []string{"Show retention"},
	})
	return string(b)
}

// pipelineOracle enruta cada prompt segun su etapa. evaluate recibe el nombre de la persona.
type pipelineOracle struct {
	personas  func() (string, error)
	evaluate  func(name string) (string, error)
	recommend func() (string, error)
}

func (o pipelineOracle) client() *llm.FuncClient {
	return &llm.FuncClient{Fn: func(_ context.Context, prompt string) (string, error) {
		switch {
		case strings.HasPrefix(prompt, "You are an AI that generates realistic investor personas"):
			return o.personas()
		case strings.HasPrefix(prompt, "You are roleplaying as"):
			m := personaNameRe.FindStringSubmatch(prompt)
			if m == nil {
				return "", errors.New("no persona name in prompt")
			}
			return o.evaluate(m[1])
		case strings.HasPrefix(prompt, "Based on synthetic investor testing"):
			return o.recommend()
		}
		return "", fmt.Errorf("unexpected prompt: %.40s", prompt)
	}}
}
