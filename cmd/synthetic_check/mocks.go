package main

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"

	"swipe-market/internal/domain"
)

// --- repos en memoria para la corrida ---

type memoryProductRepo struct {
	mu       sync.Mutex
	products map[string]domain.Product
}

func newMemoryProductRepo(products ...domain.Product) *memoryProductRepo {
	m := &memoryProductRepo{products: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memoryProductRepo) Create(_ context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
	return nil
}

func (m *memoryProductRepo) GetByID(_ context.Context, id string) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *memoryProductRepo) ListByFounder(_ context.Context, founderID string) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, p := range m.products {
		if p.FounderID == founderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryProductRepo) SwipeFeed(context.Context, string, int, int) ([]domain.Product, error) {
	return nil, nil
}

func (m *memoryProductRepo) FindSimilar(context.Context, string, pgvector.Vector, int) ([]domain.Product, error) {
	return nil, nil
}

func (m *memoryProductRepo) UpdateEmbedding(context.Context, string, pgvector.Vector) error {
	return nil
}

func (m *memoryProductRepo) IncrementLikeCount(context.Context, string) error { return nil }

type memorySyntheticTestRepo struct {
	tests []domain.SyntheticTest
}

func (m *memorySyntheticTestRepo) Create(_ context.Context, t domain.SyntheticTest) error {
	m.tests = append(m.tests, t)
	return nil
}

func (m *memorySyntheticTestRepo) GetByID(_ context.Context, id string) (domain.SyntheticTest, error) {
	for _, t := range m.tests {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.SyntheticTest{}, pgx.ErrNoRows
}

func (m *memorySyntheticTestRepo) ListByFounder(_ context.Context, founderID string) ([]domain.SyntheticTest, error) {
	var out []domain.SyntheticTest
	for i := len(m.tests) - 1; i >= 0; i-- {
		if m.tests[i].FounderID == founderID {
			out = append(out, m.tests[i])
		}
	}
	return out, nil
}

// --- oraculo enlatado para --offline ---

var (
	personaCountRe = regexp.MustCompile(`Generate (\d+) diverse`)
	personaNameRe  = regexp.MustCompile(`(?m)^Name: (.+)$`)
)

var cannedConcerns = []string{"Pricing", "Market size", "Team experience", "Competition", "Go-to-market"}

// cannedOracle responde de forma deterministica segun la etapa del prompt.
type cannedOracle struct{}

func newCannedOracle() cannedOracle { return cannedOracle{} }

func (cannedOracle) Generate(_ context.Context, prompt string) (string, error) {
	switch {
	case strings.HasPrefix(prompt, "You are an AI that generates realistic investor personas"):
		m := personaCountRe.FindStringSubmatch(prompt)
		if m == nil {
			return "", fmt.Errorf("canned oracle: no persona count in prompt")
		}
		n, _ := strconv.Atoi(m[1])
		return cannedPersonas(n), nil
	case strings.HasPrefix(prompt, "You are roleplaying as"):
		m := personaNameRe.FindStringSubmatch(prompt)
		if m == nil {
			return "", fmt.Errorf("canned oracle: no persona name in prompt")
		}
		return cannedEvaluation(m[1]), nil
	case strings.HasPrefix(prompt, "Based on synthetic investor testing"):
		return `["Lead with a customer metric", "Clarify pricing tiers", "Name the first target segment"]`, nil
	}
	return "", fmt.Errorf("canned oracle: unexpected prompt")
}

func cannedPersonas(n int) string {
	risks := []string{domain.RiskToleranceLow, domain.RiskToleranceMedium, domain.RiskToleranceHigh}
	personas := make([]domain.SyntheticPersona, n)
	for i := range personas {
		personas[i] = domain.SyntheticPersona{
			Name:               fmt.Sprintf("Offline Investor %d", i+1),
			Role:               "Angel Investor",
			InvestmentThesis:   "Backs early B2B software with clear distribution.",
			StagePreference:    []string{"pre_seed", "seed"},
			InvestmentRange:    domain.AmountRange{Min: 25000, Max: 250000},
			RiskTolerance:      risks[i%len(risks)],
			IndustryExperience: []string{"saas"},
		}
	}
	b, _ := json.Marshal(personas)
	return string(b)
}

func cannedEvaluation(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	v := h.Sum32()

	decision := domain.ActionPass
	switch v % 10 {
	case 0:
		decision = domain.ActionSuperLike
	case 1, 2, 3, 4:
		decision = domain.ActionLike
	}
	b, _ := json.Marshal(map[string]any{
		"decision":       decision,
		"reasoning":      "Offline evaluation.",
		"interest_score": int(v % 101),
		"concerns":       []string{cannedConcerns[v%uint32(len(cannedConcerns))]},
		"suggestions":    []string{},
	})
	return string(b)
}
