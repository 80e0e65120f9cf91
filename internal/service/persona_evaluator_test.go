package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"swipe-market/internal/domain"
	"swipe-market/internal/llm"
)

func TestEvaluateAllFallbackForFailedPersona(t *testing.T) {
	oracle := pipelineOracle{
		evaluate: func(name string) (string, error) {
			if name == "Persona 7" {
				return "", errors.New("upstream 500")
			}
			return evaluationJSON("like", 80, "pricing"), nil
		},
	}
	evaluator := NewPersonaEvaluator(oracle.client(), nil, 0)
	personas := testPersonas(10)

	responses := evaluator.EvaluateAll(context.Background(), personas, testProduct())

	if len(responses) != 10 {
		t.Fatalf("expected 10 responses, got %d", len(responses))
	}
	failed := responses[6]
	want := domain.PersonaResponse{
		Persona:       personas[6],
		Decision:      domain.ActionPass,
		Reasoning:     "Evaluation failed",
		InterestScore: 0,
		Concerns:      []string{"Evaluation error"},
		Suggestions:   []string{},
	}
	if diff := cmp.Diff(want, failed); diff != "" {
		t.Fatalf("fallback mismatch (-want +got):\n%s", diff)
	}
	for i, r := range responses {
		if r.Persona.Name != personas[i].Name {
			t.Fatalf("expected response %d aligned with %q, got %q", i, personas[i].Name, r.Persona.Name)
		}
		if i != 6 && r.Decision != domain.ActionLike {
			t.Fatalf("expected response %d to be like, got %q", i, r.Decision)
		}
	}
}

func TestEvaluateAllAlwaysReturnsOneResponsePerPersona(t *testing.T) {
	for _, n := range []int{1, 3, 17, 40} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			var calls int64
			oracle := pipelineOracle{
				evaluate: func(name string) (string, error) {
					c := atomic.AddInt64(&calls, 1)
					switch c % 3 {
					case 0:
						return "", errors.New("boom")
					case 1:
						return "not json", nil
					}
					return evaluationJSON("super-like", 95), nil
				},
			}
			evaluator := NewPersonaEvaluator(oracle.client(), nil, 4)
			responses := evaluator.EvaluateAll(context.Background(), testPersonas(n), testProduct())
			if len(responses) != n {
				t.Fatalf("expected %d responses, got %d", n, len(responses))
			}
			if got := atomic.LoadInt64(&calls); got != int64(n) {
				t.Fatalf("expected exactly %d oracle calls, got %d", n, got)
			}
			for i, r := range responses {
				if !domain.IsValidAction(r.Decision) {
					t.Fatalf("response %d has invalid decision %q", i, r.Decision)
				}
			}
		})
	}
}

func TestEvaluateAllRespectsConcurrencyLimit(t *testing.T) {
	var inFlight, peak int64
	client := &llm.FuncClient{Fn: func(ctx context.Context, prompt string) (string, error) {
		cur := atomic.AddInt64(&inFlight, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return evaluationJSON("pass", 20), nil
	}}
	evaluator := NewPersonaEvaluator(client, nil, 2)
	evaluator.EvaluateAll(context.Background(), testPersonas(8), testProduct())
	if p := atomic.LoadInt64(&peak); p > 2 {
		t.Fatalf("expected at most 2 concurrent calls, got %d", p)
	}
}

func TestEvaluateNormalizesOutput(t *testing.T) {
	raw := "Sure!\n```json\n" + `{"decision":" Super-Like ","reasoning":"  great  ","interest_score":140,"concerns":[" team ",""],"suggestions":null}` + "\n```"
	evaluator := NewPersonaEvaluator(&llm.MockClient{Response: raw}, nil, 0)

	got, err := evaluator.Evaluate(context.Background(), testPersona(1), testProduct())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Decision != domain.ActionSuperLike {
		t.Fatalf("expected super_like, got %q", got.Decision)
	}
	if got.InterestScore != 100 {
		t.Fatalf("expected score clamped to 100, got %d", got.InterestScore)
	}
	if diff := cmp.Diff([]string{"team"}, got.Concerns); diff != "" {
		t.Fatalf("concerns mismatch (-want +got):\n%s", diff)
	}
	if got.Suggestions == nil {
		t.Fatalf("expected non-nil suggestions")
	}
}

func TestEvaluateAcceptsLooseDecisionAndScore(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantDecision string
		wantScore    int
	}{
		{"fractional score", `{"decision":"like","reasoning":"ok","interest_score":72.5,"concerns":[],"suggestions":[]}`, domain.ActionLike, 73},
		{"quoted score", `{"decision":"pass","interest_score":"64.4"}`, domain.ActionPass, 64},
		{"negative fractional", `{"decision":"pass","interest_score":-3.2}`, domain.ActionPass, 0},
		{"spaced decision", `{"decision":"Super Like","interest_score":91}`, domain.ActionSuperLike, 91},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			evaluator := NewPersonaEvaluator(&llm.MockClient{Response: tc.raw}, nil, 0)
			got, err := evaluator.Evaluate(context.Background(), testPersona(1), testProduct())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Decision != tc.wantDecision || got.InterestScore != tc.wantScore {
				t.Fatalf("expected %s/%d, got %s/%d", tc.wantDecision, tc.wantScore, got.Decision, got.InterestScore)
			}
		})
	}
}

func TestEvaluateAllKeepsFractionalScoreEvaluations(t *testing.T) {
	client := &llm.MockClient{Response: `{"decision":"like","reasoning":"Fits","interest_score":72.5,"concerns":["Pricing"],"suggestions":[]}`}
	evaluator := NewPersonaEvaluator(client, nil, 0)

	responses := evaluator.EvaluateAll(context.Background(), testPersonas(3), testProduct())
	for i, r := range responses {
		if r.Decision != domain.ActionLike || r.InterestScore != 73 {
			t.Fatalf("response %d: expected like/73, got %s/%d", i, r.Decision, r.InterestScore)
		}
		if len(r.Concerns) == 1 && r.Concerns[0] == domain.EvaluationErrorConcern {
			t.Fatalf("response %d replaced by fallback", i)
		}
	}
}

func TestEvaluateRejectsNonNumericScore(t *testing.T) {
	evaluator := NewPersonaEvaluator(&llm.MockClient{Response: `{"decision":"like","interest_score":"high"}`}, nil, 0)
	if _, err := evaluator.Evaluate(context.Background(), testPersona(1), testProduct()); err == nil {
		t.Fatalf("expected error for non numeric score")
	}
}

func TestEvaluateRejectsUnknownDecision(t *testing.T) {
	evaluator := NewPersonaEvaluator(&llm.MockClient{Response: `{"decision":"maybe","interest_score":50}`}, nil, 0)
	_, err := evaluator.Evaluate(context.Background(), testPersona(1), testProduct())
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}
