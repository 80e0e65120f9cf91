package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"swipe-market/internal/llm"
)

func TestResultAnalyzerAnalyze(t *testing.T) {
	client := &llm.MockClient{Response: `Here you go: ["Clarify pricing", "Show traction"]`}
	analyzer := NewResultAnalyzer(client)

	results, err := analyzer.Analyze(context.Background(), testProduct(), responsesWith(2, 1, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"Clarify pricing", "Show traction"}, results.Recommendations); diff != "" {
		t.Fatalf("recommendations mismatch (-want +got):\n%s", diff)
	}
	if results.LikeRate != 75 {
		t.Fatalf("expected like_rate 75, got %v", results.LikeRate)
	}
}

func TestResultAnalyzerRecommendationFailureIsFatal(t *testing.T) {
	cases := map[string]*llm.MockClient{
		"oracle error": {Err: errors.New("quota exceeded")},
		"unparseable":  {Response: "no recommendations today"},
		"empty list":   {Response: `[]`},
	}
	for name, client := range cases {
		t.Run(name, func(t *testing.T) {
			analyzer := NewResultAnalyzer(client)
			_, err := analyzer.Analyze(context.Background(), testProduct(), responsesWith(1, 1, 0))
			if !errors.Is(err, ErrRecommendationFailure) {
				t.Fatalf("expected ErrRecommendationFailure, got %v", err)
			}
		})
	}
}

func TestResultAnalyzerRejectsEmptyBatch(t *testing.T) {
	client := &llm.FuncClient{Fn: func(context.Context, string) (string, error) {
		return `["x"]`, nil
	}}
	_, err := NewResultAnalyzer(client).Analyze(context.Background(), testProduct(), nil)
	if !errors.Is(err, ErrNoResponses) {
		t.Fatalf("expected ErrNoResponses, got %v", err)
	}
	if len(client.Prompts()) != 0 {
		t.Fatalf("expected no oracle call for an empty batch")
	}
}

func TestBuildRecommendationPromptSamplesFiveReasonings(t *testing.T) {
	results, err := Aggregate(responsesWith(8, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range results.PersonaResponses {
		results.PersonaResponses[i].Reasoning = "reason"
	}
	prompt := buildRecommendationPrompt(testProduct(), results)
	if got := strings.Count(prompt, `: "reason"`); got != recommendationSampleSize {
		t.Fatalf("expected %d sampled reasonings, got %d", recommendationSampleSize, got)
	}
	if !strings.Contains(prompt, "Like Rate: 100.0%") {
		t.Fatalf("expected like rate in prompt:\n%s", prompt)
	}
}
