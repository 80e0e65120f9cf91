package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"swipe-market/internal/domain"
	"swipe-market/internal/llm"
	"swipe-market/internal/service"
)

type analysisFixture struct {
	env    testEnv
	router *gin.Engine
}

func newAnalysisFixture(oracle llm.LLMClient, policy service.AccessPolicy) analysisFixture {
	env := newTestEnv()
	products := &stubProductRepo{products: map[string]domain.Product{
		"prod-1": {ID: "prod-1", FounderID: "founder-1", Title: "LedgerLeaf"},
		"prod-2": {ID: "prod-2", FounderID: "founder-2", Title: "Other"},
	}}
	svc := service.NewMarketAnalysisService(zap.NewNop(), products, env.users, oracle, policy)
	h := NewAnalysisHandler(zap.NewNop(), svc)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	env.authed(r, http.MethodPost, "/market-analysis", h.MarketAnalysis)
	env.authed(r, http.MethodPost, "/products/:id/due-diligence", h.DueDiligence)
	return analysisFixture{env: env, router: r}
}

func analysisBody() map[string]any {
	return map[string]any{
		"product_name": "LedgerLeaf",
		"description":  strings.Repeat("Bookkeeping automation that closes the books for small firms. ", 3),
		"price_point":  "$49/month",
	}
}

func TestAnalysisHandlerMarketAnalysis_Success(t *testing.T) {
	f := newAnalysisFixture(&llm.MockClient{Response: `{"executive_summary":"Buyers exist.","confidence_score":64.5}`}, service.AccessPolicy{BypassPaywall: true})
	token := f.env.addUser(t, founderUser())

	rec := performRequest(f.router, http.MethodPost, "/market-analysis", analysisBody(), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Analysis domain.MarketAnalysis `json:"analysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Analysis.ConfidenceScore != 65 || resp.Analysis.ExecutiveSummary != "Buyers exist." {
		t.Fatalf("unexpected analysis: %+v", resp.Analysis)
	}
}

func TestAnalysisHandlerMarketAnalysis_StatusMapping(t *testing.T) {
	investor := domain.User{ID: "inv-1", UserType: domain.UserTypeInvestor, Tier: domain.TierInvestor}
	withBody := func(edit func(map[string]any)) map[string]any {
		b := analysisBody()
		edit(b)
		return b
	}

	tests := []struct {
		name   string
		user   domain.User
		oracle llm.LLMClient
		policy service.AccessPolicy
		body   map[string]any
		want   int
	}{
		{"missing price point", founderUser(), nil, service.AccessPolicy{BypassPaywall: true}, withBody(func(b map[string]any) { delete(b, "price_point") }), http.StatusBadRequest},
		{"short description", founderUser(), nil, service.AccessPolicy{BypassPaywall: true}, withBody(func(b map[string]any) { b["description"] = "Too short." }), http.StatusBadRequest},
		{"investor", investor, nil, service.AccessPolicy{BypassPaywall: true}, analysisBody(), http.StatusForbidden},
		{"foreign product", founderUser(), nil, service.AccessPolicy{BypassPaywall: true}, withBody(func(b map[string]any) { b["product_id"] = "prod-2" }), http.StatusForbidden},
		{"unknown product", founderUser(), nil, service.AccessPolicy{BypassPaywall: true}, withBody(func(b map[string]any) { b["product_id"] = "nope" }), http.StatusNotFound},
		{"paywall", founderUser(), nil, service.AccessPolicy{}, analysisBody(), http.StatusPaymentRequired},
		{"oracle failure", founderUser(), &llm.MockClient{Err: errors.New("upstream secret")}, service.AccessPolicy{BypassPaywall: true}, analysisBody(), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			oracle := tc.oracle
			if oracle == nil {
				oracle = &llm.MockClient{Response: `{"executive_summary":"ok"}`}
			}
			f := newAnalysisFixture(oracle, tc.policy)
			token := f.env.addUser(t, tc.user)

			rec := performRequest(f.router, http.MethodPost, "/market-analysis", tc.body, token)
			if rec.Code != tc.want {
				t.Fatalf("expected status %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
			if strings.Contains(rec.Body.String(), "upstream secret") {
				t.Fatalf("internal detail leaked: %s", rec.Body.String())
			}
		})
	}
}

func TestAnalysisHandlerDueDiligence(t *testing.T) {
	f := newAnalysisFixture(&llm.MockClient{Response: "- Market: large"}, service.AccessPolicy{BypassPaywall: true})
	investorToken := f.env.addUser(t, domain.User{ID: "inv-1", UserType: domain.UserTypeInvestor})
	founderToken := f.env.addUser(t, founderUser())

	rec := performRequest(f.router, http.MethodPost, "/products/prod-1/due-diligence", nil, investorToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var brief domain.DueDiligenceBrief
	if err := json.Unmarshal(rec.Body.Bytes(), &brief); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if brief.ProductID != "prod-1" || brief.Brief != "- Market: large" {
		t.Fatalf("unexpected brief: %+v", brief)
	}

	if rec := performRequest(f.router, http.MethodPost, "/products/nope/due-diligence", nil, investorToken); rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if rec := performRequest(f.router, http.MethodPost, "/products/prod-1/due-diligence", nil, founderToken); rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}
