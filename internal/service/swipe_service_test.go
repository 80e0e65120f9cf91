package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"swipe-market/internal/domain"
	"swipe-market/internal/llm"
	"swipe-market/internal/repository"
)

type fakeInteractionRepo struct {
	mu      sync.Mutex
	created []domain.Interaction
	seen    map[string]bool
	reviews []domain.Review
	deals   map[string]domain.Interaction
}

func (r *fakeInteractionRepo) Create(_ context.Context, in domain.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen == nil {
		r.seen = map[string]bool{}
	}
	key := in.InvestorID + "|" + in.ProductID
	if r.seen[key] {
		return repository.ErrDuplicate
	}
	r.seen[key] = true
	r.created = append(r.created, in)
	return nil
}

func (r *fakeInteractionRepo) UpsertReview(_ context.Context, investorID, productID string, rating int, text string, at time.Time) (domain.Interaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = append(r.reviews, domain.Review{InvestorID: investorID, Rating: rating, Text: text, ReviewedAt: at})
	return domain.Interaction{InvestorID: investorID, ProductID: productID, Action: domain.ActionLike, ReviewRating: &rating, ReviewText: text, ReviewedAt: &at}, nil
}

func (r *fakeInteractionRepo) ListReviewsByProduct(context.Context, string) ([]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reviews, nil
}

func (r *fakeInteractionRepo) ActivityStats(context.Context, string) (domain.ActivityStats, error) {
	return domain.ActivityStats{}, nil
}

func (r *fakeInteractionRepo) MarkDeal(_ context.Context, investorID, productID string, amount *float64, at time.Time) (domain.Interaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deals == nil {
		r.deals = map[string]domain.Interaction{}
	}
	in := domain.Interaction{InvestorID: investorID, ProductID: productID, Action: domain.ActionLike, DealDone: true, DealAmount: amount, DealClosedAt: &at}
	r.deals[investorID+"|"+productID] = in
	return in, nil
}

func (r *fakeInteractionRepo) UnmarkDeal(_ context.Context, investorID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := investorID + "|" + productID
	if _, ok := r.deals[key]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.deals, key)
	return nil
}

func (r *fakeInteractionRepo) ListDeals(_ context.Context, investorID string) ([]domain.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Deal
	for _, in := range r.deals {
		if in.InvestorID == investorID {
			out = append(out, domain.Deal{Interaction: in})
		}
	}
	return out, nil
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	matches map[string]domain.Match
	byPair  map[string]string
}

func newFakeMatchRepo(matches ...domain.Match) *fakeMatchRepo {
	r := &fakeMatchRepo{matches: map[string]domain.Match{}, byPair: map[string]string{}}
	for _, m := range matches {
		_, _, _ = r.CreateIfAbsent(context.Background(), m)
	}
	return r
}

func (r *fakeMatchRepo) CreateIfAbsent(_ context.Context, m domain.Match) (domain.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := m.InvestorID + "|" + m.ProductID
	if _, ok := r.byPair[key]; ok {
		return domain.Match{}, false, nil
	}
	r.byPair[key] = m.ID
	r.matches[m.ID] = m
	return m, true, nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id string) (domain.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return domain.Match{}, pgx.ErrNoRows
	}
	return m, nil
}

func (r *fakeMatchRepo) ListByInvestor(_ context.Context, id string) ([]domain.Match, error) {
	return r.filter(func(m domain.Match) bool { return m.InvestorID == id }), nil
}

func (r *fakeMatchRepo) ListByFounder(_ context.Context, id string) ([]domain.Match, error) {
	return r.filter(func(m domain.Match) bool { return m.FounderID == id }), nil
}

func (r *fakeMatchRepo) filter(keep func(domain.Match) bool) []domain.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Match
	for _, m := range r.matches {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func testInvestor() domain.User {
	return domain.User{
		ID:       "inv-1",
		UserType: domain.UserTypeInvestor,
		Tier:     domain.TierInvestor,
		Profile:  domain.UserProfile{InvestmentThesis: "Vertical SaaS for SMBs"},
	}
}

func TestSwipeServiceSwipeLikeCreatesMatch(t *testing.T) {
	products := newFakeProductRepo(testProduct())
	interactions := &fakeInteractionRepo{}
	matches := newFakeMatchRepo()
	client := &llm.MockClient{Response: `{"score": 82.4, "reasoning": "Strong signals", "confidence": 1.4}`}
	svc := NewSwipeService(nil, products, interactions, matches, client, AccessPolicy{BypassPaywall: true})

	res, err := svc.Swipe(context.Background(), testInvestor(), SwipeInput{ProductID: "prod-1", Action: "LIKE", TimeSpentSeconds: 30, VideoCompletionPct: 80})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Match == nil || res.Match.FounderID != "founder-1" || res.Match.Status != domain.MatchStatusInterested {
		t.Fatalf("expected match with founder, got %+v", res.Match)
	}
	if res.Interaction.AIIntentScore == nil || *res.Interaction.AIIntentScore != 82 {
		t.Fatalf("expected intent score 82, got %v", res.Interaction.AIIntentScore)
	}
	if products.likes["prod-1"] != 1 {
		t.Fatalf("expected like count bumped, got %d", products.likes["prod-1"])
	}

	if _, err := svc.Swipe(context.Background(), testInvestor(), SwipeInput{ProductID: "prod-1", Action: "pass"}); !errors.Is(err, ErrAlreadySwiped) {
		t.Fatalf("expected ErrAlreadySwiped, got %v", err)
	}
}

func TestSwipeServiceSwipePassSkipsOracleAndMatch(t *testing.T) {
	client := &llm.FuncClient{Fn: func(context.Context, string) (string, error) {
		return "", errors.New("should not be called")
	}}
	matches := newFakeMatchRepo()
	svc := NewSwipeService(nil, newFakeProductRepo(testProduct()), &fakeInteractionRepo{}, matches, client, AccessPolicy{BypassPaywall: true})

	res, err := svc.Swipe(context.Background(), testInvestor(), SwipeInput{ProductID: "prod-1", Action: "pass"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Match != nil {
		t.Fatalf("expected no match on pass")
	}
	if len(client.Prompts()) != 0 {
		t.Fatalf("expected no oracle calls on pass")
	}
}

func TestSwipeServiceSwipeIntentFailureIsBestEffort(t *testing.T) {
	svc := NewSwipeService(nil, newFakeProductRepo(testProduct()), &fakeInteractionRepo{}, newFakeMatchRepo(), &llm.MockClient{Err: errors.New("down")}, AccessPolicy{BypassPaywall: true})
	res, err := svc.Swipe(context.Background(), testInvestor(), SwipeInput{ProductID: "prod-1", Action: "super_like"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Interaction.AIIntentScore != nil {
		t.Fatalf("expected no intent score")
	}
	if res.Match == nil {
		t.Fatalf("expected match on super_like")
	}
}

func TestSwipeServiceSwipeValidation(t *testing.T) {
	svc := NewSwipeService(nil, newFakeProductRepo(testProduct()), &fakeInteractionRepo{}, newFakeMatchRepo(), nil, AccessPolicy{BypassPaywall: true})
	cases := []struct {
		name  string
		user  domain.User
		input SwipeInput
		want  error
	}{
		{"founder cannot swipe", testFounder(), SwipeInput{ProductID: "prod-1", Action: "like"}, ErrForbidden},
		{"unknown action", testInvestor(), SwipeInput{ProductID: "prod-1", Action: "maybe"}, ErrInvalidInput},
		{"completion over 100", testInvestor(), SwipeInput{ProductID: "prod-1", Action: "like", VideoCompletionPct: 120}, ErrInvalidInput},
		{"missing product", testInvestor(), SwipeInput{ProductID: "nope", Action: "like"}, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Swipe(context.Background(), tc.user, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSwipeServiceFeedEnrichment(t *testing.T) {
	p1 := testProduct()
	p2 := testProduct()
	p2.ID, p2.Title = "prod-2", "Broken"
	products := newFakeProductRepo(p1, p2)
	products.feed = []domain.Product{p1, p2}

	client := &llm.FuncClient{Fn: func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "Title: Broken") {
			return "", errors.New("timeout")
		}
		return `{"score": 76.6, "reasoning": "Fits thesis"}`, nil
	}}
	svc := NewSwipeService(nil, products, &fakeInteractionRepo{}, newFakeMatchRepo(), client, AccessPolicy{BypassPaywall: true})

	cards, err := svc.Feed(context.Background(), testInvestor(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].AIMatchScore == nil || *cards[0].AIMatchScore != 77 || cards[0].AIInsight != "Fits thesis" {
		t.Fatalf("expected enriched first card, got %+v", cards[0])
	}
	if cards[1].AIMatchScore != nil {
		t.Fatalf("expected failed card without score")
	}
}

func TestSwipeServiceFeedWithoutThesisSkipsOracle(t *testing.T) {
	products := newFakeProductRepo()
	products.feed = []domain.Product{testProduct()}
	client := &llm.FuncClient{Fn: func(context.Context, string) (string, error) { return "{}", nil }}
	svc := NewSwipeService(nil, products, &fakeInteractionRepo{}, newFakeMatchRepo(), client, AccessPolicy{BypassPaywall: true})

	investor := testInvestor()
	investor.Profile.InvestmentThesis = ""
	cards, err := svc.Feed(context.Background(), investor, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 1 || cards[0].AIMatchScore != nil {
		t.Fatalf("expected plain card, got %+v", cards)
	}
	if len(client.Prompts()) != 0 {
		t.Fatalf("expected no oracle calls")
	}
}

func TestSwipeServiceReviews(t *testing.T) {
	interactions := &fakeInteractionRepo{}
	svc := NewSwipeService(nil, newFakeProductRepo(testProduct()), interactions, newFakeMatchRepo(), nil, AccessPolicy{})

	if _, err := svc.Review(context.Background(), testInvestor(), ReviewInput{ProductID: "prod-1", Rating: 6}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	for _, rating := range []int{4, 5} {
		if _, err := svc.Review(context.Background(), testInvestor(), ReviewInput{ProductID: "prod-1", Rating: rating, Text: " ok "}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	got, err := svc.Reviews(context.Background(), "prod-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Count != 2 || got.AverageRating != 4.5 {
		t.Fatalf("expected 2 reviews averaging 4.5, got %+v", got)
	}
	if got.Reviews[0].Text != "ok" {
		t.Fatalf("expected trimmed review text, got %q", got.Reviews[0].Text)
	}
}
