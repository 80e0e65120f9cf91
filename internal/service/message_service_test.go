package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"swipe-market/internal/domain"
)

type fakeMessageRepo struct {
	mu   sync.Mutex
	msgs []domain.Message
}

func (r *fakeMessageRepo) Create(_ context.Context, m domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
	return nil
}

func (r *fakeMessageRepo) ListByMatchID(_ context.Context, matchID string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, m := range r.msgs {
		if m.MatchID == matchID {
			out = append(out, m)
		}
	}
	return out, nil
}

func testMatch() domain.Match {
	return domain.Match{ID: "m1", FounderID: "founder-1", InvestorID: "inv-1", ProductID: "prod-1", Status: domain.MatchStatusInterested}
}

func TestMessageServiceSendAndList(t *testing.T) {
	svc := NewMessageService(newFakeMatchRepo(testMatch()), &fakeMessageRepo{})
	ctx := context.Background()

	if _, err := svc.Send(ctx, testInvestor(), "m1", "  Hi, love the product  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Send(ctx, testFounder(), "m1", "Thanks!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs, err := svc.List(ctx, testFounder(), "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "Hi, love the product" {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
}

func TestMessageServiceOnlyParticipants(t *testing.T) {
	svc := NewMessageService(newFakeMatchRepo(testMatch()), &fakeMessageRepo{})
	outsider := domain.User{ID: "inv-2", UserType: domain.UserTypeInvestor}

	if _, err := svc.Send(context.Background(), outsider, "m1", "hello"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.List(context.Background(), outsider, "m1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.List(context.Background(), testFounder(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMessageServiceValidatesContent(t *testing.T) {
	svc := NewMessageService(newFakeMatchRepo(testMatch()), &fakeMessageRepo{})
	for _, content := range []string{"   ", strings.Repeat("a", maxMessageLength+1)} {
		if _, err := svc.Send(context.Background(), testInvestor(), "m1", content); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	}
}

func TestMessageServiceListMatches(t *testing.T) {
	svc := NewMessageService(newFakeMatchRepo(testMatch()), &fakeMessageRepo{})
	for _, u := range []domain.User{testInvestor(), testFounder()} {
		matches, err := svc.ListMatches(context.Background(), u)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) != 1 {
			t.Fatalf("expected one match for %s, got %d", u.UserType, len(matches))
		}
	}
	matches, err := svc.ListMatches(context.Background(), domain.User{ID: "x", UserType: domain.UserTypeEarlyAdopter})
	if err != nil || matches == nil || len(matches) != 0 {
		t.Fatalf("expected empty list for early adopters, got %v %v", matches, err)
	}
}
