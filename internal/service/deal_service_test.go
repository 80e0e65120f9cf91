package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"swipe-market/internal/domain"
)

func newDealFixture() (*DealService, *fakeInteractionRepo) {
	interactions := &fakeInteractionRepo{}
	svc := NewDealService(nil, newFakeProductRepo(testProduct()), interactions)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	return svc, interactions
}

func TestDealServiceMarkListUnmark(t *testing.T) {
	svc, _ := newDealFixture()
	ctx := context.Background()
	amount := 50000.0

	in, err := svc.Mark(ctx, testInvestor(), "prod-1", &amount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !in.DealDone || in.DealAmount == nil || *in.DealAmount != 50000 || in.DealClosedAt == nil {
		t.Fatalf("expected closed deal with amount, got %+v", in)
	}

	deals, err := svc.List(ctx, testInvestor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deals) != 1 || deals[0].ProductID != "prod-1" {
		t.Fatalf("expected one deal for prod-1, got %+v", deals)
	}

	if err := svc.Unmark(ctx, testInvestor(), "prod-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	deals, _ = svc.List(ctx, testInvestor())
	if deals == nil || len(deals) != 0 {
		t.Fatalf("expected empty non-nil deal list, got %#v", deals)
	}
	if err := svc.Unmark(ctx, testInvestor(), "prod-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second unmark, got %v", err)
	}
}

func TestDealServiceMarkWithoutAmount(t *testing.T) {
	svc, interactions := newDealFixture()

	if _, err := svc.Mark(context.Background(), testInvestor(), "prod-1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := interactions.deals["inv-1|prod-1"]; got.DealAmount != nil {
		t.Fatalf("expected nil amount, got %v", *got.DealAmount)
	}
}

func TestDealServiceErrors(t *testing.T) {
	svc, _ := newDealFixture()
	ctx := context.Background()
	negative := -10.0

	cases := []struct {
		name      string
		user      domain.User
		productID string
		amount    *float64
		want      error
	}{
		{name: "founder", user: testFounder(), productID: "prod-1", want: ErrForbidden},
		{name: "missing product id", user: testInvestor(), want: ErrInvalidInput},
		{name: "negative amount", user: testInvestor(), productID: "prod-1", amount: &negative, want: ErrInvalidInput},
		{name: "unknown product", user: testInvestor(), productID: "missing", want: ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Mark(ctx, tc.user, tc.productID, tc.amount); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := svc.List(ctx, testFounder()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden listing as founder, got %v", err)
	}
	if err := svc.Unmark(ctx, testInvestor(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without product id, got %v", err)
	}
}
