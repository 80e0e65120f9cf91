package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"

	"swipe-market/internal/domain"
	"swipe-market/internal/repository"
)

type mockUserRepo struct {
	mu          sync.Mutex
	usersByID   map[string]domain.User
	usersByAuth map[string]string
	createErr   error
}

func newMockUserRepo(users ...domain.User) *mockUserRepo {
	m := &mockUserRepo{
		usersByID:   make(map[string]domain.User),
		usersByAuth: make(map[string]string),
	}
	for _, u := range users {
		_ = m.Create(context.Background(), u)
	}
	return m
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.usersByID[user.ID] = user
	if user.AuthProvider != "" && user.AuthSubject != "" {
		m.usersByAuth[user.AuthProvider+"|"+user.AuthSubject] = user.ID
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByAuth(ctx context.Context, provider, subject string) (domain.User, error) {
	m.mu.Lock()
	id, ok := m.usersByAuth[provider+"|"+subject]
	m.mu.Unlock()
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) Onboard(_ context.Context, id, userType string, profile domain.UserProfile, tier string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	if user.UserType != "" {
		return domain.User{}, repository.ErrAlreadyOnboarded
	}
	user.UserType = userType
	user.Profile = profile
	user.Tier = tier
	m.usersByID[id] = user
	return user, nil
}

func (m *mockUserRepo) UpdateReputation(_ context.Context, id string, score float64, rank int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.ReputationScore = score
	user.Rank = rank
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) Leaderboard(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.LeaderboardEntry
	for _, u := range m.usersByID {
		if u.ReputationScore > 0 {
			out = append(out, domain.LeaderboardEntry{UserID: u.ID, Name: u.Profile.Name, UserType: u.UserType, ReputationScore: u.ReputationScore, Rank: u.Rank})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReputationScore > out[j].ReputationScore })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestUserService_UpsertOAuthUser(t *testing.T) {
	ctx := context.Background()
	repo := newMockUserRepo()
	svc := NewUserService(nil, repo)

	created, err := svc.UpsertOAuthUser(ctx, OAuthInput{Provider: " Google ", Subject: "sub-1", Email: " Ana@Example.com ", DisplayName: "Ana"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Email != "ana@example.com" || created.AuthProvider != "google" {
		t.Fatalf("expected normalized identity, got %+v", created)
	}
	if created.Onboarded() {
		t.Fatalf("expected new user without user type")
	}
	if created.Tier != domain.TierFree {
		t.Fatalf("expected free tier, got %q", created.Tier)
	}

	again, err := svc.UpsertOAuthUser(ctx, OAuthInput{Provider: "google", Subject: "sub-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != created.ID {
		t.Fatalf("expected same user on second login, got %s vs %s", again.ID, created.ID)
	}
}

func TestUserService_UpsertOAuthUserValidation(t *testing.T) {
	svc := NewUserService(nil, newMockUserRepo())
	if _, err := svc.UpsertOAuthUser(context.Background(), OAuthInput{Provider: "google"}); !errors.Is(err, ErrOAuthInvalid) {
		t.Fatalf("expected ErrOAuthInvalid for missing subject, got %v", err)
	}
	if _, err := svc.UpsertOAuthUser(context.Background(), OAuthInput{Provider: "google", Subject: "s", Email: "not-an-email"}); !errors.Is(err, ErrOAuthInvalid) {
		t.Fatalf("expected ErrOAuthInvalid for bad email, got %v", err)
	}
}

func TestUserService_Onboard(t *testing.T) {
	ctx := context.Background()
	repo := newMockUserRepo(domain.User{ID: "u1", AuthProvider: "google", AuthSubject: "s1", Tier: domain.TierFree})
	svc := NewUserService(nil, repo)

	user, err := svc.Onboard(ctx, "u1", OnboardInput{
		UserType: "Investor",
		Profile: domain.UserProfile{
			InvestmentThesis: "B2B SaaS",
			StagePreference:  []string{"Pre-Seed", "seed"},
			InvestmentRange:  &domain.AmountRange{Min: 10000, Max: 100000},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.UserType != domain.UserTypeInvestor {
		t.Fatalf("expected investor, got %q", user.UserType)
	}
	if len(user.Profile.StagePreference) != 2 || user.Profile.StagePreference[0] != "pre_seed" {
		t.Fatalf("expected normalized stages, got %v", user.Profile.StagePreference)
	}

	if _, err := svc.Onboard(ctx, "u1", OnboardInput{UserType: "founder"}); !errors.Is(err, ErrAlreadyOnboarded) {
		t.Fatalf("expected ErrAlreadyOnboarded, got %v", err)
	}
	if _, err := svc.Onboard(ctx, "missing", OnboardInput{UserType: "founder"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Onboard(ctx, "u1", OnboardInput{UserType: "admin"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUserService_OnboardRejectsInvertedRange(t *testing.T) {
	repo := newMockUserRepo(domain.User{ID: "u1"})
	svc := NewUserService(nil, repo)
	_, err := svc.Onboard(context.Background(), "u1", OnboardInput{
		UserType: domain.UserTypeInvestor,
		Profile:  domain.UserProfile{InvestmentRange: &domain.AmountRange{Min: 5, Max: 1}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
