package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"swipe-market/internal/domain"
	"swipe-market/internal/repository"
	"swipe-market/internal/service"
)

type mockUserRepo struct {
	usersByID   map[string]domain.User
	usersByAuth map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:   make(map[string]domain.User),
		usersByAuth: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.usersByID[user.ID] = user
	if user.AuthProvider != "" && user.AuthSubject != "" {
		m.usersByAuth[user.AuthProvider+"|"+user.AuthSubject] = user.ID
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByAuth(_ context.Context, provider, subject string) (domain.User, error) {
	id, ok := m.usersByAuth[provider+"|"+subject]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) Onboard(_ context.Context, id, userType string, profile domain.UserProfile, tier string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	if user.UserType != "" {
		return domain.User{}, repository.ErrAlreadyOnboarded
	}
	user.UserType, user.Profile, user.Tier = userType, profile, tier
	m.usersByID[id] = user
	return user, nil
}

func (m *mockUserRepo) UpdateReputation(context.Context, string, float64, int) error { return nil }

func (m *mockUserRepo) Leaderboard(context.Context, int) ([]domain.LeaderboardEntry, error) {
	return nil, nil
}

type testEnv struct {
	users  *mockUserRepo
	jwt    *service.JWTService
	userSv *service.UserService
}

func newTestEnv() testEnv {
	users := newMockUserRepo()
	return testEnv{
		users:  users,
		jwt:    service.NewJWTService("secret", 15*time.Minute, time.Hour, service.NewMemoryRefreshTokenStore()),
		userSv: service.NewUserService(zap.NewNop(), users),
	}
}

// addUser guarda el usuario y devuelve un access token valido.
func (e testEnv) addUser(t *testing.T, user domain.User) string {
	t.Helper()
	_ = e.users.Create(context.Background(), user)
	pair, err := e.jwt.GeneratePair(context.Background(), user)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	return pair.AccessToken
}

// authed monta la ruta detras de los middlewares de autenticacion.
func (e testEnv) authed(r *gin.Engine, method, path string, h gin.HandlerFunc) {
	r.Handle(method, path, JWTAuthMiddleware(e.jwt), CurrentUserMiddleware(e.userSv), h)
}

func setupUserRouter(env testEnv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUserHandler(zap.NewNop(), env.userSv, env.jwt)
	r.POST("/auth/oauth", h.OAuthLogin)
	r.POST("/auth/refresh", h.RefreshToken)
	r.POST("/auth/logout", h.Logout)
	env.authed(r, http.MethodPost, "/users/onboard", h.Onboard)
	env.authed(r, http.MethodGet, "/users/me", h.Me)
	return r
}

func performRequest(r http.Handler, method, path string, body any, token ...string) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if len(token) > 0 {
		req.Header.Set("Authorization", "Bearer "+token[0])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUserHandlerOAuthLogin_InvalidRequest(t *testing.T) {
	r := setupUserRouter(newTestEnv())
	rec := performRequest(r, http.MethodPost, "/auth/oauth", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestUserHandlerOAuthLogin_SuccessThenRefresh(t *testing.T) {
	r := setupUserRouter(newTestEnv())

	rec := performRequest(r, http.MethodPost, "/auth/oauth", map[string]string{
		"provider":     "google",
		"subject":      "sub-1",
		"email":        "user@example.com",
		"display_name": "Test",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp struct {
		Tokens          service.TokenPair `json:"tokens"`
		NeedsOnboarding bool              `json:"needs_onboarding"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.NeedsOnboarding {
		t.Fatalf("expected new user to need onboarding")
	}

	rec = performRequest(r, http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": resp.Tokens.RefreshToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected refresh 200, got %d", rec.Code)
	}
	rec = performRequest(r, http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": resp.Tokens.RefreshToken})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected rotated refresh token to be rejected, got %d", rec.Code)
	}
}

func TestUserHandlerOnboard(t *testing.T) {
	env := newTestEnv()
	r := setupUserRouter(env)
	token := env.addUser(t, domain.User{ID: "u1", Tier: domain.TierFree})

	rec := performRequest(r, http.MethodPost, "/users/onboard", map[string]any{
		"user_type": "founder",
		"profile":   map[string]any{"name": "Ana", "company": "LedgerLeaf"},
	}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(r, http.MethodPost, "/users/onboard", map[string]any{"user_type": "investor"}, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409 on second onboarding, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodGet, "/users/me", nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var me struct {
		User domain.User `json:"user"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &me)
	if me.User.UserType != domain.UserTypeFounder || me.User.Profile.Name != "Ana" {
		t.Fatalf("unexpected user: %+v", me.User)
	}
}

func TestUserHandlerOnboard_InvalidType(t *testing.T) {
	env := newTestEnv()
	r := setupUserRouter(env)
	token := env.addUser(t, domain.User{ID: "u1"})

	rec := performRequest(r, http.MethodPost, "/users/onboard", map[string]any{"user_type": "admin"}, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestUserHandlerMe_Unauthorized(t *testing.T) {
	r := setupUserRouter(newTestEnv())
	if rec := performRequest(r, http.MethodGet, "/users/me", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if rec := performRequest(r, http.MethodGet, "/users/me", nil, "garbage"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for bad token, got %d", rec.Code)
	}
}
