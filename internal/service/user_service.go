package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"swipe-market/internal/domain"
	"swipe-market/internal/repository"
)

// UserService coordina reglas de negocio para usuarios. La identidad la verifica
// el proveedor externo; aca solo se vincula (provider, subject) con un usuario.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
	now    func() time.Time
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		logger: logger,
		users:  users,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type OAuthInput struct {
	Provider    string
	Subject     string
	Email       string
	DisplayName string
}

var ErrOAuthInvalid = errors.New("oauth data invalid")

// UpsertOAuthUser devuelve el usuario de (provider, subject) o lo crea sin tipo asignado.
func (s *UserService) UpsertOAuthUser(ctx context.Context, input OAuthInput) (domain.User, error) {
	provider := strings.ToLower(strings.TrimSpace(input.Provider))
	subject := strings.TrimSpace(input.Subject)
	emailAddr := normalizeEmail(input.Email)
	if provider == "" || subject == "" {
		return domain.User{}, ErrOAuthInvalid
	}
	if emailAddr != "" {
		if _, err := mail.ParseAddress(emailAddr); err != nil {
			return domain.User{}, fmt.Errorf("%w: invalid email", ErrOAuthInvalid)
		}
	}

	user, err := s.users.GetByAuth(ctx, provider, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	now := s.now()
	user = domain.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		AuthProvider: provider,
		AuthSubject:  subject,
		Tier:         domain.TierFree,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// dos logins simultaneos del mismo sujeto
		if errors.Is(err, repository.ErrDuplicate) {
			return s.users.GetByAuth(ctx, provider, subject)
		}
		return domain.User{}, err
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("provider", provider))
	return user, nil
}

type OnboardInput struct {
	UserType string
	Profile  domain.UserProfile
}

// Onboard fija el rol del usuario una unica vez.
func (s *UserService) Onboard(ctx context.Context, userID string, input OnboardInput) (domain.User, error) {
	userType := strings.ToLower(strings.TrimSpace(input.UserType))
	if !domain.IsValidUserType(userType) {
		return domain.User{}, fmt.Errorf("%w: unknown user type %q", ErrInvalidInput, input.UserType)
	}
	profile := input.Profile
	if r := profile.InvestmentRange; r != nil && (r.Min < 0 || r.Min > r.Max) {
		return domain.User{}, fmt.Errorf("%w: investment range", ErrInvalidInput)
	}
	profile.StagePreference = normalizeSet(profile.StagePreference, true)

	user, err := s.users.Onboard(ctx, userID, userType, profile, domain.TierFree)
	switch {
	case errors.Is(err, repository.ErrAlreadyOnboarded):
		return domain.User{}, ErrAlreadyOnboarded
	case errors.Is(err, pgx.ErrNoRows):
		return domain.User{}, ErrNotFound
	case err != nil:
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	return user, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
