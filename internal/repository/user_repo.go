package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"swipe-market/internal/domain"
)

// ErrAlreadyOnboarded se devuelve si el usuario ya tiene tipo asignado.
var ErrAlreadyOnboarded = errors.New("user already onboarded")

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByAuth(ctx context.Context, provider, subject string) (domain.User, error)
	Onboard(ctx context.Context, id, userType string, profile domain.UserProfile, tier string) (domain.User, error)
	UpdateReputation(ctx context.Context, id string, score float64, rank int) error
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `id, email, display_name, auth_provider, auth_subject, COALESCE(user_type, ''), tier, profile, reputation_score, rank, created_at, updated_at`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, display_name, auth_provider, auth_subject, user_type, tier, profile, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.AuthProvider,
		user.AuthSubject,
		user.UserType,
		user.Tier,
		user.Profile,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return mapWriteError(err)
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByAuth(ctx context.Context, provider, subject string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE auth_provider = $1 AND auth_subject = $2`
	return scanUser(r.pool.QueryRow(ctx, query, provider, subject))
}

// Onboard asigna tipo y perfil una sola vez; si ya estaba asignado devuelve ErrAlreadyOnboarded.
func (r *PgUserRepository) Onboard(ctx context.Context, id, userType string, profile domain.UserProfile, tier string) (domain.User, error) {
	query := `
		UPDATE users
		SET user_type = $2, profile = $3, tier = $4, updated_at = $5
		WHERE id = $1 AND user_type IS NULL
		RETURNING ` + userColumns
	user, err := scanUser(r.pool.QueryRow(ctx, query, id, userType, profile, tier, time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return domain.User{}, getErr
		}
		return domain.User{}, ErrAlreadyOnboarded
	}
	return user, err
}

func (r *PgUserRepository) UpdateReputation(ctx context.Context, id string, score float64, rank int) error {
	const query = `
		UPDATE users
		SET reputation_score = $2, rank = $3, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, score, rank)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT id, COALESCE(profile->>'name', ''), COALESCE(profile->>'avatar', ''), COALESCE(user_type, ''), reputation_score, rank
		FROM users
		WHERE reputation_score > 0
		ORDER BY reputation_score DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Avatar, &e.UserType, &e.ReputationScore, &e.Rank); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.DisplayName,
		&u.AuthProvider,
		&u.AuthSubject,
		&u.UserType,
		&u.Tier,
		&u.Profile,
		&u.ReputationScore,
		&u.Rank,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
