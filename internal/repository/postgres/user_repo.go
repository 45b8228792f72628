package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xela07ax/citizen-queue-portal/internal/domain"
)

// ErrDuplicateUsername возвращается при нарушении уникальности users.username.
var ErrDuplicateUsername = errors.New("postgres: username already taken")

const uniqueViolation = "23505"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) CreateUser(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, city, id_card, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

	_, err := r.pool.Exec(ctx, query, u.ID, u.Username, u.Email, u.PasswordHash, u.City, u.IDCard, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("postgres: failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUser(ctx, `
		SELECT id::text, username, email, password_hash, city, id_card, created_at, updated_at
		FROM users WHERE username = $1`, username)
}

func (r *UserRepo) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUser(ctx, `
		SELECT id::text, username, email, password_hash, city, id_card, created_at, updated_at
		FROM users WHERE id = $1`, id)
}

func (r *UserRepo) getUser(ctx context.Context, query string, arg string) (*domain.User, error) {
	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.City, &u.IDCard, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// SetCity меняет город пользователя
func (r *UserRepo) SetCity(ctx context.Context, id string, city string) error {
	query := `UPDATE users SET city = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, city, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to update city: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: user %s not found", id)
	}
	return nil
}
