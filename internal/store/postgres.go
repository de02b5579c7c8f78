package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthhub-app/healthhub/backend/internal/common"
	"github.com/healthhub-app/healthhub/backend/internal/models"
)

// PostgresStore handles user credential rows against PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// CreateUser inserts a new credential row. The username column carries a
// UNIQUE constraint; a duplicate signup surfaces common.ErrDuplicateUser.
func (s *PostgresStore) CreateUser(ctx context.Context, username, email, hashedPassword string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password)
		 VALUES ($1, $2, $3)
		 RETURNING id, username, email, created_at`,
		username, email, hashedPassword,
	).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, password, created_at FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetEmail returns the stored email for a username. Used by the reset flow.
func (s *PostgresStore) GetEmail(ctx context.Context, username string) (string, error) {
	var email string
	err := s.pool.QueryRow(ctx,
		`SELECT email FROM users WHERE username = $1`, username,
	).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", err
	}
	return email, nil
}

// UpdatePassword overwrites the stored hash for the username. Usernames are
// unique, so at most one row changes.
func (s *PostgresStore) UpdatePassword(ctx context.Context, username, hashedPassword string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET password = $2 WHERE username = $1`, username, hashedPassword)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
