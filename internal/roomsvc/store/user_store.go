package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkanda/liveroom-services/internal/roomsvc/models"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) CreateUser(ctx context.Context, name string, leaderCardID int64, token string) (int64, error) {
	query := `
		INSERT INTO users (name, leader_card_id, token)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var userID int64
	err := s.db.QueryRow(ctx, query, name, leaderCardID, token).Scan(&userID)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	return userID, nil
}

// GetUserByToken resolves an opaque bearer token. Returns nil, nil
// when no user holds the token.
func (s *UserStore) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT id, name, leader_card_id, token, created_at, updated_at
		FROM users
		WHERE token = $1
	`

	u := &models.User{}
	err := s.db.QueryRow(ctx, query, token).Scan(
		&u.ID,
		&u.Name,
		&u.LeaderCardID,
		&u.Token,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by token: %w", err)
	}

	return u, nil
}

func (s *UserStore) UpdateUser(ctx context.Context, userID int64, name string, leaderCardID int64) error {
	query := `
		UPDATE users
		SET name = $2, leader_card_id = $3, updated_at = now()
		WHERE id = $1
	`

	tag, err := s.db.Exec(ctx, query, userID, name, leaderCardID)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", userID)
	}

	return nil
}
