package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"

	"github.com/mkanda/liveroom-services/internal/roomsvc/models"
)

// UserService owns account registration and opaque token resolution.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Register creates a new account and returns its bearer token. The
// token is a fresh uuid4; the unique index on users.token backstops
// the (astronomically unlikely) collision.
func (s *UserService) Register(ctx context.Context, name string, leaderCardID int64) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := id.String()

	if _, err := s.users.CreateUser(ctx, name, leaderCardID, token); err != nil {
		return "", err
	}

	return token, nil
}

// ResolveToken maps a bearer token to its user, nil when unknown.
func (s *UserService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	return s.users.GetUserByToken(ctx, token)
}

// Update mutates the caller's profile fields.
func (s *UserService) Update(ctx context.Context, userID int64, name string, leaderCardID int64) error {
	return s.users.UpdateUser(ctx, userID, name, leaderCardID)
}
