package service

import (
	"context"
	"errors"

	"github.com/mkanda/liveroom-services/internal/roomsvc/models"
)

// ErrRoomNotFound is returned for operations against a room id that
// was never allocated.
var ErrRoomNotFound = errors.New("room not found")

// UserStore is the persistence capability the user service needs.
// Lookups return nil, nil when the row does not exist.
type UserStore interface {
	CreateUser(ctx context.Context, name string, leaderCardID int64, token string) (int64, error)
	GetUserByToken(ctx context.Context, token string) (*models.User, error)
	UpdateUser(ctx context.Context, userID int64, name string, leaderCardID int64) error
}

// RoomStore is the persistence capability the room service needs.
// Join, Leave and Start are atomic against the room row: the store,
// not the caller, is responsible for making concurrent calls against
// one room serialize.
type RoomStore interface {
	CreateRoom(ctx context.Context, ownerID, liveID int64, difficulty models.LiveDifficulty) (int64, error)
	ListWaitingRooms(ctx context.Context, liveID int64) ([]*models.Room, error)
	GetRoom(ctx context.Context, roomID int64) (*models.Room, error)
	Join(ctx context.Context, roomID, userID int64, difficulty models.LiveDifficulty) (models.JoinRoomResult, error)
	Leave(ctx context.Context, roomID, userID int64) (dissolved bool, err error)
	Start(ctx context.Context, roomID, userID int64) (started bool, err error)
	SubmitResult(ctx context.Context, roomID, userID int64, judgeCounts []int, score int64) error
	ListPresentMembers(ctx context.Context, roomID int64) ([]*models.MemberUser, error)
	ListScoredMembers(ctx context.Context, roomID int64) ([]*models.RoomMember, error)
}

// RoomEvents receives lifecycle notifications for fan-out to sibling
// services. Implementations must not block request handling.
type RoomEvents interface {
	RoomCreated(room *models.Room)
	RoomStarted(roomID int64)
	RoomDissolved(roomID int64)
}
