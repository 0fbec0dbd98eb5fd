package service

import (
	"context"

	"github.com/mkanda/liveroom-services/internal/roomsvc/models"
)

// RoomService orchestrates the room lifecycle over an atomic store.
// It keeps no state of its own, so any number of service instances
// can run against the same store.
type RoomService struct {
	rooms  RoomStore
	events RoomEvents
}

func NewRoomService(rooms RoomStore, events RoomEvents) *RoomService {
	return &RoomService{rooms: rooms, events: events}
}

// Create opens a room for a song with the caller as owner and first
// member.
func (s *RoomService) Create(ctx context.Context, callerID, liveID int64, difficulty models.LiveDifficulty) (int64, error) {
	roomID, err := s.rooms.CreateRoom(ctx, callerID, liveID, difficulty)
	if err != nil {
		return 0, err
	}

	if s.events != nil {
		s.events.RoomCreated(&models.Room{
			ID:           roomID,
			LiveID:       liveID,
			OwnerID:      callerID,
			Status:       models.RoomStatusWaiting,
			MemberCount:  1,
			MaxUserCount: models.RoomMaxUserCount,
		})
	}

	return roomID, nil
}

// List returns joinable rooms for a song; liveID 0 matches all songs.
func (s *RoomService) List(ctx context.Context, liveID int64) ([]models.RoomSummary, error) {
	rooms, err := s.rooms.ListWaitingRooms(ctx, liveID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		summaries = append(summaries, models.RoomSummary{
			RoomID:          r.ID,
			LiveID:          r.LiveID,
			JoinedUserCount: r.MemberCount,
			MaxUserCount:    r.MaxUserCount,
		})
	}

	return summaries, nil
}

// Join claims a slot for the caller. Expected outcomes (full,
// disbanded) come back as the typed result, not as errors.
func (s *RoomService) Join(ctx context.Context, roomID, callerID int64, difficulty models.LiveDifficulty) (models.JoinRoomResult, error) {
	return s.rooms.Join(ctx, roomID, callerID, difficulty)
}

// Wait is the polling read: current status plus the live roster
// flagged relative to the caller.
func (s *RoomService) Wait(ctx context.Context, roomID, callerID int64) (models.RoomStatus, []models.RoomUser, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return 0, nil, err
	}
	if room == nil {
		return 0, nil, ErrRoomNotFound
	}

	members, err := s.rooms.ListPresentMembers(ctx, roomID)
	if err != nil {
		return 0, nil, err
	}

	roster := make([]models.RoomUser, 0, len(members))
	for _, m := range members {
		roster = append(roster, models.RoomUser{
			UserID:           m.UserID,
			Name:             m.Name,
			LeaderCardID:     m.LeaderCardID,
			SelectDifficulty: m.Difficulty,
			IsMe:             m.UserID == callerID,
			IsHost:           m.UserID == room.OwnerID,
		})
	}

	return room.Status, roster, nil
}

// Start fires the host's start button. Calls by anyone else, or
// against a room past Waiting, do nothing.
func (s *RoomService) Start(ctx context.Context, roomID, callerID int64) error {
	started, err := s.rooms.Start(ctx, roomID, callerID)
	if err != nil {
		return err
	}

	if started && s.events != nil {
		s.events.RoomStarted(roomID)
	}

	return nil
}

// End records the caller's play result. Duplicate submissions
// overwrite the previous one.
func (s *RoomService) End(ctx context.Context, roomID, callerID int64, judgeCounts []int, score int64) error {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}

	return s.rooms.SubmitResult(ctx, roomID, callerID, judgeCounts, score)
}

// Result is the quorum check: the ranked list is released only once
// every counted (present) member has a submitted score. Until then it
// returns nil and the client keeps polling. The released list still
// includes members who submitted and then left, since their rows are
// kept for exactly this purpose.
func (s *RoomService) Result(ctx context.Context, roomID int64) ([]models.ResultUser, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	scored, err := s.rooms.ListScoredMembers(ctx, roomID)
	if err != nil {
		return nil, err
	}

	scoredPresent := 0
	for _, m := range scored {
		if m.Present {
			scoredPresent++
		}
	}
	if scoredPresent < room.MemberCount {
		return nil, nil
	}

	results := make([]models.ResultUser, 0, len(scored))
	for _, m := range scored {
		results = append(results, models.ResultUser{
			UserID:         m.UserID,
			JudgeCountList: m.JudgeCountList,
			Score:          *m.Score,
		})
	}

	return results, nil
}

// Leave soft-removes the caller; the owner leaving dissolves the room
// for good.
func (s *RoomService) Leave(ctx context.Context, roomID, callerID int64) error {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}

	dissolved, err := s.rooms.Leave(ctx, roomID, callerID)
	if err != nil {
		return err
	}

	if dissolved && s.events != nil {
		s.events.RoomDissolved(roomID)
	}

	return nil
}
