// Package memstore is an in-process implementation of the user and
// room stores backed by mutex-guarded maps. It exists for tests and
// for running the service locally without Postgres (STORE=memory);
// one process only, nothing is persisted.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mkanda/liveroom-services/internal/roomsvc/models"
)

type Store struct {
	// one lock for everything: room operations are read-modify-write
	// across rooms and members, matching the row lock the SQL store
	// takes
	mu sync.RWMutex

	users        map[int64]*models.User
	usersByToken map[string]int64
	rooms        map[int64]*models.Room
	members      map[int64]map[int64]*models.RoomMember

	nextUserID int64
	nextRoomID int64
}

func New() *Store {
	return &Store{
		users:        make(map[int64]*models.User),
		usersByToken: make(map[string]int64),
		rooms:        make(map[int64]*models.Room),
		members:      make(map[int64]map[int64]*models.RoomMember),
	}
}

func (s *Store) CreateUser(_ context.Context, name string, leaderCardID int64, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usersByToken[token]; taken {
		return 0, fmt.Errorf("token already in use")
	}

	s.nextUserID++
	now := time.Now()
	u := &models.User{
		ID:           s.nextUserID,
		Name:         name,
		LeaderCardID: leaderCardID,
		Token:        token,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	s.usersByToken[token] = u.ID

	return u.ID, nil
}

func (s *Store) GetUserByToken(_ context.Context, token string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByToken[token]
	if !ok {
		return nil, nil
	}
	u := *s.users[id]
	return &u, nil
}

func (s *Store) UpdateUser(_ context.Context, userID int64, name string, leaderCardID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %d not found", userID)
	}
	u.Name = name
	u.LeaderCardID = leaderCardID
	u.UpdatedAt = time.Now()

	return nil
}

func (s *Store) CreateRoom(_ context.Context, ownerID, liveID int64, difficulty models.LiveDifficulty) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[ownerID]; !ok {
		return 0, fmt.Errorf("user %d not found", ownerID)
	}

	s.nextRoomID++
	now := time.Now()
	r := &models.Room{
		ID:           s.nextRoomID,
		LiveID:       liveID,
		OwnerID:      ownerID,
		Status:       models.RoomStatusWaiting,
		MemberCount:  1,
		MaxUserCount: models.RoomMaxUserCount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.rooms[r.ID] = r
	s.members[r.ID] = map[int64]*models.RoomMember{
		ownerID: {
			RoomID:     r.ID,
			UserID:     ownerID,
			Difficulty: difficulty,
			Present:    true,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}

	return r.ID, nil
}

func (s *Store) ListWaitingRooms(_ context.Context, liveID int64) ([]*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*models.Room
	for _, r := range s.rooms {
		if r.Status != models.RoomStatusWaiting {
			continue
		}
		if liveID != 0 && r.LiveID != liveID {
			continue
		}
		cp := *r
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	return list, nil
}

func (s *Store) GetRoom(_ context.Context, roomID int64) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *Store) Join(_ context.Context, roomID, userID int64, difficulty models.LiveDifficulty) (models.JoinRoomResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return models.JoinRoomDisbanded, nil
	}
	if r.Status != models.RoomStatusWaiting {
		return models.JoinRoomDisbanded, nil
	}

	now := time.Now()
	if m, ok := s.members[roomID][userID]; ok && m.Present {
		m.Difficulty = difficulty
		m.UpdatedAt = now
		return models.JoinRoomOk, nil
	}

	if r.MemberCount >= r.MaxUserCount {
		return models.JoinRoomFull, nil
	}

	r.MemberCount++
	r.UpdatedAt = now
	if m, ok := s.members[roomID][userID]; ok {
		m.Difficulty = difficulty
		m.Present = true
		m.UpdatedAt = now
	} else {
		s.members[roomID][userID] = &models.RoomMember{
			RoomID:     roomID,
			UserID:     userID,
			Difficulty: difficulty,
			Present:    true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	return models.JoinRoomOk, nil
}

func (s *Store) Leave(_ context.Context, roomID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return false, fmt.Errorf("room %d not found", roomID)
	}
	if r.Status == models.RoomStatusDissolution {
		return false, nil
	}

	now := time.Now()
	if userID == r.OwnerID {
		r.Status = models.RoomStatusDissolution
		r.UpdatedAt = now
		return true, nil
	}

	if m, ok := s.members[roomID][userID]; ok && m.Present {
		m.Present = false
		m.UpdatedAt = now
		r.MemberCount--
		r.UpdatedAt = now
	}

	return false, nil
}

func (s *Store) Start(_ context.Context, roomID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return false, nil
	}
	if r.OwnerID != userID || r.Status != models.RoomStatusWaiting {
		return false, nil
	}

	r.Status = models.RoomStatusLiveStart
	r.UpdatedAt = time.Now()

	return true, nil
}

func (s *Store) SubmitResult(_ context.Context, roomID, userID int64, judgeCounts []int, score int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[roomID][userID]
	if !ok {
		return fmt.Errorf("no membership for user %d in room %d", userID, roomID)
	}

	m.JudgeCountList = append([]int(nil), judgeCounts...)
	sc := score
	m.Score = &sc
	m.UpdatedAt = time.Now()

	return nil
}

func (s *Store) ListPresentMembers(_ context.Context, roomID int64) ([]*models.MemberUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var members []*models.RoomMember
	for _, m := range s.members[roomID] {
		if m.Present {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if !members[i].CreatedAt.Equal(members[j].CreatedAt) {
			return members[i].CreatedAt.Before(members[j].CreatedAt)
		}
		return members[i].UserID < members[j].UserID
	})

	var out []*models.MemberUser
	for _, m := range members {
		u, ok := s.users[m.UserID]
		if !ok {
			return nil, fmt.Errorf("user %d referenced by room %d not found", m.UserID, roomID)
		}
		out = append(out, &models.MemberUser{
			UserID:       u.ID,
			Name:         u.Name,
			LeaderCardID: u.LeaderCardID,
			Difficulty:   m.Difficulty,
		})
	}

	return out, nil
}

func (s *Store) ListScoredMembers(_ context.Context, roomID int64) ([]*models.RoomMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.RoomMember
	for _, m := range s.members[roomID] {
		if m.Score == nil {
			continue
		}
		cp := *m
		cp.JudgeCountList = append([]int(nil), m.JudgeCountList...)
		sc := *m.Score
		cp.Score = &sc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if *out[i].Score != *out[j].Score {
			return *out[i].Score > *out[j].Score
		}
		return out[i].UserID < out[j].UserID
	})

	return out, nil
}
