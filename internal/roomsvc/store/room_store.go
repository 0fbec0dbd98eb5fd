package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkanda/liveroom-services/internal/roomsvc/models"
)

type RoomStore struct {
	db *pgxpool.Pool
}

func NewRoomStore(db *pgxpool.Pool) *RoomStore {
	return &RoomStore{db: db}
}

// CreateRoom inserts the room row and the owner's membership row in
// one transaction. A room without its owner membership must never be
// observable.
func (s *RoomStore) CreateRoom(ctx context.Context, ownerID, liveID int64, difficulty models.LiveDifficulty) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin create room tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var roomID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO rooms (live_id, owner_id, status, room_members_count, max_user_count)
		VALUES ($1, $2, $3, 1, $4)
		RETURNING id
	`, liveID, ownerID, models.RoomStatusWaiting, models.RoomMaxUserCount).Scan(&roomID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert room: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO room_members (room_id, user_id, difficulty, presence)
		VALUES ($1, $2, $3, TRUE)
	`, roomID, ownerID, difficulty)
	if err != nil {
		return 0, fmt.Errorf("failed to insert owner membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit create room tx: %w", err)
	}

	return roomID, nil
}

// ListWaitingRooms returns joinable rooms for a song. liveID 0 is the
// wildcard and matches every song.
func (s *RoomStore) ListWaitingRooms(ctx context.Context, liveID int64) ([]*models.Room, error) {
	query := `
		SELECT id, live_id, owner_id, status, room_members_count, max_user_count, created_at, updated_at
		FROM rooms
		WHERE status = $1 AND ($2 = 0 OR live_id = $2)
		ORDER BY id
	`

	rows, err := s.db.Query(ctx, query, models.RoomStatusWaiting, liveID)
	if err != nil {
		return nil, fmt.Errorf("failed to list waiting rooms: %w", err)
	}
	defer rows.Close()

	var list []*models.Room
	for rows.Next() {
		r := &models.Room{}
		err := rows.Scan(
			&r.ID,
			&r.LiveID,
			&r.OwnerID,
			&r.Status,
			&r.MemberCount,
			&r.MaxUserCount,
			&r.CreatedAt,
			&r.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}

	return list, rows.Err()
}

// GetRoom returns nil, nil when the room does not exist.
func (s *RoomStore) GetRoom(ctx context.Context, roomID int64) (*models.Room, error) {
	query := `
		SELECT id, live_id, owner_id, status, room_members_count, max_user_count, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`

	r := &models.Room{}
	err := s.db.QueryRow(ctx, query, roomID).Scan(
		&r.ID,
		&r.LiveID,
		&r.OwnerID,
		&r.Status,
		&r.MemberCount,
		&r.MaxUserCount,
		&r.CreatedAt,
		&r.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room by ID: %w", err)
	}

	return r, nil
}

// Join claims a slot under the room row lock. Two concurrent joiners
// racing for the last slot both block on FOR UPDATE; the loser sees
// the updated count and gets RoomFull.
func (s *RoomStore) Join(ctx context.Context, roomID, userID int64, difficulty models.LiveDifficulty) (models.JoinRoomResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return models.JoinRoomOtherError, fmt.Errorf("failed to begin join tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var status models.RoomStatus
	var count, maxCount int
	err = tx.QueryRow(ctx, `
		SELECT status, room_members_count, max_user_count
		FROM rooms
		WHERE id = $1
		FOR UPDATE
	`, roomID).Scan(&status, &count, &maxCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// room vanished or never existed: no longer accepting members
			return models.JoinRoomDisbanded, nil
		}
		return models.JoinRoomOtherError, fmt.Errorf("failed to lock room %d: %w", roomID, err)
	}

	if status != models.RoomStatusWaiting {
		return models.JoinRoomDisbanded, nil
	}

	var present bool
	err = tx.QueryRow(ctx, `
		SELECT presence FROM room_members WHERE room_id = $1 AND user_id = $2
	`, roomID, userID).Scan(&present)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return models.JoinRoomOtherError, fmt.Errorf("failed to read membership: %w", err)
	}

	// already holding a slot: refresh the difficulty and report Ok
	// without touching the count
	if present {
		_, err = tx.Exec(ctx, `
			UPDATE room_members SET difficulty = $3, updated_at = now()
			WHERE room_id = $1 AND user_id = $2
		`, roomID, userID, difficulty)
		if err != nil {
			return models.JoinRoomOtherError, fmt.Errorf("failed to refresh membership: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return models.JoinRoomOtherError, fmt.Errorf("failed to commit join tx: %w", err)
		}
		return models.JoinRoomOk, nil
	}

	if count >= maxCount {
		return models.JoinRoomFull, nil
	}

	_, err = tx.Exec(ctx, `
		UPDATE rooms SET room_members_count = room_members_count + 1, updated_at = now()
		WHERE id = $1
	`, roomID)
	if err != nil {
		return models.JoinRoomOtherError, fmt.Errorf("failed to bump member count: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO room_members (room_id, user_id, difficulty, presence)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (room_id, user_id)
		DO UPDATE SET difficulty = EXCLUDED.difficulty, presence = TRUE, updated_at = now()
	`, roomID, userID, difficulty)
	if err != nil {
		return models.JoinRoomOtherError, fmt.Errorf("failed to upsert membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.JoinRoomOtherError, fmt.Errorf("failed to commit join tx: %w", err)
	}

	return models.JoinRoomOk, nil
}

// Leave dissolves the room when the owner leaves; any other member is
// soft-removed by flipping presence. Returns whether the room was
// dissolved by this call.
func (s *RoomStore) Leave(ctx context.Context, roomID, userID int64) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin leave tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var ownerID int64
	var status models.RoomStatus
	err = tx.QueryRow(ctx, `
		SELECT owner_id, status FROM rooms WHERE id = $1 FOR UPDATE
	`, roomID).Scan(&ownerID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("room %d not found", roomID)
		}
		return false, fmt.Errorf("failed to lock room %d: %w", roomID, err)
	}

	if status == models.RoomStatusDissolution {
		return false, tx.Commit(ctx)
	}

	if userID == ownerID {
		_, err = tx.Exec(ctx, `
			UPDATE rooms SET status = $2, updated_at = now() WHERE id = $1
		`, roomID, models.RoomStatusDissolution)
		if err != nil {
			return false, fmt.Errorf("failed to dissolve room %d: %w", roomID, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return false, fmt.Errorf("failed to commit leave tx: %w", err)
		}
		return true, nil
	}

	tag, err := tx.Exec(ctx, `
		UPDATE room_members SET presence = FALSE, updated_at = now()
		WHERE room_id = $1 AND user_id = $2 AND presence = TRUE
	`, roomID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to mark member left: %w", err)
	}

	// only decrement when this call actually flipped a present member
	if tag.RowsAffected() == 1 {
		_, err = tx.Exec(ctx, `
			UPDATE rooms SET room_members_count = room_members_count - 1, updated_at = now()
			WHERE id = $1
		`, roomID)
		if err != nil {
			return false, fmt.Errorf("failed to drop member count: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit leave tx: %w", err)
	}

	return false, nil
}

// Start moves Waiting to LiveStart, only for the owner. Every other
// combination matches zero rows and is a silent no-op. Returns whether
// the transition happened.
func (s *RoomStore) Start(ctx context.Context, roomID, userID int64) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE rooms SET status = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2 AND status = $4
	`, roomID, userID, models.RoomStatusLiveStart, models.RoomStatusWaiting)
	if err != nil {
		return false, fmt.Errorf("failed to start room %d: %w", roomID, err)
	}

	return tag.RowsAffected() == 1, nil
}

// SubmitResult records the play result on the caller's membership
// row. Resubmission overwrites.
func (s *RoomStore) SubmitResult(ctx context.Context, roomID, userID int64, judgeCounts []int, score int64) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE room_members SET judge_count_list = $3, score = $4, updated_at = now()
		WHERE room_id = $1 AND user_id = $2
	`, roomID, userID, judgeCounts, score)
	if err != nil {
		return fmt.Errorf("failed to submit result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no membership for user %d in room %d", userID, roomID)
	}

	return nil
}

// ListPresentMembers returns the live roster joined with user rows.
func (s *RoomStore) ListPresentMembers(ctx context.Context, roomID int64) ([]*models.MemberUser, error) {
	query := `
		SELECT m.user_id, u.name, u.leader_card_id, m.difficulty
		FROM room_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.room_id = $1 AND m.presence = TRUE
		ORDER BY m.created_at, m.user_id
	`

	rows, err := s.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list room members: %w", err)
	}
	defer rows.Close()

	var members []*models.MemberUser
	for rows.Next() {
		m := &models.MemberUser{}
		if err := rows.Scan(&m.UserID, &m.Name, &m.LeaderCardID, &m.Difficulty); err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// ListScoredMembers returns every membership row that already holds a
// submitted score, best score first.
func (s *RoomStore) ListScoredMembers(ctx context.Context, roomID int64) ([]*models.RoomMember, error) {
	query := `
		SELECT room_id, user_id, difficulty, presence, judge_count_list, score, created_at, updated_at
		FROM room_members
		WHERE room_id = $1 AND score IS NOT NULL
		ORDER BY score DESC, user_id
	`

	rows, err := s.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scored members: %w", err)
	}
	defer rows.Close()

	var members []*models.RoomMember
	for rows.Next() {
		m := &models.RoomMember{}
		err := rows.Scan(
			&m.RoomID,
			&m.UserID,
			&m.Difficulty,
			&m.Present,
			&m.JudgeCountList,
			&m.Score,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}
