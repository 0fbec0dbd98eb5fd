package models

import "time"

// RoomMember represents the room_members table, one row per
// (room, user) pair. Rows are never deleted: leaving flips Present to
// false so a later re-join is an upsert on the same row.
// JudgeCountList and Score stay absent (nil) until the member submits
// an end-of-play result.
type RoomMember struct {
	RoomID         int64          `json:"room_id"`
	UserID         int64          `json:"user_id"`
	Difficulty     LiveDifficulty `json:"select_difficulty"`
	Present        bool           `json:"presence"`
	JudgeCountList []int          `json:"judge_count_list,omitempty"`
	Score          *int64         `json:"score,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// MemberUser is the store-level join of a present membership row with
// its user row, before the per-caller flags are applied.
type MemberUser struct {
	UserID       int64
	Name         string
	LeaderCardID int64
	Difficulty   LiveDifficulty
}

// RoomUser is the roster entry returned by room/wait, flagged
// relative to the polling caller.
type RoomUser struct {
	UserID           int64          `json:"user_id"`
	Name             string         `json:"name"`
	LeaderCardID     int64          `json:"leader_card_id"`
	SelectDifficulty LiveDifficulty `json:"select_difficulty"`
	IsMe             bool           `json:"is_me"`
	IsHost           bool           `json:"is_host"`
}

// ResultUser is one finished member in the room/result response.
type ResultUser struct {
	UserID         int64 `json:"user_id"`
	JudgeCountList []int `json:"judge_count_list"`
	Score          int64 `json:"score"`
}
