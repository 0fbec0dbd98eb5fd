package models

import "time"

// LiveDifficulty is the per-member difficulty choice. Integer codes
// are part of the wire contract and must stay stable.
type LiveDifficulty int

const (
	LiveDifficultyNormal LiveDifficulty = 1
	LiveDifficultyHard   LiveDifficulty = 2
)

func (d LiveDifficulty) Valid() bool {
	return d == LiveDifficultyNormal || d == LiveDifficultyHard
}

// RoomMaxUserCount is the fixed room capacity.
const RoomMaxUserCount = 4

// RoomStatus moves forward only: Waiting -> LiveStart -> Dissolution,
// or Waiting -> Dissolution when the owner leaves early. Dissolution
// is terminal.
type RoomStatus int

const (
	RoomStatusWaiting     RoomStatus = 1
	RoomStatusLiveStart   RoomStatus = 2
	RoomStatusDissolution RoomStatus = 3
)

// JoinRoomResult is the typed outcome of a join attempt. OtherError is
// a defensive fallback; no business path produces it.
type JoinRoomResult int

const (
	JoinRoomOk         JoinRoomResult = 1
	JoinRoomFull       JoinRoomResult = 2
	JoinRoomDisbanded  JoinRoomResult = 3
	JoinRoomOtherError JoinRoomResult = 4
)

// Room represents the rooms table. MemberCount mirrors the number of
// membership rows with presence=true and is only ever changed inside
// a transaction that locks the room row.
type Room struct {
	ID           int64      `json:"room_id"`
	LiveID       int64      `json:"live_id"`
	OwnerID      int64      `json:"owner_id"`
	Status       RoomStatus `json:"status"`
	MemberCount  int        `json:"joined_user_count"`
	MaxUserCount int        `json:"max_user_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// RoomSummary is the listing projection shown to clients picking a
// room for a song.
type RoomSummary struct {
	RoomID          int64 `json:"room_id"`
	LiveID          int64 `json:"live_id"`
	JoinedUserCount int   `json:"joined_user_count"`
	MaxUserCount    int   `json:"max_user_count"`
}
