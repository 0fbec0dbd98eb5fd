// Package comm holds the message payloads shared between services
// over NATS.
package comm

import "time"

// Room lifecycle subjects published by the room service.
const (
	SubjectRoomCreated   = "room.created"
	SubjectRoomStarted   = "room.started"
	SubjectRoomDissolved = "room.dissolved"
)

// RoomEvent announces a room lifecycle transition to sibling services
// (dashboards, stats collectors). Clients never see these; they poll.
type RoomEvent struct {
	RoomID    int64     `json:"room_id"`
	LiveID    int64     `json:"live_id,omitempty"`
	OwnerID   int64     `json:"owner_id,omitempty"`
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ServiceHeartbeat is the periodic liveness ping each service
// instance emits.
type ServiceHeartbeat struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}
