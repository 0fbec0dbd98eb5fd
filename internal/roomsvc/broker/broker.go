package broker

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/mkanda/liveroom-services/internal/comm"
	"github.com/mkanda/liveroom-services/internal/roomsvc/models"
)

// Broker publishes room lifecycle events to NATS for sibling
// services. Publishing is fire-and-forget: a broker outage must never
// fail the request that triggered the event.
type Broker struct {
	Conn *nats.Conn
}

func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{Conn: nc}
}

func (b *Broker) RoomCreated(room *models.Room) {
	b.publish(comm.SubjectRoomCreated, comm.RoomEvent{
		RoomID:    room.ID,
		LiveID:    room.LiveID,
		OwnerID:   room.OwnerID,
		Status:    int(room.Status),
		Timestamp: time.Now(),
	})
}

func (b *Broker) RoomStarted(roomID int64) {
	b.publish(comm.SubjectRoomStarted, comm.RoomEvent{
		RoomID:    roomID,
		Status:    int(models.RoomStatusLiveStart),
		Timestamp: time.Now(),
	})
}

func (b *Broker) RoomDissolved(roomID int64) {
	b.publish(comm.SubjectRoomDissolved, comm.RoomEvent{
		RoomID:    roomID,
		Status:    int(models.RoomStatusDissolution),
		Timestamp: time.Now(),
	})
}

func (b *Broker) publish(subject string, event comm.RoomEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Errorf("Error marshaling %s event: %s", subject, err)
		return
	}

	if err := b.Conn.Publish(subject, data); err != nil {
		log.Errorf("Error publishing %s event for room %d: %s", subject, event.RoomID, err)
	}
}
