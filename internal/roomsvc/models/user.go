package models

import "time"

// User represents the users table. Token is the opaque bearer
// credential and never leaves the server in responses other than
// the one issued at registration.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	LeaderCardID int64     `json:"leader_card_id"`
	Token        string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
