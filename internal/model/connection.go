package model

import "time"

// ConnectionStatus is the lifecycle state of a connection request.
// PENDING is the only mutable state: the receiver moves it to ACCEPTED or
// REJECTED, the sender may cancel it (which deletes the row outright).
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "PENDING"
	ConnectionAccepted ConnectionStatus = "ACCEPTED"
	ConnectionRejected ConnectionStatus = "REJECTED"
)

// Connection is a directed friend request between two users.  The pair is
// also stored canonically (PairLo < PairHi) under a unique index, so at most
// one row can exist per unordered pair no matter which side sent first --
// concurrent sends in opposite directions collide on the index instead of
// both landing.
type Connection struct {
	ID         uint64           `gorm:"primaryKey" json:"id"`
	SenderID   uint64           `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint64           `gorm:"not null;index" json:"receiver_id"`
	PairLo     uint64           `gorm:"not null;uniqueIndex:uk_connection_pair" json:"-"`
	PairHi     uint64           `gorm:"not null;uniqueIndex:uk_connection_pair" json:"-"`
	Status     ConnectionStatus `gorm:"size:16;not null;default:'PENDING'" json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
}
