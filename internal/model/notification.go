package model

import "time"

// Notification is a simple per-user inbox entry.  ReferenceID optionally
// points at a related entity (connection, post, group) and is opaque to
// this service.
type Notification struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	UserID      uint64    `gorm:"not null;index" json:"user_id"`
	Type        string    `gorm:"size:32;not null" json:"type"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	ReferenceID *uint64   `json:"reference_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
