// Package queue defines message payloads exchanged over the message broker.
package queue

// NotificationCreatedEvent is published whenever a notification row is
// persisted.  It carries enough information for downstream consumers
// (audit log, push gateways, analytics) without querying the primary
// database.
type NotificationCreatedEvent struct {
	NotificationID uint64  `json:"notification_id"`
	UserID         uint64  `json:"user_id"`
	Type           string  `json:"type"`
	Message        string  `json:"message"`
	ReferenceID    *uint64 `json:"reference_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}
