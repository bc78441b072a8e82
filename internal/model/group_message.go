package model

import "time"

// GroupMessage is an append-only message inside a group chat.  Only its
// author may delete it, and only while it is still attached to the group
// named in the request.
type GroupMessage struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	GroupChatID    uint64    `gorm:"not null;index" json:"group_id"`
	SenderID       uint64    `gorm:"not null" json:"sender_user_id"`
	SenderUsername string    `gorm:"size:64;not null" json:"sender_username"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// GroupReadState tracks the newest message a user has read in a group.
// The pointer only ever advances.
type GroupReadState struct {
	ID                uint64 `gorm:"primaryKey" json:"-"`
	GroupChatID       uint64 `gorm:"not null;uniqueIndex:uk_group_read" json:"group_id"`
	UserID            uint64 `gorm:"not null;uniqueIndex:uk_group_read" json:"user_id"`
	LastReadMessageID uint64 `gorm:"not null" json:"last_read_message_id"`
}
