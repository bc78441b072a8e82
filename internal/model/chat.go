package model

import "time"

// Chat is the single conversation between an unordered pair of users.  The
// pair is stored canonically (User1ID < User2ID) so the unique index holds
// regardless of who messaged first.  Usernames are denormalized for cheap
// inbox rendering.
type Chat struct {
	ID            uint64    `gorm:"primaryKey" json:"chat_id"`
	User1ID       uint64    `gorm:"not null;uniqueIndex:uk_chat_users;index" json:"user1_id"`
	User2ID       uint64    `gorm:"not null;uniqueIndex:uk_chat_users;index" json:"user2_id"`
	User1Username string    `gorm:"size:64;not null" json:"user1_username"`
	User2Username string    `gorm:"size:64;not null" json:"user2_username"`
	CreatedAt     time.Time `json:"created_at"`
}

// OtherUsername returns the username of the participant that is not the
// given sender.  The receiver side of a message is always derived this way,
// never trusted from client input.
func (c Chat) OtherUsername(senderID uint64) string {
	if senderID == c.User1ID {
		return c.User2Username
	}
	return c.User1Username
}

// Message is one direct message inside a chat.  The receiver is implicit:
// the chat's other participant relative to SenderID.
type Message struct {
	ID             uint64    `gorm:"primaryKey" json:"message_id"`
	ChatID         uint64    `gorm:"not null;index" json:"chat_id"`
	SenderID       uint64    `gorm:"not null" json:"sender_id"`
	SenderUsername string    `gorm:"size:64;not null" json:"sender_username"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}
