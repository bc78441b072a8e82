package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/openalum/alumnet-backend/internal/model"
)

type ChatRepo struct{ DB *gorm.DB }

func NewChatRepo(db *gorm.DB) *ChatRepo { return &ChatRepo{DB: db} }

// ChatSummary is one inbox row: a chat plus its most recent message, if
// any.  Last* fields are nil for chats that exist without messages.
type ChatSummary struct {
	ChatID                    uint64     `json:"chat_id"`
	User1ID                   uint64     `json:"user1_id"`
	User1Username             string     `json:"user1_username"`
	User2ID                   uint64     `json:"user2_id"`
	User2Username             string     `json:"user2_username"`
	LastMessageContent        *string    `json:"last_message_content"`
	LastMessageSenderID       *uint64    `json:"last_message_sender_id"`
	LastMessageSenderUsername *string    `json:"last_message_sender_username"`
	LastMessageCreatedAt      *time.Time `json:"last_message_created_at"`
	ChatCreatedAt             time.Time  `json:"chat_created_at"`
}

// SendMessage finds or lazily creates the canonical chat for the unordered
// (sender, receiver) pair and appends the message.  Both users must exist;
// their usernames are denormalized onto the chat row at creation.
func (r *ChatRepo) SendMessage(ctx context.Context, senderID, receiverID uint64, content string) (*model.Message, *model.Chat, error) {
	var (
		msg  *model.Message
		chat *model.Chat
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sender, receiver model.User
		if err := tx.First(&sender, senderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.First(&receiver, receiverID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Canonical pair: smaller id first, so one row per unordered pair.
		u1, u2 := sender, receiver
		if u2.ID < u1.ID {
			u1, u2 = u2, u1
		}

		var c model.Chat
		err := tx.Where("user1_id = ? AND user2_id = ?", u1.ID, u2.ID).First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c = model.Chat{
				User1ID:       u1.ID,
				User2ID:       u2.ID,
				User1Username: u1.Username,
				User2Username: u2.Username,
			}
			if err := tx.Create(&c).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Lost the creation race; the winner's row is the chat.
					if err := tx.Where("user1_id = ? AND user2_id = ?", u1.ID, u2.ID).First(&c).Error; err != nil {
						return err
					}
				} else {
					return err
				}
			}
		} else if err != nil {
			return err
		}

		m := model.Message{
			ChatID:         c.ID,
			SenderID:       sender.ID,
			SenderUsername: sender.Username,
			Content:        content,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		msg, chat = &m, &c
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return msg, chat, nil
}

// ListSummaries returns one row per chat the user belongs to, carrying the
// newest message, ordered by latest activity (last message time, falling
// back to chat creation) descending.
func (r *ChatRepo) ListSummaries(ctx context.Context, userID uint64) ([]ChatSummary, error) {
	rows := []ChatSummary{}
	err := r.DB.WithContext(ctx).Raw(`
		SELECT
			c.id            AS chat_id,
			c.user1_id      AS user1_id,
			c.user1_username AS user1_username,
			c.user2_id      AS user2_id,
			c.user2_username AS user2_username,
			m.content       AS last_message_content,
			m.sender_id     AS last_message_sender_id,
			m.sender_username AS last_message_sender_username,
			m.created_at    AS last_message_created_at,
			c.created_at    AS chat_created_at
		FROM chats c
		LEFT JOIN messages m ON m.id = (
			SELECT id FROM messages
			WHERE chat_id = c.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		)
		WHERE c.user1_id = ? OR c.user2_id = ?
		ORDER BY COALESCE(m.created_at, c.created_at) DESC`,
		userID, userID).Scan(&rows).Error
	return rows, err
}
