package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/openalum/alumnet-backend/internal/model"
)

type GroupReadRepo struct{ DB *gorm.DB }

func NewGroupReadRepo(db *gorm.DB) *GroupReadRepo { return &GroupReadRepo{DB: db} }

// UpdateLastRead advances the user's read pointer in the group.  The stored
// value only moves forward; a stale client sending an older message id
// leaves the pointer untouched and gets the current value back.
func (r *GroupReadRepo) UpdateLastRead(ctx context.Context, groupID, userID, lastReadMessageID uint64) (uint64, error) {
	var current uint64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var state model.GroupReadState
		err := tx.Where("group_chat_id = ? AND user_id = ?", groupID, userID).First(&state).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			state = model.GroupReadState{GroupChatID: groupID, UserID: userID, LastReadMessageID: lastReadMessageID}
			if err := tx.Create(&state).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		case lastReadMessageID > state.LastReadMessageID:
			if err := tx.Model(&state).Update("last_read_message_id", lastReadMessageID).Error; err != nil {
				return err
			}
			state.LastReadMessageID = lastReadMessageID
		}
		current = state.LastReadMessageID
		return nil
	})
	return current, err
}

// LastRead returns the user's read pointer, or (0, false) when the user has
// never read anything in the group.
func (r *GroupReadRepo) LastRead(ctx context.Context, groupID, userID uint64) (uint64, bool, error) {
	var state model.GroupReadState
	err := r.DB.WithContext(ctx).
		Where("group_chat_id = ? AND user_id = ?", groupID, userID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return state.LastReadMessageID, true, nil
}
