package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/openalum/alumnet-backend/internal/model"
)

type GroupMessageRepo struct{ DB *gorm.DB }

func NewGroupMessageRepo(db *gorm.DB) *GroupMessageRepo { return &GroupMessageRepo{DB: db} }

var (
	ErrMessageNotInGroup = errors.New("message does not belong to this group")
	ErrNotMessageSender  = fmt.Errorf("you are not the sender of this message: %w", ErrForbidden)
)

// Send appends a message to the group on behalf of userID.  The group must
// exist and the user must be a member; the sender's username is copied from
// the membership record, not from the request.
func (r *GroupMessageRepo) Send(ctx context.Context, groupID, userID uint64, content string) (*model.GroupMessage, error) {
	var msg *model.GroupMessage
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := groupExists(tx, groupID); err != nil {
			return err
		}
		sender, err := participantIn(tx, groupID, userID)
		if err != nil {
			return err
		}
		m := model.GroupMessage{
			GroupChatID:    groupID,
			SenderID:       sender.UserID,
			SenderUsername: sender.Username,
			Content:        content,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		msg = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// List returns every message of the group in creation order, gated on the
// caller's membership.
func (r *GroupMessageRepo) List(ctx context.Context, groupID, userID uint64) ([]model.GroupMessage, error) {
	if err := r.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	out := []model.GroupMessage{}
	err := r.DB.WithContext(ctx).
		Where("group_chat_id = ?", groupID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// Page returns one page of messages (creation order ascending) plus the
// total count.  Page is zero-based; bounds are validated at the boundary.
func (r *GroupMessageRepo) Page(ctx context.Context, groupID, userID uint64, page, size int) ([]model.GroupMessage, int64, error) {
	if err := r.requireMember(ctx, groupID, userID); err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.DB.WithContext(ctx).Model(&model.GroupMessage{}).
		Where("group_chat_id = ?", groupID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []model.GroupMessage{}
	err := r.DB.WithContext(ctx).
		Where("group_chat_id = ?", groupID).
		Order("created_at ASC, id ASC").
		Limit(size).Offset(page * size).
		Find(&out).Error
	return out, total, err
}

// Search returns the page of messages whose content contains the query,
// case-insensitively, plus the total match count.  Membership is required
// regardless of the query.
func (r *GroupMessageRepo) Search(ctx context.Context, groupID, userID uint64, query string, page, size int) ([]model.GroupMessage, int64, error) {
	if err := r.requireMember(ctx, groupID, userID); err != nil {
		return nil, 0, err
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	base := r.DB.WithContext(ctx).Model(&model.GroupMessage{}).
		Where("group_chat_id = ? AND LOWER(content) LIKE ?", groupID, pattern)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []model.GroupMessage{}
	err := r.DB.WithContext(ctx).
		Where("group_chat_id = ? AND LOWER(content) LIKE ?", groupID, pattern).
		Order("created_at ASC, id ASC").
		Limit(size).Offset(page * size).
		Find(&out).Error
	return out, total, err
}

// Delete removes a message.  The group must exist, the caller must be a
// member, the message must belong to the claimed group and the caller must
// be its author -- moderators cannot delete on behalf of others.
func (r *GroupMessageRepo) Delete(ctx context.Context, groupID, messageID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := groupExists(tx, groupID); err != nil {
			return err
		}
		if _, err := participantIn(tx, groupID, userID); err != nil {
			return err
		}
		var msg model.GroupMessage
		if err := tx.First(&msg, messageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if msg.GroupChatID != groupID {
			return ErrMessageNotInGroup
		}
		if msg.SenderID != userID {
			return ErrNotMessageSender
		}
		return tx.Delete(&msg).Error
	})
}

func (r *GroupMessageRepo) requireMember(ctx context.Context, groupID, userID uint64) error {
	if err := groupExists(r.DB.WithContext(ctx), groupID); err != nil {
		return err
	}
	_, err := participantIn(r.DB.WithContext(ctx), groupID, userID)
	return err
}
