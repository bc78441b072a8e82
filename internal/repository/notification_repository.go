package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/openalum/alumnet-backend/internal/model"
)

type NotificationRepo struct{ DB *gorm.DB }

func NewNotificationRepo(db *gorm.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// Create persists a notification for the target user, who must exist.
func (r *NotificationRepo) Create(ctx context.Context, userID uint64, typ, message string, referenceID *uint64) (*model.Notification, error) {
	var note *model.Notification
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		nt := model.Notification{UserID: userID, Type: typ, Message: message, ReferenceID: referenceID}
		if err := tx.Create(&nt).Error; err != nil {
			return err
		}
		note = &nt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// ListForUser returns the user's notifications, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Notification, error) {
	out := []model.Notification{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}
