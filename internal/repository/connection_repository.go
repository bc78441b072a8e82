package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openalum/alumnet-backend/internal/model"
)

type ConnectionRepo struct{ DB *gorm.DB }

func NewConnectionRepo(db *gorm.DB) *ConnectionRepo { return &ConnectionRepo{DB: db} }

var (
	ErrAlreadyConnected  = fmt.Errorf("users are already connected: %w", ErrConflict)
	ErrRequestPending    = fmt.Errorf("connection request already sent: %w", ErrConflict)
	ErrNotPending        = fmt.Errorf("connection is no longer pending: %w", ErrConflict)
	ErrNotReceiver       = fmt.Errorf("only the receiver may act on this request: %w", ErrForbidden)
	ErrNotSender         = fmt.Errorf("only the sender may cancel this request: %w", ErrForbidden)
)

// Send creates a PENDING request from sender to receiver.  The pair lookup
// is direction-insensitive: a PENDING or ACCEPTED record in either
// direction blocks the new request.  A REJECTED record is replaced so the
// pair can try again.  The whole check-and-insert runs in one transaction;
// the unique canonical-pair index settles races regardless of which side
// sent first.
func (r *ConnectionRepo) Send(ctx context.Context, senderID, receiverID uint64) (*model.Connection, error) {
	lo, hi := senderID, receiverID
	if hi < lo {
		lo, hi = hi, lo
	}

	var conn *model.Connection
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.User{}).Where("id IN ?", []uint64{senderID, receiverID}).Count(&n).Error; err != nil {
			return err
		}
		if n != 2 {
			return ErrNotFound
		}

		var existing model.Connection
		err := tx.Where("pair_lo = ? AND pair_hi = ?", lo, hi).First(&existing).Error
		switch {
		case err == nil:
			switch existing.Status {
			case model.ConnectionAccepted:
				return ErrAlreadyConnected
			case model.ConnectionPending:
				return ErrRequestPending
			default:
				// A rejected pair may reconnect; drop the stale record so
				// the unique index accepts the new one.
				if err := tx.Delete(&existing).Error; err != nil {
					return err
				}
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		conn = &model.Connection{
			SenderID:   senderID,
			ReceiverID: receiverID,
			PairLo:     lo,
			PairHi:     hi,
			Status:     model.ConnectionPending,
		}
		if err := tx.Create(conn).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrRequestPending
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Accept moves a PENDING request to ACCEPTED.  Only the receiver may do so.
func (r *ConnectionRepo) Accept(ctx context.Context, connectionID, userID uint64) error {
	return r.transition(ctx, connectionID, userID, model.ConnectionAccepted)
}

// Reject moves a PENDING request to REJECTED.  Only the receiver may do so.
func (r *ConnectionRepo) Reject(ctx context.Context, connectionID, userID uint64) error {
	return r.transition(ctx, connectionID, userID, model.ConnectionRejected)
}

func (r *ConnectionRepo) transition(ctx context.Context, connectionID, userID uint64, to model.ConnectionStatus) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conn model.Connection
		if err := tx.First(&conn, connectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if conn.ReceiverID != userID {
			return ErrNotReceiver
		}
		if conn.Status != model.ConnectionPending {
			return ErrNotPending
		}
		return tx.Model(&conn).Update("status", to).Error
	})
}

// Cancel hard-deletes a PENDING request.  Only the sender may do so; no
// cancelled record is retained.
func (r *ConnectionRepo) Cancel(ctx context.Context, connectionID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conn model.Connection
		if err := tx.First(&conn, connectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if conn.SenderID != userID {
			return ErrNotSender
		}
		if conn.Status != model.ConnectionPending {
			return ErrNotPending
		}
		return tx.Delete(&conn).Error
	})
}

// PendingReceived lists PENDING requests addressed to the user.
func (r *ConnectionRepo) PendingReceived(ctx context.Context, userID uint64) ([]model.Connection, error) {
	var out []model.Connection
	err := r.DB.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", userID, model.ConnectionPending).
		Find(&out).Error
	return out, err
}

// PendingSent lists PENDING requests created by the user.
func (r *ConnectionRepo) PendingSent(ctx context.Context, userID uint64) ([]model.Connection, error) {
	var out []model.Connection
	err := r.DB.WithContext(ctx).
		Where("sender_id = ? AND status = ?", userID, model.ConnectionPending).
		Find(&out).Error
	return out, err
}

// Accepted lists ACCEPTED connections the user participates in, in either
// direction.
func (r *ConnectionRepo) Accepted(ctx context.Context, userID uint64) ([]model.Connection, error) {
	var out []model.Connection
	err := r.DB.WithContext(ctx).
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, model.ConnectionAccepted).
		Find(&out).Error
	return out, err
}
