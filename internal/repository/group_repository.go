package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openalum/alumnet-backend/internal/model"
)

type GroupRepo struct{ DB *gorm.DB }

func NewGroupRepo(db *gorm.DB) *GroupRepo { return &GroupRepo{DB: db} }

var (
	ErrOwnerNotListed  = errors.New("owner must be present in the participants list")
	ErrNotMember       = fmt.Errorf("you are not a member of this group: %w", ErrForbidden)
	ErrRoleTooLow      = fmt.Errorf("only OWNER or ADMIN may manage members: %w", ErrForbidden)
	ErrAlreadyMember   = fmt.Errorf("user is already in the group: %w", ErrDuplicate)
	ErrTargetNotMember = errors.New("user is not present in the group")
	ErrSelfRemoval     = errors.New("you cannot remove yourself from the group")
	ErrOwnerProtected  = errors.New("the owner cannot be removed from the group")
)

// Create persists a group with its participant rows in one transaction:
// insert the group, then the participants referencing it.  Every listed
// user must exist and the owner must be among them; the owner row gets
// OWNER, everyone else MEMBER.
func (r *GroupRepo) Create(ctx context.Context, name string, ownerID uint64, participantIDs []uint64) (*model.GroupChat, error) {
	ids := dedupe(participantIDs)

	ownerListed := false
	for _, id := range ids {
		if id == ownerID {
			ownerListed = true
			break
		}
	}
	if !ownerListed {
		return nil, ErrOwnerNotListed
	}

	var group *model.GroupChat
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users []model.User
		if err := tx.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return err
		}
		if len(users) != len(ids) {
			return ErrNotFound
		}

		g := model.GroupChat{Name: name, OwnerID: ownerID}
		if err := tx.Omit("Participants").Create(&g).Error; err != nil {
			return err
		}

		parts := make([]model.Participant, 0, len(users))
		for _, u := range users {
			role := model.ParticipantMember
			if u.ID == ownerID {
				role = model.ParticipantOwner
			}
			parts = append(parts, model.Participant{
				GroupChatID: g.ID,
				UserID:      u.ID,
				Username:    u.Username,
				Role:        role,
			})
		}
		if err := tx.Create(&parts).Error; err != nil {
			return err
		}
		g.Participants = parts
		group = &g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// GetByID loads a group with its participants.
func (r *GroupRepo) GetByID(ctx context.Context, groupID uint64) (*model.GroupChat, error) {
	var g model.GroupChat
	err := r.DB.WithContext(ctx).Preload("Participants").First(&g, groupID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GroupsForUser lists every group the user participates in.
func (r *GroupRepo) GroupsForUser(ctx context.Context, userID uint64) ([]model.GroupChat, error) {
	groups := []model.GroupChat{}
	err := r.DB.WithContext(ctx).Preload("Participants").
		Joins("JOIN participants p ON p.group_chat_id = group_chats.id AND p.user_id = ?", userID).
		Find(&groups).Error
	return groups, err
}

// Participant returns the membership record for (group, user), or
// ErrNotMember when the user does not belong to the group.
func (r *GroupRepo) Participant(ctx context.Context, groupID, userID uint64) (*model.Participant, error) {
	var p model.Participant
	err := r.DB.WithContext(ctx).
		Where("group_chat_id = ? AND user_id = ?", groupID, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotMember
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// RequireMember verifies the group exists (ErrNotFound otherwise) and that
// the user belongs to it (ErrNotMember otherwise).
func (r *GroupRepo) RequireMember(ctx context.Context, groupID, userID uint64) error {
	if err := groupExists(r.DB.WithContext(ctx), groupID); err != nil {
		return err
	}
	_, err := participantIn(r.DB.WithContext(ctx), groupID, userID)
	return err
}

// AddParticipant adds targetID as MEMBER.  The actor must belong to the
// group with OWNER or ADMIN role; the target must exist and must not
// already be a member.
func (r *GroupRepo) AddParticipant(ctx context.Context, groupID, actorID, targetID uint64) (*model.Participant, error) {
	var added *model.Participant
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := groupExists(tx, groupID); err != nil {
			return err
		}
		actor, err := participantIn(tx, groupID, actorID)
		if err != nil {
			return err
		}
		if !actor.Role.CanManageMembers() {
			return ErrRoleTooLow
		}

		var target model.User
		if err := tx.First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		p := model.Participant{
			GroupChatID: groupID,
			UserID:      target.ID,
			Username:    target.Username,
			Role:        model.ParticipantMember,
		}
		if err := tx.Create(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyMember
			}
			return err
		}
		added = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// RemoveParticipant deletes targetID's membership.  Same role gate as
// AddParticipant, plus: the actor cannot target themself and the OWNER row
// can never be removed through this path.
func (r *GroupRepo) RemoveParticipant(ctx context.Context, groupID, actorID, targetID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := groupExists(tx, groupID); err != nil {
			return err
		}
		actor, err := participantIn(tx, groupID, actorID)
		if err != nil {
			return err
		}
		if !actor.Role.CanManageMembers() {
			return ErrRoleTooLow
		}
		if actorID == targetID {
			return ErrSelfRemoval
		}

		var exists int64
		if err := tx.Model(&model.User{}).Where("id = ?", targetID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}

		var target model.Participant
		if err := tx.Where("group_chat_id = ? AND user_id = ?", groupID, targetID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTargetNotMember
			}
			return err
		}
		if target.Role == model.ParticipantOwner {
			return ErrOwnerProtected
		}
		return tx.Delete(&target).Error
	})
}

func groupExists(tx *gorm.DB, groupID uint64) error {
	var n int64
	if err := tx.Model(&model.GroupChat{}).Where("id = ?", groupID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func participantIn(tx *gorm.DB, groupID, userID uint64) (*model.Participant, error) {
	var p model.Participant
	err := tx.Where("group_chat_id = ? AND user_id = ?", groupID, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotMember
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
