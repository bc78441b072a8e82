package model

import "time"

// ParticipantRole is a user's role inside a group chat.  Exactly one OWNER
// exists per group (assigned at creation); OWNER and ADMIN may mutate
// membership, MEMBER may not.
type ParticipantRole string

const (
	ParticipantOwner  ParticipantRole = "OWNER"
	ParticipantAdmin  ParticipantRole = "ADMIN"
	ParticipantMember ParticipantRole = "MEMBER"
)

// CanManageMembers reports whether the role is allowed to add or remove
// participants.
func (r ParticipantRole) CanManageMembers() bool {
	return r == ParticipantOwner || r == ParticipantAdmin
}

// GroupChat is a named group with role-tagged participants.  Participants
// are owned by the group and deleted with it.
type GroupChat struct {
	ID           uint64        `gorm:"primaryKey" json:"group_id"`
	Name         string        `gorm:"size:255;not null" json:"name"`
	OwnerID      uint64        `gorm:"not null;index" json:"owner_id"`
	CreatedAt    time.Time     `json:"created_at"`
	Participants []Participant `gorm:"constraint:OnDelete:CASCADE" json:"participants"`
}

// Participant is one user's membership record within a group.
type Participant struct {
	ID          uint64          `gorm:"primaryKey" json:"id"`
	GroupChatID uint64          `gorm:"not null;uniqueIndex:uk_group_member;index" json:"group_id"`
	UserID      uint64          `gorm:"not null;uniqueIndex:uk_group_member" json:"user_id"`
	Username    string          `gorm:"size:64;not null" json:"username"`
	Role        ParticipantRole `gorm:"size:16;not null" json:"role"`
}
