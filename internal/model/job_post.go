package model

import (
	"time"

	"gorm.io/datatypes"
)

// JobPost is a per-user post with a free-text description and optional
// image URLs.  PostID is the public identifier handed to clients; the
// numeric ID stays internal.
type JobPost struct {
	ID          uint64           `gorm:"primaryKey" json:"-"`
	PostID      string           `gorm:"size:36;uniqueIndex;not null" json:"post_id"`
	Username    string           `gorm:"size:64;not null;index" json:"username"`
	Description string           `gorm:"type:text;not null" json:"description"`
	ImageURLs   datatypes.JSON   `json:"image_urls"`
	CreatedAt   time.Time        `gorm:"index" json:"created_at"`
	Likes       []JobPostLike    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Comments    []JobPostComment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// JobPostLike records one user's like of one post.  The unique index is the
// only guard against concurrent double-likes; the violation is translated
// to a BadRequest at the boundary.
type JobPostLike struct {
	ID        uint64    `gorm:"primaryKey" json:"-"`
	JobPostID uint64    `gorm:"not null;uniqueIndex:uk_post_like;index" json:"-"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uk_post_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// JobPostComment is a comment on a post, listed in insertion order.
type JobPostComment struct {
	ID        uint64    `gorm:"primaryKey" json:"comment_id"`
	JobPostID uint64    `gorm:"not null;index" json:"-"`
	Username  string    `gorm:"size:64;not null" json:"username"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
