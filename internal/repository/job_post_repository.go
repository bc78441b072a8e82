package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openalum/alumnet-backend/internal/model"
)

type JobPostRepo struct{ DB *gorm.DB }

func NewJobPostRepo(db *gorm.DB) *JobPostRepo { return &JobPostRepo{DB: db} }

var (
	ErrAlreadyLiked = fmt.Errorf("post already liked by this user: %w", ErrDuplicate)
	ErrNotPostOwner = fmt.Errorf("only the author may delete this post: %w", ErrForbidden)
)

// JobPostSearchQuery filters and paginates post search.  From is inclusive,
// To exclusive; zero values disable the respective filter.
type JobPostSearchQuery struct {
	Keyword string
	From    time.Time
	To      time.Time
	Page    int
	Size    int
}

// Create persists a post for the given username.  The username must belong
// to an existing user; the public post id is a fresh UUID.
func (r *JobPostRepo) Create(ctx context.Context, username, description string, imageURLs []string) (*model.JobPost, error) {
	var post *model.JobPost
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}

		urls, err := json.Marshal(imageURLs)
		if err != nil {
			return err
		}
		p := model.JobPost{
			PostID:      uuid.NewString(),
			Username:    username,
			Description: description,
			ImageURLs:   datatypes.JSON(urls),
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		post = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetByPostID resolves a post by its public identifier.
func (r *JobPostRepo) GetByPostID(ctx context.Context, postID string) (*model.JobPost, error) {
	var p model.JobPost
	err := r.DB.WithContext(ctx).Where("post_id = ?", postID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Like records userID's like of the post.  The unique (post, user) index is
// the sole duplicate guard; its violation comes back as ErrAlreadyLiked.
func (r *JobPostRepo) Like(ctx context.Context, postID string, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.JobPost
		if err := tx.Where("post_id = ?", postID).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var n int64
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		like := model.JobPostLike{JobPostID: post.ID, UserID: userID}
		if err := tx.Create(&like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyLiked
			}
			return err
		}
		return nil
	})
}

// AddComment appends a comment by the given username.
func (r *JobPostRepo) AddComment(ctx context.Context, postID, username, content string) (*model.JobPostComment, error) {
	post, err := r.GetByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	c := model.JobPostComment{JobPostID: post.ID, Username: username, Content: content}
	if err := r.DB.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Comments lists a post's comments in stored order.
func (r *JobPostRepo) Comments(ctx context.Context, postID string) ([]model.JobPostComment, error) {
	post, err := r.GetByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	out := []model.JobPostComment{}
	err = r.DB.WithContext(ctx).
		Where("job_post_id = ?", post.ID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// DeleteByUser removes the post and its children, but only when the acting
// username owns it.
func (r *JobPostRepo) DeleteByUser(ctx context.Context, postID, username string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.JobPost
		if err := tx.Where("post_id = ?", postID).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if post.Username != username {
			return ErrNotPostOwner
		}
		if err := tx.Where("job_post_id = ?", post.ID).Delete(&model.JobPostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_post_id = ?", post.ID).Delete(&model.JobPostComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// Search filters posts by keyword and creation date range, newest first.
func (r *JobPostRepo) Search(ctx context.Context, q JobPostSearchQuery) ([]model.JobPost, int64, error) {
	base := func() *gorm.DB {
		db := r.DB.WithContext(ctx).Model(&model.JobPost{})
		if kw := strings.TrimSpace(q.Keyword); kw != "" {
			db = db.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(kw)+"%")
		}
		if !q.From.IsZero() {
			db = db.Where("created_at >= ?", q.From)
		}
		if !q.To.IsZero() {
			db = db.Where("created_at < ?", q.To)
		}
		return db
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []model.JobPost{}
	err := base().
		Order("created_at DESC, id DESC").
		Limit(q.Size).Offset(q.Page * q.Size).
		Find(&out).Error
	return out, total, err
}
