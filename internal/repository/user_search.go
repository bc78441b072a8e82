package repository

import (
	"context"
	"strings"

	"github.com/openalum/alumnet-backend/internal/model"
)

// searchLimit caps how many users a single search query may return.
const searchLimit = 50

// SearchUsers performs a case-insensitive substring match over username and
// display name.
func (r *UserRepo) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	out := []model.User{}
	err := r.DB.WithContext(ctx).
		Where("LOWER(username) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern).
		Order("username ASC").
		Limit(searchLimit).
		Find(&out).Error
	return out, err
}
