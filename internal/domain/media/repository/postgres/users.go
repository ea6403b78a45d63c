// Package postgres contains PostgreSQL repository implementations
package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/media-saver-bot/internal/domain/media/deps"
	"github.com/yourusername/media-saver-bot/internal/domain/media/entities"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) deps.UserRepository {
	return &userRepository{db: db}
}

// Upsert creates the user row or refreshes it on a repeat /start
func (r *userRepository) Upsert(ctx context.Context, user *entities.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.LastSeenAt = now

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "first_name", "last_name", "language_code", "last_seen_at",
		}),
	}).Create(user).Error
}

// Count returns the total number of known users
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error
	return count, err
}
