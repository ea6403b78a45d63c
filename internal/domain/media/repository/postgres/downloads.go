package postgres

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/media-saver-bot/internal/domain/media/consts"
	"github.com/yourusername/media-saver-bot/internal/domain/media/deps"
	"github.com/yourusername/media-saver-bot/internal/domain/media/entities"
)

type downloadRepository struct {
	db    *gorm.DB
	users deps.UserRepository
}

// NewDownloadRepository creates a new download log repository
func NewDownloadRepository(db *gorm.DB, users deps.UserRepository) deps.DownloadRepository {
	return &downloadRepository{db: db, users: users}
}

// Log records one terminal pipeline outcome
func (r *downloadRepository) Log(ctx context.Context, download *entities.Download) error {
	if download.CreatedAt.IsZero() {
		download.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(download).Error
}

// Stats aggregates usage statistics for /stats
func (r *downloadRepository) Stats(ctx context.Context) (*entities.DownloadStats, error) {
	stats := &entities.DownloadStats{}

	usersCount, err := r.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.UsersCount = usersCount

	if err := r.db.WithContext(ctx).
		Model(&entities.Download{}).
		Count(&stats.DownloadsCount).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.Download{}).
		Where("status = ?", consts.StatusSuccess).
		Count(&stats.SuccessCount).Error; err != nil {
		return nil, err
	}

	if stats.DownloadsCount > 0 {
		rate := float64(stats.SuccessCount) / float64(stats.DownloadsCount) * 100
		stats.SuccessRate = math.Round(rate*10) / 10
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.Download{}).
		Select("media_types, count(*) as count").
		Where("status = ? AND media_types <> ''", consts.StatusSuccess).
		Group("media_types").
		Order("count DESC").
		Limit(10).
		Scan(&stats.TopMediaTypes).Error; err != nil {
		return nil, err
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	if err := r.db.WithContext(ctx).
		Model(&entities.Download{}).
		Select("to_char(created_at, 'YYYY-MM-DD') as day, count(*) as count").
		Where("created_at >= ?", weekAgo).
		Group("day").
		Order("day DESC").
		Scan(&stats.DailyActivity).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
