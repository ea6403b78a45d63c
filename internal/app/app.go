// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/yourusername/media-saver-bot/config"
	"github.com/yourusername/media-saver-bot/internal/domain"
	"github.com/yourusername/media-saver-bot/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, http client, database, telegram bot)
		infrastructure.Module,

		// Domain (media pipeline)
		domain.Module,
	)
}
