// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/yourusername/media-saver-bot/internal/infrastructure/database"
	"github.com/yourusername/media-saver-bot/internal/infrastructure/httpclient"
	"github.com/yourusername/media-saver-bot/internal/infrastructure/logger"
	"github.com/yourusername/media-saver-bot/internal/infrastructure/telegram"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	httpclient.Module,
	database.Module,
	telegram.Module,
)
