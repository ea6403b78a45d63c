// Package domain contains all domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/yourusername/media-saver-bot/internal/domain/media"
)

// Module aggregates all domain modules for fx dependency injection
var Module = fx.Module("domain",
	media.Module,
)
