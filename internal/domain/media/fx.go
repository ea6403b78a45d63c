// Package media contains the media domain module
package media

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/yourusername/media-saver-bot/config"
	"github.com/yourusername/media-saver-bot/internal/domain/media/cache"
	telegramDelivery "github.com/yourusername/media-saver-bot/internal/domain/media/delivery/telegram"
	"github.com/yourusername/media-saver-bot/internal/domain/media/deps"
	"github.com/yourusername/media-saver-bot/internal/domain/media/repository/fetch"
	"github.com/yourusername/media-saver-bot/internal/domain/media/repository/httpprobe"
	kafkaRepo "github.com/yourusername/media-saver-bot/internal/domain/media/repository/kafka"
	"github.com/yourusername/media-saver-bot/internal/domain/media/repository/postgres"
	"github.com/yourusername/media-saver-bot/internal/domain/media/repository/rapidapi"
	"github.com/yourusername/media-saver-bot/internal/domain/media/usecase/buissines"
	"github.com/yourusername/media-saver-bot/internal/domain/media/workers"
	"github.com/yourusername/media-saver-bot/internal/infrastructure/telegram"
)

// Module provides media domain components for fx dependency injection
var Module = fx.Module("media",
	// Repository
	fx.Provide(rapidapi.NewClient),
	fx.Provide(httpprobe.NewProber),
	fx.Provide(fetch.NewFetcher),
	fx.Provide(postgres.NewUserRepository),
	fx.Provide(postgres.NewDownloadRepository),
	fx.Provide(provideEventProducer),
	fx.Provide(provideResolutionCache),

	// Workers
	fx.Provide(provideLimiter),

	// UseCase
	fx.Provide(buissines.NewUseCase),

	// Delivery - Telegram (needs raw bot from infrastructure)
	fx.Provide(provideTelegramHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Wire cyclic dependency and register routes
	fx.Invoke(wireAndRegister),
)

func provideResolutionCache(cfg *config.CacheConfig) deps.ResolutionCache {
	return cache.New(cfg.MaxSize, time.Duration(cfg.TTLSeconds)*time.Second)
}

func provideLimiter(cfg *config.DownloadConfig, logger zerolog.Logger) *workers.Limiter {
	return workers.NewLimiter(cfg.MaxConcurrent, cfg.PerUserLimit, logger)
}

// provideEventProducer creates the Kafka producer and closes it on shutdown
func provideEventProducer(lc fx.Lifecycle, cfg *config.KafkaConfig, logger zerolog.Logger) (deps.DownloadEventProducer, error) {
	producer, err := kafkaRepo.NewProducer(cfg, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return producer, nil
}

// provideTelegramHandlers creates Telegram handlers with raw bot
func provideTelegramHandlers(uc *buissines.UseCase, bot *telegram.Bot, logger zerolog.Logger) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, bot.Raw(), logger)
}

// wireAndRegister resolves cyclic dependency and registers routes
func wireAndRegister(
	uc *buissines.UseCase,
	handlers *telegramDelivery.Handlers,
	router *telegramDelivery.Router,
	bot *telegram.Bot,
) {
	// Handlers implements deps.TelegramSender interface
	// This resolves the cyclic dependency: UseCase -> TelegramSender <- Handlers -> UseCase
	uc.SetSender(handlers)

	// Register Telegram command routes
	router.RegisterRoutes(bot.Raw())
}
