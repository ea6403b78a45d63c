// Package buissines contains the media domain business logic
package buissines

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yourusername/media-saver-bot/config"
	"github.com/yourusername/media-saver-bot/internal/domain/media/deps"
	"github.com/yourusername/media-saver-bot/internal/domain/media/dto"
	"github.com/yourusername/media-saver-bot/internal/domain/media/entities"
	"github.com/yourusername/media-saver-bot/internal/domain/media/workers"
)

// UseCase orchestrates the resolution and delivery pipeline
type UseCase struct {
	resolver  deps.Resolver
	prober    deps.SizeProber
	fetcher   deps.StreamFetcher
	cache     deps.ResolutionCache
	users     deps.UserRepository
	downloads deps.DownloadRepository
	events    deps.DownloadEventProducer
	limiter   *workers.Limiter

	// set after construction to break the UseCase <-> Handlers cycle
	sender deps.TelegramSender

	downloadCfg *config.DownloadConfig
	adminChatID int64
	logger      zerolog.Logger
}

// NewUseCase creates a new media use case
func NewUseCase(
	resolver deps.Resolver,
	prober deps.SizeProber,
	fetcher deps.StreamFetcher,
	cache deps.ResolutionCache,
	users deps.UserRepository,
	downloads deps.DownloadRepository,
	events deps.DownloadEventProducer,
	limiter *workers.Limiter,
	downloadCfg *config.DownloadConfig,
	telegramCfg *config.TelegramConfig,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		resolver:    resolver,
		prober:      prober,
		fetcher:     fetcher,
		cache:       cache,
		users:       users,
		downloads:   downloads,
		events:      events,
		limiter:     limiter,
		downloadCfg: downloadCfg,
		adminChatID: telegramCfg.AdminChatID,
		logger:      logger.With().Str("component", "usecase").Logger(),
	}
}

// SetSender wires the Telegram sender after construction.
// This resolves the cyclic dependency: UseCase -> TelegramSender <- Handlers -> UseCase
func (u *UseCase) SetSender(sender deps.TelegramSender) {
	u.sender = sender
}

// HandleStart handles /start command
func (u *UseCase) HandleStart(ctx context.Context, req *dto.StartCommandRequest) (*dto.CommandResponse, error) {
	u.logger.Info().
		Int64("chat_id", req.ChatID).
		Str("username", req.Username).
		Msg("User started bot")

	user := &entities.User{
		ChatID:       req.ChatID,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		LanguageCode: req.LanguageCode,
	}
	if err := u.users.Upsert(ctx, user); err != nil {
		// A failed upsert should not break the greeting
		u.logger.Error().Err(err).Int64("chat_id", req.ChatID).Msg("Failed to upsert user")
	}

	message := "👋 Assalomu alaykum!\n\n" +
		"Men ijtimoiy tarmoqlardan video va rasmlarni yuklab beradigan botman.\n\n" +
		"Instagram, YouTube yoki TikTok post linkini yuboring — men media faylni " +
		"topib, sizga jo'nataman.\n\n" +
		"/help — yordam"

	return &dto.CommandResponse{Message: message}, nil
}

// HandleHelp handles /help command
func (u *UseCase) HandleHelp(ctx context.Context) (*dto.CommandResponse, error) {
	message := "📚 Foydalanish:\n\n" +
		"1. Instagram, YouTube yoki TikTok'dan post linkini nusxalang\n" +
		"2. Linkni shu chatga yuboring\n" +
		"3. Bot media faylni topib, sizga jo'natadi\n\n" +
		fmt.Sprintf("Telegram %dMB dan katta fayllarni qabul qilmaydi — bunday fayllar "+
			"uchun to'g'ridan-to'g'ri yuklab olish linki beriladi.", u.downloadCfg.MaxFileSizeMB)

	return &dto.CommandResponse{Message: message}, nil
}

// HandleStats handles /stats command (admin only)
func (u *UseCase) HandleStats(ctx context.Context, chatID int64) (*dto.CommandResponse, error) {
	if u.adminChatID == 0 || chatID != u.adminChatID {
		u.logger.Info().Int64("chat_id", chatID).Msg("/stats denied")
		return &dto.CommandResponse{Message: "⛔ Bu buyruq faqat admin uchun."}, nil
	}

	stats, err := u.downloads.Stats(ctx)
	if err != nil {
		u.logger.Error().Err(err).Msg("Failed to load stats")
		return nil, err
	}

	return &dto.CommandResponse{Message: formatStats(stats)}, nil
}

func formatStats(stats *entities.DownloadStats) string {
	var b strings.Builder

	b.WriteString("📊 <b>Bot statistikasi</b>\n\n")
	b.WriteString(fmt.Sprintf("👥 Foydalanuvchilar: %d\n", stats.UsersCount))
	b.WriteString(fmt.Sprintf("⬇️ Yuklashlar (jami): %d\n", stats.DownloadsCount))
	b.WriteString(fmt.Sprintf("✅ Muvaffaqiyatli: %d (%.1f%%)\n", stats.SuccessCount, stats.SuccessRate))

	if len(stats.TopMediaTypes) > 0 {
		b.WriteString("\n📋 <b>Eng ko'p yuklanadigan turlar:</b>\n")
		for i, row := range stats.TopMediaTypes {
			if i >= 5 {
				break
			}
			b.WriteString(fmt.Sprintf("• %s: %d marta\n", row.MediaTypes, row.Count))
		}
	}

	if len(stats.DailyActivity) > 0 {
		b.WriteString("\n📈 <b>Oxirgi 7 kun:</b>\n")
		for i, row := range stats.DailyActivity {
			if i >= 7 {
				break
			}
			b.WriteString(fmt.Sprintf("• %s: %d yuklash\n", row.Day, row.Count))
		}
	}

	return b.String()
}
