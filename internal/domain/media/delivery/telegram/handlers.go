// Package telegram contains Telegram delivery handlers
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/yourusername/media-saver-bot/internal/domain/media/dto"
	"github.com/yourusername/media-saver-bot/internal/domain/media/entities"
	"github.com/yourusername/media-saver-bot/internal/domain/media/usecase/buissines"
)

// Constants for Telegram API
const (
	MaxMessageLength = 4096
	RequestTimeout   = 30 * time.Second
	UploadTimeout    = 180 * time.Second
)

// Handlers contains Telegram command handlers.
// Implements deps.TelegramSender interface
type Handlers struct {
	uc     *buissines.UseCase
	bot    *tgbot.Bot
	logger zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *buissines.UseCase, bot *tgbot.Bot, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		bot:    bot,
		logger: logger.With().Str("component", "telegram_handlers").Logger(),
	}
}

// SendMessage implements deps.TelegramSender interface
func (h *Handlers) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := h.sendMessage(ctx, chatID, text)
	return err
}

// SendMessageAndGetID implements deps.TelegramSender interface
func (h *Handlers) SendMessageAndGetID(ctx context.Context, chatID int64, text string) (int, error) {
	msg, err := h.sendMessage(ctx, chatID, text)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (h *Handlers) sendMessage(ctx context.Context, chatID int64, text string) (*models.Message, error) {
	if text == "" {
		h.logger.Warn().Int64("chat_id", chatID).Msg("Attempt to send empty message")
		return nil, fmt.Errorf("message text cannot be empty")
	}
	if len(text) > MaxMessageLength {
		text = text[:MaxMessageLength]
	}

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	msg, err := h.bot.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return nil, h.classifySendError(chatID, err)
	}
	return msg, nil
}

// EditMessageText implements deps.TelegramSender interface
func (h *Handlers) EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.EditMessageText(msgCtx, &tgbot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	})
	return err
}

// DeleteMessage implements deps.TelegramSender interface
func (h *Handlers) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.DeleteMessage(msgCtx, &tgbot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	return err
}

// SendChatAction implements deps.TelegramSender interface
func (h *Handlers) SendChatAction(ctx context.Context, chatID int64, action string) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.SendChatAction(msgCtx, &tgbot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatAction(action),
	})
	if err != nil {
		h.logger.Warn().Int64("chat_id", chatID).Str("action", action).Err(err).Msg("Failed to send chat action")
	}
	return err
}

// SendMediaByURL implements deps.TelegramSender interface. Telegram fetches
// the URL itself, so nothing passes through this process.
func (h *Handlers) SendMediaByURL(ctx context.Context, chatID int64, mediaType entities.MediaType, mediaURL, caption string) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	return h.sendMedia(msgCtx, chatID, mediaType, &models.InputFileString{Data: mediaURL}, caption)
}

// SendMediaBytes implements deps.TelegramSender interface, re-publishing a
// buffered payload as an uploaded file.
func (h *Handlers) SendMediaBytes(ctx context.Context, chatID int64, mediaType entities.MediaType, filename string, data []byte, caption string) error {
	msgCtx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	file := &models.InputFileUpload{
		Filename: filename,
		Data:     bytes.NewReader(data),
	}
	return h.sendMedia(msgCtx, chatID, mediaType, file, caption)
}

func (h *Handlers) sendMedia(ctx context.Context, chatID int64, mediaType entities.MediaType, file models.InputFile, caption string) error {
	var err error
	switch mediaType {
	case entities.MediaTypePhoto:
		_, err = h.bot.SendPhoto(ctx, &tgbot.SendPhotoParams{
			ChatID:  chatID,
			Photo:   file,
			Caption: caption,
		})
	case entities.MediaTypeVideo:
		_, err = h.bot.SendVideo(ctx, &tgbot.SendVideoParams{
			ChatID:  chatID,
			Video:   file,
			Caption: caption,
		})
	default:
		_, err = h.bot.SendDocument(ctx, &tgbot.SendDocumentParams{
			ChatID:   chatID,
			Document: file,
			Caption:  caption,
		})
	}

	if err != nil {
		return h.classifySendError(chatID, err)
	}

	h.logger.Debug().
		Int64("chat_id", chatID).
		Str("media_type", string(mediaType)).
		Msg("Media sent")
	return nil
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	h.logCommand(chatID, "/start", "processing")

	req := &dto.StartCommandRequest{
		ChatID:       chatID,
		Username:     update.Message.From.Username,
		FirstName:    update.Message.From.FirstName,
		LastName:     update.Message.From.LastName,
		LanguageCode: update.Message.From.LanguageCode,
	}

	resp, err := h.uc.HandleStart(ctx, req)
	if err != nil {
		h.logError(chatID, "/start", err)
		h.sendResponse(ctx, chatID, "❌ /start buyrug'ini bajarishda xatolik yuz berdi")
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(chatID, "/start", "success")
}

// HandleHelp handles /help command
func (h *Handlers) HandleHelp(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	h.logCommand(chatID, "/help", "processing")

	resp, err := h.uc.HandleHelp(ctx)
	if err != nil {
		h.logError(chatID, "/help", err)
		h.sendResponse(ctx, chatID, "❌ /help buyrug'ini bajarishda xatolik yuz berdi")
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(chatID, "/help", "success")
}

// HandleStats handles /stats command
func (h *Handlers) HandleStats(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	h.logCommand(chatID, "/stats", "processing")

	resp, err := h.uc.HandleStats(ctx, chatID)
	if err != nil {
		h.logError(chatID, "/stats", err)
		h.sendResponse(ctx, chatID, "❌ Statistikani olishda xatolik yuz berdi")
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(chatID, "/stats", "success")
}

// HandleLink handles a plain text message carrying a post link
func (h *Handlers) HandleLink(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	h.logger.Info().Int64("chat_id", chatID).Str("url", text).Msg("Link received")

	h.uc.HandleDownload(ctx, chatID, text)
}

func (h *Handlers) sendResponse(ctx context.Context, chatID int64, text string) {
	if err := h.SendMessage(ctx, chatID, text); err != nil {
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Failed to send Telegram response")
	}
}

func (h *Handlers) classifySendError(chatID int64, err error) error {
	errorMsg := err.Error()

	switch {
	case strings.Contains(errorMsg, "Forbidden"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("User blocked the bot or chat not found")
		return fmt.Errorf("user blocked the bot or chat not found")

	case strings.Contains(errorMsg, "Too Many Requests"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("Telegram rate limit exceeded")
		return fmt.Errorf("rate limit exceeded, please try again later")

	case strings.Contains(errorMsg, "failed to get HTTP URL content"),
		strings.Contains(errorMsg, "wrong file identifier"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("Telegram could not fetch the URL")
		return fmt.Errorf("telegram could not fetch the URL: %w", err)

	default:
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Telegram send failed")
		return fmt.Errorf("failed to send: %w", err)
	}
}

func (h *Handlers) logCommand(chatID int64, command, status string) {
	h.logger.Info().Int64("chat_id", chatID).Str("command", command).Str("status", status).Msg("Command handled")
}

func (h *Handlers) logError(chatID int64, command string, err error) {
	h.logger.Error().Int64("chat_id", chatID).Str("command", command).Err(err).Msg("Command failed")
}
