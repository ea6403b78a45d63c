// Package telegram contains Telegram delivery layer
package telegram

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all command handlers on the bot
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, r.handlers.HandleStart)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/help", tgbot.MatchTypeExact, r.handlers.HandleHelp)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/stats", tgbot.MatchTypeExact, r.handlers.HandleStats)

	// Any non-command text message is treated as a post link
	bot.RegisterHandlerMatchFunc(matchPlainText, r.handlers.HandleLink)

	r.logger.Info().Msg("All Telegram command handlers registered successfully")
}

func matchPlainText(update *models.Update) bool {
	if update.Message == nil || update.Message.Text == "" {
		return false
	}
	return update.Message.Text[0] != '/'
}
