package bot

import (
	"context"

	"fjacquet/fincat/internal/logging"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Run long-polls api for updates and hands them to h until ctx is done.
// Updates are handled one at a time.
func Run(ctx context.Context, api *tgbotapi.BotAPI, h *Handler, pollTimeout int) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := api.GetUpdatesChan(u)

	h.logger.Info("Bot started", logging.Field{Key: "username", Value: api.Self.UserName})
	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			h.logger.Info("Bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			h.HandleUpdate(ctx, update)
		}
	}
}
