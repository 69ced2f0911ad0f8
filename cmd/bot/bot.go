// Package bot provides the command that serves statement categorization over Telegram.
package bot

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/fincat/cmd/root"
	telegram "fjacquet/fincat/internal/bot"
	"fjacquet/fincat/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
)

// Cmd represents the bot command
var Cmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	Long: `Run a long-polling Telegram bot. Users send a CSV or OFX statement as a
document and receive the categorized JSON report back.

The token is read from bot.token or TELEGRAM_BOT_TOKEN.`,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	if root.AppConfig == nil || root.AppConfig.Bot.Token == "" {
		return fmt.Errorf("bot token is not configured (set TELEGRAM_BOT_TOKEN)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := root.GetContainer(ctx)
	if err != nil {
		return err
	}

	api, err := tgbotapi.NewBotAPI(root.AppConfig.Bot.Token)
	if err != nil {
		return fmt.Errorf("error connecting to Telegram: %w", err)
	}
	api.Debug = root.AppConfig.Bot.Debug

	h := telegram.NewHandler(api, c.GetProcessor(), c.GetArchiver(), Settings(root.AppConfig), c.GetLogger())
	telegram.Run(ctx, api, h, root.AppConfig.Bot.PollTimeoutSeconds)
	return nil
}

// Settings derives handler settings from the configuration. Debug mode keeps
// work directories for inspection.
func Settings(cfg *config.Config) telegram.Settings {
	return telegram.Settings{
		MaxFileSize:   cfg.MaxFileSize(),
		WorkDir:       cfg.Bot.WorkDir,
		KeepFiles:     cfg.Bot.KeepFiles || cfg.Bot.Debug,
		ArchivePrefix: cfg.Archive.Prefix,
	}
}
