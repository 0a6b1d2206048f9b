package telegramimpl

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/vibestream/internal/notify"
	"github.com/orgball2608/vibestream/pkg/config"
	"github.com/orgball2608/vibestream/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// sender is the part of *tgbotapi.BotAPI used for alerts.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramImpl struct {
	bot    sender
	userID int64
	logger logger.Logger
}

// New returns a Telegram client, or a logging client when no bot token is configured.
func New(opts Opts) (notify.Client, error) {
	log := opts.Logger.WithComponent("Telegram")

	if opts.Config.Telegram.Token == "" {
		log.Info("TELEGRAM_TOKEN is not set, alerts are only logged")
		return notify.NewLogClient(opts.Logger), nil
	}

	bot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		log.Error("Error creating bot", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return newWithSender(bot, opts.Config.Telegram.User, log), nil
}

func newWithSender(bot sender, userID int64, log logger.Logger) *TelegramImpl {
	return &TelegramImpl{bot: bot, userID: userID, logger: log}
}

var _ notify.Client = (*TelegramImpl)(nil)

// Notify sends message to the configured operator chat.
func (tg *TelegramImpl) Notify(message string) {
	msg := tgbotapi.NewMessage(tg.userID, message)
	if _, err := tg.bot.Send(msg); err != nil {
		tg.logger.Error("Error sending message to user",
			"userID", tg.userID,
			"error", err)
		return
	}

	tg.logger.Info("Message sent to user", "userID", tg.userID)
}
