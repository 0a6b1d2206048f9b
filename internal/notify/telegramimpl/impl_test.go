package telegramimpl

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/vibestream/internal/notify"
	"github.com/orgball2608/vibestream/pkg/config"
	"github.com/orgball2608/vibestream/pkg/logger"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, f.err
}

func TestNotify_SendsToOperator(t *testing.T) {
	bot := &fakeSender{}
	tg := newWithSender(bot, 42, logger.NewNop())

	tg.Notify("cleanup failed")

	if len(bot.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(bot.sent))
	}
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("sent %T, want MessageConfig", bot.sent[0])
	}
	if msg.ChatID != 42 || msg.Text != "cleanup failed" {
		t.Fatalf("message = chat %d %q", msg.ChatID, msg.Text)
	}
}

func TestNotify_SendErrorIsSwallowed(t *testing.T) {
	bot := &fakeSender{err: errors.New("network down")}
	tg := newWithSender(bot, 42, logger.NewNop())

	tg.Notify("hello")

	if len(bot.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(bot.sent))
	}
}

func TestNew_WithoutTokenLogsOnly(t *testing.T) {
	cfg := &config.Config{}

	client, err := New(Opts{Config: cfg, Logger: logger.NewNop()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := client.(*notify.LogClient); !ok {
		t.Fatalf("client = %T, want *notify.LogClient", client)
	}
}
