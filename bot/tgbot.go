package bot

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"

	"BeautyGenius/internal/lib/sl"
)

// Stats is what the admin status command reports.
type Stats interface {
	OpenWorkflows() int
}

// TgBot sends alerts to the admin chat and answers the admin's /status.
type TgBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	updater     *ext.Updater
	botUsername string
	adminId     int64
	stats       Stats
	started     time.Time
}

func NewTgBot(botName, apiKey string, adminId int64, log *slog.Logger) (*TgBot, error) {
	tgBot := &TgBot{
		log:         log.With(sl.Module("tgbot")),
		adminId:     adminId,
		botUsername: botName,
		started:     time.Now(),
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api

	return tgBot, nil
}

func (t *TgBot) SetStats(stats Stats) {
	t.stats = stats
}

// Start polls for updates until Stop is called.
func (t *TgBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.Warn("handling update", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	dispatcher.AddHandler(handlers.NewCommand("status", t.status))

	t.updater = ext.NewUpdater(dispatcher, nil)
	err := t.updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("start polling: %w", err)
	}
	t.log.Info("bot started", slog.String("username", t.api.Username))

	t.updater.Idle()
	return nil
}

func (t *TgBot) Stop() {
	if t.updater == nil {
		return
	}
	if err := t.updater.Stop(); err != nil {
		t.log.Warn("stopping updater", sl.Err(err))
	}
}

// SendMessage delivers msg to the admin chat.
func (t *TgBot) SendMessage(msg string) {
	t.plainResponse(t.adminId, msg)
}

func (t *TgBot) status(b *tgbotapi.Bot, ctx *ext.Context) error {
	if ctx.EffectiveUser == nil || ctx.EffectiveUser.Id != t.adminId {
		return nil
	}
	text := fmt.Sprintf("%s up %s", t.botUsername, time.Since(t.started).Round(time.Second))
	if t.stats != nil {
		text += fmt.Sprintf("\nopen workflows: %d", t.stats.OpenWorkflows())
	}
	t.plainResponse(ctx.EffectiveChat.Id, text)
	return nil
}

func (t *TgBot) plainResponse(chatId int64, text string) {
	sanitized := sanitize(text)
	if sanitized == "" {
		t.log.With(
			slog.Int64("id", chatId),
		).Debug("empty message")
		return
	}

	_, err := t.api.SendMessage(chatId, sanitized, &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		t.log.With(
			slog.Int64("id", chatId),
		).Warn("sending message", sl.Err(err))
		_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
		if err != nil {
			t.log.With(
				slog.Int64("id", chatId),
			).Error("sending safe message", sl.Err(err))
		}
	}
}

// sanitize escapes the MarkdownV2 reserved characters.
func sanitize(input string) string {
	const reserved = "\\`_*[]()~>#+-=|{}.!"

	var b strings.Builder
	b.Grow(len(input))
	for _, char := range input {
		if strings.ContainsRune(reserved, char) {
			b.WriteRune('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
