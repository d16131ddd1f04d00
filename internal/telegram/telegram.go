// Library repository: https://github.com/tucnak/telebot

package telegram

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	config "github.com/plugfox/toxy-gram-server/internal/config"
	"github.com/plugfox/toxy-gram-server/internal/converters"
	"github.com/plugfox/toxy-gram-server/internal/model"
	"github.com/plugfox/toxy-gram-server/internal/storage"

	log "github.com/plugfox/toxy-gram-server/internal/log"
	tele "gopkg.in/telebot.v3"
	mw "gopkg.in/telebot.v3/middleware"
)

type Telegram struct {
	bot       *tele.Bot
	moderator *Moderator
	config    *config.Config
	logger    *slog.Logger
}

func New(
	db *storage.Storage,
	moderator *Moderator,
	httpClient *http.Client,
	config *config.Config,
	logger *slog.Logger,
) (*Telegram, error) {
	pref := tele.Settings{
		Token:  config.Telegram.Token,
		Client: httpClient,
		Poller: &tele.LongPoller{
			Timeout: config.Telegram.Timeout,
		},
		OnError: func(err error, _ tele.Context) {
			logger.Error("telegram error", slog.String("error", err.Error()))
		},
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	// Global-scoped middleware:
	bot.Use(mw.Recover())
	bot.Use(mw.AutoRespond())
	bot.Use(mw.Logger(log.NewLogAdapter(logger)))
	if config.Telegram.IgnoreVia {
		bot.Use(mw.IgnoreVia())
	}
	if len(config.Telegram.Whitelist) > 0 {
		bot.Use(mw.Whitelist(config.Telegram.Whitelist...))
	}
	if len(config.Telegram.Blacklist) > 0 {
		bot.Use(mw.Blacklist(config.Telegram.Blacklist...))
	}

	// Store messages in the database
	bot.Use(storeMessagesMiddleware(db, func(err error) {
		logger.Error("database error", slog.String("error", err.Error()))
	}))

	telegram := &Telegram{
		bot:       bot,
		moderator: moderator,
		config:    config,
		logger:    logger,
	}

	bot.Handle("/start", telegram.onStart)
	bot.Handle(tele.OnText, telegram.onText)
	bot.Handle(tele.OnVoice, telegram.onVoice)

	return telegram, nil
}

func (t *Telegram) Start() {
	t.bot.Start()
}

func (t *Telegram) Me() *model.User {
	return converters.UserFromTG(t.bot.Me).Seen()
}

func (t *Telegram) Stop() {
	t.bot.Stop()
}

// Status returns the bot status for the health check.
func (t *Telegram) Status() (string, error) {
	return "ok", nil
}

func (t *Telegram) onStart(c tele.Context) error {
	return c.Send("👋 Welcome! Send me text or voice messages and I'll check for toxicity.")
}

func (t *Telegram) onText(c tele.Context) error {
	in, ok := t.inbound(c)
	if !ok {
		return nil
	}

	in.Text = c.Message().Text

	t.moderator.Moderate(context.Background(), in, teleActions{c})

	return nil
}

func (t *Telegram) onVoice(c tele.Context) error {
	in, ok := t.inbound(c)
	if !ok {
		return nil
	}

	voice := c.Message().Voice
	in.Voice = func(_ context.Context) ([]byte, string, error) {
		reader, err := t.bot.File(&voice.File)
		if err != nil {
			return nil, "", err
		}
		defer reader.Close()

		audio, err := io.ReadAll(reader)
		if err != nil {
			return nil, "", err
		}

		return audio, voice.MIME, nil
	}

	t.moderator.Moderate(context.Background(), in, teleActions{c})

	return nil
}

// inbound builds the pipeline input for a message, filtering out
// messages the bot must not moderate.
func (t *Telegram) inbound(c tele.Context) (Inbound, bool) {
	msg := c.Message()
	sender := c.Sender()
	chat := c.Chat()

	if msg == nil || sender == nil || chat == nil || sender.IsBot {
		return Inbound{}, false
	}

	if !allowedChats(t.config, chat.ID) {
		return Inbound{}, false
	}

	return Inbound{
		UserID:      model.UserID(sender.ID),
		DisplayName: converters.UserFromTG(sender).DisplayName(),
		ChatID:      model.ChatID(chat.ID),
		MessageID:   model.MessageID(msg.ID),
	}, true
}

// teleActions adapts a telebot context into the moderator's side effects.
type teleActions struct {
	c tele.Context
}

func (a teleActions) DeleteMessage() error {
	return a.c.Delete()
}

func (a teleActions) SendReply(text string) error {
	return a.c.Reply(text)
}
