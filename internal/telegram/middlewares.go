package telegram

import (
	config "github.com/plugfox/toxy-gram-server/internal/config"
	"github.com/plugfox/toxy-gram-server/internal/converters"
	"github.com/plugfox/toxy-gram-server/internal/model"
	"github.com/plugfox/toxy-gram-server/internal/storage"
	tele "gopkg.in/telebot.v3"
)

// Check if the chat is allowed
func allowedChats(config *config.Config, chatID int64) bool {
	for _, id := range config.Telegram.Chats {
		if id == chatID {
			return true
		}
	}
	return len(config.Telegram.Chats) == 0
}

// storeMessages middleware - store messages in the database asynchronously
func storeMessagesMiddleware(db *storage.Storage, onError func(error)) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			msg := c.Message()
			if msg != nil && msg.Sender != nil && msg.Chat != nil {
				go func() {
					err := db.UpsertMessage(
						storage.UpsertMessageInput{
							Message: converters.MessageFromTG(msg),
							Chats: []*model.Chat{
								converters.ChatFromTG(msg.Chat),
							},
							Users: []*model.User{
								converters.UserFromTG(msg.Sender).Seen(),
							},
						})
					if err != nil && onError != nil {
						onError(err)
					}
				}()
			}
			return next(c)
		}
	}
}
