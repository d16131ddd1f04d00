package converters

import (
	"database/sql"
	"time"

	"github.com/plugfox/toxy-gram-server/internal/model"
	tele "gopkg.in/telebot.v3"
)

// Convert telebot message to database message.
func MessageFromTG(m *tele.Message) *model.Message {
	// If the message is nil then return nil
	if m == nil {
		return nil
	}

	// Convert the last edit time
	var lastEdit sql.NullTime
	if m.LastEdit != 0 {
		lastEdit = sql.NullTime{
			Time:  time.Unix(m.LastEdit, 0).UTC(),
			Valid: true,
		}
	}

	msg := &model.Message{
		ID:          model.MessageID(m.ID),
		SenderID:    model.UserID(m.Sender.ID),
		ChatID:      model.ChatID(m.Chat.ID),
		Text:        m.Text,
		IsVoice:     m.Voice != nil,
		Unixtime:    m.Unixtime,
		LastEdit:    lastEdit,
		IsForwarded: m.OriginalSender != nil,
		Sender:      UserFromTG(m.Sender),
		Chat:        ChatFromTG(m.Chat),
	}

	// If the message is a reply
	if m.ReplyTo != nil {
		msg.ReplyToID = model.MessageID(m.ReplyTo.ID)
	}

	return msg
}

// Convert telebot chat to database chat.
func ChatFromTG(c *tele.Chat) *model.Chat {
	if c == nil {
		return nil
	}

	return &model.Chat{
		ID:        model.ChatID(c.ID),
		Type:      string(c.Type),
		Title:     c.Title,
		Username:  c.Username,
		IsPrivate: c.Private,
	}
}

// Convert telebot user to database user.
func UserFromTG(u *tele.User) *model.User {
	if u == nil {
		return nil
	}

	return &model.User{
		ID:           model.UserID(u.ID),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.Username,
		LanguageCode: u.LanguageCode,
		IsPremium:    u.IsPremium,
		IsBot:        u.IsBot,
	}
}
