package model

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/plugfox/toxy-gram-server/internal/utility"
	"gorm.io/gorm"
)

type (
	MessageID int64
)

type Message struct {
	ID          MessageID    `gorm:"PrimaryKey" hash:"x" json:"id"`        // Unique message identifier.
	SenderID    UserID       `gorm:"index" hash:"x" json:"sender_id"`      // ID of the sender.
	ChatID      ChatID       `gorm:"index" hash:"x" json:"chat_id"`        // ID of the chat the message belongs to.
	Text        string       `hash:"x" json:"text"`                        // Message text, or the transcript for voice messages.
	IsVoice     bool         `hash:"x" json:"is_voice"`                    // True if the message arrived as a voice recording.
	Unixtime    int64        `hash:"x" json:"unixtime"`                    // Unix timestamp when the message was sent.
	LastEdit    sql.NullTime `hash:"x" json:"last_edit"`                   // Time of last edit.
	IsForwarded bool         `hash:"x" json:"is_forwarded"`                // True if the message was forwarded.
	ReplyToID   MessageID    `gorm:"index" hash:"x" json:"reply_to_id"`    // Optional. ID of the original message for replies.

	// Moderation audit fields
	Toxic   bool    `hash:"x" json:"toxic"`   // True if the classifier flagged the message.
	Score   float64 `hash:"x" json:"score"`   // Classifier score in [0,1], 0 if the message was never classified.
	Removed bool    `hash:"x" json:"removed"` // True if the message was deleted from the chat.

	// Relations
	Sender *User `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"` // Reference to the sender.
	Chat   *Chat `gorm:"foreignKey:ChatID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`   // Reference to the chat.

	// Meta fields
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"` // Time when the message was stored.
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"` // Time when the message was last updated.
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`          // Soft delete.
}

// TableName - set the table name.
func (Message) TableName() string {
	return "messages"
}

// GetID - get the message ID.
func (obj *Message) GetID() int64 {
	return int64(obj.ID)
}

// ToInt64 - get the message ID.
func (id MessageID) ToInt64() int64 {
	return int64(id)
}

// ToString - get the message ID.
func (id MessageID) ToString() string {
	return strconv.FormatInt(int64(id), 10)
}

// Hash - calculate the hash of the object.
func (obj *Message) Hash() (string, error) {
	return utility.Hash(obj)
}
