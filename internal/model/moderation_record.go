package model

import (
	"database/sql"
	"time"

	"github.com/plugfox/toxy-gram-server/internal/utility"
)

// ModerationRecord represents the durable per-user moderation state:
// how many toxic messages the user has sent and until when the user is blocked.
type ModerationRecord struct {
	UserID       UserID       `gorm:"primaryKey" hash:"x" json:"user_id"`
	DisplayName  string       `hash:"x" json:"display_name"`                // Best-effort name, last write wins.
	ToxicCount   int          `gorm:"not null" hash:"x" json:"toxic_count"` // Cumulative count of toxic verdicts, never decremented.
	BlockedUntil sql.NullTime `gorm:"null" hash:"x" json:"blocked_until"`   // Block expiry, null if the user is not blocked.

	// Meta fields
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"` // Time when the record was last updated.
	Extra     string    `json:"extra"`                            // Extra data.
}

// NewModerationRecord - the zero-value record for a user the system has not seen yet.
func NewModerationRecord(id UserID, displayName string) *ModerationRecord {
	return &ModerationRecord{
		UserID:      id,
		DisplayName: displayName,
	}
}

// TableName - set the table name.
func (ModerationRecord) TableName() string {
	return "moderation_records"
}

// GetID - get the user ID.
func (obj *ModerationRecord) GetID() int64 {
	return int64(obj.UserID)
}

// Blocked reports whether the user is blocked at the given time.
// The comparison is strict: a block that expires exactly now is already over.
func (obj *ModerationRecord) Blocked(now time.Time) bool {
	return obj.BlockedUntil.Valid && obj.BlockedUntil.Time.After(now)
}

// Block sets the block expiry to now + duration.
func (obj *ModerationRecord) Block(now time.Time, duration time.Duration) {
	obj.BlockedUntil = sql.NullTime{
		Time:  now.Add(duration),
		Valid: true,
	}
}

// Unblock clears the block expiry.
func (obj *ModerationRecord) Unblock() {
	obj.BlockedUntil = sql.NullTime{}
}

// Clone returns a copy of the record.
func (obj *ModerationRecord) Clone() *ModerationRecord {
	clone := *obj
	return &clone
}

// Hash - calculate the hash of the object.
func (obj *ModerationRecord) Hash() (string, error) {
	return utility.Hash(obj)
}
