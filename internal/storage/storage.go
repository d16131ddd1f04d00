package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	config "github.com/plugfox/toxy-gram-server/internal/config"
	errs "github.com/plugfox/toxy-gram-server/internal/err"
	"github.com/plugfox/toxy-gram-server/internal/model"
	storage_logger "github.com/plugfox/toxy-gram-server/internal/storage/storage_logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

type Storage struct {
	db *gorm.DB
}

func New(config *config.Config, logger *slog.Logger) (*Storage, error) {
	dialector, err := createDialector(&config.Database)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(
		dialector,
		&gorm.Config{
			NamingStrategy: schema.NamingStrategy{},
			Logger:         storage_logger.NewGormSlogLogger(logger),
			NowFunc:        func() time.Time { return time.Now().UTC() },
		})
	if err != nil {
		return nil, err
	}

	// Migrations
	const timeoutSeconds = 15 * 60
	ctx, cancel := context.WithTimeout(context.Background(), timeoutSeconds*time.Second)
	defer cancel() // releases resources if slowOperation completes before timeout elapses
	if err := db.WithContext(ctx).AutoMigrate(
		&model.User{},
		&model.Chat{},
		&model.Message{},
		&model.ModerationRecord{},
	); err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close - close the database connection
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UserByID - get the user by ID
func (s *Storage) UserByID(id model.UserID) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertUser - insert or update the user
func (s *Storage) UpsertUser(user *model.User) error {
	return s.db.Save(user).Error
}

// ModerationRecordByID - get the moderation record for a user.
// Returns err.ErrorNotFound when the user has never been moderated,
// callers treat that as the zero-value record.
func (s *Storage) ModerationRecordByID(id model.UserID) (*model.ModerationRecord, error) {
	var record model.ModerationRecord
	if err := s.db.First(&record, "user_id = ?", id.ToInt64()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrorNotFound
		}

		return nil, err
	}
	return &record, nil
}

// UpsertModerationRecord - insert or replace the record for its user.
// The write is atomic, keyed on user_id, and last writer wins.
func (s *Storage) UpsertModerationRecord(record *model.ModerationRecord) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(record).Error
}

// ModerationRecords - get all moderation records, worst offenders first.
func (s *Storage) ModerationRecords() ([]model.ModerationRecord, error) {
	var records []model.ModerationRecord
	if err := s.db.Order("toxic_count DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// LiftBlock - clear the block expiry for a user (admin action).
func (s *Storage) LiftBlock(id model.UserID) error {
	result := s.db.Model(&model.ModerationRecord{}).
		Where("user_id = ?", id.ToInt64()).
		Update("blocked_until", nil)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.ErrorNotFound
	}

	return nil
}

// UpsertMessageInput - the message with its related chats and users.
type UpsertMessageInput struct {
	Message *model.Message
	Chats   []*model.Chat
	Users   []*model.User
}

// UpsertMessage - insert or update the message, and the related chats and users if any
func (s *Storage) UpsertMessage(input UpsertMessageInput) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, user := range input.Users {
			if user == nil {
				continue
			}
			if err := tx.Save(user).Error; err != nil {
				return err
			}
		}

		for _, chat := range input.Chats {
			if chat == nil {
				continue
			}
			if err := tx.Save(chat).Error; err != nil {
				return err
			}
		}

		if input.Message != nil {
			// A removal audit may already be stored for this id,
			// those columns belong to MarkMessageRemoved
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"sender_id", "chat_id", "text", "is_voice", "unixtime",
					"last_edit", "is_forwarded", "reply_to_id", "updated_at",
				}),
			}).Create(input.Message).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// MarkMessageRemoved - flag a stored message as deleted from the chat with its verdict.
// The message insert runs asynchronously and may not have landed yet, so the flag
// is written as an upsert keyed on the message id and survives either order.
func (s *Storage) MarkMessageRemoved(id model.MessageID, toxic bool, score float64) error {
	return s.db.
		Select("id", "toxic", "score", "removed").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"toxic", "score", "removed"}),
		}).
		Create(&model.Message{ID: id, Toxic: toxic, Score: score, Removed: true}).Error
}
