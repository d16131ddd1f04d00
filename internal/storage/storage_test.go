package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	config "github.com/plugfox/toxy-gram-server/internal/config"
	errs "github.com/plugfox/toxy-gram-server/internal/err"
	"github.com/plugfox/toxy-gram-server/internal/model"
	"github.com/stretchr/testify/require"
)

// newTestStorage opens a fresh in-memory database per test.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:     "sqlite3",
			Connection: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		},
	}

	st, err := New(cfg, slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelError})))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	return st
}

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestModerationRecordNotFound(t *testing.T) {
	st := newTestStorage(t)

	_, err := st.ModerationRecordByID(model.UserID(404))
	require.ErrorIs(t, err, errs.ErrorNotFound)
}

func TestUpsertModerationRecord(t *testing.T) {
	st := newTestStorage(t)

	record := model.NewModerationRecord(model.UserID(1), "johndoe")
	record.ToxicCount = 1
	require.NoError(t, st.UpsertModerationRecord(record))

	loaded, err := st.ModerationRecordByID(model.UserID(1))
	require.NoError(t, err)
	require.Equal(t, model.UserID(1), loaded.UserID)
	require.Equal(t, "johndoe", loaded.DisplayName)
	require.Equal(t, 1, loaded.ToxicCount)
	require.False(t, loaded.BlockedUntil.Valid)

	// Update in place: same key, new values replace the row
	until := time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)
	loaded.ToxicCount = 10
	loaded.DisplayName = "john"
	loaded.BlockedUntil = sql.NullTime{Time: until, Valid: true}
	require.NoError(t, st.UpsertModerationRecord(loaded))

	reloaded, err := st.ModerationRecordByID(model.UserID(1))
	require.NoError(t, err)
	require.Equal(t, 10, reloaded.ToxicCount)
	require.Equal(t, "john", reloaded.DisplayName)
	require.True(t, reloaded.BlockedUntil.Valid)
	require.Equal(t, until, reloaded.BlockedUntil.Time.UTC())

	records, err := st.ModerationRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestUpsertModerationRecordConcurrent(t *testing.T) {
	st := newTestStorage(t)

	const writers = 10

	var wg sync.WaitGroup
	wg.Add(writers)

	errc := make(chan error, writers)

	// Different users never conflict with each other
	for i := 1; i <= writers; i++ {
		go func(id int64) {
			defer wg.Done()

			record := model.NewModerationRecord(model.UserID(id), "user")
			record.ToxicCount = int(id)
			errc <- st.UpsertModerationRecord(record)
		}(int64(i))
	}

	wg.Wait()
	close(errc)

	for err := range errc {
		require.NoError(t, err)
	}

	records, err := st.ModerationRecords()
	require.NoError(t, err)
	require.Len(t, records, writers)

	// Worst offenders first
	require.Equal(t, writers, records[0].ToxicCount)
}

func TestLiftBlock(t *testing.T) {
	st := newTestStorage(t)

	record := model.NewModerationRecord(model.UserID(7), "blocked")
	record.ToxicCount = 10
	record.Block(time.Now().UTC(), 48*time.Hour)
	require.NoError(t, st.UpsertModerationRecord(record))

	require.NoError(t, st.LiftBlock(model.UserID(7)))

	loaded, err := st.ModerationRecordByID(model.UserID(7))
	require.NoError(t, err)
	require.False(t, loaded.BlockedUntil.Valid)
	require.Equal(t, 10, loaded.ToxicCount) // the counter survives the unblock

	require.ErrorIs(t, st.LiftBlock(model.UserID(404)), errs.ErrorNotFound)
}

func TestUpsertMessage(t *testing.T) {
	st := newTestStorage(t)

	sender := &model.User{ID: 1, Username: "johndoe"}
	chat := &model.Chat{ID: 100, Type: "group", Title: "Test chat"}
	message := &model.Message{
		ID:       500,
		SenderID: 1,
		ChatID:   100,
		Text:     "hello",
		Unixtime: 1234567890,
	}

	require.NoError(t, st.UpsertMessage(UpsertMessageInput{
		Message: message,
		Chats:   []*model.Chat{chat, nil},
		Users:   []*model.User{sender, nil},
	}))

	user, err := st.UserByID(model.UserID(1))
	require.NoError(t, err)
	require.Equal(t, "johndoe", user.Username)
}

func TestMarkMessageRemoved(t *testing.T) {
	st := newTestStorage(t)

	require.NoError(t, st.UpsertMessage(UpsertMessageInput{
		Message: &model.Message{ID: 500, SenderID: 1, ChatID: 100, Text: "toxic text"},
		Users:   []*model.User{{ID: 1}},
		Chats:   []*model.Chat{{ID: 100}},
	}))

	require.NoError(t, st.MarkMessageRemoved(model.MessageID(500), true, 0.97))

	var message model.Message
	require.NoError(t, st.db.First(&message, "id = ?", 500).Error)
	require.True(t, message.Removed)
	require.True(t, message.Toxic)
	require.InDelta(t, 0.97, message.Score, 1e-9)

	// A later re-upsert of the same message keeps the audit columns
	require.NoError(t, st.UpsertMessage(UpsertMessageInput{
		Message: &model.Message{ID: 500, SenderID: 1, ChatID: 100, Text: "toxic text edited"},
	}))

	var reloaded model.Message
	require.NoError(t, st.db.First(&reloaded, "id = ?", 500).Error)
	require.True(t, reloaded.Removed)
	require.True(t, reloaded.Toxic)
	require.InDelta(t, 0.97, reloaded.Score, 1e-9)
	require.Equal(t, "toxic text edited", reloaded.Text)
}

// The message insert is asynchronous, the removal flag may land first.
func TestMarkMessageRemovedBeforeInsert(t *testing.T) {
	st := newTestStorage(t)

	require.NoError(t, st.MarkMessageRemoved(model.MessageID(500), true, 0.97))

	require.NoError(t, st.UpsertMessage(UpsertMessageInput{
		Message: &model.Message{ID: 500, SenderID: 1, ChatID: 100, Text: "toxic text"},
		Users:   []*model.User{{ID: 1}},
		Chats:   []*model.Chat{{ID: 100}},
	}))

	var message model.Message
	require.NoError(t, st.db.First(&message, "id = ?", 500).Error)
	require.True(t, message.Removed)
	require.True(t, message.Toxic)
	require.InDelta(t, 0.97, message.Score, 1e-9)
	require.Equal(t, "toxic text", message.Text)
	require.Equal(t, model.UserID(1), message.SenderID)
}
