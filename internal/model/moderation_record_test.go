package model

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewModerationRecord(t *testing.T) {
	record := NewModerationRecord(UserID(1), "johndoe")
	require.Equal(t, UserID(1), record.UserID)
	require.Equal(t, "johndoe", record.DisplayName)
	require.Zero(t, record.ToxicCount)
	require.False(t, record.BlockedUntil.Valid)
}

func TestModerationRecordBlocked(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	testcases := []struct {
		Name     string
		Record   *ModerationRecord
		Expected bool
	}{
		{
			Name:     "No block",
			Record:   &ModerationRecord{UserID: 1},
			Expected: false,
		},
		{
			Name: "Block in the future",
			Record: &ModerationRecord{
				UserID:       1,
				BlockedUntil: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
			},
			Expected: true,
		},
		{
			Name: "Block expires exactly now",
			Record: &ModerationRecord{
				UserID:       1,
				BlockedUntil: sql.NullTime{Time: now, Valid: true},
			},
			Expected: false,
		},
		{
			Name: "Block in the past",
			Record: &ModerationRecord{
				UserID:       1,
				BlockedUntil: sql.NullTime{Time: now.Add(-time.Hour), Valid: true},
			},
			Expected: false,
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.Name, func(t *testing.T) {
			require.Equal(t, testcase.Expected, testcase.Record.Blocked(now))
		})
	}
}

func TestModerationRecordBlockUnblock(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	record := NewModerationRecord(UserID(1), "johndoe")
	record.Block(now, 48*time.Hour)
	require.True(t, record.BlockedUntil.Valid)
	require.Equal(t, now.Add(48*time.Hour), record.BlockedUntil.Time)
	require.True(t, record.Blocked(now))
	require.True(t, record.BlockedUntil.Time.After(now))

	record.Unblock()
	require.False(t, record.BlockedUntil.Valid)
	require.False(t, record.Blocked(now))
}

func TestModerationRecordClone(t *testing.T) {
	record := &ModerationRecord{
		UserID:      1,
		DisplayName: "johndoe",
		ToxicCount:  7,
	}

	clone := record.Clone()
	clone.ToxicCount++
	clone.Block(time.Now(), time.Hour)

	// The original must stay untouched
	require.Equal(t, 7, record.ToxicCount)
	require.False(t, record.BlockedUntil.Valid)
	require.Equal(t, 8, clone.ToxicCount)
}

func TestModerationRecordHash(t *testing.T) {
	InitHashFunction()

	record := &ModerationRecord{
		UserID:      1,
		DisplayName: "johndoe",
		ToxicCount:  3,
	}

	hash, err := record.Hash()
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	hash2, _ := record.Hash()
	require.Equal(t, hash, hash2)

	record.ToxicCount++
	hash3, err := record.Hash()
	require.NoError(t, err)
	require.NotEqual(t, hash, hash3)
}
