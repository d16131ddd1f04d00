package metrics

import (
	"testing"
)

func TestFakeMetricsIsSafe(t *testing.T) {
	m := NewMetricsFake()

	t.Run("Empty tags and fields", func(_ *testing.T) {
		m.LogEvent("test", nil, nil)
		m.LogChatEvent("test", 0, nil)
		m.Close()
	})

	t.Run("With values", func(_ *testing.T) {
		m.LogChatEvent("moderation_blocked", 42, map[string]interface{}{
			"user_id":     int64(1),
			"toxic_count": 10,
		})
	})
}
