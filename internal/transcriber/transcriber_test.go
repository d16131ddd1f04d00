package transcriber

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/plugfox/toxy-gram-server/internal/config"
	"github.com/stretchr/testify/require"
)

func TestTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3}, body)
		require.Equal(t, "audio/ogg", r.Header.Get("Content-Type"))

		_ = json.NewEncoder(w).Encode(map[string]string{"text": "hello there"})
	}))
	t.Cleanup(server.Close)

	tr := New(&config.TranscriberConfig{
		URL:     server.URL,
		Timeout: time.Second,
	}, server.Client())
	require.True(t, tr.Enabled())

	text, err := tr.Transcribe(context.Background(), []byte{1, 2, 3}, "audio/ogg")
	require.NoError(t, err)
	require.Equal(t, "hello there", text)
}

func TestTranscribeUnintelligible(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// The service could not recognize the audio
		_ = json.NewEncoder(w).Encode(map[string]string{"text": ""})
	}))
	t.Cleanup(server.Close)

	tr := New(&config.TranscriberConfig{
		URL:     server.URL,
		Timeout: time.Second,
	}, server.Client())

	text, err := tr.Transcribe(context.Background(), []byte{1}, "audio/ogg")
	require.NoError(t, err)
	require.Empty(t, text)
}

func TestTranscribeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "late"})
	}))
	t.Cleanup(server.Close)

	tr := New(&config.TranscriberConfig{
		URL:     server.URL,
		Timeout: 10 * time.Millisecond,
	}, server.Client())

	_, err := tr.Transcribe(context.Background(), []byte{1}, "audio/ogg")
	require.Error(t, err)
}

func TestTranscribeDisabled(t *testing.T) {
	tr := New(&config.TranscriberConfig{}, nil)
	require.False(t, tr.Enabled())

	_, err := tr.Transcribe(context.Background(), []byte{1}, "audio/ogg")
	require.Error(t, err)
}
