package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/plugfox/toxy-gram-server/internal/config"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, score float64, calls *atomic.Int64) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}

		var request struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		require.NotEmpty(t, request.Text)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]float64{"score": score})
	}))
	t.Cleanup(server.Close)

	return server
}

func TestClassify(t *testing.T) {
	server := newTestServer(t, 0.93, nil)

	c, err := New(&config.ClassifierConfig{
		URL:     server.URL,
		Timeout: time.Second,
	}, server.Client(), nil)
	require.NoError(t, err)

	score, err := c.Classify(context.Background(), "you are stupid")
	require.NoError(t, err)
	require.InDelta(t, 0.93, score, 1e-9)
}

func TestClassifyCache(t *testing.T) {
	var calls atomic.Int64

	server := newTestServer(t, 0.42, &calls)

	c, err := New(&config.ClassifierConfig{
		URL:       server.URL,
		Timeout:   time.Second,
		CacheSize: 100,
	}, server.Client(), nil)
	require.NoError(t, err)
	defer c.Close()

	score, err := c.Classify(context.Background(), "same text")
	require.NoError(t, err)
	require.InDelta(t, 0.42, score, 1e-9)

	// Ristretto applies writes asynchronously
	c.cache.Wait()

	score, err = c.Classify(context.Background(), "same text")
	require.NoError(t, err)
	require.InDelta(t, 0.42, score, 1e-9)

	require.Equal(t, int64(1), calls.Load())
}

func TestClassifyTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]float64{"score": 0.9})
	}))
	t.Cleanup(server.Close)

	c, err := New(&config.ClassifierConfig{
		URL:     server.URL,
		Timeout: 10 * time.Millisecond,
	}, server.Client(), nil)
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), "slow")
	require.Error(t, err)
}

func TestClassifyBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	c, err := New(&config.ClassifierConfig{
		URL:     server.URL,
		Timeout: time.Second,
	}, server.Client(), nil)
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), "boom")
	require.Error(t, err)
}

func TestClassifyNotConfigured(t *testing.T) {
	c, err := New(&config.ClassifierConfig{}, nil, nil)
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), "text")
	require.Error(t, err)
}
