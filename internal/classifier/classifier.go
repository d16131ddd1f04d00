package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/plugfox/toxy-gram-server/internal/config"
	errs "github.com/plugfox/toxy-gram-server/internal/err"
	"github.com/plugfox/toxy-gram-server/internal/utility"
)

// Classifier maps message text to a toxicity score in [0,1].
type Classifier interface {
	Classify(ctx context.Context, text string) (float64, error)
}

// HTTPClassifier calls an external toxicity inference endpoint.
// Scores are cached by text hash so retries and repeated messages
// skip the inference cost.
type HTTPClassifier struct {
	url     string
	token   string
	timeout time.Duration
	client  *http.Client
	cache   *ristretto.Cache
	logger  *slog.Logger
}

var _ Classifier = (*HTTPClassifier)(nil)

const (
	cacheCountersPerItem = 10
	cacheBufferItems     = 64
)

// New creates the classifier client. The cache is disabled when
// cfg.CacheSize is zero.
func New(cfg *config.ClassifierConfig, httpClient *http.Client, logger *slog.Logger) (*HTTPClassifier, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	var cache *ristretto.Cache
	if cfg.CacheSize > 0 {
		var err error
		cache, err = ristretto.NewCache(&ristretto.Config{
			NumCounters: cfg.CacheSize * cacheCountersPerItem,
			MaxCost:     cfg.CacheSize,
			BufferItems: cacheBufferItems,
		})
		if err != nil {
			return nil, err
		}
	}

	return &HTTPClassifier{
		url:     cfg.URL,
		token:   cfg.Token,
		timeout: cfg.Timeout,
		client:  httpClient,
		cache:   cache,
		logger:  logger,
	}, nil
}

// Classify returns the toxicity score for the text.
// The call is bounded by the configured timeout.
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (float64, error) {
	if c.url == "" {
		return 0, errs.ErrorServiceUnavailable
	}

	key := utility.HashText(text)

	if c.cache != nil {
		if value, found := c.cache.Get(key); found {
			if score, ok := value.(float64); ok {
				return score, nil
			}
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errs.WrapUnexpectedStatus(resp.StatusCode)
	}

	// e.g. {"score":0.9731}
	var result struct {
		Score float64 `json:"score"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}

	c.logger.DebugContext(ctx, "toxicity prediction",
		slog.String("text_hash", key),
		slog.Float64("score", result.Score),
	)

	if c.cache != nil {
		c.cache.Set(key, result.Score, 1)
	}

	return result.Score, nil
}

// Close releases the cache resources.
func (c *HTTPClassifier) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}
