package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/plugfox/toxy-gram-server/internal/config"
	errs "github.com/plugfox/toxy-gram-server/internal/err"
)

// Transcriber maps voice audio to text.
// An empty transcript means the audio was unintelligible,
// which is a normal outcome, not an error.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mime string) (string, error)
}

// HTTPTranscriber posts the voice payload to an external
// speech-to-text endpoint.
type HTTPTranscriber struct {
	url     string
	token   string
	timeout time.Duration
	client  *http.Client
}

var _ Transcriber = (*HTTPTranscriber)(nil)

// New creates the transcriber client.
func New(cfg *config.TranscriberConfig, httpClient *http.Client) *HTTPTranscriber {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &HTTPTranscriber{
		url:     cfg.URL,
		token:   cfg.Token,
		timeout: cfg.Timeout,
		client:  httpClient,
	}
}

// Enabled reports whether a speech-to-text endpoint is configured.
func (t *HTTPTranscriber) Enabled() bool {
	return t.url != ""
}

// Transcribe sends the audio and returns the recognized text.
// The call is bounded by the configured timeout.
func (t *HTTPTranscriber) Transcribe(ctx context.Context, audio []byte, mime string) (string, error) {
	if !t.Enabled() {
		return "", errs.ErrorServiceUnavailable
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(audio))
	if err != nil {
		return "", err
	}

	if mime == "" {
		mime = "application/octet-stream"
	}

	req.Header.Set("Content-Type", mime)
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errs.WrapUnexpectedStatus(resp.StatusCode)
	}

	// e.g. {"text":"hello there"}
	var result struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.Text, nil
}
