// Package elastic provides a FullTextStore adapter for an
// Elasticsearch-compatible search backend accessed over HTTP.
package elastic

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/mailfts/internal/core/ports/driven"
	"github.com/custodia-labs/mailfts/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.FullTextStore = (*Store)(nil)

// Default configuration values.
const (
	// DefaultBaseURL targets a local single-node backend.
	DefaultBaseURL = "http://localhost:9200"

	// DefaultTimeout is the per-request timeout. Cancellation beyond this
	// is the caller's context.
	DefaultTimeout = 30 * time.Second
)

// Config holds connection settings for the search backend.
type Config struct {
	// BaseURL is the backend root URL (default: http://localhost:9200).
	BaseURL string

	// Username enables HTTP basic authentication when non-empty.
	Username string

	// Password is the basic authentication password.
	Password string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Store talks to the search backend. It owns no state beyond the HTTP client
// and is safe for concurrent use; operations are single-shot request/response
// with no retries or queuing.
type Store struct {
	client   *http.Client
	baseURL  string
	authcred string
}

// NewStore creates a backend store from configuration.
func NewStore(cfg Config) (*Store, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("elastic: invalid base URL %q", cfg.BaseURL)
	}

	s := &Store{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}

	if cfg.Username != "" {
		cred := cfg.Username + ":" + cfg.Password
		s.authcred = "Basic " + base64.StdEncoding.EncodeToString([]byte(cred))
	}

	return s, nil
}

// send issues one JSON POST and returns the response status and body. Every
// request carries an X-Opaque-Id so a failed call can be correlated in the
// backend's task and slow logs.
func (s *Store) send(ctx context.Context, path string, body any) (int, []byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+path,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Opaque-Id", "mailfts-"+uuid.NewString())
	if s.authcred != "" {
		req.Header.Set("Authorization", s.authcred)
	}

	logger.Debug("elastic: POST %s (%d bytes)", path, len(jsonBody))

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// success reports whether the backend answered with a 2xx status.
func success(status int) bool {
	return status >= 200 && status < 300
}
