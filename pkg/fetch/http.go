package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultMaxTries       = 3
	defaultRequestTimeout = 10 * time.Second
	maxDocumentBytes      = 1 << 20
)

// HTTPStore fetches rule documents from an HTTP base URL, typically a raw
// repository endpoint. Transient failures are retried with exponential
// backoff; a 404 is permanent and maps to [ErrNotFound].
type HTTPStore struct {
	baseURL  string
	client   *http.Client
	maxTries uint
}

// HTTPStoreOpt configures an [HTTPStore].
type HTTPStoreOpt func(*HTTPStore)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPStoreOpt {
	return func(s *HTTPStore) { s.client = c }
}

// WithMaxTries sets the retry budget per document.
func WithMaxTries(n uint) HTTPStoreOpt {
	return func(s *HTTPStore) { s.maxTries = n }
}

// NewHTTPStore creates a store rooted at baseURL.
func NewHTTPStore(baseURL string, opts ...HTTPStoreOpt) (*HTTPStore, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	s := &HTTPStore{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		client:   &http.Client{Timeout: defaultRequestTimeout},
		maxTries: defaultMaxTries,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *HTTPStore) Get(ctx context.Context, path string) ([]byte, error) {
	docURL := s.baseURL + "/" + strings.TrimPrefix(path, "/")

	operation := func() ([]byte, error) {
		return s.getOnce(ctx, docURL, path)
	}

	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(s.maxTries),
	)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped per attempt.
	}

	return data, nil
}

func (s *HTTPStore) getOnce(ctx context.Context, docURL, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", docURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}

		return data, nil

	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(fmt.Errorf("%w: %s", ErrNotFound, path))

	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("fetch %q: status %d", docURL, resp.StatusCode)

	default:
		return nil, backoff.Permanent(fmt.Errorf("fetch %q: status %d", docURL, resp.StatusCode))
	}
}
