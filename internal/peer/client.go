// Package peer implements the HTTP collaborator used to reach peer data
// services through the node gateway.
package peer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dbsmedya/fedsearch/internal/logger"
	"github.com/dbsmedya/fedsearch/internal/metrics"
)

// Client fetches JSON documents from peer services. Transient failures
// (network errors, 5xx) are retried with exponential backoff; 4xx responses
// are permanent.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	logger     *logger.Logger
}

// NewClient creates a peer client rooted at the node gateway URL. Every
// fetch is bounded by the given timeout.
func NewClient(baseURL string, timeout time.Duration, maxRetries int, log *logger.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is empty")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: uint64(maxRetries),
		logger:     log,
	}, nil
}

// BaseURL returns the gateway URL the client is rooted at.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchJSON issues a request for pathFragment under the gateway and decodes
// the JSON response. A non-nil body is sent as a JSON request body. The auth
// credential is passed through opaquely as the Authorization header; some
// peers return 403 without it.
func (c *Client) FetchJSON(
	ctx context.Context,
	method string,
	pathFragment string,
	body interface{},
	authHeader string,
	extraHeaders http.Header,
) (interface{}, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	url := c.baseURL + "/" + strings.TrimLeft(pathFragment, "/")

	var result interface{}
	operation := func() error {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		for key, values := range extraHeaders {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		metrics.PeerFetchDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			return fmt.Errorf("peer fetch failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			_, _ = io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("peer returned status %d for %s", resp.StatusCode, pathFragment)
		}
		if resp.StatusCode >= 400 {
			_, _ = io.Copy(io.Discard, resp.Body)
			return backoff.Permanent(fmt.Errorf("peer returned status %d for %s", resp.StatusCode, pathFragment))
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode peer response: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		metrics.PeerFetchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.PeerFetchesTotal.WithLabelValues("success").Inc()
	return result, nil
}
