// Package client wraps the external data providers behind the
// contracts the rating engine consumes: day slates and injury reports
// from ESPN's public site API, and per-player season averages from the
// NBA stats API. All calls go through one rate-limited, retrying HTTP
// core.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"nba_model/engine/internal/metrics"
)

// Client is the shared HTTP core for all providers.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries uint64

	scoreboardURL string
	injuriesURL   string
	statsURL      string
}

// Options configures provider endpoints and pacing.
type Options struct {
	ScoreboardURL string
	InjuriesURL   string
	StatsURL      string

	Timeout time.Duration
	// RateInterval is the minimum spacing between successive external
	// calls. The NBA stats API throttles aggressively; 600ms is safe.
	RateInterval time.Duration
	MaxRetries   uint64
}

func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RateInterval == 0 {
		opts.RateInterval = 600 * time.Millisecond
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter:       rate.NewLimiter(rate.Every(opts.RateInterval), 1),
		maxRetries:    opts.MaxRetries,
		scoreboardURL: opts.ScoreboardURL,
		injuriesURL:   opts.InjuriesURL,
		statsURL:      opts.StatsURL,
	}
}

// retryableStatusError marks HTTP statuses worth retrying.
type retryableStatusError struct {
	status int
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("retryable status %d", e.status)
}

// getJSON fetches a URL and unmarshals the response, pacing through the
// shared rate limiter and retrying transient failures with exponential
// backoff up to the attempt cap.
func (c *Client) getJSON(ctx context.Context, endpoint, url string, headers map[string]string, into any) error {
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
			return fmt.Errorf("failed to read response: %w", err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			metrics.RecordAPICall(endpoint, "success", time.Since(start).Seconds())
			if err := json.Unmarshal(body, into); err != nil {
				return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
			}
			return nil
		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			metrics.RecordAPICall(endpoint, "throttled", time.Since(start).Seconds())
			log.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Msg("Provider throttled request, will retry")
			return &retryableStatusError{status: resp.StatusCode}
		default:
			metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
			return backoff.Permanent(fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body)))
		}
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		metrics.RecordError("client", endpoint)
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	return nil
}
