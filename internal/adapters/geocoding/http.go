package geocoding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"road-status-service/internal/platform/obs"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// client is the transport shared by the geocoders: one rate limiter per
// upstream, identifying headers, and retry on transient failures.
type client struct {
	session   *http.Client
	limiter   *rate.Limiter
	userAgent string
	apiKey    string
}

func newClient(session *http.Client, userAgent, apiKey string, ratePerSecond float64) *client {
	if session == nil {
		session = &http.Client{Timeout: 10 * time.Second}
	}

	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}

	return &client{
		session:   session,
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: userAgent,
		apiKey:    apiKey,
	}
}

func (c *client) newRequest(ctx context.Context, endpoint string, params map[string]string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()

	return req, nil
}

func (c *client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// getWithRetry waits on the rate limiter before every attempt and backs
// off exponentially between retryable failures.
func (c *client) getWithRetry(ctx context.Context, endpoint string, params map[string]string) (_ *http.Response, err error) {
	defer obs.Time(ctx, "geocoding.get")(&err)

	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := c.newRequest(ctx, endpoint, params)
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(ctx, err) || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

// retryable reports upstream throttling, upstream 5xx and network errors
// that happened while ctx was still live.
func retryable(ctx context.Context, err error) bool {
	var se *httpStatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500 && se.Code != http.StatusNotImplemented
	}
	var ne net.Error
	return errors.As(err, &ne) && ctx.Err() == nil
}

// normalize collapses whitespace so equal queries share cache keys.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func record(provider, kind, outcome string) {
	obs.GeocodeRequestsTotal.WithLabelValues(provider, kind, outcome).Inc()
}
