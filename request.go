package apidance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// requestAttempt tracks the retry state of a single operation call. It is
// created per call and discarded when the call returns.
type requestAttempt struct {
	endpoint    string
	attempts    int
	rateLimited int
	connFails   int
	lastErr     error
}

// do executes one proxy operation with bounded retries and returns the raw
// response body. Rate-limit signals (HTTP 429 or the proxy's
// local_rate_limited marker) are retried with backoff up to MaxAttempts;
// transport failures up to ConnAttempts; well-formed upstream errors are
// surfaced immediately.
func (c *Client) do(ctx context.Context, ep Endpoint, headers map[string]string, query url.Values, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	urlStr := c.cfg.BaseURL + ep.Path
	if len(query) > 0 {
		urlStr += "?" + query.Encode()
	}

	at := requestAttempt{endpoint: ep.Name}
	for {
		if at.attempts > 0 {
			delay := c.cfg.Backoff.Duration(at.attempts - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, status, err := c.send(ctx, ep.Method, urlStr, headers, payload)
		at.attempts++
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			at.connFails++
			at.lastErr = err
			if at.connFails >= c.cfg.ConnAttempts {
				c.recordAPICall(ep.Name, false, false)
				return nil, &ConnectionError{Endpoint: ep.Name, Attempts: at.connFails, Err: err}
			}
			slog.Warn("transport failure, retrying", slog.String("endpoint", ep.Name), slog.Int("attempt", at.attempts), slog.Any("error", err))
			continue
		}

		switch {
		case status == http.StatusTooManyRequests || (status == http.StatusOK && isLocalRateLimit(body)):
			at.rateLimited++
			at.lastErr = fmt.Errorf("rate limited (HTTP %d)", status)
			c.recordAPICall(ep.Name, false, true)
			if at.rateLimited >= c.cfg.MaxAttempts {
				return nil, &RateLimitError{Endpoint: ep.Name, Attempts: at.rateLimited}
			}
			slog.Warn("rate limited, backing off", slog.String("endpoint", ep.Name), slog.Int("attempt", at.attempts))
			continue

		case status != http.StatusOK:
			c.recordAPICall(ep.Name, false, false)
			msg := upstreamMessage(body)
			if msg == "" {
				msg = truncateBytes(body, 200)
			}
			return nil, &UpstreamError{Endpoint: ep.Name, Status: status, Message: msg}
		}

		// HTTP 200: the proxy reports some failures in the body.
		if msg := upstreamMessage(body); msg != "" {
			c.recordAPICall(ep.Name, false, false)
			return nil, &UpstreamError{Endpoint: ep.Name, Status: status, Message: msg}
		}

		c.recordAPICall(ep.Name, true, false)
		return body, nil
	}
}

// send performs one HTTP round trip and reads the full body.
func (c *Client) send(ctx context.Context, method, urlStr string, headers map[string]string, payload []byte) ([]byte, int, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, urlStr, rd)
	if err != nil {
		return nil, 0, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

// queryParams builds the query string the proxy expects: a single
// JSON-encoded "variables" parameter.
func queryParams(variables map[string]any) url.Values {
	v, _ := json.Marshal(variables)
	q := url.Values{}
	q.Set("variables", string(v))
	return q
}

func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
