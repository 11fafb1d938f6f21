package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"socialpulse/internal/observability"
)

const maxErrorBody = 4 << 10

var errEmptyBody = errors.New("decode response: empty body")

// HTTPError is returned for a response outside the 2xx range.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// FetchWithRetry sends method path to the remote API and decodes the JSON
// response into out (which may be nil). A transport error, a non-2xx status or
// an undecodable body counts as a failed attempt; the request is retried up to
// retries more times without delay. The last failure is returned.
func (c *Client) FetchWithRetry(ctx context.Context, method, path string, body, out any, retries int) error {
	return c.fetchWithRetry(ctx, "fetch", method, path, body, out, retries)
}

func (c *Client) fetchWithRetry(ctx context.Context, operation, method, path string, body, out any, retries int) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode %s request: %w", operation, err)
		}
	}
	if retries < 0 {
		retries = 0
	}

	logger := observability.NewAPILogger(operation)
	metrics := observability.NewAPIMetrics(operation)
	url := c.baseURL + path

	var lastErr error
	for attempt := 1; attempt <= retries+1; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		status, err := c.attempt(ctx, method, url, payload, out)
		logger.LogAttempt(ctx, method, url, attempt, status, time.Since(start))
		metrics.Attempt(err == nil)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		lastErr = err
		if remaining := retries + 1 - attempt; remaining > 0 {
			logger.LogRetry(ctx, err, remaining)
		}
	}
	return lastErr
}

// attempt performs one round trip and returns the response status (0 when no
// response was received).
func (c *Client) attempt(ctx context.Context, method, url string, payload []byte, out any) (int, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, &HTTPError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, errEmptyBody
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
