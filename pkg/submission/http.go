package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultMaxReplyBytes caps how much of a reply body is read.
const DefaultMaxReplyBytes int64 = 1 << 20

// ErrReplyTooLarge is returned when a reply exceeds the configured cap.
var ErrReplyTooLarge = errors.New("submission: reply too large")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("submission: server responded %d %s", e.Code, http.StatusText(e.Code))
}

// HTTPOption configures an HTTPChannel.
type HTTPOption func(*HTTPChannel)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *HTTPChannel) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout bounds every request in addition to the caller's context.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(c *HTTPChannel) {
		c.timeout = timeout
	}
}

// WithHeader adds a static request header.
func WithHeader(name, value string) HTTPOption {
	return func(c *HTTPChannel) {
		c.headers.Set(name, value)
	}
}

// WithHandle attaches the handle returned with every result.
func WithHandle(handle Handle) HTTPOption {
	return func(c *HTTPChannel) {
		c.handle = handle
	}
}

// WithMaxReplyBytes overrides DefaultMaxReplyBytes. Non-positive values are
// ignored.
func WithMaxReplyBytes(limit int64) HTTPOption {
	return func(c *HTTPChannel) {
		if limit > 0 {
			c.maxReply = limit
		}
	}
}

// WithLogger sets the logger used for request outcomes.
func WithLogger(logger *slog.Logger) HTTPOption {
	return func(c *HTTPChannel) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// HTTPChannel posts submissions as JSON to an endpoint.
type HTTPChannel struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	headers  http.Header
	handle   Handle
	logger   *slog.Logger
	maxReply int64
}

// NewHTTPChannel creates a channel posting to endpoint.
func NewHTTPChannel(endpoint string, opts ...HTTPOption) *HTTPChannel {
	c := &HTTPChannel{
		endpoint: endpoint,
		client:   http.DefaultClient,
		timeout:  30 * time.Second,
		headers:  make(http.Header),
		logger:   slog.New(slog.DiscardHandler),
		maxReply: DefaultMaxReplyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Submit posts sub and returns the response body as the reply. The request
// id doubles as the Idempotency-Key header.
func (c *HTTPChannel) Submit(ctx context.Context, sub Submission) (Result, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return Result{}, fmt.Errorf("submission: marshal: %w", err)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("submission: build request: %w", err)
	}
	for name, values := range c.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", sub.RequestID.String())

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("submission request failed", "type", sub.Type, "request_id", sub.RequestID, "error", err)
		return Result{}, fmt.Errorf("submission: post %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, c.maxReply+1))
	if err != nil {
		return Result{}, fmt.Errorf("submission: read reply: %w", err)
	}
	if int64(len(reply)) > c.maxReply {
		c.logger.Warn("submission reply discarded", "type", sub.Type, "request_id", sub.RequestID, "limit", c.maxReply)
		return Result{}, fmt.Errorf("%w: more than %d bytes", ErrReplyTooLarge, c.maxReply)
	}
	c.logger.Debug("submission request completed",
		"type", sub.Type,
		"request_id", sub.RequestID,
		"status", resp.StatusCode,
		"duration", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{Reply: reply, Err: &StatusError{Code: resp.StatusCode, Body: reply}}, nil
	}
	return Result{Reply: reply, Handle: c.handle}, nil
}
