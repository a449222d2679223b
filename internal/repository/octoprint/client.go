package octoprint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"autoprint/internal/logger"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	maxBodyBytes   = 1 << 20
	defaultTimeout = 5 * time.Second
	retryWaitMin   = 100 * time.Millisecond
	retryWaitMax   = time.Second
)

// Options configures the controller HTTP client.
type Options struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RetryMax  int
	UserAgent string
	Logger    *logger.Logger
}

// Client speaks JSON to the device controller. Reads are retried with
// backoff; writes are sent at most once since commands are not idempotent.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string

	reads  *retryablehttp.Client
	writes *retryablehttp.Client
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(string(e.Body))
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("controller %s %s: http %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// New builds a client for the controller at opts.BaseURL.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		apiKey:    opts.APIKey,
		userAgent: opts.UserAgent,
		reads:     newRetryClient(timeout, opts.RetryMax, opts.Logger),
		writes:    newRetryClient(timeout, 0, opts.Logger),
	}
}

func newRetryClient(timeout time.Duration, retryMax int, log *logger.Logger) *retryablehttp.Client {
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: 2 * time.Second}).DialContext,
		TLSHandshakeTimeout:   3 * time.Second,
		ResponseHeaderTimeout: timeout,
		IdleConnTimeout:       30 * time.Second,
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Timeout: timeout, Transport: transport}
	rc.RetryMax = retryMax
	rc.RetryWaitMin = retryWaitMin
	rc.RetryWaitMax = retryWaitMax
	// hand the final response back so the status code and body can be decoded
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if log != nil {
		rc.Logger = &retryLogger{log: log}
	} else {
		rc.Logger = nil
	}
	return rc
}

// GetJSON issues a GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, c.reads, http.MethodGet, path, nil, out)
}

// PostJSON issues a POST with body encoded as JSON and decodes the response into out.
// out may be nil; an empty 2xx body is accepted.
func (c *Client) PostJSON(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, c.writes, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, rc *retryablehttp.Client, method, path string, body any, out any) error {
	var raw []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		raw = b
	}

	var reqBody any
	if raw != nil {
		reqBody = raw
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := rc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respB, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: respB}
	}

	if out == nil || len(bytes.TrimSpace(respB)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respB, out); err != nil {
		return fmt.Errorf("controller %s %s: invalid json: %w", method, path, err)
	}
	return nil
}

// retryLogger implements retryablehttp.LeveledLogger on top of zap.
type retryLogger struct {
	log *logger.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	// per-request INFO lines at a 500ms poll cadence are noise
	l.log.Debugw(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warnw(msg, keysAndValues...)
}
