package evolution

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
)

const (
	// InstancePlaceholder is substituted with the configured instance name
	// in every path template.
	InstancePlaceholder = "{instanceId}"

	authHeader      = "apikey"
	requestIDHeader = "X-Request-ID"
	userAgent       = "WhatsApp-MCP-Gateway/1.0"

	DefaultTimeout = 30 * time.Second

	// maxErrorBody bounds how much of a remote error body is kept.
	maxErrorBody = 4 << 10
)

// Config holds the connection settings of one Evolution API instance.
type Config struct {
	BaseURL  string
	APIKey   string
	Instance string
	Timeout  time.Duration
	// RateLimit paces outbound calls in requests per second; zero disables it.
	RateLimit float64
}

// Client issues single, authenticated calls against the Evolution API.
// It never retries and never caches.
type Client struct {
	baseURL    string
	apiKey     string
	instance   string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The per-call timeout is
// still applied through the request context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient validates cfg and returns a ready client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("evolution: base url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("evolution: invalid base url: %w", err)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("evolution: api key is required")
	}
	if strings.TrimSpace(cfg.Instance) == "" {
		return nil, errors.New("evolution: instance name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		burst = max(1, int(cfg.RateLimit))
	}

	c := &Client{
		baseURL:    base,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		instance:   strings.TrimSpace(cfg.Instance),
		timeout:    timeout,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(limit, burst),
	}
	for _, opt := range opts {
		opt(c)
	}

	log.AddSecret(c.apiKey)
	return c, nil
}

// Instance returns the configured instance name.
func (c *Client) Instance() string {
	return c.instance
}

// Call performs exactly one request. payload, when non-nil, is sent as JSON;
// out, when non-nil, receives the decoded JSON body of a 2xx response.
func (c *Client) Call(ctx context.Context, method, pathTemplate string, payload, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	path := strings.ReplaceAll(pathTemplate, InstancePlaceholder, url.PathEscape(c.instance))
	requestID := uuid.NewString()
	entry := log.Op("evolution.call").WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return c.transportError(method, path, err)
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return &Error{Kind: ErrRequest, Method: method, Path: path, Detail: "encode payload: " + err.Error(), Err: err}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return c.transportError(method, path, err)
	}
	req.Header.Set(authHeader, c.apiKey)
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		entry.WithField("duration", time.Since(started).String()).WithError(err).Warn("request failed")
		return c.transportError(method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportError(method, path, err)
	}
	entry = entry.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(started).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := log.Redact(strings.TrimSpace(string(raw)), c.apiKey)
		apiErr := &Error{
			Kind:   KindForStatus(resp.StatusCode),
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Detail: truncate(detail, maxErrorBody),
		}
		entry.Warn(apiErr.Error())
		return apiErr
	}
	entry.Debug("request completed")

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{
			Kind:   ErrTransport,
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Detail: log.Redact("malformed response body: "+err.Error(), c.apiKey),
			Err:    err,
		}
	}
	return nil
}

func (c *Client) transportError(method, path string, err error) error {
	kind := ErrTransport
	if isTimeout(err) {
		kind = ErrTimeout
	}
	return &Error{
		Kind:   kind,
		Method: method,
		Path:   path,
		Detail: log.Redact(err.Error(), c.apiKey),
		Err:    err,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
