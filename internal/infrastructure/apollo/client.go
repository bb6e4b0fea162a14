package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.apollo.io"

	maxErrorBody = 4 << 10
)

type Config struct {
	BaseURL           string
	APIKey            string
	RequestsPerMinute int
	Timeout           time.Duration
	MaxRetries        int
	HTTPClient        *http.Client
}

// Client talks to the Apollo REST API. It implements domain.DirectoryClient.
type Client struct {
	baseURL    string
	apiKey     string
	httpc      *http.Client
	limiter    *rate.Limiter
	maxRetries int
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 50
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpc:      cfg.HTTPClient,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusError is an unclassified non-2xx answer; callers turn it into a domain error.
type statusError struct {
	Status  int
	Message string
}

func (e *statusError) Error() string { return fmt.Sprintf("http %d: %s", e.Status, e.Message) }

// do sends one JSON request and retries 5xx answers with a short linear backoff.
// 429 and credit errors are never retried, they are reported to the operator.
func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	return c.send(ctx, method, path, payload, out, c.maxRetries)
}

// doOnce is for billable calls. A 5xx may come after Apollo already charged the
// reveal, so the request is never replayed.
func (c *Client) doOnce(ctx context.Context, method, path string, payload any, out any) error {
	return c.send(ctx, method, path, payload, out, 0)
}

func (c *Client) send(ctx context.Context, method, path string, payload any, out any, maxRetries int) error {
	var body []byte
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = raw
	}

	var last error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if !sleepWithContext(ctx, time.Duration(250*attempt)*time.Millisecond) {
				return &domain.UpstreamError{Message: ctx.Err().Error()}
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return &domain.UpstreamError{Message: err.Error()}
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build %s request: %w", path, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("X-Api-Key", c.apiKey)

		res, err := c.httpc.Do(req)
		if err != nil {
			return &domain.UpstreamError{Message: err.Error()}
		}

		if res.StatusCode >= 200 && res.StatusCode < 300 {
			err := json.NewDecoder(res.Body).Decode(out)
			res.Body.Close()
			if err != nil {
				return &domain.UpstreamError{StatusCode: res.StatusCode, Message: "decode response: " + err.Error()}
			}
			return nil
		}

		last = &statusError{Status: res.StatusCode, Message: readErrorMessage(res.Body)}
		res.Body.Close()

		if res.StatusCode < 500 || attempt == maxRetries {
			break
		}
		c.logger.Warn("directory request failed, retrying",
			zap.String("path", path),
			zap.Int("status", res.StatusCode),
			zap.Int("attempt", attempt+1),
		)
	}
	return last
}

func readErrorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

// classify maps transport outcomes onto the domain error taxonomy. listMode turns
// 404 and 422 into InvalidListError.
func classify(err error, listMode bool, listID string, listType domain.ListType) error {
	var se *statusError
	if !errors.As(err, &se) {
		return err
	}

	switch {
	case se.Status == http.StatusTooManyRequests,
		se.Status == http.StatusPaymentRequired,
		strings.Contains(strings.ToLower(se.Message), "credit"):
		return &domain.RateLimitedError{StatusCode: se.Status, Message: se.Message}
	case listMode && (se.Status == http.StatusNotFound || se.Status == http.StatusUnprocessableEntity):
		return &domain.InvalidListError{ListID: listID, ListType: listType, Reason: se.Message}
	}
	return &domain.UpstreamError{StatusCode: se.Status, Message: se.Message}
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
