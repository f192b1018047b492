// Package apiclient queries the logo-recognition HTTP API.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/masmgr/logospots/config"
	"github.com/masmgr/logospots/internal/response"
)

var (
	// ErrRequest marks a transport failure.
	ErrRequest = errors.New("recognition request failed")
	// ErrStatus marks an HTTP error status.
	ErrStatus = errors.New("recognition API returned an error status")
	// ErrDecode marks a body that is not valid JSON.
	ErrDecode = errors.New("recognition API returned undecodable body")
)

// StatusError carries the HTTP status of a failed call.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: http %d", ErrStatus, e.Code)
	}
	return fmt.Sprintf("%s: http %d: %s", ErrStatus, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Detector returns the recognition result for one image.
type Detector interface {
	Detect(ctx context.Context, imageURL string) (*response.Response, error)
}

// Client posts image URLs to the recognition endpoint.
type Client struct {
	cfg     config.APIConfig
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	retry   RetryPolicy
	logger  *slog.Logger
}

var _ Detector = (*Client)(nil)

// New creates a client. A nil httpClient uses NewHTTPClient with the configured
// timeout, and a nil logger uses slog.Default.
func New(cfg config.APIConfig, apiKey string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(secondsOr(cfg.TimeoutSeconds, 30))
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TokenField == "" {
		cfg.TokenField = "Token"
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		cfg:     cfg,
		apiKey:  apiKey,
		client:  httpClient,
		limiter: limiter,
		retry:   PolicyFromConfig(cfg.Retry),
		logger:  logger,
	}
}

// WithRetry replaces the retry policy.
func (c *Client) WithRetry(p RetryPolicy) *Client {
	c.retry = p
	return c
}

// Detect submits imageURL and returns the validated reply.
func (c *Client) Detect(ctx context.Context, imageURL string) (*response.Response, error) {
	if c.cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: no endpoint configured", ErrRequest)
	}

	var result *response.Response
	err := c.retry.do(ctx, func(attempt int) error {
		if attempt > 0 {
			c.logger.Warn("retrying recognition request", "url", imageURL, "attempt", attempt+1)
		}
		r, err := c.post(ctx, imageURL)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, imageURL string) (*response.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	form := url.Values{}
	form.Set(c.cfg.TokenField, c.apiKey)
	form.Set("image_url", imageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			c.logger.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var r response.Response
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if media := &r.Status[0].Response.Input.Media; media.URL == "" {
		media.URL = imageURL
	}
	return &r, nil
}
