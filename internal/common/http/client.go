// internal/common/http/client.go
package http

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"brreg-lookup/internal/common/errors"
	"brreg-lookup/internal/common/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned for 404 and 410 responses. Callers know which
// identifier they asked for and turn it into a NOT_FOUND StandardError.
var ErrNotFound = stderrors.New("resource not found")

const maxBodySize = 8 << 20

// Config configures the client. Zero RateLimit disables rate limiting.
type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	RateLimit  float64
	RateBurst  int

	// Transport allows injecting a custom round tripper (tests).
	Transport http.RoundTripper
}

// Client is a rate-limited, retrying JSON client bound to one base URL.
// It owns its connections until Close.
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
	tracer     trace.Tracer
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 1
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		limiter: rate.NewLimiter(limit, cfg.RateBurst),
		tracer:  otel.Tracer("brreg-lookup/http"),
	}
}

// Get fetches path below the base URL and returns the response body.
// source names the logical collection and labels errors, spans and metrics.
func (c *Client) Get(ctx context.Context, source, path string, query url.Values) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.SourceRetries.WithLabelValues(source).Inc()
			backoff := time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, classify(ctx, source, ctx.Err())
			case <-time.After(backoff):
			}
		}

		// every attempt, retries included, spends a token
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, classify(ctx, source, err)
		}

		body, err := c.getOnce(ctx, source, path, query, attempt)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !errors.IsRetryable(err) || ctx.Err() != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) getOnce(ctx context.Context, source, path string, query url.Values, attempt int) ([]byte, error) {
	fullURL := c.buildURL(path, query)

	ctx, span := c.tracer.Start(ctx, "GET "+source, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", http.MethodGet),
		attribute.String("http.url", fullURL),
		attribute.String("brreg.source", source),
		attribute.Int("brreg.attempt", attempt),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, errors.NewTransportError(source, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.SourceRequestDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		stdErr := classify(ctx, source, err)
		metrics.SourceRequests.WithLabelValues(source, strings.ToLower(string(stdErr.Code))).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, string(stdErr.Code))
		return nil, stdErr
	}
	defer resp.Body.Close()

	metrics.SourceRequests.WithLabelValues(source, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, ErrNotFound
	case resp.StatusCode >= 300:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		span.SetStatus(codes.Error, resp.Status)
		return nil, errors.NewStatusError(source, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		span.RecordError(err)
		return nil, classify(ctx, source, fmt.Errorf("read body: %w", err))
	}
	return body, nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	fullURL := strings.TrimSuffix(c.config.BaseURL, "/")
	if path != "" {
		fullURL += "/" + strings.TrimPrefix(path, "/")
	}
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	return fullURL
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// classify turns a transport failure into SOURCE_TIMEOUT or TRANSPORT_ERROR.
func classify(ctx context.Context, source string, err error) *errors.StandardError {
	if ctx.Err() == context.DeadlineExceeded || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewSourceTimeoutError(source, err)
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.NewSourceTimeoutError(source, err)
	}
	return errors.NewTransportError(source, err)
}
