// Package catalog provides the client for the Art Institute of Chicago
// artworks API. It reads one page of the catalog per call and never retries;
// retry policy belongs to the caller.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/artic-selector/pkg/cache"
	"github.com/Sternrassler/artic-selector/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Defaults matching the public API.
const (
	DefaultBaseURL  = "https://api.artic.edu/api/v1"
	DefaultPageSize = 12
	MaxPageSize     = 100
	artworksPath    = "/artworks"
)

// Prometheus metrics for catalog requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artic_requests_total",
		Help: "Total catalog page requests by outcome status",
	}, []string{"status"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "artic_request_duration_seconds",
		Help:    "Catalog page request duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artic_errors_total",
		Help: "Total catalog fetch errors by class",
	}, []string{"class"})
)

// Config holds the client configuration.
type Config struct {
	// BaseURL of the API, without trailing slash.
	BaseURL string

	// PageSize is the number of items requested per page.
	PageSize int

	// Fields is the field-selection list sent with every request.
	Fields []string

	// UserAgent identifies this application to the API.
	UserAgent string

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// Redis enables response revalidation and rate limit tracking. Optional.
	Redis *redis.Client

	// CacheRetention is how long stored responses are kept for revalidation.
	CacheRetention time.Duration
}

// DefaultConfig returns the configuration for the public API.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		PageSize:       DefaultPageSize,
		Fields:         DefaultFields,
		UserAgent:      userAgent,
		Timeout:        30 * time.Second,
		CacheRetention: cache.DefaultRetention,
	}
}

// Client fetches catalog pages.
type Client struct {
	httpClient  *http.Client
	store       *cache.Store
	rateLimiter *ratelimit.Tracker
	config      Config
	logger      zerolog.Logger
}

// New creates a new catalog client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.PageSize < 1 || cfg.PageSize > MaxPageSize {
		return nil, fmt.Errorf("page size must be between 1 and %d (got %d)", MaxPageSize, cfg.PageSize)
	}

	if len(cfg.Fields) == 0 {
		cfg.Fields = DefaultFields
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	logger := log.With().Str("component", "catalog-client").Logger()

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logger,
	}

	if cfg.Redis != nil {
		c.store = cache.NewStore(cfg.Redis, cfg.CacheRetention)
		c.rateLimiter = ratelimit.NewTracker(cfg.Redis, logger)
	}

	return c, nil
}

// PageSize returns the configured page size.
func (c *Client) PageSize() int {
	return c.config.PageSize
}

// FetchPage reads one page of artworks. pageNumber must be >= 1; pages
// beyond the end of the catalog are requested anyway and come back empty
// or as whatever the server decides.
func (c *Client) FetchPage(ctx context.Context, pageNumber int) (PageResult, error) {
	if pageNumber < 1 {
		return PageResult{}, fmt.Errorf("%w (got %d)", ErrInvalidPage, pageNumber)
	}

	startTime := time.Now()
	defer func() {
		requestDuration.Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(pageNumber), nil)
	if err != nil {
		return PageResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req, pageNumber)
	if err != nil {
		return PageResult{}, c.fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		class := classifyStatus(resp.StatusCode)
		if class == "" {
			class = ErrorClassServer
		}
		return PageResult{}, c.fail(&FetchError{
			Page:       pageNumber,
			StatusCode: resp.StatusCode,
			Class:      class,
			Message:    resp.Status,
		})
	}

	result, err := decodePage(resp.Body, pageNumber)
	if err != nil {
		return PageResult{}, c.fail(&FetchError{
			Page:       pageNumber,
			StatusCode: resp.StatusCode,
			Class:      ErrorClassMalformed,
			Message:    "unusable response body",
			Err:        err,
		})
	}

	requestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	c.logger.Debug().
		Int("page", pageNumber).
		Int("items", result.Page.Len()).
		Int("total", result.Total).
		Dur("duration", time.Since(startTime)).
		Msg("Page fetched")

	return result, nil
}

// do sends the request once, gated by the rate limiter and carrying
// validators from a stored response when one exists.
func (c *Client) do(req *http.Request, pageNumber int) (*http.Response, error) {
	ctx := req.Context()

	if c.rateLimiter != nil {
		allowed, err := c.rateLimiter.Allow(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &FetchError{Page: pageNumber, Class: ErrorClassNetwork, Message: "cancelled while throttled", Err: err}
			}
			c.logger.Warn().Err(err).Msg("Rate limit check failed, sending request anyway")
		} else if !allowed {
			return nil, &FetchError{Page: pageNumber, Class: ErrorClassRateLimit, Message: "rate limit window exhausted", Err: ErrRateLimited}
		}
	}

	key := cache.KeyForURL(req.URL)
	var stored *cache.Entry
	if c.store != nil {
		entry, err := c.store.Lookup(ctx, key)
		switch {
		case err == nil:
			stored = entry
		case !errors.Is(err, cache.ErrNotFound):
			c.logger.Warn().Err(err).Int("page", pageNumber).Msg("Response store lookup failed")
		}
	}
	if stored.CanRevalidate() {
		cache.ApplyValidators(req, stored)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("AIC-User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Int("page", pageNumber).
		Str("url", req.URL.String()).
		Bool("conditional", stored != nil).
		Msg("Executing catalog request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Page: pageNumber, Class: ErrorClassNetwork, Message: "request failed", Err: err}
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.UpdateFromHeaders(ctx, resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update rate limit from headers")
		}
	}

	if resp.StatusCode == http.StatusNotModified {
		resp.Body.Close()
		if stored == nil {
			return nil, &FetchError{Page: pageNumber, StatusCode: resp.StatusCode, Class: ErrorClassServer, Message: "304 without a stored response"}
		}
		cache.Revalidated.Inc()
		if err := c.store.Touch(ctx, key); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to extend stored response")
		}
		c.logger.Debug().Int("page", pageNumber).Msg("304 Not Modified - using stored response")
		return cache.ToResponse(stored, req), nil
	}

	if resp.StatusCode == http.StatusOK && c.store != nil {
		entry, err := cache.FromResponse(resp)
		if err != nil {
			resp.Body.Close()
			return nil, &FetchError{Page: pageNumber, StatusCode: resp.StatusCode, Class: ErrorClassNetwork, Message: "read body", Err: err}
		}
		if err := c.store.Save(ctx, key, entry); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to store response")
		}
	}

	return resp, nil
}

// fail records and logs a fetch error before returning it.
func (c *Client) fail(err error) error {
	var fe *FetchError
	if errors.As(err, &fe) {
		errorsTotal.WithLabelValues(string(fe.Class)).Inc()
		status := strconv.Itoa(fe.StatusCode)
		if fe.StatusCode == 0 {
			status = string(fe.Class)
		}
		requestsTotal.WithLabelValues(status).Inc()

		c.logger.Warn().
			Err(err).
			Int("page", fe.Page).
			Int("status", fe.StatusCode).
			Str("error_class", string(fe.Class)).
			Msg("Catalog request failed")
	}
	return err
}

func (c *Client) pageURL(pageNumber int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(pageNumber))
	q.Set("limit", strconv.Itoa(c.config.PageSize))
	q.Set("fields", strings.Join(c.config.Fields, ","))
	return c.config.BaseURL + artworksPath + "?" + q.Encode()
}

// decodePage reads a list response. A body without both the data and
// pagination keys is a MalformedResponseError.
func decodePage(body io.Reader, pageNumber int) (PageResult, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return PageResult{}, &MalformedResponseError{Reason: "read body", Err: err}
	}

	var envelope listResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return PageResult{}, &MalformedResponseError{Reason: "invalid json", Err: err}
	}

	if envelope.Data == nil {
		return PageResult{}, &MalformedResponseError{Reason: `missing "data" key`}
	}
	if envelope.Pagination == nil {
		return PageResult{}, &MalformedResponseError{Reason: `missing "pagination" key`}
	}
	if envelope.Pagination.Total < 0 {
		return PageResult{}, &MalformedResponseError{Reason: fmt.Sprintf("negative total %d", envelope.Pagination.Total)}
	}

	return PageResult{
		Page: Page{
			Number: pageNumber,
			Items:  *envelope.Data,
		},
		Total: envelope.Pagination.Total,
	}, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
