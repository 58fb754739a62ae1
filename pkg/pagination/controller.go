package pagination

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/artic-selector/pkg/catalog"
	"github.com/Sternrassler/artic-selector/pkg/pagecache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds controller configuration.
type Config struct {
	// PageSize must match the page size the fetcher requests.
	PageSize int
	// Timeout per page fetch (0 = none)
	Timeout time.Duration
}

// DefaultConfig returns the configuration matching the public API defaults.
func DefaultConfig() Config {
	return Config{
		PageSize: catalog.DefaultPageSize,
		Timeout:  30 * time.Second,
	}
}

// PageFetcher is implemented by catalog.Client.
type PageFetcher interface {
	// FetchPage fetches a single page and the total record count
	FetchPage(ctx context.Context, pageNumber int) (catalog.PageResult, error)
}

// Request is an issued page change waiting for its fetch.
type Request struct {
	Ticket pagecache.Ticket
}

// Completion is the outcome of fetching a Request.
type Completion struct {
	Ticket pagecache.Ticket
	Result catalog.PageResult
	Err    error
}

// Window is the "Showing From to To of Total entries" range for the
// displayed page. From and To are 0 when the page is empty.
type Window struct {
	From  int
	To    int
	Total int
}

// String renders the window the way the paginator shows it.
func (w Window) String() string {
	return fmt.Sprintf("Showing %d to %d of %d entries", w.From, w.To, w.Total)
}

// Controller tracks the current page and feeds fetched pages into a Cache.
type Controller struct {
	fetcher PageFetcher
	cache   *pagecache.Cache
	config  Config
	current int
	logger  zerolog.Logger
}

// NewController creates a controller positioned on page 1 with nothing loaded.
func NewController(fetcher PageFetcher, cache *pagecache.Cache, config Config) *Controller {
	if config.PageSize <= 0 {
		config.PageSize = catalog.DefaultPageSize
	}
	if cache == nil {
		cache = pagecache.New()
	}

	return &Controller{
		fetcher: fetcher,
		cache:   cache,
		config:  config,
		current: 1,
		logger:  log.With().Str("component", "pagination").Logger(),
	}
}

// GoToPage makes n the current page and starts a load for it. n beyond the
// last known page is still requested; the server decides what it holds.
func (c *Controller) GoToPage(n int) (Request, error) {
	if n < 1 {
		return Request{}, fmt.Errorf("%w (got %d)", catalog.ErrInvalidPage, n)
	}

	c.current = n
	ticket := c.cache.Begin(n)

	c.logger.Debug().
		Int("page", n).
		Uint64("seq", ticket.Seq).
		Msg("Page requested")

	return Request{Ticket: ticket}, nil
}

// Next requests the page after the current one. After a failed load it
// steps from the page still on display instead of the one that failed.
func (c *Controller) Next() (Request, error) {
	return c.GoToPage(c.anchor() + 1)
}

// Prev requests the page before the current one, with the same rule as
// Next. On page 1 it fails with catalog.ErrInvalidPage.
func (c *Controller) Prev() (Request, error) {
	return c.GoToPage(c.anchor() - 1)
}

// anchor is the page Next and Prev step from.
func (c *Controller) anchor() int {
	if c.cache.Err() != nil && !c.cache.IsLoading() {
		return c.DisplayedPage()
	}
	return c.current
}

// Fetch performs the remote read for req. It touches no controller state
// and may run on any goroutine.
func (c *Controller) Fetch(ctx context.Context, req Request) Completion {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	result, err := c.fetcher.FetchPage(ctx, req.Ticket.Page)
	return Completion{Ticket: req.Ticket, Result: result, Err: err}
}

// Complete applies a fetch outcome to the cache. It returns false when the
// completion belongs to a superseded request and was discarded.
func (c *Controller) Complete(done Completion) bool {
	if done.Err != nil {
		if !c.cache.Fail(done.Ticket, done.Err) {
			return false
		}
		evt := c.logger.Error().
			Err(done.Err).
			Int("page", done.Ticket.Page)
		var fe *catalog.FetchError
		if errors.As(done.Err, &fe) {
			evt = evt.Int("status", fe.StatusCode).Str("error_class", string(fe.Class))
		}
		evt.Msg("Page load failed")
		return true
	}

	if !c.cache.Load(done.Ticket, done.Result) {
		return false
	}

	c.logger.Info().
		Int("page", done.Ticket.Page).
		Int("items", done.Result.Page.Len()).
		Int("total", done.Result.Total).
		Msg("Page loaded")
	return true
}

// Load requests page n and waits for it. It returns the fetch error, if any.
func (c *Controller) Load(ctx context.Context, n int) error {
	req, err := c.GoToPage(n)
	if err != nil {
		return err
	}
	done := c.Fetch(ctx, req)
	c.Complete(done)
	return done.Err
}

// CurrentPage returns the most recently requested page number.
func (c *Controller) CurrentPage() int {
	return c.current
}

// DisplayedPage returns the number of the page on display, or the current
// page before anything has loaded.
func (c *Controller) DisplayedPage() int {
	if n := c.cache.Current().Number; n > 0 {
		return n
	}
	return c.current
}

// PageSize returns the configured page size.
func (c *Controller) PageSize() int {
	return c.config.PageSize
}

// CurrentOffset returns (CurrentPage()-1) * PageSize().
func (c *Controller) CurrentOffset() int {
	return (c.current - 1) * c.config.PageSize
}

// Window returns the display range for the displayed page, which lags
// CurrentPage while a request is in flight.
func (c *Controller) Window() Window {
	total := c.cache.Total()
	page := c.cache.Current()
	if page.Len() == 0 {
		return Window{Total: total}
	}

	offset := (page.Number - 1) * c.config.PageSize
	return Window{
		From:  offset + 1,
		To:    min(offset+c.config.PageSize, total),
		Total: total,
	}
}

// TotalPages returns the page count implied by the last reported total.
func (c *Controller) TotalPages() int {
	return (c.cache.Total() + c.config.PageSize - 1) / c.config.PageSize
}

// Page returns the displayed page.
func (c *Controller) Page() catalog.Page {
	return c.cache.Current()
}

// Total returns the last reported total record count.
func (c *Controller) Total() int {
	return c.cache.Total()
}

// IsLoading reports whether the latest page request is in flight.
func (c *Controller) IsLoading() bool {
	return c.cache.IsLoading()
}

// Err returns the failure of the latest page request, or nil.
func (c *Controller) Err() error {
	return c.cache.Err()
}
