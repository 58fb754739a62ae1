// Package pagecache holds the single catalog page currently on display.
//
// Every load is tagged with a Ticket when it starts. Only the most recently
// started load may change the cache; a completion carrying an older ticket
// is discarded, so an out-of-order network response can never replace a
// newer page.
//
// A Cache is not safe for concurrent use. It is meant to be driven from one
// event loop: Begin when a page is requested, Load or Fail when the fetch
// for that ticket returns.
package pagecache

import (
	"github.com/Sternrassler/artic-selector/pkg/catalog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var pageLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "artic_page_loads_total",
	Help: "Page load completions by outcome",
}, []string{"outcome"}) // "applied", "stale", "failed"

// Ticket identifies one load. Seq increases monotonically per Cache.
type Ticket struct {
	Seq  uint64
	Page int
}

// Cache holds the displayed page and the last reported total.
type Cache struct {
	seq     uint64
	page    catalog.Page
	total   int
	loading bool
	err     error
	logger  zerolog.Logger
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		logger: log.With().Str("component", "page-cache").Logger(),
	}
}

// Begin starts a load for page and supersedes any load in flight.
func (c *Cache) Begin(page int) Ticket {
	c.seq++
	c.loading = true
	return Ticket{Seq: c.seq, Page: page}
}

// Latest reports whether t belongs to the most recently started load.
func (c *Cache) Latest(t Ticket) bool {
	return t.Seq == c.seq
}

// Load replaces the page and total with result if t is still the latest
// ticket. It returns false when the result was discarded.
func (c *Cache) Load(t Ticket, result catalog.PageResult) bool {
	if !c.Latest(t) {
		pageLoadsTotal.WithLabelValues("stale").Inc()
		c.logger.Debug().
			Uint64("seq", t.Seq).
			Uint64("latest_seq", c.seq).
			Int("page", t.Page).
			Msg("Discarding stale page result")
		return false
	}

	c.page = result.Page
	c.total = result.Total
	c.loading = false
	c.err = nil
	pageLoadsTotal.WithLabelValues("applied").Inc()
	return true
}

// Fail records err for the latest load. The displayed page is left as the
// last one successfully loaded. It returns false for a stale ticket.
func (c *Cache) Fail(t Ticket, err error) bool {
	if !c.Latest(t) {
		pageLoadsTotal.WithLabelValues("stale").Inc()
		return false
	}

	c.loading = false
	c.err = err
	pageLoadsTotal.WithLabelValues("failed").Inc()
	return true
}

// Current returns the displayed page. It is empty before the first load.
func (c *Cache) Current() catalog.Page {
	return c.page
}

// Total returns the total record count from the last applied load.
func (c *Cache) Total() int {
	return c.total
}

// IsLoading reports whether the latest load has not completed.
func (c *Cache) IsLoading() bool {
	return c.loading
}

// Err returns the failure of the latest load, or nil.
func (c *Cache) Err() error {
	return c.err
}
