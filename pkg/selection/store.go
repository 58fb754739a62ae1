package selection

import (
	"slices"
	"strconv"
	"strings"

	"github.com/Sternrassler/artic-selector/pkg/catalog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var (
	selectionSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "artic_selection_size",
		Help: "Number of selected artworks across all pages",
	})

	selectionOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artic_selection_ops_total",
		Help: "Selection operations by kind",
	}, []string{"op"}) // "reconcile", "bulk_select"
)

// Store owns the global selection. Its operations never fail: out-of-range
// input is clamped or ignored.
//
// A Store is not safe for concurrent use.
type Store struct {
	ids    Set
	logger zerolog.Logger
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		ids:    make(Set),
		logger: log.With().Str("component", "selection").Logger(),
	}
}

// Reconcile replaces the selection of pageItems' rows with selected.
// Items in selected that are not on the page are ignored.
func (s *Store) Reconcile(pageItems []catalog.Item, selected []catalog.Item) {
	before := len(s.ids)
	Reconcile(s.ids, itemIDs(pageItems), itemIDs(selected))

	s.record("reconcile")
	s.logger.Debug().
		Int("page_items", len(pageItems)).
		Int("selected", len(selected)).
		Int("before", before).
		Int("after", len(s.ids)).
		Msg("Selection reconciled")
}

// BulkSelectFirstN adds the first min(n, len(pageItems)) items to the
// selection and returns how many were newly added. A non-positive n does
// nothing. Existing selections are never removed.
func (s *Store) BulkSelectFirstN(pageItems []catalog.Item, n int) int {
	if n <= 0 {
		return 0
	}

	added := 0
	for _, item := range pageItems[:min(n, len(pageItems))] {
		if _, ok := s.ids[item.ID]; !ok {
			s.ids[item.ID] = struct{}{}
			added++
		}
	}

	s.record("bulk_select")
	s.logger.Debug().
		Int("requested", n).
		Int("added", added).
		Int("total", len(s.ids)).
		Msg("Bulk selection applied")
	return added
}

// BulkSelectInput parses input with ParseCount and applies
// BulkSelectFirstN. Unusable input is a no-op.
func (s *Store) BulkSelectInput(pageItems []catalog.Item, input string) int {
	n, ok := ParseCount(input)
	if !ok {
		return 0
	}
	return s.BulkSelectFirstN(pageItems, n)
}

// VisibleSelection returns the items of pageItems that are selected, in page order.
func (s *Store) VisibleSelection(pageItems []catalog.Item) []catalog.Item {
	return lo.Filter(pageItems, func(item catalog.Item, _ int) bool {
		return s.Contains(item.ID)
	})
}

// Contains reports whether id is selected.
func (s *Store) Contains(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected ids across all pages.
func (s *Store) Count() int {
	return len(s.ids)
}

// IDs returns the selected ids in ascending order.
func (s *Store) IDs() []int {
	ids := lo.Keys(s.ids)
	slices.Sort(ids)
	return ids
}

func (s *Store) record(op string) {
	selectionOpsTotal.WithLabelValues(op).Inc()
	selectionSize.Set(float64(len(s.ids)))
}

// ParseCount reads a bulk-select count typed by the user. ok is false for
// empty, non-numeric, zero, or negative input.
func ParseCount(input string) (n int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func itemIDs(items []catalog.Item) []int {
	return lo.Map(items, func(item catalog.Item, _ int) int {
		return item.ID
	})
}
