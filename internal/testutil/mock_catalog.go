// Package testutil provides testing utilities for the catalog client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockArtwork is one record served by MockCatalog.
type MockArtwork struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	PlaceOfOrigin string  `json:"place_of_origin"`
	ArtistDisplay string  `json:"artist_display"`
	Inscriptions  *string `json:"inscriptions"`
	DateStart     *int    `json:"date_start"`
	DateEnd       *int    `json:"date_end"`
}

// MockResponse overrides the answer for a page.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockCatalog is a configurable in-process artworks API.
type MockCatalog struct {
	server    *httptest.Server
	mu        sync.RWMutex
	artworks  []MockArtwork
	overrides map[int]MockResponse
	etag      string

	// Tracking
	RequestCount      int
	ConditionalCount  int
	LastRequestHeader http.Header
	LastQuery         map[string]string
}

// NewMockCatalog creates a mock server holding total generated artworks
// with ids 1..total.
func NewMockCatalog(total int) *MockCatalog {
	mock := &MockCatalog{
		artworks:  GenerateArtworks(total),
		overrides: make(map[int]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// GenerateArtworks builds n artworks with ids 1..n. Every third artwork has
// no inscription and every fourth has no dates.
func GenerateArtworks(n int) []MockArtwork {
	out := make([]MockArtwork, 0, n)
	for i := 1; i <= n; i++ {
		a := MockArtwork{
			ID:            i,
			Title:         fmt.Sprintf("Artwork %d", i),
			PlaceOfOrigin: "Chicago",
			ArtistDisplay: fmt.Sprintf("Artist %d", i),
		}
		if i%3 != 0 {
			text := fmt.Sprintf("Signed %d", i)
			a.Inscriptions = &text
		}
		if i%4 != 0 {
			start, end := 1800+i, 1810+i
			a.DateStart, a.DateEnd = &start, &end
		}
		out = append(out, a)
	}
	return out
}

// URL returns the mock server base URL.
func (m *MockCatalog) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockCatalog) Close() {
	m.server.Close()
}

// SetPageResponse overrides the answer for one page number.
func (m *MockCatalog) SetPageResponse(page int, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[page] = resp
}

// EnableETag makes the server answer with an ETag and honour If-None-Match.
func (m *MockCatalog) EnableETag(etag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.etag = etag
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockCatalog) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockCatalog) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// GetLastQuery returns the query of the last request.
func (m *MockCatalog) GetLastQuery() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastQuery
}

// GetLastRequestHeader returns the headers of the last request.
func (m *MockCatalog) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader
}

func (m *MockCatalog) handle(w http.ResponseWriter, r *http.Request) {
	query := map[string]string{}
	for k := range r.URL.Query() {
		query[k] = r.URL.Query().Get(k)
	}

	m.mu.Lock()
	m.RequestCount++
	m.LastRequestHeader = r.Header.Clone()
	m.LastQuery = query
	if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
		m.ConditionalCount++
	}
	etag := m.etag
	m.mu.Unlock()

	if r.URL.Path != "/artworks" {
		http.NotFound(w, r)
		return
	}

	page, err := strconv.Atoi(query["page"])
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(query["limit"])
	if err != nil || limit < 1 {
		limit = 12
	}

	m.mu.RLock()
	override, ok := m.overrides[page]
	m.mu.RUnlock()
	if ok {
		if override.Delay > 0 {
			time.Sleep(override.Delay)
		}
		for key, value := range override.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(override.StatusCode)
		if override.Body != "" {
			w.Write([]byte(override.Body))
		}
		return
	}

	if etag != "" {
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(m.pageBody(page, limit))
}

func (m *MockCatalog) pageBody(page, limit int) map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := len(m.artworks)
	offset := (page - 1) * limit
	data := []MockArtwork{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		data = m.artworks[offset:end]
	}

	return map[string]any{
		"pagination": map[string]any{
			"total":        total,
			"limit":        limit,
			"offset":       offset,
			"total_pages":  (total + limit - 1) / limit,
			"current_page": page,
		},
		"data": data,
	}
}

// NewMalformedResponse returns a 200 answer without the pagination key.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"data": []}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewServerErrorResponse returns a 500 answer.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewRateLimitResponse returns a 429 answer with an exhausted window.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Too many requests"}`,
		Headers: map[string]string{
			"X-RateLimit-Limit":     "60",
			"X-RateLimit-Remaining": "0",
			"X-RateLimit-Reset":     "60",
		},
	}
}
