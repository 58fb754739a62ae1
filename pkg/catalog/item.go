package catalog

import (
	"strconv"
)

// DefaultFields is the field-selection list sent with every page request.
var DefaultFields = []string{
	"id",
	"title",
	"place_of_origin",
	"artist_display",
	"inscriptions",
	"date_start",
	"date_end",
}

// Item is one artwork record. Items are replaced wholesale on every fetch
// and never mutated locally.
type Item struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	PlaceOfOrigin string  `json:"place_of_origin"`
	ArtistDisplay string  `json:"artist_display"`
	Inscriptions  *string `json:"inscriptions"`
	DateStart     *int    `json:"date_start"`
	DateEnd       *int    `json:"date_end"`
}

// InscriptionsText returns the inscription or "N/A" when there is none.
func (i Item) InscriptionsText() string {
	if i.Inscriptions == nil {
		return "N/A"
	}
	return *i.Inscriptions
}

// DateStartText returns the start date, or "" when unknown.
func (i Item) DateStartText() string {
	return yearText(i.DateStart)
}

// DateEndText returns the end date, or "" when unknown.
func (i Item) DateEndText() string {
	return yearText(i.DateEnd)
}

func yearText(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}

// Page is the ordered batch of items returned for one page number.
type Page struct {
	Number int
	Items  []Item
}

// IDs returns the identifiers of the page's items in order.
func (p Page) IDs() []int {
	ids := make([]int, len(p.Items))
	for i, item := range p.Items {
		ids[i] = item.ID
	}
	return ids
}

// Len returns the number of items on the page.
func (p Page) Len() int {
	return len(p.Items)
}

// PageResult is the outcome of a successful FetchPage call.
type PageResult struct {
	Page  Page
	Total int
}

// pagination mirrors the pagination object of the API response.
type pagination struct {
	Total       int `json:"total"`
	Limit       int `json:"limit"`
	Offset      int `json:"offset"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

// listResponse is the envelope of a paged list response. Pointers let the
// decoder distinguish a missing key from an empty value.
type listResponse struct {
	Pagination *pagination `json:"pagination"`
	Data       *[]Item     `json:"data"`
}
