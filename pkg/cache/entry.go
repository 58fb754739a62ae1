package cache

import (
	"time"
)

// Entry is a stored page response and the validators needed to revalidate it.
type Entry struct {
	// Body is the response body
	Body []byte `json:"body"`

	// ETag for If-None-Match
	ETag string `json:"etag"`

	// LastModified for If-Modified-Since
	LastModified time.Time `json:"last_modified"`

	// StatusCode of the stored response
	StatusCode int `json:"status_code"`

	// ContentType of the stored response
	ContentType string `json:"content_type"`

	// StoredAt is when the entry was written
	StoredAt time.Time `json:"stored_at"`
}

// CanRevalidate reports whether the entry carries a validator the server
// can answer 304 to.
func (e *Entry) CanRevalidate() bool {
	if e == nil {
		return false
	}
	return e.ETag != "" || !e.LastModified.IsZero()
}

// Age returns how long ago the entry was stored.
func (e *Entry) Age() time.Duration {
	return time.Since(e.StoredAt)
}
