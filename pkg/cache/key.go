package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// KeyPrefix namespaces every key this package writes.
const KeyPrefix = "artic"

// Key identifies one stored page response.
type Key struct {
	// Endpoint is the API path (e.g., "/artworks")
	Endpoint string

	// Query holds the request query parameters (page, limit, fields)
	Query url.Values
}

// String generates a deterministic key string.
// Format: artic:endpoint:query1=val1:query2=val2
//
// Example:
//
//	artic:artworks:fields=id,title:limit=12:page=3
func (k Key) String() string {
	parts := []string{KeyPrefix}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, strings.Join(k.Query[name], ",")))
		}
	}

	return strings.Join(parts, ":")
}

// KeyForURL builds a Key from a request URL.
func KeyForURL(u *url.URL) Key {
	return Key{
		Endpoint: u.Path,
		Query:    u.Query(),
	}
}
