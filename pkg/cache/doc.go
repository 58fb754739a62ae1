// Package cache keeps the last response body of each catalog page request
// in Redis together with its validators (ETag, Last-Modified).
//
// The catalog client never answers from this store without asking the
// server first. Each page request still goes out; when a stored entry
// exists, the request carries If-None-Match or If-Modified-Since and a 304
// answer is served from the stored body.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	store := cache.NewStore(redisClient, cache.DefaultRetention)
//
//	key := cache.Key{
//		Endpoint: "/artworks",
//		Query:    url.Values{"page": []string{"2"}, "limit": []string{"12"}},
//	}
//
//	entry, err := store.Lookup(ctx, key)
//	if err == cache.ErrNotFound {
//		// plain request
//	}
//
// # Revalidation
//
//	if entry.CanRevalidate() {
//		cache.ApplyValidators(req, entry)
//	}
//	// on 304: resp = cache.ToResponse(entry, req)
//
// # Metrics
//
//   - artic_cache_revalidated_total - 304 answers served from the store
//   - artic_cache_misses_total - lookups without a stored entry
//   - artic_cache_stored_bytes - bytes written by the last Save
//   - artic_cache_errors_total{operation} - Redis errors
package cache
