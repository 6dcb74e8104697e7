package service

import (
	"context"
	"time"
)

// cacheStore is the slice of the cache repository the content services use
// for read-through caching of public listings.
type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// publishedCacheKey names the cached public listing for a collection.
func publishedCacheKey(collection string) string {
	return "content:" + collection + ":published"
}
