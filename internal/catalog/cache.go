package catalog

import "context"

// Cache is a read-through cache for detail and genre responses. Implementations
// must treat a miss and an error identically: return ok=false and let the
// caller hit the API.
type Cache interface {
	Get(ctx context.Context, key string) (val []byte, ok bool)
	Set(ctx context.Context, key string, val []byte) error
}
