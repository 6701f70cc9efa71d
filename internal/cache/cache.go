package cache

import (
	"context"
	"time"
)

// BytesCache stores opaque versioned values. A miss is reported as ok=false with a nil error.
type BytesCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// SetIfNewer stores value unless the cache already holds a higher version
	// for key. stored reports whether the write happened.
	SetIfNewer(ctx context.Context, key string, value []byte, version int64, ttl time.Duration) (stored bool, err error)
}
