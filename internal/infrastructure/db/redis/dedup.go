package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDedupTTL = time.Hour

// UploadDedup provides idempotent-upload checks backed by Redis.
// Key format: upload:<sha256>; the value stores the committed row count so a
// replayed upload can report the original summary.
type UploadDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUploadDedup creates an UploadDedup wrapping the given Redis client.
func NewUploadDedup(client *redis.Client, ttl time.Duration) *UploadDedup {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &UploadDedup{client: client, ttl: ttl}
}

// Check reports whether a file with this checksum was imported inside the TTL
// window, and how many rows that run committed.
func (d *UploadDedup) Check(ctx context.Context, checksum string) (bool, int, error) {
	val, err := d.client.Get(ctx, d.key(checksum)).Result()
	if errors.Is(err, redis.Nil) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("upload dedup check: %w", err)
	}
	imported, err := strconv.Atoi(val)
	if err != nil {
		return false, 0, fmt.Errorf("upload dedup value %q: %w", val, err)
	}
	return true, imported, nil
}

// Mark records a committed import under the file checksum.
func (d *UploadDedup) Mark(ctx context.Context, checksum string, imported int) error {
	return d.client.Set(ctx, d.key(checksum), strconv.Itoa(imported), d.ttl).Err()
}

func (d *UploadDedup) key(checksum string) string {
	return "upload:" + checksum
}
