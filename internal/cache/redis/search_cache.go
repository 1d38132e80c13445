package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tradescope/internal/service"
)

const pageTTL = 10 * time.Minute

// SearchCache implements service.ResultCache with JSON-serialized search
// pages under a short TTL. Keys already carry the query fingerprint, sort
// order and pagination window, so entries never need explicit invalidation;
// a dataset reload simply outlives them.
type SearchCache struct {
	rdb *redis.Client
}

// NewSearchCache creates a SearchCache backed by the given Client.
func NewSearchCache(c *Client) *SearchCache {
	return &SearchCache{rdb: c.Underlying()}
}

func pageKey(key string) string { return "search:page:" + key }

// GetPage retrieves a rendered search page. It returns service.ErrCacheMiss
// when no entry exists for the key.
func (sc *SearchCache) GetPage(ctx context.Context, key string) (*service.SearchResponse, error) {
	data, err := sc.rdb.Get(ctx, pageKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, service.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis: get page %s: %w", key, err)
	}

	var resp service.SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("redis: unmarshal page %s: %w", key, err)
	}
	return &resp, nil
}

// SetPage stores a rendered search page with the cache TTL.
func (sc *SearchCache) SetPage(ctx context.Context, key string, resp *service.SearchResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("redis: marshal page %s: %w", key, err)
	}
	if err := sc.rdb.Set(ctx, pageKey(key), data, pageTTL).Err(); err != nil {
		return fmt.Errorf("redis: set page %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ service.ResultCache = (*SearchCache)(nil)
