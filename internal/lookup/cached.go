// Package lookup holds decorators around ground-truth lookups.
package lookup

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"scrape-validator/internal/model"
	"scrape-validator/internal/scoring"
)

// Cache stores ground-truth items by the url they were requested with.
type Cache interface {
	CachedItems(ctx context.Context, urls []string) (map[string]model.Item, error)
	CacheItems(ctx context.Context, items map[string]model.Item, ttl time.Duration) error
}

// Cached answers from the cache first and only sends misses upstream.
// Cache failures fall through to the upstream lookup.
type Cached struct {
	Upstream scoring.Lookup
	Cache    Cache
	TTL      time.Duration
}

var _ scoring.Lookup = (*Cached)(nil)

func (c *Cached) SearchByURL(ctx context.Context, urls []string) ([]model.Item, error) {
	hits, err := c.Cache.CachedItems(ctx, urls)
	if err != nil {
		slog.Warn("lookup-cache: read failed", "error", err)
		hits = nil
	}
	out := make([]model.Item, 0, len(urls))
	var misses []string
	for _, u := range urls {
		if it, ok := hits[u]; ok {
			out = append(out, it)
			continue
		}
		misses = append(misses, u)
	}
	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := c.Upstream.SearchByURL(ctx, misses)
	if err != nil {
		if len(out) > 0 {
			slog.Warn("lookup-cache: upstream failed, serving cache hits only", "error", err, "hits", len(out))
			return out, nil
		}
		return nil, err
	}
	out = append(out, fetched...)

	toCache := matchRequested(misses, fetched)
	if err := c.Cache.CacheItems(ctx, toCache, c.TTL); err != nil {
		slog.Warn("lookup-cache: write failed", "error", err)
	}
	slog.Debug("lookup-cache: served", "hits", len(urls)-len(misses), "fetched", len(fetched))
	return out, nil
}

// matchRequested keys fetched items by the requested url they answer, either
// by identical url or by the id being the url's last segment.
func matchRequested(requested []string, fetched []model.Item) map[string]model.Item {
	byURL := make(map[string]model.Item, len(fetched))
	byID := make(map[string]model.Item, len(fetched))
	for _, it := range fetched {
		byURL[it.URL] = it
		byID[it.ID] = it
	}
	out := make(map[string]model.Item, len(fetched))
	for _, u := range requested {
		if it, ok := byURL[u]; ok {
			out[u] = it
			continue
		}
		if it, ok := byID[lastSegment(u)]; ok {
			out[u] = it
		}
	}
	return out
}

func lastSegment(u string) string {
	u = strings.TrimRight(u, "/")
	return u[strings.LastIndex(u, "/")+1:]
}
