package crm

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SlugTTL is how long a fetched slug list is considered fresh.
const SlugTTL = 24 * time.Hour

// SlugFetcher retrieves the current custom-field slug list from the CRM.
type SlugFetcher func(ctx context.Context) ([]string, error)

// SlugCache caches the CRM's custom-field slug enumeration. Entries expire
// after SlugTTL; on fetch failure a stale value (even an expired one) is
// served over an empty list. An empty result means "no restriction", not
// "nothing is valid".
type SlugCache struct {
	mu     sync.Mutex
	fetch  SlugFetcher
	logger zerolog.Logger

	// now is replaceable in tests.
	now func() time.Time

	values    []string
	fetchedAt time.Time
}

func NewSlugCache(fetch SlugFetcher, logger zerolog.Logger) *SlugCache {
	return &SlugCache{
		fetch:  fetch,
		logger: logger,
		now:    time.Now,
	}
}

// Known returns the cached slug list, fetching when the cache is empty,
// expired, or forceRefresh is set.
func (c *SlugCache) Known(ctx context.Context, forceRefresh bool) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < SlugTTL
	if fresh && !forceRefresh {
		return c.values
	}

	slugs, err := c.fetch(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("slug schema fetch failed")
		if c.fetchedAt.IsZero() {
			return nil
		}
		// Serve the stale list rather than nothing.
		return c.values
	}

	if len(slugs) > 0 {
		c.values = slugs
		c.fetchedAt = c.now()
		return c.values
	}

	// An empty schema response is treated like a failed fetch: keep
	// whatever we had.
	if !c.fetchedAt.IsZero() {
		return c.values
	}
	return nil
}
