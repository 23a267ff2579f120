package itinerary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/tripkit/internal/cache"
)

const composerSource = "itinerary"

// Composer memoizes Compose on (trip ID, revision, folded query). Trips with
// revision zero are composed fresh on every call.
type Composer struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewComposer creates a Composer that keeps view models in c for ttl
func NewComposer(c *cache.Cache, ttl time.Duration) *Composer {
	return &Composer{cache: c, ttl: ttl}
}

// Compose returns the view model for trip and query, from cache when the
// trip revision has been composed before for the same query. Cache failures
// only cost a recomputation.
func (c *Composer) Compose(ctx context.Context, trip Trip, query string) ViewModel {
	if trip.Revision == 0 || c.cache == nil || c.ttl <= 0 {
		return Compose(trip, query)
	}

	ctx = logging.EnsureLogger(ctx)
	key := cacheKey(trip, query)

	var vm ViewModel
	found, err := c.cache.Get(key, &vm)
	if err != nil {
		logging.Warnw(ctx, "Itinerary: failed to read cached view model", "key", key, "error", err)
	}
	if found && err == nil {
		// The key is case-folded; echo the caller's spelling
		vm.Query = strings.TrimSpace(query)
		return vm
	}

	vm = Compose(trip, query)
	if err := c.cache.Set(key, vm, c.ttl, composerSource); err != nil {
		logging.Warnw(ctx, "Itinerary: failed to cache view model", "key", key, "error", err)
	} else {
		logging.Debugw(ctx, "Itinerary: composed view model", "trip_id", trip.ID, "revision", trip.Revision, "days", len(vm.Days))
	}
	return vm
}

// Invalidate drops every cached view model of a trip
func (c *Composer) Invalidate(tripID string) int {
	if c.cache == nil {
		return 0
	}
	return c.cache.DeletePrefix(keyPrefix(tripID))
}

// CachedView describes the cache entry behind a composed view model
type CachedView struct {
	Key       string
	CreatedAt time.Time
	ExpiresAt time.Time
	Stale     bool
}

// Lookup reports the cache entry for trip and query without composing.
// Expired entries are reported with Stale set until cleanup removes them.
func (c *Composer) Lookup(trip Trip, query string) (CachedView, bool) {
	if c.cache == nil {
		return CachedView{}, false
	}

	key := cacheKey(trip, query)
	entry, found, err := c.cache.GetWithMetadata(key, nil)
	if err != nil || !found {
		return CachedView{}, false
	}
	return CachedView{
		Key:       key,
		CreatedAt: entry.CreatedAt,
		ExpiresAt: entry.ExpiresAt,
		Stale:     c.cache.IsStale(key),
	}, true
}

// Stats returns usage statistics of the underlying cache
func (c *Composer) Stats() cache.CacheStats {
	if c.cache == nil {
		return cache.CacheStats{}
	}
	return c.cache.Stats()
}

// Trip IDs are quoted so that IDs containing the separator cannot collide
func keyPrefix(tripID string) string {
	return fmt.Sprintf("itinerary:%q:", tripID)
}

func cacheKey(trip Trip, query string) string {
	return fmt.Sprintf("%s%d:%q", keyPrefix(trip.ID), trip.Revision, normalizeQuery(query))
}
