package api

import (
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/warp/landprice/pricing"
)

const (
	estimateCacheDuration        = 10 * time.Minute
	estimateCacheCleanupInterval = 20 * time.Minute

	// Queries outside these bounds are answered but not remembered.
	maxCachedQueryLen  = 128
	maxCachedEstimates = 10000
)

// served pairs an index with the estimates computed from it. Both are
// replaced together on reload so a cached result never outlives its index.
type served struct {
	index   *pricing.Index
	results *cache.Cache
}

func newServed(idx *pricing.Index) *served {
	return &served{
		index:   idx,
		results: cache.New(estimateCacheDuration, estimateCacheCleanupInterval),
	}
}

// estimate returns the cached result for the exact query strings, computing
// it on a miss. Keys are not case-folded: results echo the caller's spelling.
func (s *served) estimate(district, locality string) (pricing.Result, bool) {
	if !s.cacheable(district, locality) {
		return s.index.Estimate(district, locality), false
	}

	key := cacheKey(district, locality)
	if v, ok := s.results.Get(key); ok {
		return v.(pricing.Result), true
	}
	res := s.index.Estimate(district, locality)
	if s.results.ItemCount() < maxCachedEstimates {
		s.results.SetDefault(key, res)
	}
	return res, false
}

// cacheable limits the cache to short queries against known districts, so
// arbitrary request strings cannot grow it.
func (s *served) cacheable(district, locality string) bool {
	return len(district) <= maxCachedQueryLen &&
		len(locality) <= maxCachedQueryLen &&
		s.index.HasDistrict(district)
}

func cacheKey(district, locality string) string {
	return district + "\x00" + locality
}
