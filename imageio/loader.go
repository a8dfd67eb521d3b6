package imageio

import (
	"fmt"
	"image"
	"path/filepath"
	"sync/atomic"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cwbudde/algo-corepoint/raster"
)

// DefaultCacheEntries bounds the cache when NewLoader gets a non-positive size.
const DefaultCacheEntries = 64

// CacheStats describes cache effectiveness since the last Purge.
type CacheStats struct {
	Entries  int     `json:"entries"`
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	HitRatio float64 `json:"hit_ratio"`
}

// Loader decodes images from disk and keeps the most recently used ones in
// memory. It is safe for concurrent use. Every Load returns an independent
// copy, so callers may modify the result.
type Loader struct {
	cache  *lru.Cache[string, *image.Gray]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewLoader returns a Loader caching up to entries images.
func NewLoader(entries int) (*Loader, error) {
	if entries <= 0 {
		entries = DefaultCacheEntries
	}
	cache, err := lru.New[string, *image.Gray](entries)
	if err != nil {
		return nil, fmt.Errorf("create image cache: %w", err)
	}
	return &Loader{cache: cache}, nil
}

// Load returns the grayscale image stored at path.
func (l *Loader) Load(path string) (*image.Gray, error) {
	key, err := cacheKey(path)
	if err != nil {
		return nil, err
	}

	if img, ok := l.cache.Get(key); ok {
		l.hits.Add(1)
		return raster.Clone(img), nil
	}
	l.misses.Add(1)

	src, err := imaging.Open(key, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	gray, err := ToGray(src)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	l.cache.Add(key, gray)
	return raster.Clone(gray), nil
}

// Evict drops path from the cache. It reports whether an entry was removed.
func (l *Loader) Evict(path string) bool {
	key, err := cacheKey(path)
	if err != nil {
		return false
	}
	return l.cache.Remove(key)
}

// Purge empties the cache and zeroes the hit counters.
func (l *Loader) Purge() {
	l.cache.Purge()
	l.hits.Store(0)
	l.misses.Store(0)
}

// CacheStats returns the current cache counters.
func (l *Loader) CacheStats() CacheStats {
	s := CacheStats{
		Entries: l.cache.Len(),
		Hits:    l.hits.Load(),
		Misses:  l.misses.Load(),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRatio = float64(s.Hits) / float64(total)
	}
	return s
}

func cacheKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}
