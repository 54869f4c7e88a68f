// Package cache implements the on-disk cover art cache.
//
// Covers are keyed by playlist id, one file per id. The cache is populated
// through the cache-aside [CoverService]: a miss triggers a remote fetch and,
// only on success, a save. Entries are never refreshed; they are deleted when
// the owning playlist leaves the collection.
package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// CoverCache stores cover image bytes on disk, keyed by playlist id.
type CoverCache struct {
	dir string
}

// NewCoverCache creates the cache directory if needed and returns the cache.
func NewCoverCache(dir string) (*CoverCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cover cache directory: %w", err)
	}
	return &CoverCache{dir: dir}, nil
}

func (c *CoverCache) path(id string) string {
	return filepath.Join(c.dir, id+".jpg")
}

// Get returns the cached cover bytes for id, or nil on a miss.
func (c *CoverCache) Get(id string) []byte {
	data, err := os.ReadFile(c.path(id))
	if err != nil {
		return nil
	}
	return data
}

// Save writes cover bytes for id. Empty bytes are never cached, so a failed
// fetch cannot poison the cache with a negative entry.
func (c *CoverCache) Save(id string, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := os.WriteFile(c.path(id), data, 0644); err != nil {
		return fmt.Errorf("failed to write cover for %s: %w", id, err)
	}
	return nil
}

// Delete removes the cached cover for id. Absent entries are not an error.
func (c *CoverCache) Delete(id string) error {
	if err := os.Remove(c.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cover for %s: %w", id, err)
	}
	return nil
}

// CoverService resolves cover art through the cache with a rate-limited
// HTTP fallback.
type CoverService struct {
	cache   *CoverCache
	client  *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewCoverService creates a cache-aside cover resolver.
//
// The client defaults to [http.DefaultClient]; remote fetches are limited to
// five per second.
func NewCoverService(cache *CoverCache, client *http.Client, logger *log.Logger) *CoverService {
	if client == nil {
		client = http.DefaultClient
	}
	return &CoverService{
		cache:   cache,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(5), 1),
		logger:  logger,
	}
}

// Cover returns the cover bytes for the playlist, consulting the cache first.
//
// On a miss the remote URL is fetched; only a 200 response populates the
// cache. Any failure yields empty bytes for this call and leaves the cache
// untouched.
func (s *CoverService) Cover(ctx context.Context, id, url string) []byte {
	if data := s.cache.Get(id); data != nil {
		return data
	}

	if url == "" {
		return nil
	}

	data, err := s.fetch(ctx, url)
	if err != nil {
		s.logger.Warn("cover fetch failed", "playlist", id, "url", url, "error", err)
		return nil
	}

	if err := s.cache.Save(id, data); err != nil {
		s.logger.Warn("cover cache save failed", "playlist", id, "error", err)
	}
	return data
}

// Delete invalidates the cache entry for id.
func (s *CoverService) Delete(id string) error {
	return s.cache.Delete(id)
}

func (s *CoverService) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}
