// cache.go holds loaded template versions for the life of the process.
// A released (id, version) never changes, so entries are never invalidated;
// a new release is a new key.
package registry

import (
	"log/slog"
	"sync"

	"github.com/roblesbraun/braunstudio/internal/templates"
)

// cacheKey uniquely identifies a template version.
type cacheKey struct {
	id      string
	version string
}

func (k cacheKey) String() string {
	return k.id + "@" + k.version
}

// templateCache is a concurrency-safe memo of loaded templates.
type templateCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]templates.Template
}

func newTemplateCache() *templateCache {
	return &templateCache{
		entries: make(map[cacheKey]templates.Template),
	}
}

// get retrieves a loaded template. Returns nil on miss.
func (c *templateCache) get(k cacheKey) templates.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[k]
}

// put stores a loaded template. An existing entry wins so every caller
// observes the same instance.
func (c *templateCache) put(k cacheKey, t templates.Template) templates.Template {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[k]; ok {
		return existing
	}
	c.entries[k] = t
	slog.Debug("template cached", "id", k.id, "version", k.version, "size", len(c.entries))
	return t
}

func (c *templateCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
