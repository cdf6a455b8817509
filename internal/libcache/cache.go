package libcache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/vk/rdfworkflow/internal/toolchain"
)

// LoadFunc compiles and loads a unit.
type LoadFunc func(ctx context.Context) (toolchain.Library, error)

// Cache maps unit file names to loaded libraries.
type Cache struct {
	libs   sync.Map // Key: unit file name, Value: toolchain.Library
	flight singleflight.Group
}

// Default is the cache shared by executors that are not given one. Loaded
// libraries belong to the process, so they are shared process-wide.
var Default = New()

// New creates an empty cache.
func New() *Cache {
	return &Cache{}
}

// Get returns the library loaded under key, if any.
func (c *Cache) Get(key string) (toolchain.Library, bool) {
	lib, ok := c.libs.Load(key)
	if !ok {
		return nil, false
	}
	return lib.(toolchain.Library), true
}

// Load returns the library loaded under key, calling load if it is not
// cached yet. hit reports whether the library came from the cache, either
// directly or from a concurrent load of the same key.
func (c *Cache) Load(ctx context.Context, key string, load LoadFunc) (lib toolchain.Library, hit bool, err error) {
	if lib, ok := c.Get(key); ok {
		return lib, true, nil
	}

	loaded := false
	v, err, _ := c.flight.Do(key, func() (any, error) {
		if lib, ok := c.Get(key); ok {
			return lib, nil
		}
		lib, err := load(ctx)
		if err != nil {
			return nil, err
		}
		loaded = true
		c.libs.Store(key, lib)
		return lib, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(toolchain.Library), !loaded, nil
}

// Forget drops the library cached under key.
func (c *Cache) Forget(key string) {
	c.libs.Delete(key)
}

// Len returns the number of cached libraries.
func (c *Cache) Len() int {
	n := 0
	c.libs.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
