package texture

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/gpu"
	"github.com/Faultbox/meshview/internal/logger"
)

// Loader produces RGBA pixels for a reference.
type Loader func(ref Ref) (*image.RGBA, error)

// Stats holds cache statistics.
type Stats struct {
	Entries  int
	Hits     int64
	Misses   int64
	Failures int64
}

// Cache uploads each distinct image path at most once and hands out shared
// texture records. Failed decodes are remembered as blank records.
type Cache struct {
	mu      sync.Mutex
	device  gpu.Device
	load    Loader
	entries map[string]Texture
	order   []string

	hits     int64
	misses   int64
	failures int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithLoader replaces the default file/embedded-data loader.
func WithLoader(l Loader) Option {
	return func(c *Cache) { c.load = l }
}

// WithMaxSize limits uploaded texture dimensions; larger images are downscaled.
func WithMaxSize(n int) Option {
	return func(c *Cache) {
		c.load = func(ref Ref) (*image.RGBA, error) { return Load(ref, n) }
	}
}

// NewCache creates a texture cache uploading through device.
func NewCache(device gpu.Device, opts ...Option) *Cache {
	c := &Cache{
		device:  device,
		entries: make(map[string]Texture),
		load:    func(ref Ref) (*image.RGBA, error) { return Load(ref, 0) },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func cacheKey(path string) string {
	return filepath.Clean(path)
}

// Resolve returns the texture record for ref, decoding and uploading it on
// first use. A cached record keeps the type it was first resolved with.
func (c *Cache) Resolve(ref Ref, typ Type) Texture {
	key := cacheKey(ref.Path)
	log := logger.Named("texture")

	c.mu.Lock()
	defer c.mu.Unlock()

	if tex, ok := c.entries[key]; ok {
		c.hits++
		if tex.Type != typ {
			log.Debug("texture reused with different type",
				zap.String("path", key),
				zap.Stringer("cached", tex.Type),
				zap.Stringer("requested", typ))
		}
		return tex
	}
	c.misses++

	tex := Texture{Type: typ, Path: key}
	img, err := c.load(ref)
	if err == nil && (img == nil || img.Bounds().Empty()) {
		err = fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}
	if err != nil {
		c.failures++
		log.Warn("texture failed to load", zap.String("path", key), zap.Error(err))
	} else {
		tex.Handle = c.device.CreateTexture2D(img)
		log.Debug("texture uploaded",
			zap.String("path", key),
			zap.Stringer("type", typ),
			zap.Int("width", img.Bounds().Dx()),
			zap.Int("height", img.Bounds().Dy()))
	}

	c.entries[key] = tex
	c.order = append(c.order, key)
	return tex
}

// Lookup returns the cached record for path without loading anything.
func (c *Cache) Lookup(path string) (Texture, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tex, ok := c.entries[cacheKey(path)]
	return tex, ok
}

// Len returns the number of cached records, blank ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:  len(c.entries),
		Hits:     c.hits,
		Misses:   c.misses,
		Failures: c.failures,
	}
}

// Release deletes every uploaded texture and empties the cache. Records
// handed out earlier must not be drawn afterwards.
func (c *Cache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range c.order {
		if tex := c.entries[key]; !tex.Blank() {
			c.device.DeleteTexture(tex.Handle)
		}
	}
	c.entries = make(map[string]Texture)
	c.order = nil
}
