package convert

import (
	"sync"

	"github.com/Faultbox/sceneconv/pkg/encoding"
	"github.com/Faultbox/sceneconv/pkg/scenegraph"
	"github.com/Faultbox/sceneconv/pkg/source"
)

// TextureCache maps source textures to their converted records. It is
// safe for concurrent use.
type TextureCache struct {
	mu      sync.Mutex
	entries map[*source.Texture]*scenegraph.TextureFile
}

// NewTextureCache returns an empty cache.
func NewTextureCache() *TextureCache {
	return &TextureCache{entries: make(map[*source.Texture]*scenegraph.TextureFile)}
}

// Acquire returns the record for t, creating it on first use, and counts
// one more reference to it. hit reports whether the record already existed.
func (c *TextureCache) Acquire(t *source.Texture) (file *scenegraph.TextureFile, hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.entries[t]; ok {
		f.RefCount++
		return f, true
	}
	f := &scenegraph.TextureFile{
		Name:             t.Name,
		Filename:         encoding.NormalizePath(t.FileName),
		OriginalFilename: t.FileName,
		RefCount:         1,
	}
	c.entries[t] = f
	return f, false
}

// Len returns the number of cached textures.
func (c *TextureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset drops every entry.
func (c *TextureCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[*source.Texture]*scenegraph.TextureFile)
}
