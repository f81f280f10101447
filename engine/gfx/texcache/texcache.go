// Package texcache keeps the textures the UI library hands over, uploading
// each one lazily and at most once per change.
package texcache

import (
	"errors"
	"fmt"

	"github.com/hubastard/grove-overlay/engine/gfx"
	"github.com/hubastard/grove-overlay/engine/paint"
)

var (
	ErrPatchMissing       = errors.New("texcache: patch for unknown texture")
	ErrPatchRange         = errors.New("texcache: patch range out of bounds")
	ErrTextureNotFound    = errors.New("texcache: texture not found")
	ErrTextureNotUploaded = errors.New("texcache: texture not uploaded")
)

// Record is one texture. Handle is 0 until the first upload.
type Record struct {
	ID        uint64
	Namespace paint.Namespace
	Size      [2]int
	Pixels    []byte
	Handle    uint32
	Filter    paint.Filter
	Dirty     bool
}

// Cache owns every Record. It is not safe for concurrent use; the overlay
// host serializes frames.
type Cache struct {
	dev            gfx.Device
	internalFormat gfx.Enum
	tables         [2]map[uint64]*Record // indexed by paint.Namespace
}

// New returns an empty cache uploading through dev. internalFormat is the GL
// format textures are stored in (SRGB8_ALPHA8 or RGBA).
func New(dev gfx.Device, internalFormat gfx.Enum) *Cache {
	return &Cache{
		dev:            dev,
		internalFormat: internalFormat,
		tables:         [2]map[uint64]*Record{{}, {}},
	}
}

func (c *Cache) table(ns paint.Namespace) map[uint64]*Record {
	if int(ns) >= len(c.tables) {
		return nil
	}
	return c.tables[ns]
}

// ApplyDelta runs Set then Free. Entries that fail are skipped; the rest are
// still applied and the failures are returned joined.
func (c *Cache) ApplyDelta(delta paint.TexturesDelta) error {
	err := c.Set(delta.Set)
	c.Free(delta.Free)
	return err
}

// Set inserts or patches textures in order.
func (c *Cache) Set(entries []paint.TextureSet) error {
	var errs []error
	for _, e := range entries {
		if err := c.set(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Cache) set(e paint.TextureSet) error {
	t := c.table(e.ID.Namespace)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrTextureNotFound, e.ID)
	}
	px, err := e.Delta.Pixels()
	if err != nil {
		return fmt.Errorf("set %s: %w", e.ID, err)
	}

	if e.Delta.IsWhole() {
		if old, ok := t[e.ID.ID]; ok && old.Handle != 0 {
			c.dev.DeleteTexture(old.Handle)
		}
		t[e.ID.ID] = &Record{
			ID:        e.ID.ID,
			Namespace: e.ID.Namespace,
			Size:      e.Delta.Image.Size(),
			Pixels:    append([]byte(nil), px...),
			Filter:    e.Delta.Filter,
			Dirty:     true,
		}
		return nil
	}

	rec, ok := t[e.ID.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPatchMissing, e.ID)
	}
	from, to := e.Delta.Pos[0], e.Delta.Pos[1]
	if from < 0 || to < from || to > len(rec.Pixels) || to-from != len(px) {
		return fmt.Errorf("%w: %s [%d,%d) with %d bytes, texture has %d", ErrPatchRange, e.ID, from, to, len(px), len(rec.Pixels))
	}
	copy(rec.Pixels[from:to], px)
	rec.Filter = e.Delta.Filter
	rec.Dirty = true
	return nil
}

// Free removes textures and releases their GPU storage. Unknown ids are ignored.
func (c *Cache) Free(ids []paint.TextureID) {
	for _, id := range ids {
		t := c.table(id.Namespace)
		rec, ok := t[id.ID]
		if !ok {
			continue
		}
		if rec.Handle != 0 {
			c.dev.DeleteTexture(rec.Handle)
		}
		delete(t, id.ID)
	}
}

// Flush uploads every record that has no GPU texture yet or changed since the
// last upload, and returns how many were uploaded. It binds textures on the
// active unit.
func (c *Cache) Flush() int {
	n := 0
	for _, t := range c.tables {
		for _, rec := range t {
			if rec.Handle != 0 && !rec.Dirty {
				continue
			}
			c.upload(rec)
			n++
		}
	}
	return n
}

func (c *Cache) upload(rec *Record) {
	if rec.Handle == 0 {
		rec.Handle = c.dev.GenTexture()
	}
	filter := int32(gfx.Linear)
	if rec.Filter == paint.Nearest {
		filter = int32(gfx.Nearest)
	}
	c.dev.BindTexture(gfx.Texture2D, rec.Handle)
	c.dev.TexParameteri(gfx.Texture2D, gfx.TextureMinFilter, filter)
	c.dev.TexParameteri(gfx.Texture2D, gfx.TextureMagFilter, filter)
	c.dev.TexParameteri(gfx.Texture2D, gfx.TextureWrapS, int32(gfx.ClampToEdge))
	c.dev.TexParameteri(gfx.Texture2D, gfx.TextureWrapT, int32(gfx.ClampToEdge))
	c.dev.TexImage2D(gfx.Texture2D, 0, c.internalFormat,
		int32(rec.Size[0]), int32(rec.Size[1]), gfx.RGBA, gfx.UnsignedByte, rec.Pixels)
	rec.Dirty = false
}

// Resolve returns the GPU texture for id.
func (c *Cache) Resolve(id paint.TextureID) (uint32, error) {
	rec, ok := c.table(id.Namespace)[id.ID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrTextureNotFound, id)
	}
	if rec.Handle == 0 {
		return 0, fmt.Errorf("%w: %s", ErrTextureNotUploaded, id)
	}
	return rec.Handle, nil
}

// Lookup returns the record for id, if any.
func (c *Cache) Lookup(id paint.TextureID) (*Record, bool) {
	rec, ok := c.table(id.Namespace)[id.ID]
	return rec, ok
}

// Len counts records across both namespaces.
func (c *Cache) Len() int { return len(c.tables[0]) + len(c.tables[1]) }

// Release deletes every GPU texture and empties the cache.
func (c *Cache) Release() {
	for i, t := range c.tables {
		for _, rec := range t {
			if rec.Handle != 0 {
				c.dev.DeleteTexture(rec.Handle)
			}
		}
		c.tables[i] = map[uint64]*Record{}
	}
}
