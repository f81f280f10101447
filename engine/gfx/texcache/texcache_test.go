package texcache

import (
	"testing"

	"github.com/hubastard/grove-overlay/engine/gfx"
	"github.com/hubastard/grove-overlay/engine/gfx/gfxtest"
	"github.com/hubastard/grove-overlay/engine/paint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managed = paint.TextureID{Namespace: paint.Managed, ID: 1}

func rgba(w, h int, px ...byte) paint.ColorImage {
	return paint.ColorImage{Width: w, Height: h, Pixels: px}
}

func newCache() (*Cache, *gfxtest.Device) {
	dev := gfxtest.New()
	return New(dev, gfx.SRGB8Alpha8), dev
}

func TestEndToEndTwoByTwo(t *testing.T) {
	c, dev := newCache()
	px := []byte{255, 0, 0, 255, 0, 255, 0, 255, 0, 0, 255, 255, 255, 255, 0, 255}

	require.NoError(t, c.ApplyDelta(paint.TexturesDelta{
		Set: []paint.TextureSet{{ID: managed, Delta: paint.Full(rgba(2, 2, px...), paint.Linear)}},
	}))
	assert.Equal(t, 1, c.Flush())

	require.Len(t, dev.Uploads, 1)
	up := dev.Uploads[0]
	assert.Equal(t, px, up.Pixels)
	assert.Equal(t, int32(2), up.Width)
	assert.Equal(t, int32(2), up.Height)
	assert.Equal(t, gfx.SRGB8Alpha8, up.InternalFormat)

	h, err := c.Resolve(managed)
	require.NoError(t, err)
	assert.Equal(t, up.Texture, h)
}

func TestPatchReplacesByteRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		patch    []byte
		want     []byte
	}{
		{"head", 0, 4, []byte{9, 9, 9, 9}, []byte{9, 9, 9, 9, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4}},
		{"middle", 4, 12, []byte{7, 7, 7, 7, 8, 8, 8, 8}, []byte{1, 1, 1, 1, 7, 7, 7, 7, 8, 8, 8, 8, 4, 4, 4, 4}},
		{"tail", 12, 16, []byte{5, 6, 7, 8}, []byte{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 5, 6, 7, 8}},
		{"empty", 8, 8, []byte{}, []byte{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newCache()
			base := []byte{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4}
			require.NoError(t, c.Set([]paint.TextureSet{{ID: managed, Delta: paint.Full(rgba(2, 2, base...), paint.Linear)}}))
			c.Flush()

			patch := rgba(len(tt.patch)/4, 1, tt.patch...)
			require.NoError(t, c.Set([]paint.TextureSet{{ID: managed, Delta: paint.Partial(tt.from, tt.to, patch, paint.Nearest)}}))

			rec, ok := c.Lookup(managed)
			require.True(t, ok)
			assert.Equal(t, tt.want, rec.Pixels)
			assert.Equal(t, [2]int{2, 2}, rec.Size)
			assert.True(t, rec.Dirty)
		})
	}
}

func TestPatchErrors(t *testing.T) {
	c, _ := newCache()
	err := c.Set([]paint.TextureSet{{ID: managed, Delta: paint.Partial(0, 4, rgba(1, 1, 1, 2, 3, 4), paint.Linear)}})
	assert.ErrorIs(t, err, ErrPatchMissing)

	require.NoError(t, c.Set([]paint.TextureSet{{ID: managed, Delta: paint.Full(rgba(1, 1, 1, 2, 3, 4), paint.Linear)}}))
	err = c.Set([]paint.TextureSet{{ID: managed, Delta: paint.Partial(2, 6, rgba(1, 1, 1, 2, 3, 4), paint.Linear)}})
	assert.ErrorIs(t, err, ErrPatchRange)
}

func TestSetContinuesPastFailedEntry(t *testing.T) {
	c, _ := newCache()
	other := paint.TextureID{Namespace: paint.Ephemeral, ID: 3}
	err := c.Set([]paint.TextureSet{
		{ID: managed, Delta: paint.Partial(0, 4, rgba(1, 1, 1, 2, 3, 4), paint.Linear)},
		{ID: other, Delta: paint.Full(rgba(1, 1, 1, 2, 3, 4), paint.Linear)},
	})
	assert.ErrorIs(t, err, ErrPatchMissing)
	_, ok := c.Lookup(other)
	assert.True(t, ok)
}

func TestFlushIsIdempotent(t *testing.T) {
	c, dev := newCache()
	require.NoError(t, c.Set([]paint.TextureSet{{ID: managed, Delta: paint.Full(rgba(1, 1, 1, 2, 3, 4), paint.Linear)}}))

	assert.Equal(t, 1, c.Flush())
	assert.Equal(t, 0, c.Flush())
	assert.Len(t, dev.Uploads, 1)

	require.NoError(t, c.Set([]paint.TextureSet{{ID: managed, Delta: paint.Partial(0, 4, rgba(1, 1, 9, 9, 9, 9), paint.Linear)}}))
	assert.Equal(t, 1, c.Flush())
	require.Len(t, dev.Uploads, 2)
	assert.Equal(t, dev.Uploads[0].Texture, dev.Uploads[1].Texture, "patch reuses the GPU texture")
	assert.Equal(t, 1, dev.LiveCount("texture"))
}

func TestFreeThenResolve(t *testing.T) {
	for _, upload := range []bool{false, true} {
		c, dev := newCache()
		require.NoError(t, c.Set([]paint.TextureSet{{ID: managed, Delta: paint.Full(rgba(1, 1, 1, 2, 3, 4), paint.Linear)}}))
		if upload {
			c.Flush()
		}
		c.Free([]paint.TextureID{managed})

		_, err := c.Resolve(managed)
		assert.ErrorIs(t, err, ErrTextureNotFound)
		assert.Zero(t, dev.LiveCount("texture"))
	}
}

func TestResolveBeforeFlush(t *testing.T) {
	c, _ := newCache()
	require.NoError(t, c.Set([]paint.TextureSet{{ID: managed, Delta: paint.Full(rgba(1, 1, 1, 2, 3, 4), paint.Linear)}}))
	_, err := c.Resolve(managed)
	assert.ErrorIs(t, err, ErrTextureNotUploaded)
}

func TestOverwriteReleasesOldHandle(t *testing.T) {
	c, dev := newCache()
	set := paint.TextureSet{ID: managed, Delta: paint.Full(rgba(1, 1, 1, 2, 3, 4), paint.Linear)}
	require.NoError(t, c.Set([]paint.TextureSet{set}))
	c.Flush()
	old, err := c.Resolve(managed)
	require.NoError(t, err)

	require.NoError(t, c.Set([]paint.TextureSet{set}))
	assert.NotContains(t, dev.Live, old)
	c.Flush()
	assert.Equal(t, 1, dev.LiveCount("texture"))
}

func TestNamespacesAreSeparate(t *testing.T) {
	c, _ := newCache()
	eph := paint.TextureID{Namespace: paint.Ephemeral, ID: managed.ID}
	require.NoError(t, c.Set([]paint.TextureSet{{ID: managed, Delta: paint.Full(rgba(1, 1, 1, 2, 3, 4), paint.Linear)}}))

	_, ok := c.Lookup(eph)
	assert.False(t, ok)
	c.Free([]paint.TextureID{eph})
	assert.Equal(t, 1, c.Len())
}

func TestNearestFilter(t *testing.T) {
	c, dev := newCache()
	require.NoError(t, c.Set([]paint.TextureSet{{ID: managed, Delta: paint.Full(rgba(1, 1, 1, 2, 3, 4), paint.Nearest)}}))
	c.Flush()
	assert.Contains(t, dev.Calls, "TexParameteri(0x2801, 0x2600)")
}

func TestRelease(t *testing.T) {
	c, dev := newCache()
	require.NoError(t, c.Set([]paint.TextureSet{
		{ID: managed, Delta: paint.Full(rgba(1, 1, 1, 2, 3, 4), paint.Linear)},
		{ID: paint.TextureID{Namespace: paint.Ephemeral, ID: 2}, Delta: paint.Full(rgba(1, 1, 1, 2, 3, 4), paint.Linear)},
	}))
	c.Flush()
	c.Release()
	assert.Zero(t, c.Len())
	assert.Zero(t, dev.LiveCount("texture"))
}
