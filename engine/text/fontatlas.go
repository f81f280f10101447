package text

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"github.com/hubastard/grove-overlay/engine/paint"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type Glyph struct {
	Rune     rune
	Advance  float32 // pixels
	BearingX float32 // left bearing in pixels
	BearingY float32 // distance from baseline to glyph top
	W, H     int     // glyph bitmap size
	U0, V0   float32 // UVs in atlas
	U1, V1   float32
}

// FontAtlas is a coverage atlas of one face at one pixel size. Image is
// handed to the overlay as a texture; it is never uploaded here.
type FontAtlas struct {
	SizePx                   float32
	Ascent, Descent, LineGap float32
	Glyphs                   map[rune]Glyph
	Kerning                  map[rune]map[rune]float32
	Image                    paint.FontImage
	// WhiteUV samples a fully covered texel, for solid fills.
	WhiteUV        paint.Pos2
	AtlasW, AtlasH int
}

type Font = FontAtlas

const (
	padding      = 2
	whiteSide    = 2
	minAtlasSize = 256
	maxAtlasSize = 4096
)

// Default builds an atlas of the Go Regular face.
func Default(sizePx float32) (*FontAtlas, error) {
	return NewAtlas(goregular.TTF, sizePx)
}

// LoadTTF builds an atlas from a TrueType or OpenType file.
func LoadTTF(path string, sizePx float32) (*FontAtlas, error) {
	ttfData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return NewAtlas(ttfData, sizePx)
}

// NewAtlas rasterizes Latin-1 (32..255) from ttfData into a shelf-packed
// coverage atlas.
func NewAtlas(ttfData []byte, sizePx float32) (*FontAtlas, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("font size %v must be positive", sizePx)
	}
	ft, err := opentype.Parse(ttfData)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer face.Close()

	// Metrics in pixels
	m := face.Metrics()
	ascent := float32(m.Ascent.Round())
	descent := float32(-m.Descent.Round())
	lineGap := float32(m.Height.Round()) - ascent + descent

	type meas struct {
		r      rune
		w, h   int
		adv    float32
		bx, by float32
	}
	measure := make([]meas, 0, 224)
	for rr := rune(32); rr <= rune(255); rr++ {
		br, adv, ok := face.GlyphBounds(rr)
		if !ok {
			continue
		}
		measure = append(measure, meas{
			r:   rr,
			w:   br.Max.X.Ceil() - br.Min.X.Floor(),
			h:   br.Max.Y.Ceil() - br.Min.Y.Floor(),
			adv: float32(adv.Round()),
			bx:  float32(br.Min.X.Floor()),
			by:  float32(-br.Min.Y.Floor()),
		})
	}

	// Shelf packer. The first slot of the first row is the white block.
	atlasSize := minAtlasSize
	var pos map[rune]image.Point
	for {
		x, y, rowH := padding+whiteSide+padding, padding, whiteSide
		fits := true
		pos = make(map[rune]image.Point, len(measure))

		for _, g := range measure {
			if g.w == 0 || g.h == 0 {
				continue
			}
			if g.w+padding*2 > atlasSize || g.h+padding*2 > atlasSize {
				fits = false
				break
			}
			if x+g.w+padding > atlasSize {
				x = padding
				y += rowH + padding
				rowH = 0
			}
			if y+g.h+padding > atlasSize {
				fits = false
				break
			}
			pos[g.r] = image.Pt(x, y)
			x += g.w + padding
			if g.h > rowH {
				rowH = g.h
			}
		}

		if fits {
			break
		}
		atlasSize *= 2
		if atlasSize > maxAtlasSize {
			return nil, fmt.Errorf("font atlas too large (>%d)", maxAtlasSize)
		}
	}

	dst := image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize))
	white := image.Rect(padding, padding, padding+whiteSide, padding+whiteSide)
	draw.Draw(dst, white, image.Opaque, image.Point{}, draw.Src)

	drawer := &font.Drawer{Dst: dst, Src: image.Opaque, Face: face}
	glyphs := make(map[rune]Glyph, len(measure))
	size := float32(atlasSize)
	for _, g := range measure {
		glyph := Glyph{Rune: g.r, Advance: g.adv, BearingX: g.bx, BearingY: g.by, W: g.w, H: g.h}
		if p, ok := pos[g.r]; ok {
			// The drawer's dot sits on the baseline, shifted left by the bearing.
			drawer.Dot = fixed.P(p.X-int(g.bx), p.Y+int(g.by))
			drawer.DrawString(string(g.r))
			glyph.U0 = float32(p.X) / size
			glyph.V0 = float32(p.Y) / size
			glyph.U1 = float32(p.X+g.w) / size
			glyph.V1 = float32(p.Y+g.h) / size
		}
		glyphs[g.r] = glyph
	}

	kerning := make(map[rune]map[rune]float32)
	for _, a := range measure {
		for _, b := range measure {
			if dx := face.Kern(a.r, b.r); dx != 0 {
				if kerning[a.r] == nil {
					kerning[a.r] = make(map[rune]float32)
				}
				kerning[a.r][b.r] = float32(dx.Round())
			}
		}
	}

	coverage := make([]float32, len(dst.Pix))
	for i, a := range dst.Pix {
		coverage[i] = float32(a) / 255
	}

	return &FontAtlas{
		SizePx: sizePx,
		Ascent: ascent, Descent: descent, LineGap: lineGap,
		Glyphs:  glyphs,
		Kerning: kerning,
		Image:   paint.FontImage{Width: atlasSize, Height: atlasSize, Coverage: coverage, Gamma: 1},
		WhiteUV: paint.Pos2{X: float32(padding+whiteSide/2) / size, Y: float32(padding+whiteSide/2) / size},
		AtlasW:  atlasSize, AtlasH: atlasSize,
	}, nil
}

// Delta is the texture delta that uploads the whole atlas.
func (fa *FontAtlas) Delta() paint.ImageDelta {
	return paint.Full(fa.Image, paint.Linear)
}
