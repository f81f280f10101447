package text

import "github.com/hubastard/grove-overlay/engine/paint"

const tabWidth = 4

// Layout positions s with its top-left corner at (x,y). Y grows downward.
func Layout(font *Font, x, y float32, s string) []paint.GlyphQuad {
	quads := make([]paint.GlyphQuad, 0, len(s))
	penX := x
	baseY := y + font.Ascent // move origin to top left
	var prev rune = -1

	for _, r := range s {
		switch r {
		case '\n':
			penX = x
			baseY += LineHeight(font)
			prev = -1
			continue
		case '\t':
			penX += tabWidth * spaceAdvance(font)
			prev = -1
			continue
		}

		g, ok := font.Glyphs[r]
		if !ok {
			penX += spaceAdvance(font)
			prev = r
			continue
		}
		if prev >= 0 {
			penX += font.Kerning[prev][r]
		}

		if g.W > 0 && g.H > 0 {
			left := penX + g.BearingX
			top := baseY - g.BearingY
			quads = append(quads, paint.GlyphQuad{
				Rect: paint.RectFromXYWH(left, top, float32(g.W), float32(g.H)),
				UV:   paint.Rect{Min: paint.Pos2{X: g.U0, Y: g.V0}, Max: paint.Pos2{X: g.U1, Y: g.V1}},
			})
		}
		penX += g.Advance
		prev = r
	}
	return quads
}

func MeasureText(font *Font, s string) (width, height float32) {
	var lineW float32
	var prev rune = -1
	height = LineHeight(font)

	for _, r := range s {
		switch r {
		case '\n':
			if lineW > width {
				width = lineW
			}
			lineW = 0
			height += LineHeight(font)
			prev = -1
			continue
		case '\t':
			lineW += tabWidth * spaceAdvance(font)
			prev = -1
			continue
		}

		g, ok := font.Glyphs[r]
		if !ok {
			lineW += spaceAdvance(font)
			prev = r
			continue
		}
		if prev >= 0 {
			lineW += font.Kerning[prev][r]
		}
		lineW += g.Advance
		prev = r
	}

	if lineW > width {
		width = lineW
	}
	return width, height
}

func spaceAdvance(font *Font) float32 {
	return font.Glyphs[' '].Advance
}

// Baseline-to-top distance (useful to position text by top-left).
func BaselineToTop(font *Font) float32    { return font.Ascent }
func BaselineToBottom(font *Font) float32 { return -font.Descent }
func LineHeight(font *Font) float32       { return font.Ascent - font.Descent + font.LineGap }
