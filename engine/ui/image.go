package ui

import (
	"github.com/hubastard/grove-overlay/engine/colors"
	"github.com/hubastard/grove-overlay/engine/paint"
)

// UIImage draws a texture stretched over its box.
type UIImage struct {
	Common[*UIImage]
	texture paint.TextureID
	uv      paint.Rect
}

// Image sizes itself to w x h points unless a parent stretches it.
func Image(tex paint.TextureID, w, h float32) *UIImage {
	im := &UIImage{texture: tex, uv: paint.Rect{Max: paint.Pos2{X: 1, Y: 1}}}
	im.Common = NewCommon(im)
	im.base.color = colors.White
	im.WidthFixed(w)
	im.HeightFixed(h)
	return im
}

func (im *UIImage) UV(uv paint.Rect) *UIImage     { im.uv = uv; return im }
func (im *UIImage) Tint(c colors.Color) *UIImage { im.base.color = c; return im }

func (im *UIImage) Layout(ctx *Context, constraints Constraints) LayoutResult {
	padding := im.base.Padding()
	width := im.base.resolveAxis(im.base.widthMod, im.base.widthVal, padding[0]+padding[2], constraints.Min[0], constraints.Max[0])
	height := im.base.resolveAxis(im.base.heightMod, im.base.heightVal, padding[1]+padding[3], constraints.Min[1], constraints.Max[1])
	im.base.SetSize(width, height)
	return LayoutResult{Size: [2]float32{width, height}}
}

func (im *UIImage) Draw(ctx *Context) {
	if im.base.color[3] <= 0 {
		return
	}
	x, y := im.base.innerPosition()
	w, h := im.base.innerSize()
	if w <= 0 || h <= 0 {
		return
	}
	ctx.AddImage(paint.RectFromXYWH(x, y, w, h), im.uv, im.texture, im.base.color)
}
