package hud

import (
	"time"

	"github.com/hubastard/grove-overlay/engine/colors"
	"github.com/hubastard/grove-overlay/engine/paint"
	"github.com/hubastard/grove-overlay/engine/ui"
)

var (
	graphEmpty = colors.DarkGray
	graphGood  = colors.Green
	graphSlow  = colors.Yellow
	graphBad   = colors.Red
)

// graph is a one texel high strip, one texel per frame, written as a ring.
// Each frame patches only the texel it changes.
type graph struct {
	textures *ui.TextureManager
	id       paint.TextureID
	width    int
	cursor   int
}

func newGraph(textures *ui.TextureManager, width int) *graph {
	px := make([]byte, 0, width*4)
	empty := graphEmpty.SRGBA8()
	for i := 0; i < width; i++ {
		px = append(px, empty[:]...)
	}
	g := &graph{textures: textures, width: width}
	g.id = textures.Alloc(paint.ColorImage{Width: width, Height: 1, Pixels: px}, paint.Nearest)
	return g
}

func (g *graph) push(d time.Duration) {
	c := frameColor(d).SRGBA8()
	from := g.cursor * 4
	g.textures.Set(g.id, paint.Partial(from, from+4, paint.ColorImage{Width: 1, Height: 1, Pixels: c[:]}, paint.Nearest))
	g.cursor = (g.cursor + 1) % g.width
}

func frameColor(d time.Duration) colors.Color {
	switch {
	case d <= time.Second/60+time.Millisecond/2:
		return graphGood
	case d <= time.Second/30+time.Millisecond/2:
		return graphSlow
	default:
		return graphBad
	}
}
