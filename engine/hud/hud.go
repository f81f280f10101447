// Package hud is the overlay's heads-up display: frame timing, memory and
// GPU information laid out with engine/ui.
package hud

import (
	"fmt"
	"time"

	"github.com/hubastard/grove-overlay/engine/assets"
	"github.com/hubastard/grove-overlay/engine/colors"
	"github.com/hubastard/grove-overlay/engine/config"
	"github.com/hubastard/grove-overlay/engine/gfx"
	"github.com/hubastard/grove-overlay/engine/logging"
	"github.com/hubastard/grove-overlay/engine/paint"
	"github.com/hubastard/grove-overlay/engine/profiler"
	"github.com/hubastard/grove-overlay/engine/text"
	"github.com/hubastard/grove-overlay/engine/ui"
)

const (
	graphHeight = 12
	logoHeight  = 32
)

type HUD struct {
	cfg config.HUD
	ctx *ui.Context
	now func() time.Time

	vendor, renderer, version string

	logo      paint.TextureID
	logoSize  [2]int
	graph     *graph
	frame     int
	last      time.Time
	frameTime time.Duration
}

// New builds the HUD for the context dev belongs to. A logo that cannot be
// loaded is logged and left out.
func New(cfg config.HUD, dev gfx.Device) (*HUD, error) {
	h := &HUD{
		cfg:      cfg,
		now:      time.Now,
		vendor:   dev.GetString(gfx.Vendor),
		renderer: dev.GetString(gfx.Renderer),
		version:  dev.GetString(gfx.Version),
	}
	if !cfg.Enabled {
		return h, nil
	}

	font, err := text.Default(cfg.FontSize)
	if err != nil {
		return nil, fmt.Errorf("hud font: %w", err)
	}
	h.ctx = ui.NewContext(font)

	if cfg.GraphWidth > 0 {
		h.graph = newGraph(h.ctx.Textures, cfg.GraphWidth)
	}
	if cfg.Logo != "" {
		img, err := assets.LoadPNG(cfg.Logo)
		if err != nil {
			logging.Logger().Warn("hud logo not loaded", "path", cfg.Logo, "err", err)
		} else {
			h.logo = h.ctx.Textures.Alloc(img, paint.Linear)
			h.logoSize = img.Size()
		}
	}
	return h, nil
}

// Run lays out one frame. A disabled HUD produces nothing.
func (h *HUD) Run(in paint.FrameInput) (paint.FullOutput, error) {
	if h.ctx == nil {
		return paint.FullOutput{}, nil
	}
	defer profiler.Start("hud.Run")()

	now := h.now()
	if !h.last.IsZero() {
		h.frameTime = now.Sub(h.last)
	}
	h.last = now
	h.frame++
	if h.graph != nil && h.frame > 1 {
		h.graph.push(h.frameTime)
	}

	h.ctx.Begin(in.ScreenRect)
	h.ctx.Paint(h.layout())
	return h.ctx.End(), nil
}

func (h *HUD) Tessellate(shapes []paint.ClippedShape) ([]paint.ClippedPrimitive, error) {
	if h.ctx == nil {
		return nil, nil
	}
	return h.ctx.Tessellate(shapes)
}

func (h *HUD) layout() *ui.UIView {
	var rows []ui.UIElement
	section := func(title string) {
		rows = append(rows, ui.Label(title).Padding4(0, 8, 0, 0).Color(h.color(colors.Yellow)))
	}
	line := func(format string, args ...any) {
		rows = append(rows, ui.Label(fmt.Sprintf(format, args...)).Color(h.color(colors.White)))
	}

	if h.logoSize[0] > 0 {
		w := float32(h.logoSize[0]) * logoHeight / float32(h.logoSize[1])
		rows = append(rows, ui.Image(h.logo, w, logoHeight).Tint(h.color(colors.White)))
	}

	ms := float32(h.frameTime.Microseconds()) / 1000
	rows = append(rows, ui.Label(fmt.Sprintf("Frame: %d", h.frame)).Color(h.color(colors.Yellow)))
	if ms > 0 {
		line("\t%2.3f ms (%.2f FPS)", ms, 1000/ms)
	} else {
		line("\t-- ms")
	}
	if h.graph != nil {
		rows = append(rows, ui.Image(h.graph.id, float32(h.graph.width), graphHeight).Tint(h.color(colors.White)))
	}

	if h.cfg.ShowMemory {
		section("Memory")
		line("\tUsage: %.3f MB", float32(profiler.MemoryUsage())/(1<<20))
		line("\tAllocs: %d", profiler.MemoryAllocs())
		line("\tGoroutines: %d", profiler.NumGoroutine())
	}
	if h.cfg.ShowGPU {
		section("GPU")
		line("\tVendor: %s", h.vendor)
		line("\tRenderer: %s", h.renderer)
		line("\tVersion: %s", h.version)
	}

	panel := ui.View(rows...).
		FlowDirection(ui.LayoutVertical).
		Gap(2).
		Padding(12).
		BgColor(h.color(colors.Black.WithAlpha(0.5)))

	root := ui.View(panel).
		Padding(16).
		WidthExpand().
		HeightExpand()
	switch h.cfg.Position {
	case "top-right":
		root.AlignMain(ui.AlignEnd)
	case "bottom-left":
		root.AlignCross(ui.AlignEnd)
	case "bottom-right":
		root.AlignMain(ui.AlignEnd).AlignCross(ui.AlignEnd)
	}
	return root
}

func (h *HUD) color(c colors.Color) colors.Color {
	return c.Scale(h.cfg.Opacity)
}
