package paint

// Modifiers mirrors keyboard modifier state. The overlay never forwards host
// input, so it is always the zero value.
type Modifiers struct {
	Alt, Ctrl, Shift, Command bool
}

// Event is a host input event. Kept for shape compatibility; always empty.
type Event any

// FrameInput is what the UI library sees at the start of a frame.
type FrameInput struct {
	ScreenRect     Rect
	PixelsPerPoint float32
	MaxTextureSide int
	Time           *float64
	PredictedDT    float32
	Modifiers      Modifiers
	Events         []Event
	HoveredFiles   []string
	DroppedFiles   []string
}

// NewFrameInput builds the display-only input for a viewport.
func NewFrameInput(screen Rect, pixelsPerPoint float32, maxTextureSide int) FrameInput {
	return FrameInput{
		ScreenRect:     screen,
		PixelsPerPoint: pixelsPerPoint,
		MaxTextureSide: maxTextureSide,
		PredictedDT:    1.0 / 60.0,
	}
}

// Shape is an untessellated drawing command.
type Shape interface{ isShape() }

// RectShape is a filled, axis-aligned rectangle.
type RectShape struct {
	Rect Rect
	Fill [4]uint8
}

// GlyphQuad is one positioned glyph and its atlas UV rectangle.
type GlyphQuad struct {
	Rect Rect
	UV   Rect
}

// TextShape is a run of glyphs sampled from the font texture.
type TextShape struct {
	Glyphs []GlyphQuad
	Color  [4]uint8
}

// ImageShape draws a rectangle textured with an arbitrary texture.
type ImageShape struct {
	Rect    Rect
	UV      Rect
	Texture TextureID
	Tint    [4]uint8
}

// CallbackShape requests backend-specific drawing.
type CallbackShape struct{ Name string }

func (RectShape) isShape()     {}
func (TextShape) isShape()     {}
func (ImageShape) isShape()    {}
func (CallbackShape) isShape() {}

type ClippedShape struct {
	ClipRect Rect
	Shape    Shape
}

// FullOutput is the result of one UI run.
type FullOutput struct {
	Shapes   []ClippedShape
	Textures TexturesDelta
}
