package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/hubastard/grove-overlay/engine/paint"
)

// LoadPNG reads a PNG file into a tightly packed, premultiplied RGBA8 image
// (row-major, top-left origin).
func LoadPNG(path string) (paint.ColorImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return paint.ColorImage{}, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	img, err := DecodePNG(f)
	if err != nil {
		return paint.ColorImage{}, fmt.Errorf("decode png %q: %w", path, err)
	}
	return img, nil
}

func DecodePNG(r io.Reader) (paint.ColorImage, error) {
	img, err := png.Decode(r)
	if err != nil {
		return paint.ColorImage{}, err
	}

	// image.RGBA is premultiplied, which is what the painter blends with.
	rgbaImg := imageToRGBA(img)
	w, h := rgbaImg.Bounds().Dx(), rgbaImg.Bounds().Dy()

	// Repack in tight rows (stride == 4*w)
	out := make([]byte, w*h*4)
	src := rgbaImg.Pix
	srcStride := rgbaImg.Stride
	for y := 0; y < h; y++ {
		copy(out[y*w*4:(y+1)*w*4], src[y*srcStride:y*srcStride+w*4])
	}

	return paint.ColorImage{Width: w, Height: h, Pixels: out}, nil
}

// EncodePNG is the inverse of DecodePNG for opaque or premultiplied data.
func EncodePNG(img paint.ColorImage) ([]byte, error) {
	rgba := &image.RGBA{
		Pix:    img.Pixels,
		Stride: img.Width * 4,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func imageToRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Stride == m.Rect.Dx()*4 && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
