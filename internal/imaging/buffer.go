package imaging

import (
	"fmt"
	"image"
	"image/color"
)

// Format identifies the sample layout of a Buffer.
type Format int

const (
	// FormatRGB stores three 8-bit samples (R, G, B) per pixel.
	FormatRGB Format = iota
	// FormatGray stores a single 8-bit intensity per pixel.
	FormatGray
)

// Channels returns the number of samples stored per pixel.
func (f Format) Channels() int {
	if f == FormatGray {
		return 1
	}
	return 3
}

func (f Format) String() string {
	if f == FormatGray {
		return "gray"
	}
	return "rgb"
}

// Buffer is an immutable grid of 8-bit pixel samples stored row-major.
//
// Every transform in this package reads a Buffer and returns a new one; the
// sample slice is never shared between two Buffers. Buffer implements
// image.Image so it can be passed straight to encoders and resamplers.
//
// # Layout
//
// The sample for pixel (x, y) starts at index (y*Width + x) * Channels.
// For FormatRGB the three samples are R, G, B. For FormatGray the single
// sample is the intensity.
type Buffer struct {
	width  int
	height int
	format Format
	pix    []uint8
}

// NewBuffer creates a Buffer from a copy of pix.
//
// Parameters:
//   - width, height: Dimensions in pixels. Must not be negative.
//   - format: Sample layout of pix.
//   - pix: Row-major samples. Length must equal width*height*format.Channels().
//
// Returns an error if the dimensions are negative or the sample count does
// not match.
func NewBuffer(width, height int, format Format, pix []uint8) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid buffer dimensions %dx%d", width, height)
	}
	want := width * height * format.Channels()
	if len(pix) != want {
		return nil, fmt.Errorf("buffer %dx%d (%s) needs %d samples, got %d", width, height, format, want, len(pix))
	}
	owned := make([]uint8, len(pix))
	copy(owned, pix)
	return &Buffer{width: width, height: height, format: format, pix: owned}, nil
}

// Fill creates a width x height RGB Buffer where every pixel is (r, g, b).
func Fill(width, height int, r, g, b uint8) *Buffer {
	out := newRGB(width, height)
	for i := 0; i < len(out.pix); i += 3 {
		out.pix[i] = r
		out.pix[i+1] = g
		out.pix[i+2] = b
	}
	return out
}

// FromImage converts any image.Image into an RGB Buffer.
//
// Pixels are composited over white so transparent regions of a PNG read as
// background rather than ink. The result is anchored at (0,0) regardless of
// the source bounds.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	out := newRGB(bounds.Dx(), bounds.Dy())

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			// RGBA() is alpha-premultiplied, so adding the missing share of
			// white flattens the pixel onto a white background.
			bg := 0xffff - a
			out.pix[i] = uint8((r + bg) >> 8)
			out.pix[i+1] = uint8((g + bg) >> 8)
			out.pix[i+2] = uint8((b + bg) >> 8)
			i += 3
		}
	}
	return out
}

func newRGB(width, height int) *Buffer {
	return &Buffer{width: width, height: height, format: FormatRGB, pix: make([]uint8, width*height*3)}
}

// Width returns the width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Buffer) Height() int { return b.height }

// Format returns the sample layout.
func (b *Buffer) Format() Format { return b.format }

// Pix returns a copy of the row-major samples.
func (b *Buffer) Pix() []uint8 {
	out := make([]uint8, len(b.pix))
	copy(out, b.pix)
	return out
}

// RGB returns the color of pixel (x, y). Gray buffers report (v, v, v).
// Coordinates must lie inside the buffer.
func (b *Buffer) RGB(x, y int) (r, g, bl uint8) {
	if b.format == FormatGray {
		v := b.pix[y*b.width+x]
		return v, v, v
	}
	i := (y*b.width + x) * 3
	return b.pix[i], b.pix[i+1], b.pix[i+2]
}

// Intensity returns the single channel the binarizer, Sobel operator and
// vectorizer read: R for RGB buffers, the sample itself for gray ones.
func (b *Buffer) Intensity(x, y int) uint8 {
	return b.pix[(y*b.width+x)*b.format.Channels()]
}

// Equal reports whether two buffers have the same size and the same colors.
// Format is ignored, so a gray buffer equals its RGB expansion.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.width != o.width || b.height != o.height {
		return false
	}
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			r1, g1, b1 := b.RGB(x, y)
			r2, g2, b2 := o.RGB(x, y)
			if r1 != r2 || g1 != g2 || b1 != b2 {
				return false
			}
		}
	}
	return true
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model {
	if b.format == FormatGray {
		return color.GrayModel
	}
	return color.RGBAModel
}

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// At implements image.Image. Points outside the buffer are transparent.
func (b *Buffer) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return color.RGBA{}
	}
	if b.format == FormatGray {
		return color.Gray{Y: b.pix[y*b.width+x]}
	}
	r, g, bl := b.RGB(x, y)
	return color.RGBA{R: r, G: g, B: bl, A: 255}
}
