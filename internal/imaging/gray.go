package imaging

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Luminance weights applied by Grayscale.
const (
	lumaR = 0.3
	lumaG = 0.59
	lumaB = 0.11
)

// Luma returns the rounded luminance 0.3*R + 0.59*G + 0.11*B.
func Luma(r, g, b uint8) uint8 {
	y := math.Round(lumaR*float64(r) + lumaG*float64(g) + lumaB*float64(b))
	if y > 255 {
		return 255
	}
	return uint8(y)
}

// Grayscale converts a buffer to gray while keeping the RGB layout.
//
// Every output pixel is the triple (Y, Y, Y) where Y is the Luma of the
// input pixel, so the result still reads as RGB to callers that expect
// three channels. Gray buffers are expanded to RGB triples. The function is
// idempotent: Grayscale(Grayscale(b)) equals Grayscale(b).
//
// Rows are converted concurrently; each worker writes only its own rows.
func Grayscale(src *Buffer) *Buffer {
	out := newRGB(src.width, src.height)
	parallel.Line(src.height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < src.width; x++ {
				v := Luma(src.RGB(x, y))
				i := (y*src.width + x) * 3
				out.pix[i] = v
				out.pix[i+1] = v
				out.pix[i+2] = v
			}
		}
	})
	return out
}
