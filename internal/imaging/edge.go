package imaging

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

var (
	sobelX = [3][3]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]int{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// Sobel computes the gradient magnitude of a gray buffer.
//
// Parameters:
//   - src: Buffer whose intensity channel (R, or the gray sample) is read.
//     Feed it the output of Grayscale for color input.
//
// Returns a new RGB buffer of the same size.
//
// # Algorithm
//
// For every interior pixel (1 <= x < W-1, 1 <= y < H-1) the 3x3
// neighborhood is convolved with the Sobel kernels
//
//	Gx = [-1 0 1; -2 0 2; -1 0 1]
//	Gy = [-1 -2 -1; 0 0 0; 1 2 1]
//
// and the output pixel is (m, m, m) with m = min(255, round(sqrt(Gx²+Gy²))).
//
// # Borders
//
// The first and last row and column are not computed and stay 0 (black).
// Buffers smaller than 3x3 have no interior and come back all black.
//
// Rows are computed concurrently. Workers only read src and each writes a
// disjoint range of output rows.
func Sobel(src *Buffer) *Buffer {
	w, h := src.width, src.height
	out := newRGB(w, h)
	if w < 3 || h < 3 {
		return out
	}

	parallel.Line(h-2, func(start, end int) {
		for y := start + 1; y < end+1; y++ {
			for x := 1; x < w-1; x++ {
				var gx, gy int
				for ky := -1; ky <= 1; ky++ {
					for kx := -1; kx <= 1; kx++ {
						v := int(src.Intensity(x+kx, y+ky))
						gx += sobelX[ky+1][kx+1] * v
						gy += sobelY[ky+1][kx+1] * v
					}
				}
				m := uint8(255)
				if mag := math.Round(math.Sqrt(float64(gx*gx + gy*gy))); mag < 255 {
					m = uint8(mag)
				}
				i := (y*w + x) * 3
				out.pix[i] = m
				out.pix[i+1] = m
				out.pix[i+2] = m
			}
		}
	})
	return out
}

// EdgeDetect converts a buffer to gray and returns its Sobel magnitude.
func EdgeDetect(src *Buffer) *Buffer {
	return Sobel(Grayscale(src))
}
