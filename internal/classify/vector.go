package classify

import (
	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/digit-match-mcp/internal/imaging"
)

// Vector is a flattened ink-density image: 1.0 is fully inked, 0.0 is
// background.
type Vector []float64

// Vectorize flattens a buffer row by row into a Vector.
//
// Entry y*W+x is (255 - I) / 255 where I is the intensity of pixel (x, y).
// Templates and queries must both come from this function: the row-major
// order is what lines up pixel k of a query with pixel k of a template.
func Vectorize(b *imaging.Buffer) Vector {
	w, h := b.Width(), b.Height()
	v := make(Vector, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v[y*w+x] = float64(255-b.Intensity(x, y)) / 255
		}
	}
	return v
}

// Ink returns the sum of all entries, i.e. the number of inked pixels for a
// binarized source.
func (v Vector) Ink() float64 {
	return floats.Sum(v)
}
