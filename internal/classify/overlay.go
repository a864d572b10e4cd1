package classify

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Overlay palette. Pixels inked in both vectors are drawn in BothInk,
// pixels inked only in the query in QueryInk and pixels inked only in the
// template in TemplateInk.
const (
	BothInk     = "#000000"
	QueryInk    = "#D62728"
	TemplateInk = "#1F77B4"
)

var (
	paper      = colorful.Color{R: 1, G: 1, B: 1}
	bothColor  = mustHex(BothInk)
	queryColor = mustHex(QueryInk)
	templColor = mustHex(TemplateInk)
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("bad palette color %q: %v", s, err))
	}
	return c
}

// Overlay draws a query on top of a template so the pixels that drive
// their distance stand out. Ink shared by both is black, query-only ink is
// red and template-only ink is blue, each blended in Lab space by its
// strength. The size x size result is upscaled by scale with
// nearest-neighbor sampling.
func Overlay(q, t Vector, size, scale int) (image.Image, error) {
	if len(q) != size*size || len(t) != size*size {
		return nil, fmt.Errorf("%w: overlay needs %d entries, got %d and %d", ErrDimensionMismatch, size*size, len(q), len(t))
	}
	if scale < 1 {
		scale = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			k := y*size + x
			both := min(q[k], t[k])
			c := paper.BlendLab(bothColor, both)
			c = c.BlendLab(queryColor, q[k]-both)
			c = c.BlendLab(templColor, t[k]-both)
			img.Set(x, y, c.Clamped())
		}
	}

	if scale == 1 {
		return img, nil
	}
	return imaging.Resize(img, size*scale, size*scale, imaging.NearestNeighbor), nil
}
