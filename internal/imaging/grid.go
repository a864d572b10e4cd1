package imaging

import (
	"fmt"
	"image"
	"image/draw"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultGridColor is the line color PixelGrid uses when none is given.
const DefaultGridColor = "#B0B0B0"

// MinGridCell is the smallest cell size a grid is drawn for. Below it the
// lines would cover most of each cell.
const MinGridCell = 4

// PixelGrid draws a one-pixel line between every cell x cell block of img.
//
// It is meant for images upscaled with nearest-neighbor sampling by a
// factor of cell, where each block is one source pixel: the grid makes the
// individual pixels of a 28x28 canvas countable.
//
// Parameters:
//   - img: The image to draw on. It is copied, not modified.
//   - cell: Block size in pixels. Values below MinGridCell return a plain
//     copy.
//   - hex: Line color as "#RRGGBB"; empty selects DefaultGridColor.
//
// Returns an error if hex is not a valid color.
func PixelGrid(img image.Image, cell int, hex string) (image.Image, error) {
	if hex == "" {
		hex = DefaultGridColor
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid grid color %q: %w", hex, err)
	}

	bounds := img.Bounds()
	result := image.NewNRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)
	if cell < MinGridCell {
		return result, nil
	}

	width, height := bounds.Dx(), bounds.Dy()
	line := c.Clamped()

	// Draw vertical lines
	for x := cell; x < width; x += cell {
		for y := 0; y < height; y++ {
			result.Set(bounds.Min.X+x, bounds.Min.Y+y, line)
		}
	}

	// Draw horizontal lines
	for y := cell; y < height; y += cell {
		for x := 0; x < width; x++ {
			result.Set(bounds.Min.X+x, bounds.Min.Y+y, line)
		}
	}

	return result, nil
}
