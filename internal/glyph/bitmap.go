package glyph

import (
	pix "github.com/ironsheep/digit-match-mcp/internal/imaging"
)

// bitmapDigits is a 3x5 block font for the digits 0-9.
var bitmapDigits = [10][5]string{
	{"111", "101", "101", "101", "111"},
	{"010", "110", "010", "010", "111"},
	{"111", "001", "111", "100", "111"},
	{"111", "001", "111", "001", "111"},
	{"101", "101", "111", "001", "001"},
	{"111", "100", "111", "001", "111"},
	{"111", "100", "111", "101", "111"},
	{"111", "001", "001", "001", "001"},
	{"111", "101", "111", "101", "111"},
	{"111", "101", "111", "001", "111"},
}

// BitmapFill is the share of the canvas the block glyph may occupy.
const BitmapFill = 0.9

// Bitmap renders digits from a built-in 3x5 block font scaled by whole
// pixels. It needs no font data and its output is exact, which makes it
// the reference rasterizer for tests.
type Bitmap struct{}

// NewBitmap returns the block-font renderer.
func NewBitmap() *Bitmap { return &Bitmap{} }

// Name implements Renderer.
func (Bitmap) Name() string { return "bitmap" }

// Render implements Renderer.
func (Bitmap) Render(digit, width, height int) (*pix.Buffer, error) {
	if err := checkArgs(digit, width, height); err != nil {
		return nil, err
	}

	cell := min(int(float64(width)*BitmapFill)/3, int(float64(height)*BitmapFill)/5)
	if cell < 1 {
		cell = 1
	}
	offX := (width - 3*cell) / 2
	offY := (height - 5*cell) / 2

	samples := make([]uint8, width*height*3)
	for i := range samples {
		samples[i] = 255
	}
	for row, line := range bitmapDigits[digit] {
		for col, bit := range line {
			if bit != '1' {
				continue
			}
			for dy := 0; dy < cell; dy++ {
				for dx := 0; dx < cell; dx++ {
					x, y := offX+col*cell+dx, offY+row*cell+dy
					if x < 0 || y < 0 || x >= width || y >= height {
						continue
					}
					i := (y*width + x) * 3
					samples[i], samples[i+1], samples[i+2] = 0, 0, 0
				}
			}
		}
	}
	return pix.NewBuffer(width, height, pix.FormatRGB, samples)
}
