package glyph

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"

	pix "github.com/ironsheep/digit-match-mcp/internal/imaging"
)

// TinyFontFill is the share of the canvas height the glyph is scaled to.
const TinyFontFill = 0.85

const (
	scratchSize     = 96
	scratchBaseline = 72
	scratchLeft     = 16
)

// TinyFont renders digits with tinyfont's FreeSans Bold 24pt bitmap font.
//
// The glyph is drawn on a scratch framebuffer, cropped to its ink and
// rescaled to the requested canvas.
type TinyFont struct {
	font tinyfont.Fonter
}

// NewTinyFont returns a renderer using FreeSans Bold 24pt.
func NewTinyFont() *TinyFont {
	return &TinyFont{font: &freesans.Bold24pt7b}
}

// Name implements Renderer.
func (r *TinyFont) Name() string { return "tinyfont" }

// Render implements Renderer.
func (r *TinyFont) Render(digit, width, height int) (*pix.Buffer, error) {
	if err := checkArgs(digit, width, height); err != nil {
		return nil, err
	}

	fb := newFrame(scratchSize, scratchSize)
	tinyfont.WriteLine(fb, r.font, scratchLeft, scratchBaseline, strconv.Itoa(digit), color.RGBA{A: 255})

	return fitCentered(fb.img, width, height, TinyFontFill)
}

// frame adapts an *image.RGBA to tinyfont's display interface.
type frame struct {
	img *image.RGBA
}

func newFrame(w, h int) *frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return &frame{img: img}
}

func (f *frame) Size() (x, y int16) {
	b := f.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (f *frame) SetPixel(x, y int16, c color.RGBA) {
	f.img.SetRGBA(int(x), int(y), c)
}

func (f *frame) Display() error { return nil }
