package glyph

import (
	"fmt"
	"image"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	pix "github.com/ironsheep/digit-match-mcp/internal/imaging"
)

// OpenTypeSizeRatio is the font size in pixels relative to the canvas width.
const OpenTypeSizeRatio = 0.9

// OpenType renders digits with the embedded Go Bold typeface.
//
// The font size is OpenTypeSizeRatio times the canvas width and the glyph
// is centered by its measured ink bounds, so the result does not depend on
// any system font installation.
type OpenType struct {
	font *opentype.Font
}

// NewOpenType parses the embedded Go Bold font.
func NewOpenType() (*OpenType, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go Bold: %w", err)
	}
	return &OpenType{font: f}, nil
}

// Name implements Renderer.
func (r *OpenType) Name() string { return "opentype" }

// Render implements Renderer.
func (r *OpenType) Render(digit, width, height int) (*pix.Buffer, error) {
	if err := checkArgs(digit, width, height); err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    float64(width) * OpenTypeSizeRatio,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}
	defer face.Close()

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	s := strconv.Itoa(digit)
	bounds, _ := font.BoundString(face, s)
	inkW := bounds.Max.X - bounds.Min.X
	inkH := bounds.Max.Y - bounds.Min.Y

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.Black,
		Face: face,
		Dot: fixed.Point26_6{
			X: (fixed.I(width)-inkW)/2 - bounds.Min.X,
			Y: (fixed.I(height)-inkH)/2 - bounds.Min.Y,
		},
	}
	d.DrawString(s)

	return pix.FromImage(canvas), nil
}
