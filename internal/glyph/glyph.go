package glyph

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"

	pix "github.com/ironsheep/digit-match-mcp/internal/imaging"
)

// ErrDigit is returned when a renderer is asked for something other than 0-9.
var ErrDigit = errors.New("digit out of range 0-9")

// Renderer rasterizes a single decimal digit.
//
// Implementations draw the digit in black, centered on a white canvas of
// exactly width x height pixels, filling most of it.
type Renderer interface {
	Name() string
	Render(digit, width, height int) (*pix.Buffer, error)
}

// Names lists the renderers accepted by ByName, default first.
var Names = []string{"opentype", "tinyfont", "bitmap"}

// ByName returns the renderer registered under name. An empty name selects
// the default OpenType renderer.
func ByName(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "opentype":
		return NewOpenType()
	case "tinyfont":
		return NewTinyFont(), nil
	case "bitmap":
		return NewBitmap(), nil
	}
	return nil, fmt.Errorf("unknown glyph renderer %q (want one of %s)", name, strings.Join(Names, ", "))
}

func checkArgs(digit, width, height int) error {
	if digit < 0 || digit > 9 {
		return fmt.Errorf("%w: %d", ErrDigit, digit)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	return nil
}

// inkBounds returns the smallest rectangle containing every non-white pixel.
func inkBounds(img image.Image) (image.Rectangle, bool) {
	b := img.Bounds()
	box := image.Rectangle{}
	found := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r == 0xffff && g == 0xffff && bl == 0xffff {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !found {
				box = px
				found = true
			} else {
				box = box.Union(px)
			}
		}
	}
	return box, found
}

// fitCentered scales the inked part of src so its height is fill*height
// (narrowed further if it would overflow the width) and pastes it centered
// on a white width x height canvas.
func fitCentered(src image.Image, width, height int, fill float64) (*pix.Buffer, error) {
	box, ok := inkBounds(src)
	if !ok {
		return nil, errors.New("glyph rendered no ink")
	}
	glyph := imaging.Crop(src, box)

	maxW := int(float64(width) * fill)
	maxH := int(float64(height) * fill)
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	scaled := imaging.Resize(glyph, 0, maxH, imaging.CatmullRom)
	if scaled.Bounds().Dx() > maxW {
		scaled = imaging.Resize(glyph, maxW, 0, imaging.CatmullRom)
	}

	canvas := imaging.New(width, height, color.White)
	return pix.FromImage(imaging.PasteCenter(canvas, scaled)), nil
}
