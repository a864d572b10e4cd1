package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrNoInk is returned by CropToInk when no pixel is darker than the level.
var ErrNoInk = errors.New("image has no ink")

// Regions lists the names accepted by CropRegion.
var Regions = []string{
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

// Crop extracts the rectangle (x1,y1)-(x2,y2) of a buffer. x2 and y2 are
// exclusive.
//
// Returns an error if the rectangle is empty or reaches outside the buffer.
func Crop(b *Buffer, x1, y1, x2, y2 int) (*Buffer, error) {
	if x1 < 0 || y1 < 0 || x2 > b.width || y2 > b.height {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			x1, y1, x2, y2, b.width, b.height)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	return FromImage(imaging.Crop(b, image.Rect(x1, y1, x2, y2))), nil
}

// CropRegion extracts a named part of a buffer, useful when a scan holds
// the digit in a known corner. See Regions for the accepted names;
// "center" is the middle 50% in both directions.
func CropRegion(b *Buffer, region string) (*Buffer, error) {
	w, h := b.width, b.height
	midX, midY := w/2, h/2

	var x1, y1, x2, y2 int
	switch region {
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		qW, qH := w/4, h/4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return nil, fmt.Errorf("unknown region: %s", region)
	}

	return Crop(b, x1, y1, x2, y2)
}

// InkBounds returns the smallest rectangle holding every pixel whose luma
// is below level. ok is false when there is no such pixel.
func InkBounds(b *Buffer, level Level) (box image.Rectangle, ok bool) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if Luma(b.RGB(x, y)) >= uint8(level) {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !ok {
				box, ok = px, true
			} else {
				box = box.Union(px)
			}
		}
	}
	return box, ok
}

// CropToInk crops a buffer to its ink bounds at level, grown by margin
// pixels on every side and clipped to the buffer.
//
// Returns ErrNoInk if nothing is darker than level.
func CropToInk(b *Buffer, level Level, margin int) (*Buffer, error) {
	box, ok := InkBounds(b, level)
	if !ok {
		return nil, ErrNoInk
	}
	box = box.Inset(-margin).Intersect(image.Rect(0, 0, b.width, b.height))
	return Crop(b, box.Min.X, box.Min.Y, box.Max.X, box.Max.Y)
}
