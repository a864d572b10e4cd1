package imaging

import (
	"github.com/disintegration/imaging"
)

// Resize resamples a buffer to exactly width x height pixels.
//
// Each output pixel is a Catmull-Rom (bicubic) blend of the 4x4 source
// neighborhood around its back-projected position, for upscaling and
// downscaling alike. The aspect ratio is not preserved.
//
// Non-positive target dimensions return an empty 0x0 buffer. An empty
// source returns a white canvas of the target size.
func Resize(src *Buffer, width, height int) *Buffer {
	if width <= 0 || height <= 0 {
		return newRGB(0, 0)
	}
	if src.width == 0 || src.height == 0 {
		return Fill(width, height, 255, 255, 255)
	}
	return FromImage(imaging.Resize(src, width, height, imaging.CatmullRom))
}
