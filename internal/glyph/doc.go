// Package glyph rasterizes the digits 0-9 for the template bank.
//
// Three Renderer implementations are provided:
//
//   - OpenType: the embedded Go Bold typeface (golang.org/x/image), sized
//     to 0.9 of the canvas width and centered by ink bounds. Default.
//   - TinyFont: FreeSans Bold 24pt from tinyfont, cropped to ink and
//     rescaled to the canvas.
//   - Bitmap: a 3x5 block font scaled by whole pixels.
//
// Classification accuracy on real images depends entirely on how closely the
// chosen rasterizer's glyph shapes match the input handwriting or print.
// None of the renderers is tuned for that; they only guarantee a centered,
// bold, black-on-white digit.
package glyph
