// Package imaging provides the pixel-level transforms of the digit pipeline.
//
// All operations work on Buffer, an immutable row-major grid of 8-bit
// samples that also satisfies image.Image. Transforms never modify their
// input; each returns a freshly allocated Buffer.
//
// # Transforms
//
//   - Grayscale: luminance 0.3*R + 0.59*G + 0.11*B written to all three channels
//   - Threshold: black below the cutoff, white at or above it
//   - Resize: Catmull-Rom resampling to an exact target size
//   - Sobel / EdgeDetect: 3x3 gradient magnitude, border left black
//
// # Coordinate System
//
// (0,0) is the top-left pixel, X grows rightward and Y grows downward.
// Buffers are always anchored at the origin.
//
// # Thread Safety
//
// Buffers are read-only after construction and may be shared freely.
// Grayscale, Threshold and Sobel split their rows across goroutines
// internally. The ImageCache type is safe for concurrent use.
//
// # Error Handling
//
// The transforms are total over well-formed buffers and return no errors.
// Loading returns an error wrapping ErrDecode for undecodable files, and
// encoding errors are returned by Snapshot and Save.
package imaging
