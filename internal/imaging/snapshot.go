package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// MaxSnapshotScale bounds the upscale factor accepted by Snapshot.
const MaxSnapshotScale = 32

// SnapshotResult contains a buffer encoded for display.
type SnapshotResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Scale       int    `json:"scale"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Snapshot encodes a buffer as base64 PNG, upscaled by an integer factor
// with nearest-neighbor sampling so single pixels stay crisp.
// A scale below 1 is treated as 1.
func Snapshot(b *Buffer, scale int) (*SnapshotResult, error) {
	return SnapshotGrid(b, scale, false)
}

// SnapshotGrid is Snapshot with an optional PixelGrid outlining every
// source pixel.
func SnapshotGrid(b *Buffer, scale int, grid bool) (*SnapshotResult, error) {
	if scale < 1 {
		scale = 1
	}
	if scale > MaxSnapshotScale {
		return nil, fmt.Errorf("scale %d exceeds maximum %d", scale, MaxSnapshotScale)
	}
	img := upscale(b, scale)
	if grid {
		var err error
		if img, err = PixelGrid(img, scale, ""); err != nil {
			return nil, err
		}
	}
	return EncodeImage(img, scale)
}

// EncodeImage encodes any image as a base64 PNG SnapshotResult.
func EncodeImage(img image.Image, scale int) (*SnapshotResult, error) {
	png, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return &SnapshotResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		Scale:       scale,
		ImageBase64: base64.StdEncoding.EncodeToString(png),
		MimeType:    "image/png",
	}, nil
}

// EncodePNG returns the PNG encoding of img.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes a buffer to path; the format follows the file extension.
func Save(b *Buffer, path string) error {
	if err := imaging.Save(b, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

func upscale(b *Buffer, scale int) image.Image {
	if scale == 1 || b.width == 0 || b.height == 0 {
		return b
	}
	return imaging.Resize(b, b.width*scale, b.height*scale, imaging.NearestNeighbor)
}
