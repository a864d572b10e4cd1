package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ErrDecode is wrapped by every error caused by undecodable image data.
var ErrDecode = errors.New("failed to decode image")

// ImageCache provides thread-safe caching of decoded images keyed by path.
//
// Cached values are immutable Buffers, so the same Buffer can be handed to
// any number of callers without copying.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear().
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*Buffer
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*Buffer),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Parameters:
//   - path: File path to a PNG, JPEG, GIF, BMP or TIFF image.
//
// Returns:
//   - *Buffer: The decoded image as an RGB buffer, transparency flattened
//     over white.
//   - error: Non-nil if the file cannot be opened, or an error wrapping
//     ErrDecode if its contents are not a supported image.
//
// A failed load leaves the cache unchanged.
func (c *ImageCache) Load(path string) (*Buffer, error) {
	c.mu.RLock()
	if b, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return b, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	b, err := Decode(f)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = b
	c.mu.Unlock()

	return b, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*Buffer)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Decode reads an encoded image and converts it into a Buffer.
// EXIF orientation of JPEG files is applied.
func Decode(r io.Reader) (*Buffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return FromImage(img), nil
}

// DecodeBytes is Decode over an in-memory payload.
func DecodeBytes(data []byte) (*Buffer, error) {
	return Decode(bytes.NewReader(data))
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Path is the file the image was loaded from.
	Path string `json:"path"`

	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is derived from the file extension: "png", "jpeg", "gif",
	// "bmp", "tiff" or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*Buffer, *ImageInfo, error) {
	b, err := cache.Load(path)
	if err != nil {
		return nil, nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return b, &ImageInfo{
		Path:          path,
		Width:         b.Width(),
		Height:        b.Height(),
		Format:        FormatFromPath(path),
		FileSizeBytes: stat.Size(),
	}, nil
}

// FormatFromPath maps a file extension to a format name.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	}
	return "unknown"
}

// IsSupportedPath reports whether the extension names a decodable format.
func IsSupportedPath(path string) bool {
	return FormatFromPath(path) != "unknown"
}
