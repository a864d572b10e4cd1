// Package pipeline holds the interactive "current image" workflow.
//
// A Session owns one current image and a read-only template bank. Load
// replaces the current image; Grayscale, Threshold, EdgeDetect, Resize and
// the Crop family replace it with their transform; Predict reads it
// without changing it. Every operation except Load fails with ErrNoImage
// until an image has been loaded. A failed transform leaves the current
// image as it was.
package pipeline

import (
	"errors"
	"sync"

	"github.com/ironsheep/digit-match-mcp/internal/classify"
	"github.com/ironsheep/digit-match-mcp/internal/imaging"
)

// ErrNoImage is returned by operations that need a loaded image.
var ErrNoImage = errors.New("no image loaded")

// Session is the explicit replacement for a process-wide current image.
// It is safe for concurrent use.
type Session struct {
	bank  *classify.Bank
	cache *imaging.ImageCache

	mu      sync.RWMutex
	current *imaging.Buffer
	source  string
	steps   []string
}

// Status describes the current image.
type Status struct {
	Loaded bool     `json:"loaded"`
	Source string   `json:"source,omitempty"`
	Width  int      `json:"width,omitempty"`
	Height int      `json:"height,omitempty"`
	Steps  []string `json:"steps,omitempty"`
}

// NewSession creates an empty session around a template bank. A nil cache
// gets a private one.
func NewSession(bank *classify.Bank, cache *imaging.ImageCache) *Session {
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	return &Session{bank: bank, cache: cache}
}

// Bank returns the session's template bank.
func (s *Session) Bank() *classify.Bank { return s.bank }

// MaxCachedImages bounds the decoded-image cache. Reaching it empties the
// cache before the next load.
const MaxCachedImages = 32

// Load decodes path and makes it the current image. Files are cached by
// path; reload forces a fresh decode for a file that changed on disk. On
// failure the current image is left untouched.
func (s *Session) Load(path string, reload bool) (*imaging.ImageInfo, error) {
	if reload {
		s.cache.Evict(path)
	}
	if s.cache.Len() >= MaxCachedImages {
		s.cache.Clear()
	}
	b, info, err := imaging.LoadImageInfo(s.cache, path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = b
	s.source = path
	s.steps = nil
	s.mu.Unlock()
	return info, nil
}

// Set makes an already decoded buffer the current image.
func (s *Session) Set(b *imaging.Buffer, source string) {
	s.mu.Lock()
	s.current = b
	s.source = source
	s.steps = nil
	s.mu.Unlock()
}

// Current returns the current image or ErrNoImage.
func (s *Session) Current() (*imaging.Buffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoImage
	}
	return s.current, nil
}

// Status reports what is loaded and which transforms have been applied.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Status{}
	}
	return Status{
		Loaded: true,
		Source: s.source,
		Width:  s.current.Width(),
		Height: s.current.Height(),
		Steps:  append([]string(nil), s.steps...),
	}
}

// Grayscale replaces the current image with its gray version.
func (s *Session) Grayscale() (*Applied, error) {
	return s.apply("grayscale", pure(imaging.Grayscale))
}

// Threshold replaces the current image with its binarization at level.
func (s *Session) Threshold(level imaging.Level) (*Applied, error) {
	return s.apply("threshold", pure(func(b *imaging.Buffer) *imaging.Buffer {
		return imaging.Threshold(b, level)
	}))
}

// EdgeDetect replaces the current image with its Sobel magnitude.
func (s *Session) EdgeDetect() (*Applied, error) {
	return s.apply("sobel", pure(imaging.EdgeDetect))
}

// Resize replaces the current image with a copy resampled to the bank's
// template size.
func (s *Session) Resize() (*Applied, error) {
	size := s.bank.Size()
	return s.apply("resize", pure(func(b *imaging.Buffer) *imaging.Buffer {
		return imaging.Resize(b, size, size)
	}))
}

// Crop replaces the current image with the rectangle (x1,y1)-(x2,y2).
func (s *Session) Crop(x1, y1, x2, y2 int) (*Applied, error) {
	return s.apply("crop", func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.Crop(b, x1, y1, x2, y2)
	})
}

// CropRegion replaces the current image with a named region of it.
func (s *Session) CropRegion(region string) (*Applied, error) {
	return s.apply("crop:"+region, func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.CropRegion(b, region)
	})
}

// CropToInk replaces the current image with its ink bounds at
// imaging.TemplateLevel plus margin pixels.
func (s *Session) CropToInk(margin int) (*Applied, error) {
	return s.apply("crop:ink", func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.CropToInk(b, imaging.TemplateLevel, margin)
	})
}

// Predict classifies the current image without modifying it.
func (s *Session) Predict() (*classify.Prediction, error) {
	b, err := s.Current()
	if err != nil {
		return nil, err
	}
	return s.bank.Predict(b)
}

// Query returns the vector Predict would classify.
func (s *Session) Query() (classify.Vector, error) {
	b, err := s.Current()
	if err != nil {
		return nil, err
	}
	return s.bank.Query(b), nil
}

// Applied is the session state right after one transform: the new current
// image and the steps that produced it.
type Applied struct {
	Image *imaging.Buffer
	Steps []string
}

func (s *Session) apply(step string, fn func(*imaging.Buffer) (*imaging.Buffer, error)) (*Applied, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNoImage
	}
	out, err := fn(s.current)
	if err != nil {
		return nil, err
	}
	s.current = out
	s.steps = append(s.steps, step)
	return &Applied{Image: out, Steps: append([]string(nil), s.steps...)}, nil
}

func pure(fn func(*imaging.Buffer) *imaging.Buffer) func(*imaging.Buffer) (*imaging.Buffer, error) {
	return func(b *imaging.Buffer) (*imaging.Buffer, error) { return fn(b), nil }
}
