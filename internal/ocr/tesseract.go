package ocr

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	pix "github.com/ironsheep/digit-match-mcp/internal/imaging"
)

// DigitWhitelist restricts Tesseract to the ten decimal digits.
const DigitWhitelist = "0123456789"

// MinGlyphHeight is the height small inputs are upscaled to before OCR.
// Tesseract needs glyphs of roughly 20-30 pixels x-height to read reliably,
// and a 28x28 canvas is below that.
const MinGlyphHeight = 112

// DigitReading is Tesseract's reading of a single-digit image.
type DigitReading struct {
	// Text is the raw recognized text with surrounding whitespace trimmed.
	Text string `json:"text"`

	// Digit is the recognized digit, or -1 if Text is not a single digit.
	Digit int `json:"digit"`

	// Confidence is Tesseract's symbol confidence (0.0 to 1.0).
	// Zero when no symbol was found.
	Confidence float64 `json:"confidence"`
}

// ReadDigit runs Tesseract on an image expected to hold one digit.
//
// This is an independent second opinion next to template matching: it
// shares no code with the classifier, so agreement between the two is a
// useful sanity signal.
//
// Parameters:
//   - img: The image to read. Any size; small images are upscaled.
//   - language: Tesseract language code, "eng" when empty.
//
// Returns:
//   - *DigitReading: The recognized digit and confidence.
//   - error: Non-nil if Tesseract cannot be initialized or fails.
//
// # Implementation Details
//
// The image is upscaled to at least MinGlyphHeight pixels tall, padded
// with a white margin, encoded to PNG in memory and passed to Tesseract in
// single-character page segmentation mode with a digit whitelist.
func ReadDigit(img image.Image, language string) (*DigitReading, error) {
	if language == "" {
		language = "eng"
	}

	data, err := pix.EncodePNG(prepare(img))
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetWhitelist(DigitWhitelist); err != nil {
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_CHAR); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	reading := &DigitReading{Text: strings.TrimSpace(text), Digit: -1}
	if d, err := strconv.Atoi(reading.Text); err == nil && len(reading.Text) == 1 {
		reading.Digit = d
	}

	// Confidence is best effort; the text alone is still a valid reading.
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_SYMBOL)
	if err == nil {
		for _, box := range boxes {
			if strings.TrimSpace(box.Word) == "" {
				continue
			}
			reading.Confidence = box.Confidence / 100.0
			break
		}
	}

	return reading, nil
}

// prepare upscales img to MinGlyphHeight and adds a quarter-height white
// margin on every side.
func prepare(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dy() < MinGlyphHeight && b.Dy() > 0 {
		img = imaging.Resize(img, 0, MinGlyphHeight, imaging.CatmullRom)
		b = img.Bounds()
	}
	margin := b.Dy() / 4
	canvas := imaging.New(b.Dx()+2*margin, b.Dy()+2*margin, color.White)
	return imaging.PasteCenter(canvas, img)
}

// Info contains information about the OCR subsystem.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Backend   string `json:"backend"`
}

// GetInfo reports the linked Tesseract version.
func GetInfo() Info {
	client := gosseract.NewClient()
	defer client.Close()

	version := client.Version()
	return Info{
		Available: version != "",
		Version:   version,
		Backend:   "gosseract",
	}
}
