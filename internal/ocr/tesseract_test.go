package ocr

import (
	"image"
	"strings"
	"testing"

	"github.com/ironsheep/digit-match-mcp/internal/glyph"
	pix "github.com/ironsheep/digit-match-mcp/internal/imaging"
)

// skipIfUnavailable skips tests that need a working Tesseract install.
func skipIfUnavailable(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		return
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "tesseract") ||
		strings.Contains(msg, "library") ||
		strings.Contains(msg, "language") {
		t.Skip("Tesseract not available")
	}
}

func renderDigit(t *testing.T, digit, size int) *pix.Buffer {
	t.Helper()
	r, err := glyph.NewOpenType()
	if err != nil {
		t.Fatalf("NewOpenType failed: %v", err)
	}
	b, err := r.Render(digit, size, size)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return b
}

func TestPrepare_Upscales(t *testing.T) {
	src := pix.Fill(28, 28, 0, 0, 0)

	out := prepare(src)
	b := out.Bounds()
	// 112 tall plus a 28px margin on each side.
	if b.Dx() != 168 || b.Dy() != 168 {
		t.Fatalf("got %dx%d, want 168x168", b.Dx(), b.Dy())
	}

	r, g, bl, _ := out.At(5, 5).RGBA()
	if r != 0xffff || g != 0xffff || bl != 0xffff {
		t.Error("margin should be white")
	}
	r, _, _, _ = out.At(84, 84).RGBA()
	if r > 0x1000 {
		t.Error("center should stay black")
	}
}

func TestPrepare_LargeImageKeepsSize(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 100, 200))
	for i := range src.Pix {
		src.Pix[i] = 255
	}

	b := prepare(src).Bounds()
	if b.Dx() != 200 || b.Dy() != 300 {
		t.Errorf("got %dx%d, want 200x300", b.Dx(), b.Dy())
	}
}

func TestReadDigit(t *testing.T) {
	for _, d := range []int{0, 1, 4, 7} {
		t.Run(string(rune('0'+d)), func(t *testing.T) {
			reading, err := ReadDigit(renderDigit(t, d, 28), "")
			skipIfUnavailable(t, err)
			if err != nil {
				t.Fatalf("ReadDigit failed: %v", err)
			}

			t.Logf("digit %d: text %q confidence %.2f", d, reading.Text, reading.Confidence)
			if reading.Digit != -1 && (reading.Digit < 0 || reading.Digit > 9) {
				t.Errorf("Digit out of range: %d", reading.Digit)
			}
			if reading.Confidence < 0 || reading.Confidence > 1 {
				t.Errorf("Confidence out of range: %v", reading.Confidence)
			}
			if strings.Trim(reading.Text, DigitWhitelist) != "" {
				t.Errorf("text %q contains non-digits", reading.Text)
			}
		})
	}
}

func TestReadDigit_BlankImage(t *testing.T) {
	reading, err := ReadDigit(pix.Fill(28, 28, 255, 255, 255), "eng")
	skipIfUnavailable(t, err)
	if err != nil {
		t.Fatalf("ReadDigit failed: %v", err)
	}
	if reading.Text == "" && reading.Digit != -1 {
		t.Errorf("empty text should give Digit -1, got %d", reading.Digit)
	}
}

func TestReadDigit_InvalidLanguage(t *testing.T) {
	_, err := ReadDigit(renderDigit(t, 3, 28), "not-a-language")
	if err == nil {
		t.Error("expected error for unknown language")
	}
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.Backend != "gosseract" {
		t.Errorf("Backend: got %s", info.Backend)
	}
	if info.Available && info.Version == "" {
		t.Error("Available without a version")
	}
	t.Logf("Tesseract: %+v", info)
}
