package imaging

import (
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/parallel"
)

// Level is a binarization cutoff in [0,255].
type Level uint8

// DefaultLevel is used whenever a requested level is missing, zero or unparsable.
const DefaultLevel Level = 128

// TemplateLevel is the fixed cutoff used for digit templates and for
// prediction queries, independent of the user's threshold choice.
const TemplateLevel Level = 150

// LevelChoices are the cutoffs offered to interactive callers, default first.
var LevelChoices = []Level{128, 100, 150, 180, 200}

// NormalizeLevel applies the threshold input policy to an integer:
// zero becomes DefaultLevel and everything else is clamped to [0,255].
func NormalizeLevel(v int) Level {
	if v == 0 {
		return DefaultLevel
	}
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return Level(v)
}

// ParseLevel parses a threshold from user input. Unparsable text falls back
// to DefaultLevel; numbers go through NormalizeLevel.
func ParseLevel(s string) Level {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultLevel
	}
	return NormalizeLevel(v)
}

// IsChoice reports whether l is one of LevelChoices.
func IsChoice(l Level) bool {
	for _, c := range LevelChoices {
		if c == l {
			return true
		}
	}
	return false
}

// Threshold binarizes a buffer.
//
// The input is converted with Grayscale first, then each pixel whose
// intensity is below level becomes pure black (0,0,0) and every other pixel
// becomes pure white (255,255,255). The output therefore holds at most two
// distinct colors. A level of 0 produces an all-white image.
func Threshold(src *Buffer, level Level) *Buffer {
	gray := Grayscale(src)
	out := newRGB(gray.width, gray.height)
	parallel.Line(gray.height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < gray.width; x++ {
				var v uint8 = 255
				if gray.Intensity(x, y) < uint8(level) {
					v = 0
				}
				i := (y*gray.width + x) * 3
				out.pix[i] = v
				out.pix[i+1] = v
				out.pix[i+2] = v
			}
		}
	})
	return out
}
