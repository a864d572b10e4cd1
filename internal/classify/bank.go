package classify

import (
	"fmt"

	"github.com/ironsheep/digit-match-mcp/internal/glyph"
	"github.com/ironsheep/digit-match-mcp/internal/imaging"
)

// Digits is the number of templates in a Bank, one per decimal digit.
const Digits = 10

// DefaultSize is the canvas edge length used for templates and queries.
const DefaultSize = 28

// Bank holds one reference Vector per digit.
//
// A Bank is built once and never modified afterwards, so it can be shared
// by any number of goroutines without locking.
type Bank struct {
	size      int
	renderer  string
	templates [Digits]Vector
}

// NewBank renders every digit with r on a size x size canvas, binarizes it
// at imaging.TemplateLevel and vectorizes it.
//
// Returns an error if size is not positive or the renderer fails for any
// digit.
func NewBank(r glyph.Renderer, size int) (*Bank, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid template size %d", size)
	}
	b := &Bank{size: size, renderer: r.Name()}
	for d := 0; d < Digits; d++ {
		img, err := r.Render(d, size, size)
		if err != nil {
			return nil, fmt.Errorf("failed to render digit %d: %w", d, err)
		}
		b.templates[d] = Vectorize(imaging.Threshold(img, imaging.TemplateLevel))
	}
	return b, nil
}

// BankFromVectors builds a Bank from precomputed templates.
//
// Exactly Digits vectors of length size*size are required. The vectors
// are copied.
func BankFromVectors(size int, vectors []Vector) (*Bank, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid template size %d", size)
	}
	if len(vectors) != Digits {
		return nil, fmt.Errorf("need %d templates, got %d", Digits, len(vectors))
	}
	b := &Bank{size: size, renderer: "custom"}
	for d, v := range vectors {
		if len(v) != size*size {
			return nil, fmt.Errorf("%w: template %d has %d entries, want %d", ErrDimensionMismatch, d, len(v), size*size)
		}
		b.templates[d] = append(Vector(nil), v...)
	}
	return b, nil
}

// Size returns the canvas edge length the templates were built at.
func (b *Bank) Size() int { return b.size }

// Renderer names the glyph renderer the bank was built with.
func (b *Bank) Renderer() string { return b.renderer }

// Template returns a copy of the template for digit d.
func (b *Bank) Template(d int) (Vector, error) {
	if d < 0 || d >= Digits {
		return nil, fmt.Errorf("%w: %d", glyph.ErrDigit, d)
	}
	return append(Vector(nil), b.templates[d]...), nil
}

// TemplateInfo summarizes one template.
type TemplateInfo struct {
	Digit int     `json:"digit"`
	Ink   float64 `json:"ink"`
}

// Summary returns the ink count of every template in digit order.
func (b *Bank) Summary() []TemplateInfo {
	out := make([]TemplateInfo, Digits)
	for d, t := range b.templates {
		out[d] = TemplateInfo{Digit: d, Ink: t.Ink()}
	}
	return out
}
