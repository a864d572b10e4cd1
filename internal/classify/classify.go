package classify

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/digit-match-mcp/internal/imaging"
)

// ErrDimensionMismatch means a query vector was not built at the bank's
// template size. It always indicates a wiring bug in the caller.
var ErrDimensionMismatch = errors.New("vector length does not match templates")

// Prediction is the outcome of a nearest-template search.
type Prediction struct {
	// Digit is the index of the closest template.
	Digit int `json:"digit"`

	// Distance is the squared Euclidean distance to that template.
	Distance float64 `json:"distance"`

	// Distances holds the squared distance to every template in digit order.
	Distances [Digits]float64 `json:"distances"`
}

// Classify returns the digit whose template is nearest to q.
//
// Distance is the squared Euclidean distance sum((q[k]-t[k])²). Templates
// are scanned from 0 to 9 and a template only wins with a strictly smaller
// distance, so on ties the lowest digit is returned. There is no rejection
// class: some digit is always returned, even for meaningless input.
//
// Returns an error wrapping ErrDimensionMismatch if len(q) differs from the
// template length.
func (b *Bank) Classify(q Vector) (*Prediction, error) {
	want := b.size * b.size
	if len(q) != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(q), want)
	}

	p := &Prediction{Distance: math.Inf(1)}
	diff := make([]float64, want)
	for d, t := range b.templates {
		floats.SubTo(diff, q, t)
		dist := floats.Dot(diff, diff)
		p.Distances[d] = dist
		if dist < p.Distance {
			p.Distance = dist
			p.Digit = d
		}
	}
	return p, nil
}

// Query converts an image of any size into a query vector: resample to the
// bank's canvas, binarize at imaging.TemplateLevel, vectorize.
func (b *Bank) Query(img *imaging.Buffer) Vector {
	return Vectorize(imaging.Threshold(imaging.Resize(img, b.size, b.size), imaging.TemplateLevel))
}

// Predict classifies an image of any size. img is not modified.
func (b *Bank) Predict(img *imaging.Buffer) (*Prediction, error) {
	return b.Classify(b.Query(img))
}
