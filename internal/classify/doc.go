// Package classify matches digit images against a fixed bank of templates.
//
// This is plain nearest-neighbor classification over ten reference vectors,
// one per digit 0-9. Nothing is learned and there is no rejection class:
// every query is assigned to its closest template.
//
// # Pipeline
//
//  1. Templates: each digit is rendered by a glyph.Renderer, binarized at
//     imaging.TemplateLevel and flattened by Vectorize (NewBank).
//  2. Queries: the input is resampled to the bank's canvas, binarized at the
//     same level and flattened by the same Vectorize (Bank.Query).
//  3. Matching: the template with the smallest squared Euclidean distance
//     wins, lowest digit first on ties (Bank.Classify).
//
// # Thread Safety
//
// A Bank is immutable after construction and safe for concurrent use.
package classify
