// Package ocr reads single digits with Tesseract (via gosseract/v2).
//
// It serves as a second opinion beside the template classifier: callers
// may ask for both readings and compare them.
//
// # Prerequisites
//
// Tesseract and its English language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Error Handling
//
// ReadDigit returns errors for Tesseract initialization or recognition
// failures. If symbol-level confidence cannot be extracted, the reading
// is still returned with Confidence 0.
package ocr
