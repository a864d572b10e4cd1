// Package server implements the MCP (Model Context Protocol) server for the
// digit recognition pipeline.
//
// The server exposes one pipeline.Session through JSON-RPC 2.0 tools so an
// MCP client can load an image, transform it step by step, look at the
// intermediate results and ask for a digit prediction.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Current image:
//   - digit_load: Load an image file as the current image
//   - digit_status: Report what is loaded and which steps were applied
//
// Transforms (each replaces the current image):
//   - digit_grayscale: Weighted luma
//   - digit_threshold: Binarize at a level (128, 100, 150, 180, 200)
//   - digit_sobel: Sobel edge magnitude
//   - digit_crop: Keep the ink bounding box, a named region or a rectangle
//   - digit_resize: Resample to the template canvas
//
// Classification (never modifies the current image):
//   - digit_predict: Nearest-template digit, optionally with an OCR reading
//   - digit_templates: Describe the template bank
//   - digit_compare: Overlay the query on one template, optionally gridded
//
// Display:
//   - digit_snapshot: Current image as base64 PNG, optionally with a pixel grid
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Every tool except digit_load, digit_status and digit_templates fails
// until an image has been loaded.
//
// # Usage
//
//	bank, _ := classify.NewBank(glyph.NewBitmap(), classify.DefaultSize)
//	srv := server.New(pipeline.NewSession(bank, nil))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
