package server

import (
	"github.com/ironsheep/digit-match-mcp/internal/imaging"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func emptySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func previewProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "If > 0, include a PNG preview of the result upscaled by this factor",
		"minimum":     0,
		"maximum":     imaging.MaxSnapshotScale,
	}
}

func gridProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Outline every source pixel (needs scale >= 4)",
		"default":     false,
	}
}

func cropRegions() []string {
	return append([]string{"ink"}, imaging.Regions...)
}

func levelEnum() []int {
	out := make([]int, len(imaging.LevelChoices))
	for i, l := range imaging.LevelChoices {
		out[i] = int(l)
	}
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image loading
		{
			Name:        "digit_load",
			Description: "Load an image file (png, jpg, jpeg, bmp, gif, tiff) and make it the current image for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Decode the file again even if it was loaded before",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "digit_status",
			Description: "Report whether an image is loaded, its size, and the transforms applied to it so far.",
			InputSchema: emptySchema(),
		},

		// Transforms of the current image
		{
			Name:        "digit_grayscale",
			Description: "Replace the current image with its grayscale version (0.3 R + 0.59 G + 0.11 B).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"preview": previewProperty(),
				},
			},
		},
		{
			Name:        "digit_threshold",
			Description: "Binarize the current image: pixels darker than the level become black, all others white.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"level": map[string]interface{}{
						"type":        "integer",
						"enum":        levelEnum(),
						"description": "Cutoff intensity. Other values fall back to 128.",
						"default":     int(imaging.DefaultLevel),
					},
					"preview": previewProperty(),
				},
			},
		},
		{
			Name:        "digit_sobel",
			Description: "Replace the current image with its Sobel edge magnitude (grayscale first, 1-pixel border left black).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"preview": previewProperty(),
				},
			},
		},
		{
			Name:        "digit_crop",
			Description: "Replace the current image with part of it: the ink bounding box (region \"ink\"), a named region, or the rectangle x1,y1,x2,y2.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": map[string]interface{}{
						"type":        "string",
						"enum":        cropRegions(),
						"description": "Named region to keep. Omit to crop to x1,y1,x2,y2.",
					},
					"margin": map[string]interface{}{
						"type":        "integer",
						"description": "White border kept around the ink for region \"ink\". Default 2",
						"default":     2,
					},
					"x1": map[string]interface{}{"type": "integer", "description": "Left edge (inclusive)"},
					"y1": map[string]interface{}{"type": "integer", "description": "Top edge (inclusive)"},
					"x2": map[string]interface{}{"type": "integer", "description": "Right edge (exclusive)"},
					"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge (exclusive)"},
					"preview": previewProperty(),
				},
			},
		},
		{
			Name:        "digit_resize",
			Description: "Resample the current image to the template canvas size (28x28 by default) with bicubic interpolation.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"preview": previewProperty(),
				},
			},
		},

		// Classification
		{
			Name:        "digit_predict",
			Description: "Classify the current image as a digit 0-9 by nearest template. Does not modify the current image. Always returns a digit; there is no 'no match' answer.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"ocr": map[string]interface{}{
						"type":        "boolean",
						"description": "Also read the digit with Tesseract OCR as a second opinion",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "digit_templates",
			Description: "Describe the template bank: canvas size, glyph renderer and ink per digit.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "digit_compare",
			Description: "Render the current image's query vector over one digit template. Black = shared ink, red = query only, blue = template only.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"digit": map[string]interface{}{
						"type":        "integer",
						"minimum":     0,
						"maximum":     9,
						"description": "Template to compare against",
					},
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Upscale factor for the PNG. Default 8",
						"default":     8,
					},
					"grid": gridProperty(),
				},
				"required": []string{"digit"},
			},
		},

		// Display
		{
			Name:        "digit_snapshot",
			Description: "Return the current image as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Nearest-neighbor upscale factor. Default 1",
						"default":     1,
					},
					"grid": gridProperty(),
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
