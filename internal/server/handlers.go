package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/ironsheep/digit-match-mcp/internal/classify"
	"github.com/ironsheep/digit-match-mcp/internal/imaging"
	"github.com/ironsheep/digit-match-mcp/internal/ocr"
	"github.com/ironsheep/digit-match-mcp/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "digit_load", "digit_predict").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if errNoImage(err) {
			return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error()+": call digit_load first")
		}
		if errors.Is(err, classify.ErrDimensionMismatch) {
			log.Printf("ERROR: %s: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Runs the operation against the session's current image
//  4. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Current image
	case "digit_load":
		return s.handleLoad(args)
	case "digit_status":
		return s.session.Status(), nil

	// Transforms
	case "digit_grayscale":
		return s.handleTransform(args, "grayscale", s.session.Grayscale)
	case "digit_threshold":
		return s.handleThreshold(args)
	case "digit_sobel":
		return s.handleTransform(args, "sobel", s.session.EdgeDetect)
	case "digit_resize":
		return s.handleTransform(args, "resize", s.session.Resize)
	case "digit_crop":
		return s.handleCrop(args)

	// Classification
	case "digit_predict":
		return s.handlePredict(args)
	case "digit_templates":
		return s.handleTemplates()
	case "digit_compare":
		return s.handleCompare(args)

	// Display
	case "digit_snapshot":
		return s.handleSnapshot(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, treating absent arguments as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Current Image Handlers ===

type loadArgs struct {
	Path   string `json:"path"`
	Reload bool   `json:"reload"`
}

func (s *Server) handleLoad(args json.RawMessage) (interface{}, error) {
	var a loadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return s.session.Load(a.Path, a.Reload)
}

// === Transform Handlers ===

// TransformResult describes the current image after a transform.
type TransformResult struct {
	Step    string                  `json:"step"`
	Width   int                     `json:"width"`
	Height  int                     `json:"height"`
	Steps   []string                `json:"steps"`
	Level   *int                    `json:"level,omitempty"`
	Preview *imaging.SnapshotResult `json:"preview,omitempty"`
}

type transformArgs struct {
	Preview int `json:"preview"`
}

func (s *Server) handleTransform(args json.RawMessage, step string, fn func() (*pipeline.Applied, error)) (interface{}, error) {
	var a transformArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ap, err := fn()
	if err != nil {
		return nil, err
	}
	return transformResult(step, ap, a.Preview)
}

type thresholdArgs struct {
	Level   *int `json:"level"`
	Preview int  `json:"preview"`
}

func (s *Server) handleThreshold(args json.RawMessage) (interface{}, error) {
	var a thresholdArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	level := s.defaultLevel
	if a.Level != nil {
		level = imaging.NormalizeLevel(*a.Level)
	}
	if !imaging.IsChoice(level) {
		log.Printf("threshold level %d is not one of %v", level, imaging.LevelChoices)
	}
	ap, err := s.session.Threshold(level)
	if err != nil {
		return nil, err
	}
	res, err := transformResult("threshold", ap, a.Preview)
	if err != nil {
		return nil, err
	}
	l := int(level)
	res.Level = &l
	return res, nil
}

type cropArgs struct {
	Region  string `json:"region"`
	Margin  *int   `json:"margin"`
	X1      *int   `json:"x1"`
	Y1      *int   `json:"y1"`
	X2      *int   `json:"x2"`
	Y2      *int   `json:"y2"`
	Preview int    `json:"preview"`
}

func (s *Server) handleCrop(args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	var ap *pipeline.Applied
	var err error
	switch {
	case a.Region == "ink":
		margin := 2
		if a.Margin != nil {
			margin = *a.Margin
		}
		ap, err = s.session.CropToInk(margin)
	case a.Region != "":
		ap, err = s.session.CropRegion(a.Region)
	case a.X1 != nil && a.Y1 != nil && a.X2 != nil && a.Y2 != nil:
		ap, err = s.session.Crop(*a.X1, *a.Y1, *a.X2, *a.Y2)
	default:
		return nil, fmt.Errorf("either region or all of x1, y1, x2, y2 are required")
	}
	if err != nil {
		return nil, err
	}
	return transformResult("crop", ap, a.Preview)
}

// transformResult reports the image and step list captured by one transform.
func transformResult(step string, ap *pipeline.Applied, preview int) (*TransformResult, error) {
	res := &TransformResult{
		Step:   step,
		Width:  ap.Image.Width(),
		Height: ap.Image.Height(),
		Steps:  ap.Steps,
	}
	if preview > 0 {
		snap, err := imaging.Snapshot(ap.Image, preview)
		if err != nil {
			return nil, err
		}
		res.Preview = snap
	}
	return res, nil
}

// === Classification Handlers ===

// PredictResult is the answer of digit_predict.
type PredictResult struct {
	*classify.Prediction
	Renderer string            `json:"renderer"`
	OCR      *ocr.DigitReading `json:"ocr,omitempty"`
	OCRError string            `json:"ocr_error,omitempty"`
}

type predictArgs struct {
	OCR bool `json:"ocr"`
}

func (s *Server) handlePredict(args json.RawMessage) (interface{}, error) {
	var a predictArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	p, err := s.session.Predict()
	if err != nil {
		return nil, err
	}
	res := &PredictResult{Prediction: p, Renderer: s.session.Bank().Renderer()}
	if a.OCR {
		// A failing second opinion does not fail the prediction.
		cur, err := s.session.Current()
		if err == nil {
			res.OCR, err = ocr.ReadDigit(cur, "")
		}
		if err != nil {
			log.Printf("WARN: OCR unavailable: %v", err)
			res.OCRError = err.Error()
		}
	}
	return res, nil
}

// TemplatesResult describes the template bank.
type TemplatesResult struct {
	Size      int                     `json:"size"`
	Renderer  string                  `json:"renderer"`
	Templates []classify.TemplateInfo `json:"templates"`
}

func (s *Server) handleTemplates() (interface{}, error) {
	bank := s.session.Bank()
	return &TemplatesResult{
		Size:      bank.Size(),
		Renderer:  bank.Renderer(),
		Templates: bank.Summary(),
	}, nil
}

// CompareResult is the answer of digit_compare.
type CompareResult struct {
	Digit    int                     `json:"digit"`
	Distance float64                 `json:"distance"`
	Image    *imaging.SnapshotResult `json:"image"`
}

type compareArgs struct {
	Digit *int `json:"digit"`
	Scale int  `json:"scale"`
	Grid  bool `json:"grid"`
}

func (s *Server) handleCompare(args json.RawMessage) (interface{}, error) {
	var a compareArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Digit == nil {
		return nil, fmt.Errorf("digit is required")
	}
	if a.Scale == 0 {
		a.Scale = 8
	}
	if a.Scale < 1 || a.Scale > imaging.MaxSnapshotScale {
		return nil, fmt.Errorf("scale must be between 1 and %d", imaging.MaxSnapshotScale)
	}

	bank := s.session.Bank()
	tmpl, err := bank.Template(*a.Digit)
	if err != nil {
		return nil, err
	}
	q, err := s.session.Query()
	if err != nil {
		return nil, err
	}
	p, err := bank.Classify(q)
	if err != nil {
		return nil, err
	}
	img, err := classify.Overlay(q, tmpl, bank.Size(), a.Scale)
	if err != nil {
		return nil, err
	}
	if a.Grid {
		if img, err = imaging.PixelGrid(img, a.Scale, ""); err != nil {
			return nil, err
		}
	}
	snap, err := imaging.EncodeImage(img, a.Scale)
	if err != nil {
		return nil, err
	}
	return &CompareResult{
		Digit:    *a.Digit,
		Distance: p.Distances[*a.Digit],
		Image:    snap,
	}, nil
}

// === Display Handlers ===

type snapshotArgs struct {
	Scale int  `json:"scale"`
	Grid  bool `json:"grid"`
}

func (s *Server) handleSnapshot(args json.RawMessage) (interface{}, error) {
	var a snapshotArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	b, err := s.session.Current()
	if err != nil {
		return nil, err
	}
	return imaging.SnapshotGrid(b, a.Scale, a.Grid)
}

// errNoImage reports whether err means nothing has been loaded yet.
func errNoImage(err error) bool {
	return errors.Is(err, pipeline.ErrNoImage)
}
