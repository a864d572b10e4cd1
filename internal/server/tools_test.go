package server

import (
	"testing"

	"github.com/ironsheep/digit-match-mcp/internal/imaging"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"digit_load",
		"digit_status",
		"digit_grayscale",
		"digit_threshold",
		"digit_sobel",
		"digit_crop",
		"digit_resize",
		"digit_predict",
		"digit_templates",
		"digit_compare",
		"digit_snapshot",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties should be a map")
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := []struct {
		tool string
		want string
	}{
		{"digit_load", "path"},
		{"digit_compare", "digit"},
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			required, ok := toolMap[tt.tool].InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			if len(required) != 1 || required[0] != tt.want {
				t.Errorf("required: got %v, want [%s]", required, tt.want)
			}
		})
	}
}

func TestToolDefinitions_ThresholdLevels(t *testing.T) {
	var tool Tool
	for _, tt := range GetToolDefinitions() {
		if tt.Name == "digit_threshold" {
			tool = tt
		}
	}

	props := tool.InputSchema["properties"].(map[string]interface{})
	level, ok := props["level"].(map[string]interface{})
	if !ok {
		t.Fatal("level property should exist")
	}
	enum, ok := level["enum"].([]int)
	if !ok {
		t.Fatal("level should have an int enum")
	}
	if len(enum) != len(imaging.LevelChoices) {
		t.Fatalf("enum: got %v, want %v", enum, imaging.LevelChoices)
	}
	for i, l := range imaging.LevelChoices {
		if enum[i] != int(l) {
			t.Errorf("enum[%d]: got %d, want %d", i, enum[i], l)
		}
	}
	if level["default"] != 128 {
		t.Errorf("default: got %v, want 128", level["default"])
	}
}
