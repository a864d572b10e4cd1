// Package config reads process settings from the environment.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ironsheep/digit-match-mcp/internal/classify"
	"github.com/ironsheep/digit-match-mcp/internal/imaging"
)

// Environment variable names.
const (
	EnvLogLevel     = "DIGITS_LOG_LEVEL"
	EnvTemplateSize = "DIGITS_TEMPLATE_SIZE"
	EnvRenderer     = "DIGITS_RENDERER"
	EnvThreshold    = "DIGITS_THRESHOLD"
	EnvHTTPAddr     = "DIGITS_HTTP_ADDR"
	EnvWatchDir     = "DIGITS_WATCH_DIR"
)

// Config holds the settings main wires the server with.
type Config struct {
	LogLevel     string
	TemplateSize int
	Renderer     string
	Threshold    imaging.Level
	HTTPAddr     string
	WatchDir     string
}

// Debug reports whether verbose logging was requested.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// Load reads ./.env (if present) and then the environment.
func Load() (*Config, error) {
	loadDotEnv(".env")
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
//
// DIGITS_THRESHOLD follows the threshold policy: anything unparsable or 0
// becomes 128 and other values are clamped to 0-255. A non-numeric or
// non-positive DIGITS_TEMPLATE_SIZE is an error.
func FromEnv() (*Config, error) {
	c := &Config{
		LogLevel:     os.Getenv(EnvLogLevel),
		TemplateSize: classify.DefaultSize,
		Renderer:     strings.ToLower(strings.TrimSpace(os.Getenv(EnvRenderer))),
		Threshold:    imaging.DefaultLevel,
		HTTPAddr:     os.Getenv(EnvHTTPAddr),
		WatchDir:     os.Getenv(EnvWatchDir),
	}

	if v := strings.TrimSpace(os.Getenv(EnvTemplateSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid %s %q: want a positive integer", EnvTemplateSize, v)
		}
		c.TemplateSize = n
	}

	if v, ok := os.LookupEnv(EnvThreshold); ok {
		c.Threshold = imaging.ParseLevel(v)
	}

	return c, nil
}

// loadDotEnv loads key=value pairs from path into the environment without
// overwriting variables that are already set. Lines starting with # are
// ignored.
func loadDotEnv(path string) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return // no .env file
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.Trim(strings.TrimSpace(line[eq+1:]), `"'`)
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
