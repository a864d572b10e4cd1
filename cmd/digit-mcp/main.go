package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/digit-match-mcp/internal/classify"
	"github.com/ironsheep/digit-match-mcp/internal/config"
	"github.com/ironsheep/digit-match-mcp/internal/glyph"
	"github.com/ironsheep/digit-match-mcp/internal/httpapi"
	"github.com/ironsheep/digit-match-mcp/internal/ocr"
	"github.com/ironsheep/digit-match-mcp/internal/pipeline"
	"github.com/ironsheep/digit-match-mcp/internal/server"
	"github.com/ironsheep/digit-match-mcp/internal/watch"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("digit-match-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("digit-match-mcp - MCP server for handwritten digit recognition")
			fmt.Println()
			fmt.Println("Usage: digit-match-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Println("  DIGITS_LOG_LEVEL=debug        Enable debug logging")
			fmt.Println("  DIGITS_TEMPLATE_SIZE=28       Template canvas size in pixels")
			fmt.Println("  DIGITS_RENDERER=opentype      Glyph renderer: opentype, tinyfont, bitmap")
			fmt.Println("  DIGITS_THRESHOLD=128          Default level for digit_threshold")
			fmt.Println("  DIGITS_HTTP_ADDR=:8081        Also serve the HTTP API on this address")
			fmt.Println("  DIGITS_WATCH_DIR=/path        Classify images dropped into this directory")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Debug() {
		log.Printf("Digit MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Config: %+v", *cfg)
		if info := ocr.GetInfo(); info.Available {
			log.Printf("OCR: %s %s", info.Backend, info.Version)
		}
	}

	renderer, err := glyph.ByName(cfg.Renderer)
	if err != nil {
		log.Fatalf("Renderer error: %v", err)
	}
	bank, err := classify.NewBank(renderer, cfg.TemplateSize)
	if err != nil {
		log.Fatalf("Failed to build templates: %v", err)
	}
	if cfg.Debug() {
		log.Printf("Templates: %dx%d, renderer %s", bank.Size(), bank.Size(), bank.Renderer())
	}

	session := pipeline.NewSession(bank, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.HTTPAddr != "" {
		router := httpapi.New(session).Router(cfg.Debug())
		go func() {
			log.Printf("HTTP API listening on %s", cfg.HTTPAddr)
			if err := router.Run(cfg.HTTPAddr); err != nil {
				log.Printf("HTTP API stopped: %v", err)
			}
		}()
	}

	if cfg.WatchDir != "" {
		w := watch.New(cfg.WatchDir, bank, watch.Options{})
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Printf("Watcher stopped: %v", err)
			}
		}()
	}

	srv := server.New(session,
		server.WithDefaultLevel(cfg.Threshold),
		server.WithVersion(Version),
	)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
