package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ironsheep/digit-match-mcp/internal/classify"
	"github.com/ironsheep/digit-match-mcp/internal/glyph"
	"github.com/ironsheep/digit-match-mcp/internal/imaging"
)

func testBank(t *testing.T) *classify.Bank {
	t.Helper()
	bank, err := classify.NewBank(glyph.NewBitmap(), classify.DefaultSize)
	if err != nil {
		t.Fatalf("NewBank failed: %v", err)
	}
	return bank
}

// saveDigit writes a digit PNG under a temporary name and renames it into
// place so the watcher sees one complete file.
func saveDigit(t *testing.T, dir, name string, digit int) string {
	t.Helper()
	b, err := glyph.NewBitmap().Render(digit, 28, 28)
	if err != nil {
		t.Fatal(err)
	}
	data, err := imaging.EncodePNG(b)
	if err != nil {
		t.Fatal(err)
	}
	tmp := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, name)
	if err := os.Rename(tmp, dst); err != nil {
		// Different filesystems: fall back to a direct write.
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dst
}

func TestClassify(t *testing.T) {
	w := New(t.TempDir(), testBank(t), Options{})
	dir := t.TempDir()

	res := w.Classify(saveDigit(t, dir, "five.png", 5))
	if res.Err != nil {
		t.Fatalf("Classify failed: %v", res.Err)
	}
	if res.Prediction.Digit != 5 {
		t.Errorf("predicted %d, want 5", res.Prediction.Digit)
	}

	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if res := w.Classify(bad); res.Err == nil {
		t.Error("expected decode error")
	}
	if res := w.Classify(filepath.Join(dir, "missing.png")); res.Err == nil {
		t.Error("expected open error")
	}
}

func TestRun_ClassifiesNewFiles(t *testing.T) {
	dir := t.TempDir()
	results := make(chan Result, 4)

	w := New(dir, testBank(t), Options{
		Settle:   50 * time.Millisecond,
		OnResult: func(r Result) { results <- r },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	}()

	// Give the watcher time to register before creating files.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := saveDigit(t, dir, "seven.png", 7)

	select {
	case r := <-results:
		if r.Path != path {
			t.Errorf("path: got %s, want %s", r.Path, path)
		}
		if r.Err != nil {
			t.Fatalf("classification failed: %v", r.Err)
		}
		if r.Prediction.Digit != 7 {
			t.Errorf("predicted %d, want 7", r.Prediction.Digit)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for classification")
	}

	select {
	case r := <-results:
		t.Errorf("unexpected extra result for %s", r.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRun_TinySettle(t *testing.T) {
	dir := t.TempDir()
	results := make(chan Result, 4)

	w := New(dir, testBank(t), Options{
		Settle:   time.Nanosecond,
		OnResult: func(r Result) { results <- r },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	}()

	time.Sleep(100 * time.Millisecond)
	saveDigit(t, dir, "three.png", 3)

	select {
	case r := <-results:
		if r.Err != nil {
			t.Fatalf("classification failed: %v", r.Err)
		}
		if r.Prediction.Digit != 3 {
			t.Errorf("predicted %d, want 3", r.Prediction.Digit)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for classification")
	}
}

func TestRun_MissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), testBank(t), Options{})
	if err := w.Run(context.Background()); err == nil {
		t.Error("expected error for missing directory")
	}
}
