package pipeline

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ironsheep/digit-match-mcp/internal/classify"
	"github.com/ironsheep/digit-match-mcp/internal/glyph"
	"github.com/ironsheep/digit-match-mcp/internal/imaging"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	bank, err := classify.NewBank(glyph.NewBitmap(), classify.DefaultSize)
	if err != nil {
		t.Fatalf("NewBank failed: %v", err)
	}
	return NewSession(bank, nil)
}

func renderDigit(t *testing.T, digit, size int) *imaging.Buffer {
	t.Helper()
	b, err := glyph.NewBitmap().Render(digit, size, size)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return b
}

func TestSession_NoImage(t *testing.T) {
	s := newTestSession(t)

	ops := map[string]func() error{
		"Current":    func() error { _, err := s.Current(); return err },
		"Grayscale":  func() error { _, err := s.Grayscale(); return err },
		"Threshold":  func() error { _, err := s.Threshold(128); return err },
		"EdgeDetect": func() error { _, err := s.EdgeDetect(); return err },
		"Resize":     func() error { _, err := s.Resize(); return err },
		"Crop":       func() error { _, err := s.Crop(0, 0, 1, 1); return err },
		"CropRegion": func() error { _, err := s.CropRegion("center"); return err },
		"CropToInk":  func() error { _, err := s.CropToInk(0); return err },
		"Predict":    func() error { _, err := s.Predict(); return err },
		"Query":      func() error { _, err := s.Query(); return err },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(); !errors.Is(err, ErrNoImage) {
				t.Errorf("got %v, want ErrNoImage", err)
			}
		})
	}

	if st := s.Status(); st.Loaded {
		t.Errorf("status: got %+v", st)
	}
}

func TestSession_Load(t *testing.T) {
	s := newTestSession(t)
	path := filepath.Join(t.TempDir(), "four.png")
	if err := imaging.Save(renderDigit(t, 4, 40), path); err != nil {
		t.Fatal(err)
	}

	info, err := s.Load(path, false)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if info.Width != 40 || info.Height != 40 {
		t.Errorf("info: got %dx%d", info.Width, info.Height)
	}

	st := s.Status()
	if !st.Loaded || st.Source != path || st.Width != 40 || len(st.Steps) != 0 {
		t.Errorf("status: got %+v", st)
	}
}

func TestSession_Reload(t *testing.T) {
	s := newTestSession(t)
	path := filepath.Join(t.TempDir(), "digit.png")
	if err := imaging.Save(renderDigit(t, 4, 40), path); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(path, false); err != nil {
		t.Fatal(err)
	}

	if err := imaging.Save(renderDigit(t, 1, 30), path); err != nil {
		t.Fatal(err)
	}
	info, err := s.Load(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if cur, _ := s.Current(); cur.Width() != 40 {
		t.Errorf("cached load: got width %d, want 40", cur.Width())
	}

	info, err = s.Load(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if cur, _ := s.Current(); cur.Width() != 30 || info.Width != 30 {
		t.Errorf("reload: got width %d, want 30", cur.Width())
	}
}

func TestSession_LoadFailureKeepsState(t *testing.T) {
	s := newTestSession(t)
	s.Set(renderDigit(t, 1, 28), "first")

	if _, err := s.Load("/nonexistent/x.png", false); err == nil {
		t.Fatal("expected error")
	}
	st := s.Status()
	if !st.Loaded || st.Source != "first" {
		t.Errorf("failed load changed state: %+v", st)
	}
}

func TestSession_Transforms(t *testing.T) {
	s := newTestSession(t)
	s.Set(renderDigit(t, 3, 60), "three")

	if _, err := s.Grayscale(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Threshold(150); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CropToInk(4); err != nil {
		t.Fatal(err)
	}
	ap, err := s.Resize()
	if err != nil {
		t.Fatal(err)
	}
	if ap.Image.Width() != 28 || ap.Image.Height() != 28 {
		t.Errorf("resize: got %dx%d", ap.Image.Width(), ap.Image.Height())
	}
	if len(ap.Steps) != 4 || ap.Steps[3] != "resize" {
		t.Errorf("applied steps: got %v", ap.Steps)
	}
	if _, err := s.EdgeDetect(); err != nil {
		t.Fatal(err)
	}

	want := []string{"grayscale", "threshold", "crop:ink", "resize", "sobel"}
	st := s.Status()
	if len(st.Steps) != len(want) {
		t.Fatalf("steps: got %v, want %v", st.Steps, want)
	}
	for i := range want {
		if st.Steps[i] != want[i] {
			t.Errorf("steps[%d]: got %s, want %s", i, st.Steps[i], want[i])
		}
	}
}

func TestSession_FailedTransformKeepsImage(t *testing.T) {
	s := newTestSession(t)
	s.Set(imaging.Fill(10, 10, 255, 255, 255), "blank")

	if _, err := s.CropToInk(0); !errors.Is(err, imaging.ErrNoInk) {
		t.Fatalf("got %v, want ErrNoInk", err)
	}
	if _, err := s.Crop(0, 0, 20, 20); err == nil {
		t.Fatal("expected out of bounds error")
	}

	cur, _ := s.Current()
	if cur.Width() != 10 || len(s.Status().Steps) != 0 {
		t.Error("failed transform changed the session")
	}
}

func TestSession_PredictDoesNotModify(t *testing.T) {
	s := newTestSession(t)
	src := renderDigit(t, 9, 50)
	s.Set(src, "nine")

	p, err := s.Predict()
	if err != nil {
		t.Fatal(err)
	}
	if p.Digit != 9 {
		t.Errorf("predicted %d, want 9", p.Digit)
	}

	cur, _ := s.Current()
	if !cur.Equal(src) || len(s.Status().Steps) != 0 {
		t.Error("Predict modified the session")
	}

	q, err := s.Query()
	if err != nil {
		t.Fatal(err)
	}
	if len(q) != 28*28 {
		t.Errorf("query length: got %d", len(q))
	}
}

func TestSession_AppliedStepsMatchImage(t *testing.T) {
	s := newTestSession(t)
	s.Set(renderDigit(t, 2, 28), "two")

	const n = 16
	lengths := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ap, err := s.Grayscale()
			if err != nil {
				t.Error(err)
				return
			}
			lengths <- len(ap.Steps)
		}()
	}
	wg.Wait()
	close(lengths)

	// Each transform sees its own step count, so every count appears once.
	seen := make(map[int]bool)
	for l := range lengths {
		if seen[l] {
			t.Errorf("two transforms reported %d steps", l)
		}
		seen[l] = true
	}
	for i := 1; i <= n; i++ {
		if !seen[i] {
			t.Errorf("no transform reported %d steps", i)
		}
	}
}

func TestSession_Concurrent(t *testing.T) {
	s := newTestSession(t)
	s.Set(renderDigit(t, 5, 28), "five")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := s.Predict(); err != nil {
				t.Error(err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := s.Grayscale(); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if n := len(s.Status().Steps); n != 20 {
		t.Errorf("steps: got %d, want 20", n)
	}
}
