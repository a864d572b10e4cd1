// Package watch classifies images dropped into a directory.
//
// New files are debounced until their events settle, then decoded and run
// through the template bank by a small worker pool. Each outcome is
// delivered to a callback; the default callback logs it.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ironsheep/digit-match-mcp/internal/classify"
	"github.com/ironsheep/digit-match-mcp/internal/imaging"
)

// Defaults for Options.
const (
	DefaultSettle  = 300 * time.Millisecond
	DefaultWorkers = 2
)

// Result is the outcome for one file.
type Result struct {
	Path       string
	Prediction *classify.Prediction
	Err        error
}

// Options tunes a Watcher. Zero values select the defaults.
type Options struct {
	// Settle is how long a file must go without events before it is read.
	Settle time.Duration

	// Workers is the number of concurrent classifications.
	Workers int

	// OnResult receives every outcome. It may be called from several
	// goroutines at once.
	OnResult func(Result)
}

// Watcher classifies files created in one directory.
type Watcher struct {
	dir  string
	bank *classify.Bank
	opts Options
}

// MinTick is the shortest interval at which pending files are checked.
const MinTick = time.Millisecond

// New returns a Watcher for dir.
func New(dir string, bank *classify.Bank, opts Options) *Watcher {
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.OnResult == nil {
		opts.OnResult = LogResult
	}
	return &Watcher{dir: dir, bank: bank, opts: opts}
}

// LogResult is the default OnResult.
func LogResult(r Result) {
	if r.Err != nil {
		log.Printf("watch: %s: %v", r.Path, r.Err)
		return
	}
	log.Printf("watch: %s -> %d (distance %.2f)", r.Path, r.Prediction.Digit, r.Prediction.Distance)
}

// Run watches until ctx is cancelled or the underlying watcher fails.
// Files already present when Run starts are ignored.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	log.Printf("Watching %s (debounced) ...", w.dir)

	fileCh := make(chan string, 256)
	var wg sync.WaitGroup
	for i := 0; i < w.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range fileCh {
				w.opts.OnResult(w.Classify(path))
			}
		}()
	}
	defer wg.Wait()
	defer close(fileCh)

	pending := map[string]time.Time{}
	ticker := time.NewTicker(max(w.opts.Settle/2, MinTick))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !imaging.IsSupportedPath(ev.Name) || isHidden(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now()
		case <-ticker.C:
			now := time.Now()
			for path, t := range pending {
				if now.Sub(t) >= w.opts.Settle { // stable
					delete(pending, path)
					select {
					case fileCh <- path:
					case <-ctx.Done():
						return nil
					}
				}
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

// Classify decodes one file and predicts its digit.
func (w *Watcher) Classify(path string) Result {
	res := Result{Path: path}
	f, err := os.Open(path)
	if err != nil {
		res.Err = fmt.Errorf("failed to open image: %w", err)
		return res
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		res.Err = err
		return res
	}
	res.Prediction, res.Err = w.bank.Predict(img)
	return res
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
