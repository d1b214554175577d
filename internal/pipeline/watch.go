package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/balancete/internal/config"
	"github.com/cleared-dev/balancete/internal/sheet"
)

// debounceDelay is how long a spreadsheet must sit quiet before it is
// ingested. ERP exports and network copies arrive in chunks.
const debounceDelay = 2 * time.Second

// Watcher ingests spreadsheets dropped into the import directory.
type Watcher struct {
	svc      *Service
	dir      string
	log      *logrus.Logger
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher builds a watcher over the project's import directory.
func NewWatcher(svc *Service) *Watcher {
	return &Watcher{
		svc:      svc,
		dir:      config.Resolve(svc.root, svc.cfg.Paths.ImportDir),
		log:      svc.log,
		debounce: debounceDelay,
		timers:   make(map[string]*time.Timer),
	}
}

// Dir returns the watched import directory.
func (w *Watcher) Dir() string { return w.dir }

// Run drains any backlog already sitting in the import directory, then
// watches it until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating import dir: %w", err)
	}

	backlog, err := sheet.Scan(w.dir)
	if err != nil {
		return err
	}
	for _, f := range backlog {
		w.ingest(ctx, f.Path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() {
		w.mu.Lock()
		for _, t := range w.timers {
			t.Stop()
		}
		w.mu.Unlock()
		watcher.Close()
	}()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.log.WithField("dir", w.dir).Info("watching import directory")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if !sheet.Candidate(filepath.Base(event.Name)) {
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("import watcher error")
		}
	}
}

// schedule (re)arms the debounce timer for one path. Every new chunk of
// the file resets the countdown.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.ingest(ctx, path)
	})
}

// ingest runs the pipeline over one settled file and moves it to
// processed on success. Failures leave the file in place for a retry
// after the operator fixes it.
func (w *Watcher) ingest(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		// Moved or deleted while debouncing. The rename into
		// processed/ lands here too.
		return
	}

	log := w.log.WithField("arquivo", filepath.Base(path))
	res, err := w.svc.Ingest(ctx, path)
	if err != nil {
		log.WithError(err).Error("ingest failed")
		return
	}

	log.WithFields(logrus.Fields{
		"periodo": res.Period.String(),
		"linhas":  res.RowsWritten,
	}).Info("balancete ingested")

	if err := sheet.MarkProcessed(w.dir, filepath.Base(path)); err != nil {
		log.WithError(err).Warn("moving file to processed")
	}
}
