package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/matsen/druggraph/internal/config"
	"github.com/matsen/druggraph/internal/ingest"
)

// WatchDebounce is how long Watch waits after the last raw file change
// before running again. Editors often write a file in several steps.
const WatchDebounce = 500 * time.Millisecond

var sourceFiles = map[string]bool{
	ingest.DrugsFile:          true,
	ingest.PubmedCSVFile:      true,
	ingest.PubmedJSONFile:     true,
	ingest.ClinicalTrialsFile: true,
}

// Watch runs the pipeline once, then again each time a raw source file in
// cfg.RawDir changes, until ctx is done. Every run's outcome is passed to
// done; a failed run does not stop watching.
func Watch(ctx context.Context, cfg *config.Config, logger log.FieldLogger, done func(*Result, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so replaced and recreated files are seen
	if err := watcher.Add(cfg.RawDir); err != nil {
		return fmt.Errorf("watching %s: %w", cfg.RawDir, err)
	}

	done(Run(ctx, cfg, logger))
	logger.Infof("Watching %s for changes", cfg.RawDir)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !sourceFiles[filepath.Base(ev.Name)] || ev.Op == fsnotify.Chmod {
				continue
			}
			logger.WithField("file", ev.Name).Debugf("Raw source changed (%s)", ev.Op)
			if timer == nil {
				timer = time.NewTimer(WatchDebounce)
			} else {
				timer.Reset(WatchDebounce)
			}
			pending = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("File watcher error")

		case <-pending:
			pending = nil
			logger.Info("Raw sources changed; running pipeline again")
			done(Run(ctx, cfg, logger))
		}
	}
}
