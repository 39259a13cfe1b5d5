package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/matsen/druggraph/internal/config"
)

// runLockFile guards a cache directory against concurrent pipeline runs.
const runLockFile = ".run.lock"

// errRunInProgress is returned when another process holds the run lock.
var errRunInProgress = errors.New("another pipeline run is in progress")

// lockRun takes the exclusive run lock in cfg.CacheDir without blocking.
// The returned function releases it.
func lockRun(cfg *config.Config) (func(), error) {
	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.CacheDir, runLockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock: %w", err)
	}
	if !locked {
		return nil, errRunInProgress
	}
	return func() { _ = lock.Unlock() }, nil
}

// mustLockRun takes the run lock, exits on error.
func mustLockRun(cfg *config.Config) func() {
	unlock, err := lockRun(cfg)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return unlock
}
