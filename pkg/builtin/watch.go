package builtin

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/errors"
	"github.com/arthur-debert/gantry/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// RebuildFunc runs the follow-up work after a change
type RebuildFunc func(ctx context.Context, env environment.Environment) error

// Watch blocks until its context ends, calling Rebuild after every burst of
// changes to files under Dir selected by Patterns. Rebuilds run on the
// watching goroutine, so they never overlap; changes that arrive during a
// rebuild trigger exactly one more.
type Watch struct {
	Dir      string
	Patterns *PatternSet
	Debounce time.Duration
	Rebuild  RebuildFunc
	// Then names the follow-up tasks for plan listings
	Then   []string
	logger zerolog.Logger
}

// NewWatch creates a watch action. dir is absolute.
func NewWatch(dir string, patterns *PatternSet, debounce time.Duration, then []string, rebuild RebuildFunc) *Watch {
	return &Watch{
		Dir:      dir,
		Patterns: patterns,
		Debounce: debounce,
		Rebuild:  rebuild,
		Then:     append([]string(nil), then...),
		logger:   logging.GetLogger("builtin.watch"),
	}
}

// Describe renders the action for plan listings
func (w *Watch) Describe() string {
	return "watch " + w.Dir + "/" + w.Patterns.String() + " -> " + strings.Join(w.Then, ", ")
}

// Run watches until ctx is cancelled. Cancellation is the normal way to
// stop watching and is not reported as an error.
func (w *Watch) Run(ctx context.Context, env environment.Environment) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrBuiltinFailure, "failed to start file watcher")
	}
	defer func() { _ = watcher.Close() }()

	if err := w.addRecursive(watcher, w.Dir); err != nil {
		return errors.Wrapf(err, errors.ErrBuiltinFailure, "failed to watch %s", w.Dir).
			WithDetail("path", w.Dir)
	}
	w.logger.Info().Str("dir", w.Dir).Str("patterns", w.Patterns.String()).Msg("Watching for changes")

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug().Msg("Watch stopped")
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(watcher, ev.Name)
				}
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("Change detected")
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.Debounce)
			pending = true

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("Watcher error")

		case <-timer.C:
			pending = false
			w.logger.Info().Strs("tasks", w.Then).Msg("Rebuilding")
			if err := w.Rebuild(ctx, env); err != nil {
				// keep watching; the next save may fix it
				w.logger.Error().Err(err).Msg("Rebuild failed")
			}
		}
	}
}

func (w *Watch) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	rel, err := filepath.Rel(w.Dir, ev.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return w.Patterns.Match(filepath.ToSlash(rel))
}

func (w *Watch) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
