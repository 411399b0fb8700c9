package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long the watched files must stay quiet before a render;
// editors often write a file in several steps.
const settle = 150 * time.Millisecond

// watch re-renders whenever the input or the preset changes, until ctx is
// done. Render errors are logged and watching continues.
func (j *job) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer w.Close()

	targets := j.watched()
	// Watch directories rather than files so that replace-by-rename saves
	// are seen.
	dirs := make(map[string]bool)
	for name := range targets {
		dirs[filepath.Dir(name)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	j.logger.Info("watching", "files", len(targets))

	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(event.Name)] || !relevant(event.Op) {
				continue
			}
			j.logger.Debug("file changed", "path", event.Name, "op", event.Op)
			timer.Reset(settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			j.logger.Warn("watcher error", "err", err)
		case <-timer.C:
			if err := j.render(); err != nil {
				j.logger.Error("render failed", "err", err)
			}
		}
	}
}

// watched returns the cleaned paths of the files a render reads.
func (j *job) watched() map[string]bool {
	out := map[string]bool{filepath.Clean(j.input): true}
	if j.cfg.IO.Preset != "" {
		out[filepath.Clean(j.cfg.IO.Preset)] = true
	}
	return out
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
