// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/z5labs/envcompose/pkg/slogfield"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// watchDebounceDelay groups bursts of writes, e.g. from editors, into one run.
const watchDebounceDelay = 300 * time.Millisecond

type watcher struct {
	log      *slog.Logger
	paths    []string
	relevant func(string) bool
	debounce time.Duration
}

// watch calls f after relevant files are written until ctx is cancelled.
// Errors returned by f are logged.
func (w watcher) watch(ctx context.Context, f func(context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	for _, p := range w.paths {
		err := fw.Add(p)
		if err != nil {
			return err
		}
		w.log.DebugContext(ctx, "watching for changes", slogfield.Path(p))
	}

	debounce := w.debounce
	if debounce == 0 {
		debounce = watchDebounceDelay
	}
	trigger := make(chan struct{}, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-gctx.Done():
				return nil
			case event, ok := <-fw.Events:
				if !ok {
					return nil
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if !w.relevant(event.Name) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, func() {
					select {
					case trigger <- struct{}{}:
					default:
					}
				})
			case err, ok := <-fw.Errors:
				if !ok {
					return nil
				}
				w.log.ErrorContext(gctx, "file watcher failed", slogfield.Error(err))
			}
		}
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-trigger:
				err := f(gctx)
				if err != nil {
					w.log.ErrorContext(gctx, "failed to compose config", slogfield.Error(err))
				}
			}
		}
	})
	return g.Wait()
}

func watchPaths(dir, basePath string) []string {
	paths := []string{dir}
	if basePath == "" {
		return paths
	}
	baseDir := filepath.Dir(basePath)
	if filepath.Clean(baseDir) != filepath.Clean(dir) {
		paths = append(paths, baseDir)
	}
	return paths
}

func relevantFiles(prefix, basePath string) func(string) bool {
	base := filepath.Clean(basePath)
	return func(name string) bool {
		if basePath != "" && filepath.Clean(name) == base {
			return true
		}
		return strings.HasPrefix(filepath.Base(name), prefix+".")
	}
}
