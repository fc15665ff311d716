// Package watch rebuilds the catalog when files under the input
// directories change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"
)

// debounce collapses the burst of events a single file save produces into
// one rescan.
var debounce = 2 * time.Second

// Watch watches roots (recursively) and invokes rebuild after changes
// settle. It blocks until ctx is canceled. Watcher errors are logged; only
// setup failures are returned.
func Watch(ctx context.Context, roots []string, rebuild func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	dirs := map[string]bool{}
	for _, root := range roots {
		if err := addTree(w, root, dirs); err != nil {
			return err
		}
	}
	klog.Infof("watching %d dirs ...", len(dirs))

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %s", event)
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			// New subdirectories need their own watch.
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := addTree(w, event.Name, dirs); err != nil {
						klog.Warningf("watch %s: %v", event.Name, err)
					}
				}
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			klog.Infof("changes settled, rebuilding")
			rebuild()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}

func addTree(w *fsnotify.Watcher, root string, dirs map[string]bool) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if filepath.Base(path)[0] == '.' && path != root {
			return filepath.SkipDir
		}
		if dirs[path] {
			return nil
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("add %s: %w", path, err)
		}
		dirs[path] = true
		return nil
	})
}
