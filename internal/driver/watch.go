package driver

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watch runs builds repeatedly, triggered by filesystem change events under
// the project directory — the --watch mode named in SPEC_FULL.md's domain
// stack, grounded on standardbeagle-lci and sysprogs-arduino-cli's use of
// fsnotify for their own rebuild-on-save loops. onResult is invoked after
// every build (the initial one and every subsequent rebuild); Watch returns
// when ctx is cancelled.
func (d *Driver) Watch(ctx context.Context, onResult func(Result, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addRecursive(watcher, d.Config.ProjectDir); err != nil {
		return err
	}

	result, runErr := d.Run(ctx)
	onResult(result, runErr)

	debounce := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}
			select {
			case debounce <- struct{}{}:
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if d.Log != nil {
				d.Log.Warn("watcher error", logrus.Fields{"error": err})
			}
		case <-debounce:
			result, runErr := d.Run(ctx)
			onResult(result, runErr)
		}
	}
}

func relevantEvent(event fsnotify.Event) bool {
	ext := filepath.Ext(event.Name)
	switch ext {
	case ".c", ".cpp", ".cc", ".h", ".hpp":
		return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
	default:
		return false
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if defaultWatchExclusion(info.Name()) {
				return filepath.SkipDir
			}
			_ = watcher.Add(path)
		}
		return nil
	})
}

func defaultWatchExclusion(name string) bool {
	switch name {
	case ".git", "node_modules", "vendor", ".eventchains", "build", "builds":
		return true
	default:
		return false
	}
}
