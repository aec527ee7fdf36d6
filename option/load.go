package option

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Load reads and parses the option file at path.
func Load(path string) (*Option, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("option: %w", err)
	}
	o, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// Watch calls fn with the reloaded option each time the file at path is
// written or replaced, until ctx is done. A file that fails to load is
// reported through fn with a nil option; watching goes on.
//
// The parent directory is watched so editors that save by renaming a
// temporary file are seen too. Watch returns nil when ctx is canceled.
func Watch(ctx context.Context, path string, fn func(*Option, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("option: watch: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("option: failed creating file watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("option: watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			o, err := Load(abs)
			fn(o, err)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fn(nil, fmt.Errorf("option: watch: %w", err))
		}
	}
}
