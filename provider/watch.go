package provider

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/market-bubbles/core"
)

// WatchFile signals on the returned channel whenever path is written or created, including a rename into place
// The parent directory is watched so editors that replace the file are still seen
// Signals coalesce, the channel is closed when ctx ends
func WatchFile(ctx context.Context, path string, log zerolog.Logger) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	out := make(chan struct{}, 1)
	core.Go(func() {
		defer close(out)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("market file changed")
				select {
				case out <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("market file watch error")
			}
		}
	})
	return out, nil
}
