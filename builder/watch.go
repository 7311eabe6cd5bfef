package builder

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/radovskyb/watcher"
	"github.com/rs/zerolog/log"
)

// Watch rebuilds the whole site whenever a file under the content, layout
// or static directories (or the params file) changes. It blocks until ctx
// is done. Failed rebuilds are logged and watching continues.
func (b *Builder) Watch(ctx context.Context, interval time.Duration) error {
	w := watcher.New()
	w.SetMaxEvents(1)
	// Only watch for write, create, remove, rename and move events
	w.FilterOps(watcher.Write, watcher.Create, watcher.Remove, watcher.Rename, watcher.Move)

	for _, dir := range []string{b.cfg.ContentDir, b.cfg.LayoutDir, b.cfg.StaticDir} {
		if _, err := os.Stat(dir); err != nil {
			log.Debug().Str("path", dir).Msg("Not watching missing directory")
			continue
		}
		if err := w.AddRecursive(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		log.Debug().Str("path", dir).Msg("Watching directory for changes")
	}
	if b.cfg.ParamsFile != "" {
		if _, err := os.Stat(b.cfg.ParamsFile); err == nil {
			if err := w.Add(b.cfg.ParamsFile); err != nil {
				return fmt.Errorf("watch %s: %w", b.cfg.ParamsFile, err)
			}
		}
	}

	// Start fails before unblocking Wait on a too small interval.
	if interval < time.Millisecond {
		return fmt.Errorf("watch interval must be at least 1ms, got %s", interval)
	}

	started := make(chan error, 1)
	go func() {
		started <- w.Start(interval)
	}()
	// Wait for the watcher to start so Close can stop it.
	w.Wait()

	for {
		select {
		case event := <-w.Event:
			log.Info().Str("path", event.Path).Str("op", event.Op.String()).Msg("Change detected, rebuilding")
			if err := b.Build(); err != nil {
				log.Error().Err(err).Msg("Rebuild failed")
			}
		case err := <-w.Error:
			log.Error().Err(err).Msg("Watcher error")
		case err := <-started:
			if err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			return nil
		case <-w.Closed:
			return nil
		case <-ctx.Done():
			// Start may be blocked handing over an event; keep receiving
			// until it has shut down.
			go func() {
				for {
					select {
					case <-w.Event:
					case <-w.Closed:
						return
					}
				}
			}()
			w.Close()
			return nil
		}
	}
}
