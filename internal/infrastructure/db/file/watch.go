package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const reloadDebounce = 100 * time.Millisecond

// Watch calls onChange after the document file is written by anyone,
// including this process. Bursts of events are coalesced. The directory is
// watched rather than the file because saves replace the file by rename.
// Watch blocks until ctx is cancelled.
func (s *DocumentStore) Watch(ctx context.Context, log zerolog.Logger, onChange func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}
	target := filepath.Clean(s.path)

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			trigger = timer.C
		case <-trigger:
			trigger = nil
			if err := onChange(ctx); err != nil {
				log.Warn().Err(err).Str("path", s.path).Msg("document reload failed")
				continue
			}
			log.Info().Str("path", s.path).Msg("document reloaded from disk")
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("file watcher error")
		}
	}
}
