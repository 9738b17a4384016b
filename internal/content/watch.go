package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/radovskyb/watcher"
)

// Watch polls path every interval and calls onChange after it is written or
// replaced. it blocks until ctx is done.
func Watch(ctx context.Context, path string, interval time.Duration, onChange func()) error {
	w := watcher.New()
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write, watcher.Create, watcher.Rename, watcher.Move)

	if err := w.Add(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	errc := make(chan error, 1)
	go func() {
		errc <- w.Start(interval)
	}()

	for {
		select {
		case <-ctx.Done():
			stop(w)
			return nil
		case <-w.Event:
			onChange()
		case err := <-w.Error:
			if errors.Is(err, watcher.ErrWatchedFileDeleted) {
				continue
			}
			stop(w)
			return fmt.Errorf("watching %s: %w", path, err)
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
			return nil
		}
	}
}

// stop closes w while draining the unbuffered channels Start may be
// blocked on.
func stop(w *watcher.Watcher) {
	go func() {
		for {
			select {
			case <-w.Event:
			case <-w.Error:
			case <-w.Closed:
				return
			}
		}
	}()
	w.Close()
}
