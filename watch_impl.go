package ldconsole

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// watchState tracks the last delivered listing and the pending debounce timer
type watchState struct {
	mu        sync.Mutex
	delivered bool
	last      []Instance
	debouncer *time.Timer
}

// watchDir returns the directory whose changes trigger a new listing.
// Instance configs live under vms/config; older layouts fall back to the
// installation directory.
func (c *Client) watchDir() string {
	dir := filepath.Join(c.InstallDir, filepath.FromSlash(VMConfigDir))
	if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
		return dir
	}
	return c.InstallDir
}

// Watch lists instances whenever the installation's instance configs change
// and at every PollInterval, and delivers the list each time it differs from
// the previously delivered one. The first successful listing is always
// delivered. Listing errors are delivered as events and do not end the watch.
//
//nolint:gocyclo // Debounce and stop handling share state with the event loop
func (c *Client) Watch(ctx context.Context) (<-chan WatchEvent, WatchCleanupFunc, error) {
	dir := c.watchDir()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, &OpError{Op: OpList, Path: dir, Err: err}
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, nil, &OpError{Op: OpList, Path: dir, Err: err}
	}

	ch := make(chan WatchEvent, 10)

	// Create stopper context for managing goroutine lifecycle
	sctx := stopper.WithContext(ctx)

	sctx.Defer(func() {
		_ = watcher.Close()
		close(ch)
	})

	state := &watchState{}

	cleanup := func() error {
		sctx.Stop(100 * time.Millisecond)
		return sctx.Wait()
	}

	send := func(ev WatchEvent) {
		if sctx.IsStopping() {
			return
		}
		select {
		case ch <- ev:
		case <-sctx.Stopping():
		}
	}

	listAndSend := func() {
		if sctx.IsStopping() {
			return
		}

		instances, err := c.List(sctx)
		if err != nil {
			send(WatchEvent{Err: err})
			return
		}

		state.mu.Lock()
		changed := !state.delivered || !reflect.DeepEqual(state.last, instances)
		if changed {
			state.delivered = true
			state.last = instances
		}
		state.mu.Unlock()

		if changed {
			send(WatchEvent{Instances: instances})
		}
	}

	debounce := c.WatchDebounce
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	interval := c.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	// Debounced listings run on the watch goroutine so that every send
	// happens before the channel is closed.
	trigger := make(chan struct{}, 1)
	fire := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}

	sctx.Go(func(sctx *stopper.Context) error {
		sctx.Defer(func() {
			state.mu.Lock()
			if state.debouncer != nil {
				state.debouncer.Stop()
			}
			state.mu.Unlock()
		})

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// Initial read
		listAndSend()

		for !sctx.IsStopping() {
			select {
			case <-sctx.Stopping():
				return nil

			case <-ticker.C:
				listAndSend()

			case <-trigger:
				listAndSend()

			case _, ok := <-watcher.Events:
				if !ok {
					return nil
				}

				state.mu.Lock()
				if state.debouncer != nil {
					state.debouncer.Stop()
				}
				state.debouncer = time.AfterFunc(debounce, fire)
				state.mu.Unlock()

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					send(WatchEvent{Err: err})
				}
			}
		}
		return nil
	})

	return ch, cleanup, nil
}
