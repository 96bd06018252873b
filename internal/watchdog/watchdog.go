// Package watchdog reports changes to individual files.
package watchdog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type WatchDogFactory struct {
	logger *zap.Logger
}

type WatchDog struct {
	watchCtx   context.Context
	notifyChan chan<- string
	files      map[string]struct{}
	logger     *zap.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}
}

func NewWatchDogFactory(logger *zap.Logger) *WatchDogFactory {
	return &WatchDogFactory{
		logger: logger,
	}
}

// New watches the given files until watchCtx is done, sending the absolute
// path of each file that is written or replaced on notifyChan. notifyChan is
// closed when watching stops.
//
// The parent directories are watched rather than the files themselves so that
// editors which replace a file on save are still seen.
func (w *WatchDogFactory) New(watchCtx context.Context, notifyChan chan<- string, files ...string) (*WatchDog, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	watchDog := &WatchDog{
		watchCtx:   watchCtx,
		notifyChan: notifyChan,
		files:      make(map[string]struct{}, len(files)),
		logger:     w.logger,
		watcher:    watcher,
		done:       make(chan struct{}),
	}

	for _, file := range files {
		absFile, err := filepath.Abs(file)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to get absolute path of %s: %w", file, err)
		}
		if err := watcher.Add(filepath.Dir(absFile)); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", file, err)
		}
		watchDog.files[absFile] = struct{}{}
		w.logger.Debug("watching file", zap.String("file", absFile))
	}

	go watchDog.watch()

	return watchDog, nil
}

// Done is closed once the watch loop has exited.
func (w *WatchDog) Done() <-chan struct{} {
	return w.done
}

func (w *WatchDog) watch() {
	defer close(w.done)
	defer w.watcher.Close()
	defer close(w.notifyChan)
	for {
		select {
		case <-w.watchCtx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				w.logger.Debug("fsnotify channel closed")
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.logger.Debug("fsnotify error channel closed")
				return
			}
			w.logger.Error("fsnotify error", zap.Error(err))
		}
	}
}

func (w *WatchDog) handleEvent(event fsnotify.Event) {
	w.logger.Debug("fsnotify event", zap.String("event", event.String()))
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if _, ok := w.files[name]; !ok {
		return
	}

	select {
	case w.notifyChan <- name:
		w.logger.Debug("file change sent", zap.String("file", name))
	case <-w.watchCtx.Done():
	}
}
