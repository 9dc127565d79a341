package config

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// WatchFile watches configFile and invokes reload (typically a function
// that re-runs Config.Load and swaps the server's host-validation allow-list
// and log level) after changes settle. Multiple quick writes are debounced
// into a single callback, and the watch is re-added after each callback to
// survive editors that replace the file by rename rather than writing it in
// place. Close the returned watcher when done.
//
// Adapted from wostzone/hubapi-go/pkg/watcher.WatchFile.
func WatchFile(path string, reload func() error) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	callback := time.AfterFunc(0, func() {
		if err := reload(); err != nil {
			logrus.Errorf("config: reload of %s failed: %s", path, err)
		}
		watcher.Remove(path)
		watcher.Add(path)
	})
	callback.Stop()

	if err := watcher.Add(path); err != nil {
		logrus.Errorf("config: unable to watch %s: %s", path, err)
		return watcher, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				logrus.Debugf("config: change event %s on %s", event, event.Name)
				callback.Reset(100 * time.Millisecond)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logrus.Errorf("config: watch error: %s", err)
			}
		}
	}()

	return watcher, nil
}
