package state

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// EventOp classifies a state-key change.
type EventOp string

const (
	OpWrite  EventOp = "write"
	OpDelete EventOp = "delete"
)

// Event is one observed change to a state key.
type Event struct {
	Key string
	Op  EventOp
}

// Watch observes the state directory and emits one event per key change
// until done is closed. Temp files and .backup siblings are filtered out;
// atomic renames surface as writes. The channel is closed on shutdown or
// watcher failure.
func (s *Store) Watch(done <-chan struct{}) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch state dir: %w", err)
	}

	events := make(chan Event)
	go func() {
		defer close(events)
		defer func() { _ = watcher.Close() }()
		watchLoop(events, watcher.Events, watcher.Errors, done)
	}()

	return events, nil
}

// watchLoop translates filesystem events into key events until done closes
// or either source channel is exhausted. Watcher errors are logged and do not
// stop the loop.
func watchLoop(out chan<- Event, fsEvents <-chan fsnotify.Event, fsErrs <-chan error, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev, ok := <-fsEvents:
			if !ok {
				return
			}
			key, match := keyFromPath(ev.Name)
			if !match {
				continue
			}
			var op EventOp
			switch {
			case ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create):
				op = OpWrite
			case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
				op = OpDelete
			default:
				continue
			}
			select {
			case out <- Event{Key: key, Op: op}:
			case <-done:
				return
			}
		case err, ok := <-fsErrs:
			if !ok {
				return
			}
			log.Printf("state: watch error: %v", err)
		}
	}
}

// keyFromPath maps a watched file path back to its state key. Temp files,
// backups, and foreign files are not keys.
func keyFromPath(path string) (string, bool) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".t2d-tmp-") || strings.HasSuffix(name, backupExt) || !strings.HasSuffix(name, stateExt) {
		return "", false
	}
	return strings.TrimSuffix(name, stateExt), true
}
