package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of filesystem events a single
// editor save produces into one reload.
const DefaultDebounce = 100 * time.Millisecond

// Logger receives watcher failure reports. Satisfied by *app.Logger.
type Logger interface {
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...any) {}

// Watcher monitors one configuration file and delivers debounced change
// notifications. The containing directory is watched rather than the file
// itself, so editors that save by rename-and-replace still trigger a
// reload.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	delay    time.Duration
	log      Logger
	onChange func(path string)

	mu     sync.Mutex
	timer  *time.Timer
	closed bool

	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher starts watching the configuration file at path. onChange is
// called from a timer goroutine after each debounced change; callers
// serialize their own reload handling.
func NewWatcher(path string, delay time.Duration, log Logger, onChange func(path string)) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if log == nil {
		log = nopLogger{}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("config watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		path:     abs,
		delay:    delay,
		log:      log,
		onChange: onChange,
		closeCh:  make(chan struct{}),
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher. Safe to call more than once; notifications
// already debouncing may still fire.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// processLoop converts raw filesystem events into debounced callbacks.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher: %v", err)
		}
	}
}

// handle filters events for the watched file and resets the debounce
// timer.
func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		w.onChange(w.path)
	})
}
