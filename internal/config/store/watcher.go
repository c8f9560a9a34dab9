package store

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dshills/keybind/internal/input/keymap"
)

// ErrWatcherRunning is returned by Start on a running watcher.
var ErrWatcherRunning = errors.New("watcher already running")

// Reloader receives reloaded overrides. *keymap.Registry implements it.
type Reloader interface {
	Rebuild(overrides map[string]keymap.Override) []error
}

// ReloadEvent describes one reload.
type ReloadEvent struct {
	// Path is the overrides file.
	Path string

	// Op is the file operation that triggered the reload, empty for a
	// manual Reload.
	Op fsnotify.Op

	Time time.Time

	// Overrides is how many overrides were loaded.
	Overrides int

	// Rejected holds the overrides the registry refused.
	Rejected []error

	// Err is set if the store could not be read.
	Err error
}

// Watcher reloads overrides into a Reloader whenever the overrides file
// changes.
type Watcher struct {
	mu sync.Mutex

	store  Store
	path   string
	target Reloader

	debounce time.Duration
	logger   logrus.FieldLogger
	handlers []func(ReloadEvent)

	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long to wait for writes to settle before reloading.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(l logrus.FieldLogger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// OnReload registers a handler called after every reload.
func OnReload(fn func(ReloadEvent)) WatcherOption {
	return func(w *Watcher) {
		if fn != nil {
			w.handlers = append(w.handlers, fn)
		}
	}
}

// NewWatcher creates a watcher reloading path through st into target.
func NewWatcher(st Store, path string, target Reloader, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}
	w := &Watcher{
		store:    st,
		path:     abs,
		target:   target,
		debounce: 100 * time.Millisecond,
		logger:   buildOptions(nil).logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Reload loads the store and rebuilds the target now.
func (w *Watcher) Reload() ReloadEvent {
	return w.reload(0)
}

func (w *Watcher) reload(op fsnotify.Op) ReloadEvent {
	ev := ReloadEvent{Path: w.path, Op: op, Time: time.Now()}

	overrides, err := w.store.Load()
	if err != nil {
		ev.Err = err
		w.logger.WithError(err).WithField("overrides", w.path).Error("reloading overrides")
	} else {
		ev.Overrides = len(overrides)
		ev.Rejected = w.target.Rebuild(overrides)
		w.logger.WithFields(logrus.Fields{
			"overrides": w.path,
			"loaded":    ev.Overrides,
			"rejected":  len(ev.Rejected),
		}).Info("overrides reloaded")
	}

	w.mu.Lock()
	handlers := make([]func(ReloadEvent), len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
	return ev
}

// Start begins watching. The file's directory is watched so that editors
// which replace the file by rename are seen.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrWatcherRunning
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return errors.Wrapf(err, "watching %s", filepath.Dir(w.path))
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.fsw = fsw
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.loop(ctx, fsw)
	return nil
}

// Stop stops watching and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.running = false
	fsw := w.fsw
	w.fsw = nil
	w.mu.Unlock()

	w.wg.Wait()
	_ = fsw.Close()
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// loop coalesces file events for the watched path and reloads once they
// settle.
func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	var pending fsnotify.Op
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			pending |= ev.Op
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("file watcher error")

		case <-timer.C:
			op := pending
			pending = 0
			w.reload(op)
		}
	}
}
