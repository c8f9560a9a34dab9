package app

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/dshills/keybind/internal/config"
	"github.com/dshills/keybind/internal/config/store"
	"github.com/dshills/keybind/internal/input"
	"github.com/dshills/keybind/internal/input/keymap"
)

// Application is the central coordinator for the engine's components.
type Application struct {
	mu sync.Mutex

	// Core infrastructure
	config    *config.Config
	settings  config.Settings
	logger    logrus.FieldLogger
	logCloser io.Closer

	// Bindings
	defaults []keymap.CommandBinding
	store    store.Store
	registry *keymap.Registry
	watcher  *store.Watcher

	// Input
	handler *input.Handler
	bridge  *input.Bridge

	// State
	running atomic.Bool

	opts Options
}

// Options configures the application.
type Options struct {
	// Config is the loaded configuration. Nil uses defaults only.
	Config *config.Config

	// Logger replaces the logger built from the log settings.
	Logger logrus.FieldLogger

	// Executor runs dispatched commands on a background goroutine once
	// the application is started. Nil leaves commands on the handler's
	// channel.
	Executor input.Executor

	// HandlerOptions are passed to the input handler.
	HandlerOptions []input.HandlerOption
}

// New creates and bootstraps an Application.
func New(opts Options) (*Application, error) {
	if opts.Config == nil {
		opts.Config = config.New()
	}
	app := &Application{
		config: opts.Config,
		opts:   opts,
	}

	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Start begins background work: command execution and override watching.
func (app *Application) Start() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	if app.bridge != nil {
		app.bridge.Start()
	}
	if app.watcher != nil {
		if err := app.watcher.Start(); err != nil {
			if app.bridge != nil {
				app.bridge.Stop()
			}
			app.running.Store(false)
			return NewComponentError("watcher", "start", err)
		}
	}

	app.logger.WithFields(logrus.Fields{
		"bindings": app.registry.Table().Len(),
		"watch":    app.watcher != nil,
	}).Info("keybinding engine started")
	return nil
}

// Shutdown stops background work and releases resources. The application
// cannot be restarted.
func (app *Application) Shutdown() {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.watcher != nil {
		app.watcher.Stop()
	}
	if app.bridge != nil && app.running.Load() {
		app.bridge.Stop()
	}
	app.running.Store(false)

	if app.handler != nil {
		app.handler.Close()
	}
	if c, ok := app.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			app.logger.WithError(err).Warn("closing overrides store")
		}
	}
	app.logger.Info("keybinding engine stopped")
	if app.logCloser != nil {
		_ = app.logCloser.Close()
		app.logCloser = nil
	}
}

// IsRunning returns whether Start has been called without Shutdown.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// SetOverride persists an override for one command and rebuilds the
// table. An empty override reverts the command to its defaults. The
// returned slice holds bindings the rebuild rejected.
func (app *Application) SetOverride(commandID string, o keymap.Override) ([]error, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	overrides := app.registry.Overrides()
	if o.IsEmpty() {
		delete(overrides, commandID)
	} else {
		overrides[commandID] = o
	}

	if saver, ok := app.store.(interface {
		SaveOne(string, keymap.Override) error
	}); ok {
		if err := saver.SaveOne(commandID, o); err != nil {
			return nil, NewComponentError("store", "save", err)
		}
	} else if err := app.store.Save(overrides); err != nil {
		return nil, NewComponentError("store", "save", err)
	}

	rejected := app.registry.Rebuild(overrides)
	app.logger.WithFields(logrus.Fields{
		"command":  commandID,
		"rejected": len(rejected),
	}).Info("override saved")
	return rejected, nil
}

// Settings returns the validated settings the application was built from.
func (app *Application) Settings() config.Settings {
	return app.settings
}

// Logger returns the application logger.
func (app *Application) Logger() logrus.FieldLogger {
	return app.logger
}

// Defaults returns the merged default bindings.
func (app *Application) Defaults() []keymap.CommandBinding {
	return app.registry.Defaults()
}

// Registry returns the binding registry.
func (app *Application) Registry() *keymap.Registry {
	return app.registry
}

// Handler returns the input handler.
func (app *Application) Handler() *input.Handler {
	return app.handler
}

// Store returns the overrides store.
func (app *Application) Store() store.Store {
	return app.store
}

// Watcher returns the overrides watcher, nil when watching is disabled.
func (app *Application) Watcher() *store.Watcher {
	return app.watcher
}
