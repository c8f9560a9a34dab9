package app

import (
	"github.com/sirupsen/logrus"

	"github.com/dshills/keybind/internal/config/store"
	"github.com/dshills/keybind/internal/input"
	"github.com/dshills/keybind/internal/input/keymap"
	"github.com/dshills/keybind/internal/plugin"
	plua "github.com/dshills/keybind/internal/plugin/lua"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{
		app:       app,
		initOrder: make([]string, 0, 6),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"settings", b.initSettings},
		{"logger", b.initLogger},
		{"defaults", b.initDefaults},
		{"store", b.initStore},
		{"registry", b.initRegistry},
		{"handler", b.initHandler},
		{"watcher", b.initWatcher},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			b.cleanup()
			return err
		}
		b.initOrder = append(b.initOrder, step.name)
	}
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "handler":
			b.app.handler.Close()
		case "store":
			if c, ok := b.app.store.(interface{ Close() error }); ok {
				_ = c.Close()
			}
		case "logger":
			if b.app.logCloser != nil {
				_ = b.app.logCloser.Close()
			}
		}
	}
}

func (b *bootstrapper) initSettings() error {
	s, err := b.app.config.Settings()
	if err != nil {
		return NewComponentError("config", "validate", err)
	}
	b.app.settings = s
	return nil
}

func (b *bootstrapper) initLogger() error {
	if b.app.opts.Logger != nil {
		b.app.logger = b.app.opts.Logger
		return nil
	}
	s := b.app.settings
	l, closer, err := NewLogger(LoggerConfig{
		Level:  s.LogLevel,
		Format: s.LogFormat,
		File:   s.LogFile,
	})
	if err != nil {
		return NewComponentError("logger", "open", err)
	}
	b.app.logger = l
	b.app.logCloser = closer
	return nil
}

// initDefaults merges the default keymaps: built-in first, then defaults
// files, then plugin scripts, then discovered plugins. A later keymap
// replaces an earlier declaration of the same command.
func (b *bootstrapper) initDefaults() error {
	s := b.app.settings
	logger := WithComponent(b.app.logger, "defaults")

	var keymaps []*keymap.Keymap
	if s.BuiltinDefaults {
		keymaps = append(keymaps, keymap.DefaultKeymap())
	}

	loader := keymap.NewLoader(logger)
	for _, path := range s.DefaultsFiles {
		km, err := loader.LoadFile(path)
		if err != nil {
			return NewComponentError("defaults", "load", err)
		}
		keymaps = append(keymaps, km)
	}

	pluginLogger := WithComponent(b.app.logger, "plugins")
	keymaps = append(keymaps, plua.LoadScripts(s.PluginScripts, plua.WithLoadLogger(pluginLogger))...)
	if len(s.PluginPaths) > 0 {
		pl := plugin.NewLoader(plugin.WithPaths(s.PluginPaths...), plugin.WithLogger(pluginLogger))
		keymaps = append(keymaps, pl.LoadAll()...)
	}

	defaults, errs := keymap.Merge(keymaps...)
	for _, err := range errs {
		logger.WithError(err).Warn("default binding skipped")
	}
	b.app.defaults = defaults

	logger.WithFields(logrus.Fields{
		"keymaps":  len(keymaps),
		"bindings": len(defaults),
	}).Debug("defaults merged")
	return nil
}

func (b *bootstrapper) initStore() error {
	s := b.app.settings
	st, err := store.Open(s.OverridesPath, store.Format(s.OverridesFormat),
		store.WithLogger(WithComponent(b.app.logger, "store")))
	if err != nil {
		return NewComponentError("store", "open", err)
	}
	b.app.store = st
	return nil
}

func (b *bootstrapper) initRegistry() error {
	logger := WithComponent(b.app.logger, "registry")
	b.app.registry = keymap.NewRegistry(b.app.defaults, keymap.WithLogger(logger))

	overrides, err := b.app.store.Load()
	if err != nil {
		return NewComponentError("store", "load", err)
	}
	rejected := b.app.registry.Rebuild(overrides)
	logger.WithFields(logrus.Fields{
		"overrides": len(overrides),
		"rejected":  len(rejected),
	}).Debug("overrides applied")
	return nil
}

func (b *bootstrapper) initHandler() error {
	s := b.app.settings
	cfg := input.Config{
		ChordTimeout:    s.ChordTimeout,
		ShowPendingKeys: s.ShowPendingKeys,
		CommandBuffer:   s.CommandBuffer,
	}
	opts := append([]input.HandlerOption{
		input.WithLogger(WithComponent(b.app.logger, "input")),
	}, b.app.opts.HandlerOptions...)
	b.app.handler = input.NewHandler(b.app.registry, cfg, opts...)

	if b.app.opts.Executor != nil {
		logger := WithComponent(b.app.logger, "executor")
		b.app.bridge = input.NewBridge(b.app.handler, b.app.opts.Executor, func(cmd input.Command, err error) {
			logger.WithError(err).WithField("command", cmd.ID).Warn("command failed")
		})
	}
	return nil
}

// initWatcher sets up override reloading. Bolt databases are written in
// place by this process, so they are not watched.
func (b *bootstrapper) initWatcher() error {
	s := b.app.settings
	if !s.Watch {
		return nil
	}
	if _, ok := b.app.store.(*store.BoltStore); ok {
		b.app.logger.Warn("watching is not supported for bolt overrides; disabled")
		return nil
	}
	w, err := store.NewWatcher(b.app.store, s.OverridesPath, b.app.registry,
		store.WithWatcherLogger(WithComponent(b.app.logger, "watcher")))
	if err != nil {
		return NewComponentError("watcher", "create", err)
	}
	b.app.watcher = w
	return nil
}
