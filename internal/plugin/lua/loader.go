package lua

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dshills/keybind/internal/input/keymap"
)

// LoadOption configures script loading.
type LoadOption func(*loadConfig)

type loadConfig struct {
	logger    logrus.FieldLogger
	stateOpts []StateOption
}

// WithLoadLogger sets the logger handed to scripts and used for skipped files.
func WithLoadLogger(l logrus.FieldLogger) LoadOption {
	return func(c *loadConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStateOptions passes options to the state each script runs in.
func WithStateOptions(opts ...StateOption) LoadOption {
	return func(c *loadConfig) {
		c.stateOpts = append(c.stateOpts, opts...)
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// LoadScript runs a plugin script in a fresh state and returns the keymap it
// declares. The keymap is named by keybind.name or, failing that, by the
// file's base name, and its source is "plugin:<name>".
func LoadScript(path string, opts ...LoadOption) (*keymap.Keymap, error) {
	cfg := loadConfig{logger: discardLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := NewState(cfg.stateOpts...)
	defer s.Close()

	mod := NewModule(cfg.logger.WithField("script", path))
	mod.Install(s)

	if err := s.DoFile(path); err != nil {
		return nil, errors.Wrapf(err, "running plugin %s", path)
	}

	name := mod.Name()
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	km := keymap.NewKeymap(name).WithSource("plugin:" + name)
	for _, spec := range mod.Bindings() {
		km.AddBinding(spec)
	}
	return km, nil
}

// LoadScripts loads each script in order. Scripts that fail are logged and
// skipped.
func LoadScripts(paths []string, opts ...LoadOption) []*keymap.Keymap {
	cfg := loadConfig{logger: discardLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	keymaps := make([]*keymap.Keymap, 0, len(paths))
	for _, path := range paths {
		km, err := LoadScript(path, opts...)
		if err != nil {
			cfg.logger.WithError(err).WithField("script", path).Warn("plugin script skipped")
			continue
		}
		keymaps = append(keymaps, km)
	}
	return keymaps
}
