package plugin

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dshills/keybind/internal/input/keymap"
	plua "github.com/dshills/keybind/internal/plugin/lua"
)

// Loader discovers plugins on the filesystem and loads their bindings.
type Loader struct {
	// Search paths for plugins (checked in order)
	paths []string

	// Discovered plugins cache
	discovered map[string]*PluginInfo

	logger    logrus.FieldLogger
	stateOpts []plua.StateOption
}

// PluginInfo contains discovery information about a plugin.
type PluginInfo struct {
	Name     string
	Path     string
	Manifest *Manifest
	State    State
	Error    error
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPaths sets the plugin search paths.
func WithPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.paths = paths
	}
}

// WithLogger sets the logger for skipped plugins and script output.
func WithLogger(logger logrus.FieldLogger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithStateOptions configures the Lua state each entry point runs in.
func WithStateOptions(opts ...plua.StateOption) LoaderOption {
	return func(l *Loader) {
		l.stateOpts = append(l.stateOpts, opts...)
	}
}

// NewLoader creates a new plugin loader.
func NewLoader(opts ...LoaderOption) *Loader {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	l := &Loader{
		discovered: make(map[string]*PluginInfo),
		logger:     discard,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Paths returns the configured search paths.
func (l *Loader) Paths() []string {
	return l.paths
}

// AddPath adds a search path.
func (l *Loader) AddPath(path string) {
	l.paths = append(l.paths, path)
}

// Discover finds all plugins in the search paths.
// Returns plugins sorted by name. When two paths hold a plugin with the
// same name, the earlier path wins.
func (l *Loader) Discover() []*PluginInfo {
	l.discovered = make(map[string]*PluginInfo)

	for _, basePath := range l.paths {
		if err := l.discoverInPath(basePath); err != nil {
			l.logger.WithError(err).WithField("path", basePath).Warn("plugin path skipped")
		}
	}

	plugins := make([]*PluginInfo, 0, len(l.discovered))
	for _, info := range l.discovered {
		plugins = append(plugins, info)
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Name < plugins[j].Name
	})
	return plugins
}

// discoverInPath finds plugins in a single directory.
func (l *Loader) discoverInPath(basePath string) error {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			// Single-file plugins (name.lua)
			if filepath.Ext(entry.Name()) == ".lua" {
				name := strings.TrimSuffix(entry.Name(), ".lua")
				l.add(&PluginInfo{
					Name:     name,
					Path:     basePath,
					Manifest: NewManifestMinimal(name, basePath, entry.Name()),
				})
			}
			continue
		}
		l.add(l.inspectPlugin(entry.Name(), filepath.Join(basePath, entry.Name())))
	}
	return nil
}

func (l *Loader) add(info *PluginInfo) {
	if _, exists := l.discovered[info.Name]; !exists {
		l.discovered[info.Name] = info
	}
}

// inspectPlugin examines a plugin directory and returns its info.
func (l *Loader) inspectPlugin(name, path string) *PluginInfo {
	info := &PluginInfo{
		Name: name,
		Path: path,
	}

	manifestPath := filepath.Join(path, ManifestFile)
	if _, err := os.Stat(manifestPath); err == nil {
		manifest, err := LoadManifest(manifestPath)
		if err != nil {
			info.Error = fmt.Errorf("invalid manifest: %w", err)
			info.State = StateError
			return info
		}
		info.Manifest = manifest
		info.Name = manifest.Name
		return info
	}

	for _, main := range []string{"init.lua", "plugin.lua"} {
		if _, err := os.Stat(filepath.Join(path, main)); err == nil {
			info.Manifest = NewManifestMinimal(name, path, main)
			return info
		}
	}

	info.Error = ErrNoEntryPoint
	info.State = StateError
	return info
}

// Get returns info for a discovered plugin by name.
func (l *Loader) Get(name string) (*PluginInfo, bool) {
	info, ok := l.discovered[name]
	return info, ok
}

// ListNames returns the names of all discovered plugins.
func (l *Loader) ListNames() []string {
	names := make([]string, 0, len(l.discovered))
	for name := range l.discovered {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Errors returns all plugins that have errors.
func (l *Loader) Errors() []*PluginInfo {
	var errored []*PluginInfo
	for _, info := range l.discovered {
		if info.Error != nil {
			errored = append(errored, info)
		}
	}
	sort.Slice(errored, func(i, j int) bool {
		return errored[i].Name < errored[j].Name
	})
	return errored
}

// Load returns the keymap a plugin contributes: the manifest's declared
// bindings followed by those its entry point declares. A manifest plugin
// whose entry point file does not exist contributes only its declared
// bindings.
func (l *Loader) Load(info *PluginInfo) (*keymap.Keymap, error) {
	if info.Error != nil {
		return nil, info.Error
	}
	if info.Manifest == nil {
		return nil, ErrNoEntryPoint
	}

	km := info.Manifest.Keymap()

	mainPath := info.Manifest.MainPath()
	if _, err := os.Stat(mainPath); err == nil {
		scripted, err := plua.LoadScript(mainPath,
			plua.WithLoadLogger(l.logger.WithField("plugin", info.Name)),
			plua.WithStateOptions(l.stateOpts...),
		)
		if err != nil {
			info.Error = err
			info.State = StateError
			return nil, err
		}
		for _, spec := range scripted.Bindings {
			km.AddBinding(spec)
		}
	}

	info.State = StateLoaded
	return km, nil
}

// LoadAll discovers plugins and loads each one in name order. Plugins
// that fail are logged and skipped.
func (l *Loader) LoadAll() []*keymap.Keymap {
	plugins := l.Discover()
	keymaps := make([]*keymap.Keymap, 0, len(plugins))
	for _, info := range plugins {
		km, err := l.Load(info)
		if err != nil {
			l.logger.WithError(err).WithField("plugin", info.Name).Warn("plugin skipped")
			continue
		}
		keymaps = append(keymaps, km)
	}
	return keymaps
}
