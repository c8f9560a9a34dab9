package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dshills/keybind/internal/input/chord"
)

// Setting keys.
const (
	KeyChordTimeout    = "input.chord_timeout"
	KeyShowPendingKeys = "input.show_pending_keys"
	KeyCommandBuffer   = "input.command_buffer"

	KeyOverridesPath   = "keybindings.overrides"
	KeyOverridesFormat = "keybindings.format"
	KeyDefaultsFiles   = "keybindings.defaults"
	KeyBuiltinDefaults = "keybindings.builtin"
	KeyWatch           = "keybindings.watch"

	KeyPluginScripts = "plugins.scripts"
	KeyPluginPaths   = "plugins.paths"

	KeyLogLevel  = "log.level"
	KeyLogFormat = "log.format"
	KeyLogFile   = "log.file"
)

const (
	envPrefix      = "KEYBIND"
	configFileName = "config.toml"
	appDirName     = "keybind"
)

// Settings is the typed view of the configuration.
type Settings struct {
	ChordTimeout    time.Duration
	ShowPendingKeys bool
	CommandBuffer   int

	// OverridesPath is the user overrides file.
	OverridesPath string

	// OverridesFormat is toml, json, yaml or bolt. Empty infers it from
	// the file extension.
	OverridesFormat string

	// DefaultsFiles are keymap files merged over the built-in defaults.
	DefaultsFiles []string

	// BuiltinDefaults includes the built-in default bindings.
	BuiltinDefaults bool

	// Watch reloads overrides when the file changes.
	Watch bool

	// PluginScripts are Lua scripts contributing default bindings.
	PluginScripts []string

	// PluginPaths are directories searched for plugins.
	PluginPaths []string

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Config holds the engine configuration.
//
// Thread Safety:
// Config is safe for concurrent use.
type Config struct {
	mu sync.RWMutex

	v *viper.Viper

	// userConfigDir is where config.toml and the default overrides file live.
	userConfigDir string

	// configFile is an explicit config file merged over the user config.
	configFile string
}

// Option configures a Config.
type Option func(*Config)

// WithUserConfigDir sets the user configuration directory.
func WithUserConfigDir(dir string) Option {
	return func(c *Config) {
		c.userConfigDir = dir
	}
}

// WithConfigFile merges an explicit config file over the user config.
func WithConfigFile(path string) Option {
	return func(c *Config) {
		c.configFile = path
	}
}

// New creates a configuration with defaults applied. Call Load to read
// files and the environment.
func New(opts ...Option) *Config {
	c := &Config{v: viper.New()}
	for _, opt := range opts {
		opt(c)
	}
	if c.userConfigDir == "" {
		c.userConfigDir = defaultUserConfigDir()
	}

	c.v.SetConfigType("toml")
	setDefaults(c.v, c.userConfigDir)
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	c.v.AutomaticEnv()
	return c
}

// Load reads the user config file and the explicit config file, if any.
// A missing user config file is not an error.
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := mergeConfigFile(c.v, filepath.Join(c.userConfigDir, configFileName), false); err != nil {
		return err
	}
	if c.configFile != "" {
		if err := mergeConfigFile(c.v, c.configFile, true); err != nil {
			return err
		}
	}
	return nil
}

// mergeConfigFile merges a TOML file into v. required reports a missing
// file as ErrFileNotFound.
func mergeConfigFile(v *viper.Viper, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if required {
				return &ParseError{Path: path, Err: ErrFileNotFound}
			}
			return nil
		}
		return &ParseError{Path: path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

func setDefaults(v *viper.Viper, userDir string) {
	v.SetDefault(KeyChordTimeout, chord.DefaultTimeout)
	v.SetDefault(KeyShowPendingKeys, true)
	v.SetDefault(KeyCommandBuffer, 100)
	v.SetDefault(KeyOverridesPath, filepath.Join(userDir, "keybindings.toml"))
	v.SetDefault(KeyOverridesFormat, "")
	v.SetDefault(KeyDefaultsFiles, []string{})
	v.SetDefault(KeyBuiltinDefaults, true)
	v.SetDefault(KeyWatch, false)
	v.SetDefault(KeyPluginScripts, []string{})
	v.SetDefault(KeyPluginPaths, []string{filepath.Join(userDir, "plugins")})
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, "")
}

func defaultUserConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "."+appDirName)
	}
	return filepath.Join(dir, appDirName)
}

// UserConfigDir returns the user configuration directory.
func (c *Config) UserConfigDir() string {
	return c.userConfigDir
}

// BindFlags binds command-line flags to setting keys. Flags that were
// not set on the command line do not override other sources.
func (c *Config) BindFlags(bindings map[string]*pflag.Flag) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, f := range bindings {
		if f == nil {
			continue
		}
		if err := c.v.BindPFlag(k, f); err != nil {
			return err
		}
	}
	return nil
}

// Set overrides a setting at runtime.
func (c *Config) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v.Set(key, value)
}

// GetString returns a string setting.
func (c *Config) GetString(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v.GetString(key)
}

// Settings returns the validated typed settings.
func (c *Config) Settings() (Settings, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Settings{
		ChordTimeout:    c.v.GetDuration(KeyChordTimeout),
		ShowPendingKeys: c.v.GetBool(KeyShowPendingKeys),
		CommandBuffer:   c.v.GetInt(KeyCommandBuffer),
		OverridesPath:   expandHome(c.v.GetString(KeyOverridesPath)),
		OverridesFormat: strings.ToLower(strings.TrimSpace(c.v.GetString(KeyOverridesFormat))),
		DefaultsFiles:   expandAll(c.v.GetStringSlice(KeyDefaultsFiles)),
		BuiltinDefaults: c.v.GetBool(KeyBuiltinDefaults),
		Watch:           c.v.GetBool(KeyWatch),
		PluginScripts:   expandAll(c.v.GetStringSlice(KeyPluginScripts)),
		PluginPaths:     expandAll(c.v.GetStringSlice(KeyPluginPaths)),
		LogLevel:        c.v.GetString(KeyLogLevel),
		LogFormat:       c.v.GetString(KeyLogFormat),
		LogFile:         expandHome(c.v.GetString(KeyLogFile)),
	}

	if s.ChordTimeout <= 0 {
		return s, &SettingError{Key: KeyChordTimeout, Value: c.v.Get(KeyChordTimeout), Reason: "must be a positive duration"}
	}
	if s.CommandBuffer <= 0 {
		return s, &SettingError{Key: KeyCommandBuffer, Value: s.CommandBuffer, Reason: "must be positive"}
	}
	switch s.OverridesFormat {
	case "", "toml", "json", "yaml", "bolt":
	default:
		return s, &SettingError{Key: KeyOverridesFormat, Value: s.OverridesFormat, Reason: "must be toml, json, yaml or bolt"}
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return s, &SettingError{Key: KeyLogFormat, Value: s.LogFormat, Reason: "must be text or json"}
	}
	return s, nil
}

// expandHome replaces a leading "~" with the home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func expandAll(paths []string) []string {
	result := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, expandHome(p))
		}
	}
	return result
}
