package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keybind/internal/config"
	"github.com/dshills/keybind/internal/input"
	"github.com/dshills/keybind/internal/input/chord"
	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/keymap"
)

func newTestConfig(t *testing.T, settings map[string]any) *config.Config {
	t.Helper()
	cfg := config.New(config.WithUserConfigDir(t.TempDir()))
	require.NoError(t, cfg.Load())
	for k, v := range settings {
		cfg.Set(k, v)
	}
	return cfg
}

func newTestApp(t *testing.T, settings map[string]any, opts Options) *Application {
	t.Helper()
	opts.Config = newTestConfig(t, settings)
	if opts.Logger == nil {
		opts.Logger = NullLogger()
	}
	app, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(app.Shutdown)
	return app
}

func ctrl(k string) key.RawEvent {
	return key.RawEvent{Key: k, CtrlKey: true}
}

func TestNewBuiltinDefaults(t *testing.T) {
	app := newTestApp(t, nil, Options{})

	table := app.Registry().Table()
	assert.True(t, table.Contains("file.save"))
	assert.NotEmpty(t, app.Defaults())
	assert.False(t, app.IsRunning())

	res := app.Handler().HandleRawEvent(ctrl("s"))
	assert.Equal(t, chord.Matched, res.Outcome)
	assert.Equal(t, "file.save", res.CommandID)
}

func TestNewWithoutBuiltins(t *testing.T) {
	dir := t.TempDir()
	defaults := filepath.Join(dir, "defaults.toml")
	require.NoError(t, os.WriteFile(defaults, []byte(`
name = "mine"

[[bindings]]
command = "custom.run"
key = "Ctrl+r"
`), 0644))

	app := newTestApp(t, map[string]any{
		config.KeyBuiltinDefaults: false,
		config.KeyDefaultsFiles:   []string{defaults},
	}, Options{})

	table := app.Registry().Table()
	assert.Equal(t, 1, table.Len())
	assert.True(t, table.Contains("custom.run"))
}

func TestNewMissingDefaultsFile(t *testing.T) {
	cfg := newTestConfig(t, map[string]any{
		config.KeyDefaultsFiles: []string{filepath.Join(t.TempDir(), "missing.toml")},
	})

	_, err := New(Options{Config: cfg, Logger: NullLogger()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInitialization)

	var ce *ComponentError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "defaults", ce.Component)
}

func TestNewInvalidSettings(t *testing.T) {
	cfg := newTestConfig(t, map[string]any{config.KeyCommandBuffer: 0})

	_, err := New(Options{Config: cfg, Logger: NullLogger()})
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidSetting)
}

func TestNewPlugins(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "extra.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
keybind.bind{ command = "extra.run", key = "Ctrl+k then Ctrl+e" }
keybind.bind{ command = "file.save", key = "Ctrl+Alt+s" }
`), 0644))

	pluginDir := filepath.Join(dir, "plugins", "git")
	require.NoError(t, os.MkdirAll(pluginDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "plugin.json"), []byte(`{
		"name": "git",
		"version": "1.0.0",
		"keybindings": [{"command": "git.commit", "key": "Ctrl+k then Ctrl+g"}]
	}`), 0644))

	app := newTestApp(t, map[string]any{
		config.KeyPluginScripts: []string{script},
		config.KeyPluginPaths:   []string{filepath.Join(dir, "plugins")},
	}, Options{})

	table := app.Registry().Table()
	assert.True(t, table.Contains("extra.run"))
	assert.True(t, table.Contains("git.commit"))

	save, ok := table.Binding("file.save")
	require.True(t, ok)
	assert.Equal(t, "Ctrl+Alt+s", key.Encode(save.EffectiveKeybinding()))
}

func TestNewAppliesStoredOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keybindings.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[keybinding]]
command = "file.save"
key = "Ctrl+Alt+w"

[[keybinding]]
command = "-edit.copy"
`), 0644))

	app := newTestApp(t, map[string]any{config.KeyOverridesPath: path}, Options{})

	table := app.Registry().Table()
	save, ok := table.Binding("file.save")
	require.True(t, ok)
	assert.Equal(t, "Ctrl+Alt+w", key.Encode(save.EffectiveKeybinding()))

	copyBinding, ok := table.Binding("edit.copy")
	require.True(t, ok)
	assert.False(t, copyBinding.HasKeybinding())
}

func TestSetOverride(t *testing.T) {
	for _, format := range []string{"toml", "json", "yaml", "bolt"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "overrides."+format)
			app := newTestApp(t, map[string]any{
				config.KeyOverridesPath:   path,
				config.KeyOverridesFormat: format,
			}, Options{})

			o := keymap.Override{Keybinding: keymap.SetKeybinding(key.MustDecode("Ctrl+Alt+x"))}
			rejected, err := app.SetOverride("file.save", o)
			require.NoError(t, err)
			assert.Empty(t, rejected)

			res := app.Handler().HandleRawEvent(key.RawEvent{Key: "x", CtrlKey: true, AltKey: true})
			assert.Equal(t, "file.save", res.CommandID)

			loaded, err := app.Store().Load()
			require.NoError(t, err)
			assert.Contains(t, loaded, "file.save")

			_, err = app.SetOverride("file.save", keymap.Override{})
			require.NoError(t, err)
			loaded, err = app.Store().Load()
			require.NoError(t, err)
			assert.NotContains(t, loaded, "file.save")

			res = app.Handler().HandleRawEvent(ctrl("s"))
			assert.Equal(t, "file.save", res.CommandID)
		})
	}
}

func TestStartExecutesCommands(t *testing.T) {
	var (
		mu  sync.Mutex
		got []string
	)
	exec := input.ExecutorFunc(func(cmd input.Command) error {
		mu.Lock()
		got = append(got, cmd.ID)
		mu.Unlock()
		return nil
	})

	app := newTestApp(t, nil, Options{Executor: exec})
	require.NoError(t, app.Start())
	assert.True(t, app.IsRunning())
	assert.ErrorIs(t, app.Start(), ErrAlreadyRunning)

	app.Handler().HandleRawEvent(ctrl("s"))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0] == "file.save"
	}, time.Second, 10*time.Millisecond)

	app.Shutdown()
	assert.False(t, app.IsRunning())
}

func TestWatchReloadsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybindings.toml")
	app := newTestApp(t, map[string]any{
		config.KeyOverridesPath: path,
		config.KeyWatch:         true,
	}, Options{})
	require.NotNil(t, app.Watcher())
	require.NoError(t, app.Start())

	require.NoError(t, os.WriteFile(path, []byte(`
[[keybinding]]
command = "file.save"
key = "Ctrl+Alt+q"
`), 0644))

	assert.Eventually(t, func() bool {
		b, ok := app.Registry().Table().Binding("file.save")
		return ok && key.Encode(b.EffectiveKeybinding()) == "Ctrl+Alt+q"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatchDisabledForBolt(t *testing.T) {
	app := newTestApp(t, map[string]any{
		config.KeyOverridesPath:   filepath.Join(t.TempDir(), "overrides.db"),
		config.KeyOverridesFormat: "bolt",
		config.KeyWatch:           true,
	}, Options{})
	assert.Nil(t, app.Watcher())
}

func TestComponentError(t *testing.T) {
	err := NewComponentError("store", "open", os.ErrPermission)
	assert.Equal(t, "store: open: permission denied", err.Error())
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.ErrorIs(t, err, ErrInitialization)

	assert.Equal(t, "store", NewComponentError("store", "", nil).Error())
	assert.Equal(t, "store: boom", NewComponentError("store", "", errors.New("boom")).Error())
}
