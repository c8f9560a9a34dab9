package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/dshills/keybind/internal/input/keymap"
)

// ManifestFile is the manifest file name inside a plugin directory.
const ManifestFile = "plugin.json"

// Manifest describes a plugin and the default bindings it contributes.
type Manifest struct {
	// Identity
	Name        string `json:"name"`        // Unique identifier (e.g., "git-keys")
	Version     string `json:"version"`     // Semver (e.g., "1.2.0")
	DisplayName string `json:"displayName"` // Human-readable name
	Description string `json:"description"` // Short description
	Author      string `json:"author"`      // Author name or org

	// Entry point
	Main string `json:"main"` // Relative path to main Lua file (default: "init.lua")

	// Keybindings are declarative binding contributions, applied before
	// the bindings the entry point declares.
	Keybindings []keymap.BindingSpec `json:"keybindings"`

	// Internal: path to the plugin directory
	path string
}

// Validation errors.
var (
	ErrMissingName    = errors.New("manifest: name is required")
	ErrInvalidName    = errors.New("manifest: name must be alphanumeric with hyphens")
	ErrInvalidVersion = errors.New("manifest: version must be valid semver")
	ErrInvalidMain    = errors.New("manifest: main must be a .lua file")
)

// namePattern validates plugin names.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)

// semverPattern validates version strings (simplified semver).
var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

// LoadManifest loads and validates a plugin manifest from a file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	m.path = filepath.Dir(path)
	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// NewManifestMinimal creates a minimal manifest for plugins without a
// plugin.json.
func NewManifestMinimal(name, dir, main string) *Manifest {
	return &Manifest{
		Name:    name,
		Version: "0.0.0",
		Main:    main,
		path:    dir,
	}
}

// applyDefaults sets default values for optional fields.
func (m *Manifest) applyDefaults() {
	if m.Main == "" {
		m.Main = "init.lua"
	}
	if m.Version == "" {
		m.Version = "0.0.0"
	}
}

// Validate checks that the manifest is valid, including every declared
// keybinding.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return ErrMissingName
	}
	if !namePattern.MatchString(m.Name) {
		return fmt.Errorf("%w: %s", ErrInvalidName, m.Name)
	}
	if !semverPattern.MatchString(m.Version) {
		return fmt.Errorf("%w: %s", ErrInvalidVersion, m.Version)
	}
	if m.Main != "" && filepath.Ext(m.Main) != ".lua" {
		return fmt.Errorf("%w: %s", ErrInvalidMain, m.Main)
	}
	if err := m.Keymap().Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPlugin, m.Name, err)
	}
	return nil
}

// Path returns the path to the plugin directory.
func (m *Manifest) Path() string {
	return m.path
}

// MainPath returns the full path to the main Lua file.
func (m *Manifest) MainPath() string {
	return filepath.Join(m.path, m.Main)
}

// Keymap returns the manifest's declarative contributions as a keymap
// sourced "plugin:<name>".
func (m *Manifest) Keymap() *keymap.Keymap {
	km := keymap.NewKeymap(m.Name).WithSource("plugin:" + m.Name)
	for _, spec := range m.Keybindings {
		km.AddBinding(spec)
	}
	return km
}

// String returns a string representation of the manifest.
func (m *Manifest) String() string {
	display := m.DisplayName
	if display == "" {
		display = m.Name
	}
	return fmt.Sprintf("%s v%s", display, m.Version)
}
