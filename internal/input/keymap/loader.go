package keymap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Format is a keymap file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath returns the format implied by a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// Loader loads keymaps from configuration files.
type Loader struct {
	// searchPaths are directories to search for keymap files.
	searchPaths []string

	logger logrus.FieldLogger
}

// NewLoader creates a new keymap loader.
func NewLoader(logger logrus.FieldLogger) *Loader {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Loader{
		searchPaths: make([]string, 0),
		logger:      logger,
	}
}

// AddSearchPath adds a directory to search for keymap files.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// LoadFile loads a keymap file, choosing the format by extension.
func (l *Loader) LoadFile(path string) (*Keymap, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported keymap file %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()

	km, err := l.LoadReader(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if km.Name == "" {
		km.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if km.Source == "" {
		km.Source = "file:" + path
	}
	return km, nil
}

// LoadReader loads a keymap from a reader in the given format.
func (l *Loader) LoadReader(r io.Reader, format Format) (*Keymap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading keymap: %w", err)
	}

	km := &Keymap{}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(km)
	case FormatTOML:
		err = toml.Unmarshal(data, km)
	case FormatYAML:
		err = yaml.Unmarshal(data, km)
	default:
		return nil, fmt.Errorf("unsupported keymap format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s keymap: %w", format, err)
	}
	if km.Bindings == nil {
		km.Bindings = make([]BindingSpec, 0)
	}
	return km, nil
}

// LoadAll loads all keymap files from the search paths, in directory then
// file name order. Files that fail to load are logged and skipped.
func (l *Loader) LoadAll() []*Keymap {
	keymaps := make([]*Keymap, 0)

	for _, dir := range l.searchPaths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			l.logger.WithError(err).WithField("dir", dir).Debug("keymap directory skipped")
			continue
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if _, ok := FormatFromPath(e.Name()); ok {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			path := filepath.Join(dir, name)
			km, err := l.LoadFile(path)
			if err != nil {
				l.logger.WithError(err).WithField("path", path).Warn("keymap file skipped")
				continue
			}
			keymaps = append(keymaps, km)
		}
	}

	return keymaps
}

// Marshal encodes a keymap in the given format.
func (k *Keymap) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(k, "", "  ")
	case FormatTOML:
		return toml.Marshal(k)
	case FormatYAML:
		return yaml.Marshal(k)
	default:
		return nil, fmt.Errorf("unsupported keymap format %q", format)
	}
}

// SaveFile saves a keymap, choosing the format by extension.
func (k *Keymap) SaveFile(path string) error {
	format, ok := FormatFromPath(path)
	if !ok {
		return fmt.Errorf("unsupported keymap file %q", path)
	}

	data, err := k.Marshal(format)
	if err != nil {
		return fmt.Errorf("marshaling keymap: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing keymap file: %w", err)
	}

	return nil
}
