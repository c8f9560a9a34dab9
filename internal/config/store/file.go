package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dshills/keybind/internal/input/keymap"
)

// Format identifies an overrides file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatBolt Format = "bolt"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, true
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".db", ".bolt":
		return FormatBolt, true
	}
	return "", false
}

// Open returns a store for path in the given format. An empty format is
// inferred from the extension.
func Open(path string, format Format, opts ...Option) (Store, error) {
	if format == "" {
		f, ok := FormatFromPath(path)
		if !ok {
			return nil, errors.Errorf("cannot infer overrides format from %q", path)
		}
		format = f
	}
	switch format {
	case FormatTOML:
		return NewTOMLStore(path, opts...), nil
	case FormatJSON:
		return NewJSONStore(path, opts...), nil
	case FormatYAML:
		return NewYAMLStore(path, opts...), nil
	case FormatBolt:
		return OpenBoltStore(path, opts...)
	}
	return nil, errors.Errorf("unknown overrides format %q", format)
}

// codec converts between file contents and records.
type codec interface {
	decode(data []byte) ([]Record, error)
	encode(records []Record) ([]byte, error)
}

// fileStore is a Store backed by one file.
type fileStore struct {
	path   string
	codec  codec
	logger logrus.FieldLogger
}

func newFileStore(path string, c codec, opts []Option) fileStore {
	o := buildOptions(opts)
	return fileStore{
		path:   path,
		codec:  c,
		logger: o.logger.WithField("overrides", path),
	}
}

// Path returns the file path.
func (s *fileStore) Path() string {
	return s.path
}

// read returns the file contents, or nil if the file does not exist.
func (s *fileStore) read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading overrides %s", s.path)
	}
	return data, nil
}

// Load reads the file. A missing file loads as no overrides; a corrupt
// one is logged and loads as no overrides.
func (s *fileStore) Load() (map[string]keymap.Override, error) {
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]keymap.Override{}, nil
	}

	records, err := s.codec.decode(data)
	if err != nil {
		s.logger.WithError(err).Warn("overrides file is corrupt, using defaults")
		return map[string]keymap.Override{}, nil
	}

	overrides, errs := Overrides(records)
	warnRecords(s.logger, s.path, errs)
	return overrides, nil
}

// Save writes every override, replacing the file atomically.
func (s *fileStore) Save(overrides map[string]keymap.Override) error {
	data, err := s.codec.encode(Records(overrides))
	if err != nil {
		return errors.Wrap(err, "encoding overrides")
	}
	return writeFileAtomic(s.path, data)
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "writing %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "closing %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "replacing %s", path)
	}
	return nil
}
