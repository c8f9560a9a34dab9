package store

import (
	"bytes"

	"github.com/pelletier/go-toml/v2"
)

// tomlDocument is the layout of a TOML overrides file:
//
//	[[keybinding]]
//	command = "file.save"
//	key = "Ctrl+Alt+s"
type tomlDocument struct {
	Keybindings []Record `toml:"keybinding"`
}

type tomlCodec struct{}

func (tomlCodec) decode(data []byte) ([]Record, error) {
	var doc tomlDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Keybindings, nil
}

func (tomlCodec) encode(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(tomlDocument{Keybindings: records}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TOMLStore keeps overrides in a TOML file.
type TOMLStore struct {
	fileStore
}

// NewTOMLStore creates a store for the TOML file at path.
func NewTOMLStore(path string, opts ...Option) *TOMLStore {
	return &TOMLStore{fileStore: newFileStore(path, tomlCodec{}, opts)}
}
